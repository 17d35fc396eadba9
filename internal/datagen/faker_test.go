//-------------------------------------------------------------------------
//
// pgEdge Ops Data Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"math"
	"testing"
	"time"
)

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence across every draw kind
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different ints: %d != %d", v1, v2)
		}
		n1 := f1.Normal(10, 2)
		n2 := f2.Normal(10, 2)
		if n1 != n2 {
			t.Errorf("Same seed produced different normals: %f != %f", n1, n2)
		}
		u1 := f1.Float64(0, 1)
		u2 := f2.Float64(0, 1)
		if u1 != u2 {
			t.Errorf("Same seed produced different floats: %f != %f", u1, u2)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	f1 := NewFakerWithSeed(1)
	f2 := NewFakerWithSeed(2)

	same := 0
	for i := 0; i < 20; i++ {
		if f1.Int(0, 1_000_000) == f2.Int(0, 1_000_000) {
			same++
		}
	}
	if same == 20 {
		t.Error("Different seeds produced identical sequences")
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFakerWithSeed(7)
	for i := 0; i < 1000; i++ {
		v := f.Int(180, 320)
		if v < 180 || v > 320 {
			t.Fatalf("Int(180, 320) returned %d", v)
		}
	}
}

func TestFakerFloat64(t *testing.T) {
	f := NewFakerWithSeed(7)
	for i := 0; i < 1000; i++ {
		v := f.Float64(0.85, 1.20)
		if v < 0.85 || v >= 1.20 {
			t.Fatalf("Float64(0.85, 1.20) returned %f", v)
		}
	}
}

func TestFakerNormal(t *testing.T) {
	f := NewFakerWithSeed(99)

	const n = 20000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		v := f.Normal(100, 8)
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	stddev := math.Sqrt(sumSq/n - mean*mean)

	if math.Abs(mean-100) > 0.5 {
		t.Errorf("Expected mean near 100, got %f", mean)
	}
	if math.Abs(stddev-8) > 0.5 {
		t.Errorf("Expected stddev near 8, got %f", stddev)
	}
}

func TestFakerNormalZeroStddev(t *testing.T) {
	f := NewFakerWithSeed(3)
	if v := f.Normal(0, 0); v != 0 {
		t.Errorf("Normal(0, 0) should be 0, got %f", v)
	}
}

func TestFakerDaysAfter(t *testing.T) {
	f := NewFakerWithSeed(5)
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3000)

	for i := 0; i < 500; i++ {
		d := f.DaysAfter(start, 3000)
		if d.Before(start) || d.After(end) {
			t.Fatalf("DaysAfter returned %s outside [%s, %s]", d, start, end)
		}
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Fatalf("DaysAfter should keep midnight, got %s", d)
		}
	}
}

func TestChoose(t *testing.T) {
	f := NewFakerWithSeed(11)
	items := []string{"a", "b", "c"}

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[Choose(f, items)] = true
	}
	if len(seen) != len(items) {
		t.Errorf("Expected all %d items to be chosen, saw %d", len(items), len(seen))
	}

	var empty []int
	if v := Choose(f, empty); v != 0 {
		t.Errorf("Choose on empty slice should return zero value, got %d", v)
	}
}

func TestProgressReporter(t *testing.T) {
	p := NewProgressReporter("fact_sales", 100, 10)
	for i := 0; i < 10; i++ {
		p.Update(10)
	}
	p.Done()
	if p.Rows() != 100 {
		t.Errorf("Expected 100 rows, got %d", p.Rows())
	}

	// Non-positive interval falls back to the default instead of dividing by zero
	p = NewProgressReporter("fact_labor", 5, 0)
	p.Update(5)
	if p.Rows() != 5 {
		t.Errorf("Expected 5 rows, got %d", p.Rows())
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %s, want %s", tt.bytes, got, tt.want)
		}
	}
}
