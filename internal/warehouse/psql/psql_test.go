//-------------------------------------------------------------------------
//
// pgEdge Ops Data Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package psql

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pgEdge/pgedge-opsgen/internal/warehouse"
)

// script returns a command that runs body under sh, ignoring the psql
// arguments appended to it unless body refers to "$@".
func script(body string) []string {
	return []string{"sh", "-c", body, "psql"}
}

func TestNewBuildsDockerCommand(t *testing.T) {
	w := New(warehouse.Options{Container: "cactus_ops_db", User: "cactus", Database: "cactus_ops"})
	want := []string{"docker", "exec", "-i", "cactus_ops_db", "psql", "-U", "cactus", "-d", "cactus_ops"}
	if !slices.Equal(w.Command(), want) {
		t.Errorf("Expected %v, got %v", want, w.Command())
	}

	host := New(warehouse.Options{User: "cactus", Database: "cactus_ops"})
	if host.Command()[0] != "psql" {
		t.Errorf("Expected host command to start with psql, got %v", host.Command())
	}
}

func TestExecPassesStopOnError(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	w := NewWithCommand(script(`printf '%s\n' "$@" > ` + argsFile))

	if err := w.Exec(context.Background(), "SELECT 1"); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("Failed to read recorded args: %v", err)
	}
	got := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{"-v", "ON_ERROR_STOP=1", "-c", "SELECT 1"}
	if !slices.Equal(got, want) {
		t.Errorf("Expected args %v, got %v", want, got)
	}
}

func TestNonZeroExitIsExternalCommandError(t *testing.T) {
	w := NewWithCommand(script("echo 'ERROR: relation missing' >&2; exit 3"))

	err := w.Exec(context.Background(), "TRUNCATE TABLE fact_sales")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var ece *warehouse.ExternalCommandError
	if !errors.As(err, &ece) {
		t.Fatalf("Expected ExternalCommandError, got %T", err)
	}
	if ece.ExitCode != 3 {
		t.Errorf("Expected exit code 3, got %d", ece.ExitCode)
	}
	if !strings.Contains(err.Error(), "relation missing") {
		t.Errorf("Expected stderr in error message, got %q", err.Error())
	}
}

func TestMissingCommand(t *testing.T) {
	w := NewWithCommand([]string{"/nonexistent/psql"})
	err := w.Exec(context.Background(), "SELECT 1")

	var ece *warehouse.ExternalCommandError
	if !errors.As(err, &ece) {
		t.Fatalf("Expected ExternalCommandError, got %v", err)
	}
	if ece.ExitCode != -1 {
		t.Errorf("Expected exit code -1, got %d", ece.ExitCode)
	}
}

func TestCopyFeedsFileOnStdin(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dim_date.csv")
	if err := os.WriteFile(src, []byte("date_key\n2026-01-01\n2026-01-02\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	received := filepath.Join(dir, "received")

	w := NewWithCommand(script("cat > " + received + "; echo 'COPY 2'"))
	n, err := w.Copy(context.Background(), "dim_date", []string{"date_key"}, src)
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 rows, got %d", n)
	}

	got, err := os.ReadFile(received)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "date_key\n2026-01-01\n2026-01-02\n" {
		t.Errorf("Expected file contents on stdin, got %q", got)
	}
}

func TestCopyMissingFile(t *testing.T) {
	w := NewWithCommand(script("exit 0"))
	if _, err := w.Copy(context.Background(), "dim_date", []string{"date_key"}, "/nonexistent.csv"); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestCopySQL(t *testing.T) {
	got := CopySQL("fact_labor", []string{"date_key", "location_id"})
	want := `\copy fact_labor (date_key, location_id) FROM STDIN WITH (FORMAT csv, HEADER true)`
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestParseCopyTag(t *testing.T) {
	tests := []struct {
		out  string
		want int64
	}{
		{"COPY 42\n", 42},
		{"NOTICE: something\nCOPY 7", 7},
		{"", 0},
		{"COPY x", 0},
	}
	for _, tt := range tests {
		if got := parseCopyTag([]byte(tt.out)); got != tt.want {
			t.Errorf("parseCopyTag(%q): expected %d, got %d", tt.out, tt.want, got)
		}
	}
}

func TestQueryParsesCSV(t *testing.T) {
	w := NewWithCommand(script(`printf 't,c\ndim_date,7\nfact_sales,42\n'`))

	res, err := w.Query(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if !slices.Equal(res.Columns, []string{"t", "c"}) {
		t.Errorf("Expected columns [t c], got %v", res.Columns)
	}
	if len(res.Rows) != 2 || res.Rows[1][1] != "42" {
		t.Errorf("Unexpected rows: %v", res.Rows)
	}
}

func TestQueryRejectsArgs(t *testing.T) {
	w := NewWithCommand(script("exit 0"))
	if _, err := w.Query(context.Background(), "SELECT $1", 1); err == nil {
		t.Error("Expected error for bind parameters, got nil")
	}
}
