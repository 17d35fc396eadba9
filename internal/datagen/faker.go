//-------------------------------------------------------------------------
//
// pgEdge Ops Data Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen provides data generation utilities.
package datagen

import (
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Faker provides seeded random data generation using gofakeit.
//
// All draws, including the normal draws that gofakeit does not offer, come
// from the same PCG source, so one seed fully determines a run. A Faker is
// not safe for concurrent use.
type Faker struct {
	faker *gofakeit.Faker
	rng   *rand.Rand
}

// NewFakerWithSeed creates a new Faker with a specific seed for
// reproducibility. A zero seed is replaced by a random one.
func NewFakerWithSeed(seed uint64) *Faker {
	f := gofakeit.New(seed)
	return &Faker{
		faker: f,
		rng:   rand.New(f.Rand),
	}
}

// Int generates a random integer between min and max (inclusive).
func (f *Faker) Int(min, max int) int {
	return f.faker.IntRange(min, max)
}

// Float64 generates a random float64 in [min, max).
func (f *Faker) Float64(min, max float64) float64 {
	return f.faker.Float64Range(min, max)
}

// Normal draws from a normal distribution with the given mean and
// standard deviation.
func (f *Faker) Normal(mean, stddev float64) float64 {
	return f.rng.NormFloat64()*stddev + mean
}

// DaysAfter returns start plus a uniformly drawn number of whole days in
// [0, maxDays].
func (f *Faker) DaysAfter(start time.Time, maxDays int) time.Time {
	return start.AddDate(0, 0, f.Int(0, maxDays))
}

// Choose returns a random element from the given slice.
func Choose[T any](f *Faker, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[f.Int(0, len(items)-1)]
}
