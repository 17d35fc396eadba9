//-------------------------------------------------------------------------
//
// pgEdge Ops Data Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline composes the three stages of a run: generate the
// dataset, stage it as artifacts, and load the artifacts into a warehouse.
// Each stage can also be run on its own.
package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pgEdge/pgedge-opsgen/internal/config"
	"github.com/pgEdge/pgedge-opsgen/internal/loader"
	"github.com/pgEdge/pgedge-opsgen/internal/logging"
	"github.com/pgEdge/pgedge-opsgen/internal/restaurant"
	"github.com/pgEdge/pgedge-opsgen/internal/staging"
	"github.com/pgEdge/pgedge-opsgen/internal/warehouse"
)

// ParamsFromConfig converts the generate configuration into generation
// parameters, resolving an empty end date against now and a zero seed to
// a random one.
func ParamsFromConfig(cfg config.GenerateConfig, now time.Time) (restaurant.Params, error) {
	end, err := cfg.End(now)
	if err != nil {
		return restaurant.Params{}, err
	}
	seed := cfg.Seed
	for seed == 0 {
		seed = rand.Uint64()
	}
	return restaurant.Params{
		Days:      cfg.Days,
		Locations: cfg.Locations,
		Items:     cfg.Items,
		Seed:      seed,
		EndDate:   end,
		Brand:     cfg.Brand,
	}, nil
}

// Generate synthesizes the dataset in memory.
func Generate(p restaurant.Params) *restaurant.Dataset {
	return restaurant.NewGenerator(p).Generate()
}

// Stage writes every table of ds and the manifest into dir, creating it if
// needed. Files are written in load order.
func Stage(ds *restaurant.Dataset, dir string) (*staging.Manifest, error) {
	if err := staging.EnsureDir(dir); err != nil {
		return nil, err
	}

	m := &staging.Manifest{
		Seed:      ds.Params.Seed,
		Days:      ds.Params.Days,
		Locations: ds.Params.Locations,
		Items:     ds.Params.Items,
		EndDate:   ds.Params.EndDate.Format(restaurant.DateLayout),
	}

	steps := []func() (staging.Artifact, error){
		func() (staging.Artifact, error) { return staging.WriteTable(dir, restaurant.DateTable, ds.Dates) },
		func() (staging.Artifact, error) { return staging.WriteTable(dir, restaurant.LocationTable, ds.Locations) },
		func() (staging.Artifact, error) { return staging.WriteTable(dir, restaurant.ItemTable, ds.Items) },
		func() (staging.Artifact, error) { return staging.WriteTable(dir, restaurant.SalesTable, ds.Sales) },
		func() (staging.Artifact, error) { return staging.WriteTable(dir, restaurant.LaborTable, ds.Labor) },
	}
	for _, step := range steps {
		a, err := step()
		if err != nil {
			return nil, err
		}
		m.Artifacts = append(m.Artifacts, a)
	}

	if err := staging.WriteManifest(dir, m); err != nil {
		return nil, err
	}
	logging.Info().Str("dir", dir).Int("artifacts", len(m.Artifacts)).Msg("Staging complete")
	return m, nil
}

// Load loads the staging directory into wh after checking the artifacts
// against the manifest.
func Load(ctx context.Context, wh warehouse.Warehouse, dir string, opts loader.Options) (*loader.Report, error) {
	m, err := staging.ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	if err := m.Verify(dir); err != nil {
		return nil, fmt.Errorf("staging directory %s is inconsistent: %w", dir, err)
	}
	return loader.New(wh, opts).Load(ctx, m, dir)
}

// Run performs generate, stage and load in sequence.
func Run(ctx context.Context, wh warehouse.Warehouse, p restaurant.Params, dir string, opts loader.Options) (*loader.Report, error) {
	ds := Generate(p)
	if _, err := Stage(ds, dir); err != nil {
		return nil, err
	}
	return Load(ctx, wh, dir, opts)
}

// DefaultLoadOptions returns the loader options used by the CLI.
func DefaultLoadOptions() loader.Options {
	return loader.Options{
		SampleSQL: restaurant.DailyPerformanceSampleSQL,
		RecordRun: true,
	}
}
