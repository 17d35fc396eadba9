//-------------------------------------------------------------------------
//
// pgEdge Ops Data Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package loader replaces the warehouse contents with a staged dataset:
// truncate, load dimensions, load facts, verify.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pgEdge/pgedge-opsgen/internal/logging"
	"github.com/pgEdge/pgedge-opsgen/internal/staging"
	"github.com/pgEdge/pgedge-opsgen/internal/warehouse"
	"github.com/pgEdge/pgedge-opsgen/pkg/version"
)

// Phase is a step of a load.
type Phase int

const (
	PhaseTruncate Phase = iota
	PhaseLoadDimensions
	PhaseLoadFacts
	PhaseVerify
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseTruncate:
		return "truncate"
	case PhaseLoadDimensions:
		return "load-dimensions"
	case PhaseLoadFacts:
		return "load-facts"
	case PhaseVerify:
		return "verify"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Options controls optional load behaviour.
type Options struct {
	// SampleSQL is run during verification and its rows reported. Empty
	// skips the sample.
	SampleSQL string

	// RecordRun stores the run metadata after a successful load.
	RecordRun bool
}

// TableCount is a row count for one table.
type TableCount struct {
	Table string
	Rows  int64
}

// Report describes the outcome of a load.
type Report struct {
	RunID  uuid.UUID
	Phase  Phase
	Copied []TableCount
	Counts []TableCount
	Sample *warehouse.Result

	// VerifyErr holds the verification failure, if any. It does not fail
	// the load.
	VerifyErr error
}

// Loader loads staged datasets into a warehouse.
type Loader struct {
	wh   warehouse.Warehouse
	opts Options
	now  func() time.Time
}

// New creates a loader for wh.
func New(wh warehouse.Warehouse, opts Options) *Loader {
	return &Loader{wh: wh, opts: opts, now: time.Now}
}

// TruncateOrder returns the manifest's tables children first: facts in
// manifest order, then dimensions in reverse load order.
func TruncateOrder(m *staging.Manifest) []string {
	var tables []string
	for _, a := range m.OfKind(staging.Fact) {
		tables = append(tables, a.Table)
	}
	dims := m.OfKind(staging.Dimension)
	for i := len(dims) - 1; i >= 0; i-- {
		tables = append(tables, dims[i].Table)
	}
	return tables
}

// Load replaces the warehouse contents with the artifacts of m found in dir.
// Truncate and copy failures abort the load immediately; verification
// failures are only recorded in the report.
func (l *Loader) Load(ctx context.Context, m *staging.Manifest, dir string) (*Report, error) {
	report := &Report{RunID: uuid.New(), Phase: PhaseTruncate}

	logging.Info().Str("run_id", report.RunID.String()).Msg("Truncating existing data")
	if err := l.wh.Exec(ctx, l.wh.Dialect().TruncateSQL(TruncateOrder(m))); err != nil {
		return report, fmt.Errorf("truncate failed: %w", err)
	}

	report.Phase = PhaseLoadDimensions
	logging.Info().Msg("Loading dimension tables")
	if err := l.copyAll(ctx, report, m.OfKind(staging.Dimension), dir); err != nil {
		return report, err
	}

	report.Phase = PhaseLoadFacts
	logging.Info().Msg("Loading fact tables")
	if err := l.copyAll(ctx, report, m.OfKind(staging.Fact), dir); err != nil {
		return report, err
	}

	report.Phase = PhaseVerify
	if err := l.verify(ctx, report, m); err != nil {
		report.VerifyErr = err
		logging.Warn().Err(err).Msg("Verification failed")
	}

	if l.opts.RecordRun {
		if err := SaveMetadata(ctx, l.wh, l.runMetadata(report, m)); err != nil {
			logging.Warn().Err(err).Msg("Failed to record run metadata")
		}
	}

	report.Phase = PhaseDone
	logging.Info().Str("run_id", report.RunID.String()).Msg("Load complete")
	return report, nil
}

func (l *Loader) copyAll(ctx context.Context, report *Report, artifacts []staging.Artifact, dir string) error {
	for _, a := range artifacts {
		start := time.Now()
		n, err := l.wh.Copy(ctx, a.Table, a.Columns, filepath.Join(dir, a.File))
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", a.Table, err)
		}
		report.Copied = append(report.Copied, TableCount{Table: a.Table, Rows: n})
		logging.Info().
			Str("table", a.Table).
			Int64("rows", n).
			Dur("elapsed", time.Since(start)).
			Msg("Loaded table")
	}
	return nil
}

// RowCountSQL returns one query counting the rows of every table.
func RowCountSQL(tables []string) string {
	parts := make([]string, len(tables))
	for i, t := range tables {
		parts[i] = fmt.Sprintf("SELECT '%s' AS t, COUNT(*) AS c FROM %s", t, t)
	}
	return strings.Join(parts, " UNION ALL ")
}

func (l *Loader) verify(ctx context.Context, report *Report, m *staging.Manifest) error {
	tables := make([]string, len(m.Artifacts))
	for i, a := range m.Artifacts {
		tables[i] = a.Table
	}

	counts, err := l.wh.Query(ctx, RowCountSQL(tables))
	if err != nil {
		return fmt.Errorf("row count query failed: %w", err)
	}
	for _, row := range counts.Rows {
		if len(row) < 2 {
			return fmt.Errorf("unexpected row count result %v", row)
		}
		n, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid row count for %s: %w", row[0], err)
		}
		report.Counts = append(report.Counts, TableCount{Table: row[0], Rows: n})
		logging.Info().Str("table", row[0]).Int64("rows", n).Msg("Row count")
	}

	for _, a := range m.Artifacts {
		i := slices.IndexFunc(report.Counts, func(c TableCount) bool { return c.Table == a.Table })
		if i < 0 {
			return fmt.Errorf("no row count returned for %s", a.Table)
		}
		if report.Counts[i].Rows != int64(a.Rows) {
			return fmt.Errorf("%s has %d rows, staged %d", a.Table, report.Counts[i].Rows, a.Rows)
		}
	}

	if l.opts.SampleSQL == "" {
		return nil
	}
	sample, err := l.wh.Query(ctx, l.opts.SampleSQL)
	if err != nil {
		return fmt.Errorf("sample query failed: %w", err)
	}
	report.Sample = sample
	for _, row := range sample.Rows {
		logging.Debug().Strs("row", row).Msg("Sample")
	}
	return nil
}

func (l *Loader) runMetadata(report *Report, m *staging.Manifest) map[string]string {
	return map[string]string{
		"run_id":    report.RunID.String(),
		"version":   version.Short(),
		"seed":      strconv.FormatUint(m.Seed, 10),
		"end_date":  m.EndDate,
		"loaded_at": l.now().UTC().Format(time.RFC3339),
	}
}
