//-------------------------------------------------------------------------
//
// pgEdge Ops Data Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package staging writes generated tables to delimited text artifacts and
// reads them back. The artifact directory, described by its manifest, is the
// contract between generation and loading.
package staging

import (
	"bufio"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pgEdge/pgedge-opsgen/internal/datagen"
	"github.com/pgEdge/pgedge-opsgen/internal/logging"
)

// Kind classifies a table for load ordering.
type Kind string

const (
	// Dimension tables are referenced by facts and load first.
	Dimension Kind = "dimension"
	// Fact tables reference dimensions and load last.
	Fact Kind = "fact"
)

// Table declares a destination table and its column order.
type Table struct {
	Name    string
	Kind    Kind
	Columns []string
}

// FileName returns the artifact file name for the table.
func (t Table) FileName() string {
	return t.Name + ".csv"
}

// Record is a row that serializes to fields in its table's column order.
type Record interface {
	Record() []string
}

// Artifact describes one staged file.
type Artifact struct {
	Table   string   `yaml:"table"`
	Kind    Kind     `yaml:"kind"`
	File    string   `yaml:"file"`
	Columns []string `yaml:"columns"`
	Rows    int      `yaml:"rows"`
	SHA256  string   `yaml:"sha256"`
}

// EnsureDir creates the staging directory if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}

// WriteTable writes rows as a CSV file named after the table, with a header
// matching the declared columns.
func WriteTable[R Record](dir string, table Table, rows []R) (Artifact, error) {
	path := filepath.Join(dir, table.FileName())

	f, err := os.Create(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to create %s: %w", path, err)
	}

	hash := sha256.New()
	counter := &countingWriter{}
	buf := bufio.NewWriter(io.MultiWriter(f, hash, counter))

	if err := writeRecords(buf, table, rows); err != nil {
		f.Close()
		return Artifact{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return Artifact{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return Artifact{}, fmt.Errorf("failed to close %s: %w", path, err)
	}

	logging.Info().
		Str("table", table.Name).
		Int("rows", len(rows)).
		Str("size", datagen.FormatSize(counter.n)).
		Str("file", path).
		Msg("Staged table")

	return Artifact{
		Table:   table.Name,
		Kind:    table.Kind,
		File:    table.FileName(),
		Columns: append([]string(nil), table.Columns...),
		Rows:    len(rows),
		SHA256:  hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

func writeRecords[R Record](w io.Writer, table Table, rows []R) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return err
	}
	for i, row := range rows {
		fields := row.Record()
		if len(fields) != len(table.Columns) {
			return fmt.Errorf("row %d has %d fields, table %s declares %d columns",
				i+1, len(fields), table.Name, len(table.Columns))
		}
		if err := cw.Write(fields); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
