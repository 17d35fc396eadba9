// Package sqlite implements the warehouse backend for an embedded SQLite
// database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/pgEdge/pgedge-opsgen/internal/logging"
	"github.com/pgEdge/pgedge-opsgen/internal/staging"
	"github.com/pgEdge/pgedge-opsgen/internal/warehouse"
)

// Name is the backend's registry name.
const Name = "sqlite"

func init() {
	warehouse.Register(Name, func(_ context.Context, opts warehouse.Options) (warehouse.Warehouse, error) {
		return Open(opts.Connection)
	})
}

// Warehouse is a SQLite destination.
type Warehouse struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path. ":memory:" gives a
// private in-memory database.
func Open(path string) (*Warehouse, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// One connection keeps pragmas and in-memory databases consistent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	logging.Info().Str("path", path).Msg("Opened SQLite warehouse")

	return &Warehouse{db: db, path: path}, nil
}

// Path returns the database file path.
func (w *Warehouse) Path() string {
	return w.path
}

// Dialect implements warehouse.Warehouse.
func (w *Warehouse) Dialect() warehouse.Dialect {
	return warehouse.SQLite
}

// Exec implements warehouse.Warehouse.
func (w *Warehouse) Exec(ctx context.Context, sql string) error {
	if _, err := w.db.ExecContext(ctx, sql); err != nil {
		return warehouse.CommandError("exec", "", err)
	}
	return nil
}

// Copy implements warehouse.Warehouse. SQLite has no COPY, so the artifact
// is read back and inserted in a single transaction.
func (w *Warehouse) Copy(ctx context.Context, table string, columns []string, path string) (int64, error) {
	r, err := staging.OpenArtifact(path, columns)
	if err != nil {
		return 0, warehouse.CommandError("copy", table, err)
	}
	defer r.Close()

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, warehouse.CommandError("copy", table, err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders))
	if err != nil {
		return 0, warehouse.CommandError("copy", table, err)
	}
	defer stmt.Close()

	var n int64
	values := make([]any, len(columns))
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, warehouse.CommandError("copy", table, fmt.Errorf("%s: %w", path, err))
		}
		for i, v := range rec {
			values[i] = v
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return 0, warehouse.CommandError("copy", table, fmt.Errorf("row %d: %w", n+1, err))
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, warehouse.CommandError("copy", table, err)
	}
	return n, nil
}

// Query implements warehouse.Warehouse.
func (w *Warehouse) Query(ctx context.Context, sql string, args ...any) (*warehouse.Result, error) {
	rows, err := w.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, warehouse.CommandError("query", "", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, warehouse.CommandError("query", "", err)
	}

	result := &warehouse.Result{Columns: columns}
	scan := make([]any, len(columns))
	values := make([]nullString, len(columns))
	for i := range values {
		scan[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, warehouse.CommandError("query", "", err)
		}
		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = v.String
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, warehouse.CommandError("query", "", err)
	}
	return result, nil
}

// Close implements warehouse.Warehouse.
func (w *Warehouse) Close() error {
	return w.db.Close()
}

// nullString scans any column value as text, leaving NULL empty.
type nullString struct {
	String string
}

func (n *nullString) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		n.String = ""
	case []byte:
		n.String = string(v)
	case string:
		n.String = v
	default:
		n.String = fmt.Sprint(v)
	}
	return nil
}
