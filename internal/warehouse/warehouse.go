//-------------------------------------------------------------------------
//
// pgEdge Ops Data Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse defines the command interface used to prepare and load
// the destination database, and the registry of backends implementing it.
package warehouse

import (
	"context"
	"fmt"
	"strings"
)

// Dialect identifies the SQL flavour a backend speaks.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// TruncateSQL returns one statement batch that empties the given tables.
// Tables must be listed children first.
func (d Dialect) TruncateSQL(tables []string) string {
	if d == SQLite {
		var b strings.Builder
		for _, t := range tables {
			fmt.Fprintf(&b, "DELETE FROM %s;\n", t)
		}
		return b.String()
	}
	return fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY", strings.Join(tables, ", "))
}

// Placeholder returns the bind parameter marker for the n-th (1-based)
// argument.
func (d Dialect) Placeholder(n int) string {
	if d == SQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

// Result is a query result with every value rendered as text. NULL values
// are returned as empty strings.
type Result struct {
	Columns []string
	Rows    [][]string
}

// Warehouse is the destination database.
type Warehouse interface {
	// Dialect returns the SQL dialect of the backend.
	Dialect() Dialect

	// Exec runs one or more statements that return no rows.
	Exec(ctx context.Context, sql string) error

	// Copy bulk-loads a staged CSV file with a header row into table,
	// using the explicit column list, and returns the number of rows loaded.
	Copy(ctx context.Context, table string, columns []string, path string) (int64, error)

	// Query runs a statement and returns its rows as text.
	Query(ctx context.Context, sql string, args ...any) (*Result, error)

	// Close releases the backend's resources.
	Close() error
}

// ExternalCommandError reports a failed warehouse operation. ExitCode holds
// the exit status of the external command that failed, or -1 when the
// transport has none.
type ExternalCommandError struct {
	Op       string
	Table    string
	ExitCode int
	Err      error
}

func (e *ExternalCommandError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Table != "" {
		b.WriteString(" ")
		b.WriteString(e.Table)
	}
	b.WriteString(" failed")
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " (exit code %d)", e.ExitCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ExternalCommandError) Unwrap() error {
	return e.Err
}

// CommandError wraps err as an ExternalCommandError without an exit code.
func CommandError(op, table string, err error) error {
	return &ExternalCommandError{Op: op, Table: table, ExitCode: -1, Err: err}
}
