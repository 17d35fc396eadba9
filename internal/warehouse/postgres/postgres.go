// Package postgres implements the warehouse backend for PostgreSQL using a
// pgx connection pool.
package postgres

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-opsgen/internal/logging"
	"github.com/pgEdge/pgedge-opsgen/internal/warehouse"
)

// Name is the backend's registry name.
const Name = "postgres"

func init() {
	warehouse.Register(Name, func(ctx context.Context, opts warehouse.Options) (warehouse.Warehouse, error) {
		return Connect(ctx, opts.Connection)
	})
}

// DefaultPoolConfig returns default connection pool configuration. A load
// is a single writer, so the pool stays small.
func DefaultPoolConfig() *pgxpool.Config {
	config, _ := pgxpool.ParseConfig("")

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	return config
}

// Warehouse is a PostgreSQL destination.
type Warehouse struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the PostgreSQL database. An empty
// connection string falls back to the libpq PG* environment variables.
func Connect(ctx context.Context, connString string) (*Warehouse, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	defaults := DefaultPoolConfig()
	config.MaxConns = defaults.MaxConns
	config.MinConns = defaults.MinConns
	config.MaxConnLifetime = defaults.MaxConnLifetime
	config.MaxConnIdleTime = defaults.MaxConnIdleTime
	config.HealthCheckPeriod = defaults.HealthCheckPeriod

	logging.Debug().
		Str("host", config.ConnConfig.Host).
		Uint16("port", config.ConnConfig.Port).
		Str("database", config.ConnConfig.Database).
		Msg("Connecting to database")

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logging.Info().
		Str("host", config.ConnConfig.Host).
		Str("database", config.ConnConfig.Database).
		Msg("Connected to database")

	return &Warehouse{pool: pool}, nil
}

// NewFromPool wraps an existing pool.
func NewFromPool(pool *pgxpool.Pool) *Warehouse {
	return &Warehouse{pool: pool}
}

// Pool returns the underlying connection pool.
func (w *Warehouse) Pool() *pgxpool.Pool {
	return w.pool
}

// Dialect implements warehouse.Warehouse.
func (w *Warehouse) Dialect() warehouse.Dialect {
	return warehouse.Postgres
}

// Exec implements warehouse.Warehouse. Without arguments pgx sends the
// statement over the simple protocol, so a batch may hold several.
func (w *Warehouse) Exec(ctx context.Context, sql string) error {
	if _, err := w.pool.Exec(ctx, sql); err != nil {
		return warehouse.CommandError("exec", "", err)
	}
	return nil
}

// CopySQL returns the COPY statement that streams a CSV file with a header
// row into table.
func CopySQL(table string, columns []string) string {
	return fmt.Sprintf("COPY %s (%s) FROM STDIN WITH (FORMAT csv, HEADER true)",
		table, strings.Join(columns, ", "))
}

// Copy implements warehouse.Warehouse by streaming the file through COPY
// FROM STDIN on a dedicated connection.
func (w *Warehouse) Copy(ctx context.Context, table string, columns []string, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return 0, warehouse.CommandError("copy", table, err)
	}
	defer conn.Release()

	tag, err := conn.Conn().PgConn().CopyFrom(ctx, f, CopySQL(table, columns))
	if err != nil {
		return 0, warehouse.CommandError("copy", table, err)
	}
	return tag.RowsAffected(), nil
}

// Query implements warehouse.Warehouse. Results are requested in text
// format so every value arrives as PostgreSQL renders it.
func (w *Warehouse) Query(ctx context.Context, sql string, args ...any) (*warehouse.Result, error) {
	queryArgs := append([]any{pgx.QueryResultFormats{pgx.TextFormatCode}}, args...)
	rows, err := w.pool.Query(ctx, sql, queryArgs...)
	if err != nil {
		return nil, warehouse.CommandError("query", "", err)
	}
	defer rows.Close()

	result := &warehouse.Result{}
	for _, fd := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, fd.Name)
	}
	for rows.Next() {
		raw := rows.RawValues()
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = string(v)
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
	w.pool.Close()
	return nil
}
