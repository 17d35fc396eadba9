//-------------------------------------------------------------------------
//
// pgEdge Ops Data Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package psql implements the warehouse backend that drives the psql client,
// either inside a docker container or on the host.
package psql

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pgEdge/pgedge-opsgen/internal/logging"
	"github.com/pgEdge/pgedge-opsgen/internal/warehouse"
)

// Name is the backend's registry name.
const Name = "psql"

func init() {
	warehouse.Register(Name, func(_ context.Context, opts warehouse.Options) (warehouse.Warehouse, error) {
		if opts.User == "" || opts.Database == "" {
			return nil, fmt.Errorf("psql backend requires a user and a database")
		}
		return New(opts), nil
	})
}

// Warehouse runs every operation as a psql invocation.
type Warehouse struct {
	command []string
}

// New builds the psql command line for opts. With a container the command
// is `docker exec -i <container> psql ...`.
func New(opts warehouse.Options) *Warehouse {
	var cmd []string
	if opts.Container != "" {
		cmd = append(cmd, "docker", "exec", "-i", opts.Container)
	}
	cmd = append(cmd, "psql", "-U", opts.User, "-d", opts.Database)
	return NewWithCommand(cmd)
}

// NewWithCommand uses command as the psql invocation. Operation arguments
// are appended to it.
func NewWithCommand(command []string) *Warehouse {
	return &Warehouse{command: append([]string(nil), command...)}
}

// Command returns the base command line.
func (w *Warehouse) Command() []string {
	return append([]string(nil), w.command...)
}

// Dialect implements warehouse.Warehouse.
func (w *Warehouse) Dialect() warehouse.Dialect {
	return warehouse.Postgres
}

// Exec implements warehouse.Warehouse.
func (w *Warehouse) Exec(ctx context.Context, sql string) error {
	_, err := w.run(ctx, "exec", "", nil, "-c", sql)
	return err
}

// CopySQL returns the client-side copy command that reads a CSV file with a
// header row from psql's standard input.
func CopySQL(table string, columns []string) string {
	return fmt.Sprintf(`\copy %s (%s) FROM STDIN WITH (FORMAT csv, HEADER true)`,
		table, strings.Join(columns, ", "))
}

// Copy implements warehouse.Warehouse. The file is fed to psql on stdin and
// the row count is read from the COPY command tag.
func (w *Warehouse) Copy(ctx context.Context, table string, columns []string, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	out, err := w.run(ctx, "copy", table, f, "-c", CopySQL(table, columns))
	if err != nil {
		return 0, err
	}
	return parseCopyTag(out), nil
}

// parseCopyTag returns n from the last "COPY n" line of psql output, or 0
// when there is none.
func parseCopyTag(out []byte) int64 {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		fields := strings.Fields(lines[i])
		if len(fields) == 2 && fields[0] == "COPY" {
			if n, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

// Query implements warehouse.Warehouse using psql's CSV output. psql has no
// bind parameters, so args must be empty.
func (w *Warehouse) Query(ctx context.Context, sql string, args ...any) (*warehouse.Result, error) {
	if len(args) > 0 {
		return nil, warehouse.CommandError("query", "", errors.New("psql backend does not support bind parameters"))
	}
	out, err := w.run(ctx, "query", "", nil, "--csv", "-c", sql)
	if err != nil {
		return nil, err
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		return nil, warehouse.CommandError("query", "", fmt.Errorf("failed to parse psql output: %w", err))
	}
	result := &warehouse.Result{}
	if len(records) > 0 {
		result.Columns = records[0]
		result.Rows = records[1:]
	}
	return result, nil
}

// Close implements warehouse.Warehouse.
func (w *Warehouse) Close() error {
	return nil
}

func (w *Warehouse) run(ctx context.Context, op, table string, stdin io.Reader, args ...string) ([]byte, error) {
	argv := append(w.Command(), "-v", "ON_ERROR_STOP=1")
	argv = append(argv, args...)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = stdin
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.Debug().Str("op", op).Str("table", table).Strs("args", argv).Msg("Running psql")

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, &warehouse.ExternalCommandError{Op: op, Table: table, ExitCode: code, Err: err}
	}
	return stdout.Bytes(), nil
}
