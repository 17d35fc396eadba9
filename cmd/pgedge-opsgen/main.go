// Package main is the entry point for pgedge-opsgen.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pgEdge/pgedge-opsgen/internal/cli"
	"github.com/pgEdge/pgedge-opsgen/internal/warehouse"

	// Register warehouse backends
	_ "github.com/pgEdge/pgedge-opsgen/internal/warehouse/postgres"
	_ "github.com/pgEdge/pgedge-opsgen/internal/warehouse/psql"
	_ "github.com/pgEdge/pgedge-opsgen/internal/warehouse/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode passes through the exit status of a failed external command.
func exitCode(err error) int {
	var ece *warehouse.ExternalCommandError
	if errors.As(err, &ece) && ece.ExitCode > 0 {
		return ece.ExitCode
	}
	return 1
}
