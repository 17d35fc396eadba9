package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pgEdge/pgedge-opsgen/internal/warehouse"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"plain error", errors.New("boom"), 1},
		{"command exit", &warehouse.ExternalCommandError{Op: "copy", ExitCode: 3, Err: errors.New("exit status 3")}, 3},
		{"wrapped command exit", fmt.Errorf("failed to load fact_sales: %w", &warehouse.ExternalCommandError{Op: "copy", ExitCode: 2, Err: errors.New("exit status 2")}), 2},
		{"no exit status", &warehouse.ExternalCommandError{Op: "exec", ExitCode: -1, Err: errors.New("not found")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("Expected exit code %d, got %d", tt.want, got)
			}
		})
	}
}
