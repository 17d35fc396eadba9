//-------------------------------------------------------------------------
//
// pgEdge Ops Data Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package loader

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pgEdge/pgedge-opsgen/internal/logging"
	"github.com/pgEdge/pgedge-opsgen/internal/warehouse"
)

const metadataTable = "opsgen_metadata"

// createMetadataTableSQL creates the metadata table if it doesn't exist.
const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS opsgen_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// quote renders s as a SQL string literal. Statements are sent as plain
// text because not every backend supports bind parameters.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// SaveMetadataSQL returns the statements that store values, upserting
// existing keys.
func SaveMetadataSQL(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	b.WriteString(createMetadataTableSQL)
	b.WriteString(";\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "INSERT INTO %s (key, value) VALUES (%s, %s) ON CONFLICT (key) DO UPDATE SET value = excluded.value;\n",
			metadataTable, quote(k), quote(values[k]))
	}
	return b.String()
}

// SaveMetadata stores run metadata in the warehouse.
func SaveMetadata(ctx context.Context, wh warehouse.Warehouse, values map[string]string) error {
	if err := wh.Exec(ctx, SaveMetadataSQL(values)); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	logging.Debug().Str("run_id", values["run_id"]).Msg("Saved metadata")
	return nil
}

// GetAllMetadata retrieves all metadata as a map. A missing table yields an
// error.
func GetAllMetadata(ctx context.Context, wh warehouse.Warehouse) (map[string]string, error) {
	res, err := wh.Query(ctx, fmt.Sprintf("SELECT key, value FROM %s", metadataTable))
	if err != nil {
		return nil, err
	}
	metadata := make(map[string]string, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) == 2 {
			metadata[row[0]] = row[1]
		}
	}
	return metadata, nil
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, wh warehouse.Warehouse) error {
	return wh.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
}
