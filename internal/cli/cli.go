//-------------------------------------------------------------------------
//
// pgEdge Ops Data Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-opsgen.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-opsgen/internal/config"
	"github.com/pgEdge/pgedge-opsgen/internal/loader"
	"github.com/pgEdge/pgedge-opsgen/internal/logging"
	"github.com/pgEdge/pgedge-opsgen/internal/restaurant"
	"github.com/pgEdge/pgedge-opsgen/internal/warehouse"
	"github.com/pgEdge/pgedge-opsgen/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	envFile    string
	connection string
	backend    string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-opsgen",
		Short: "Restaurant operations data generator and warehouse loader",
		Long: `pgedge-opsgen synthesizes a deterministic restaurant operations
dataset (dates, locations, menu items, daily item sales and daily labor),
stages it as CSV files, and bulk-loads it into a reporting warehouse.

The same seed always produces byte-identical staging files. Loads replace
the warehouse contents in full: facts and dimensions are truncated, then
dimensions and facts are copied in that order.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-opsgen.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"environment file loaded before connecting (ignored if missing)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"warehouse connection string (PostgreSQL URL or SQLite file path)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "",
		"warehouse backend (postgres, psql, sqlite)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile, envFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

// openWarehouse validates the connection settings and opens the configured
// backend.
func openWarehouse(ctx context.Context) (warehouse.Warehouse, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	wh, err := warehouse.Open(ctx, cfg.Backend, warehouse.Options{
		Connection: cfg.Connection,
		Container:  cfg.Psql.Container,
		User:       cfg.Psql.User,
		Database:   cfg.Psql.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s warehouse: %w", cfg.Backend, err)
	}
	return wh, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last recorded run and warehouse row counts",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	wh, err := openWarehouse(ctx)
	if err != nil {
		return err
	}
	defer wh.Close()

	metadata, err := loader.GetAllMetadata(ctx, wh)
	if err != nil {
		logging.Debug().Err(err).Msg("No run metadata")
		cmd.Println("No run recorded")
	} else {
		cmd.Println("Last run:")
		for _, key := range []string{"run_id", "version", "seed", "end_date", "loaded_at"} {
			if v, ok := metadata[key]; ok {
				cmd.Printf("  %-10s %s\n", key+":", v)
			}
		}
	}

	tables := make([]string, len(restaurant.Tables))
	for i, t := range restaurant.Tables {
		tables[i] = t.Name
	}
	res, err := wh.Query(ctx, loader.RowCountSQL(tables))
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}
	cmd.Println()
	cmd.Println("Row counts:")
	for _, row := range res.Rows {
		cmd.Printf("  %-13s %s\n", row[0], row[1])
	}
	return nil
}

// printReport writes a load summary to the command output.
func printReport(cmd *cobra.Command, report *loader.Report) {
	cmd.Println()
	cmd.Printf("Run %s reached phase %s\n", report.RunID, report.Phase)
	for _, c := range report.Copied {
		cmd.Printf("  %-13s %d rows loaded\n", c.Table, c.Rows)
	}
	if report.VerifyErr != nil {
		cmd.Printf("Verification failed: %v\n", report.VerifyErr)
		return
	}
	if report.Sample != nil && len(report.Sample.Rows) > 0 {
		cmd.Println()
		cmd.Println(strings.Join(report.Sample.Columns, " | "))
		for _, row := range report.Sample.Rows {
			cmd.Println(strings.Join(row, " | "))
		}
	}
}
