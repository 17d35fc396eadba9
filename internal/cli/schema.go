package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-opsgen/internal/api"
	"github.com/pgEdge/pgedge-opsgen/internal/loader"
	"github.com/pgEdge/pgedge-opsgen/internal/logging"
	"github.com/pgEdge/pgedge-opsgen/internal/restaurant"
)

const shutdownTimeout = 5 * time.Second

var serveAddr string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the warehouse tables and reporting views",
}

var schemaCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the warehouse tables and reporting views",
	Long: `Create the dimension and fact tables and the daily and weekly
performance views. Existing objects are left in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		wh, err := openWarehouse(ctx)
		if err != nil {
			return err
		}
		defer wh.Close()
		return restaurant.CreateSchema(ctx, wh)
	},
}

var schemaDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the warehouse tables, views and run metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		wh, err := openWarehouse(ctx)
		if err != nil {
			return err
		}
		defer wh.Close()
		if err := restaurant.DropSchema(ctx, wh); err != nil {
			return err
		}
		return loader.DropMetadata(ctx, wh)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the weekly performance report over HTTP",
	Long: `Serve a small JSON API over the loaded warehouse:

  GET /api/health
  GET /api/weekly-performance?year=&week=&region=&location_id=

The server runs until interrupted with Ctrl+C. The psql backend cannot
serve filtered queries; use postgres or sqlite.`,
	RunE: runServe,
}

func init() {
	schemaCmd.AddCommand(schemaCreateCmd)
	schemaCmd.AddCommand(schemaDropCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (default: :4000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Serve.Addr = serveAddr
	}

	ctx := context.Background()
	wh, err := openWarehouse(ctx)
	if err != nil {
		return err
	}
	defer wh.Close()

	server := api.New(restaurant.NewReports(wh))

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(cfg.Serve.Addr)
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		logging.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logging.Info().Msg("Reporting API stopped")
	return nil
}
