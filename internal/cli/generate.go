package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-opsgen/internal/logging"
	"github.com/pgEdge/pgedge-opsgen/internal/pipeline"
	"github.com/pgEdge/pgedge-opsgen/internal/restaurant"
	"github.com/pgEdge/pgedge-opsgen/internal/warehouse"
)

var (
	genDays      int
	genLocations int
	genItems     int
	genSeed      uint64
	genEndDate   string
	genBrand     string
	outputDir    string
	createSchema bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the dataset and write the staging files",
	Long: `Generate the restaurant operations dataset and write one CSV file per
table plus a manifest into the output directory. Nothing is loaded.

Example:
  pgedge-opsgen generate --days 90 --locations 4 --items 20 --seed 7`,
	RunE: runGenerate,
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load an existing staging directory into the warehouse",
	Long: `Load the staging files described by the manifest in the output
directory. Existing warehouse rows are truncated first.

Example:
  pgedge-opsgen load --backend psql --output-dir data/seed/out`,
	RunE: runLoad,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate, stage and load in one pass",
	Long: `Run the full pipeline: generate the dataset, write the staging files,
then load them into the warehouse and verify the row counts.

Example:
  pgedge-opsgen run --connection "postgres://cactus@localhost/cactus_ops"
  pgedge-opsgen run --backend sqlite --connection ops.db --create-schema`,
	RunE: runRun,
}

func init() {
	for _, cmd := range []*cobra.Command{generateCmd, runCmd} {
		cmd.Flags().IntVar(&genDays, "days", 0,
			"number of days in the lookback window (default: 180)")
		cmd.Flags().IntVar(&genLocations, "locations", 0,
			"number of restaurant locations (default: 12)")
		cmd.Flags().IntVar(&genItems, "items", 0,
			"number of menu items (default: 30)")
		cmd.Flags().Uint64Var(&genSeed, "seed", 0,
			"random seed, 0 for a random one (default: 42)")
		cmd.Flags().StringVar(&genEndDate, "end-date", "",
			"last day of the window, YYYY-MM-DD (default: today)")
		cmd.Flags().StringVar(&genBrand, "brand", "",
			"brand used in location names (default: Cactus)")
	}
	for _, cmd := range []*cobra.Command{generateCmd, loadCmd, runCmd} {
		cmd.Flags().StringVar(&outputDir, "output-dir", "",
			"staging directory (default: data/seed/out)")
	}
	for _, cmd := range []*cobra.Command{loadCmd, runCmd} {
		cmd.Flags().BoolVar(&createSchema, "create-schema", false,
			"create missing tables and views before loading")
	}
}

// applyGenerateFlags copies explicitly set flags over the config. Zero is a
// meaningful value for the counts and the seed, so only changed flags apply.
func applyGenerateFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("days") {
		cfg.Generate.Days = genDays
	}
	if flags.Changed("locations") {
		cfg.Generate.Locations = genLocations
	}
	if flags.Changed("items") {
		cfg.Generate.Items = genItems
	}
	if flags.Changed("seed") {
		cfg.Generate.Seed = genSeed
	}
	if genEndDate != "" {
		cfg.Generate.EndDate = genEndDate
	}
	if genBrand != "" {
		cfg.Generate.Brand = genBrand
	}
	applyOutputFlag()
}

func applyOutputFlag() {
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	applyGenerateFlags(cmd)
	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}

	params, err := pipeline.ParamsFromConfig(cfg.Generate, time.Now())
	if err != nil {
		return err
	}

	start := time.Now()
	m, err := pipeline.Stage(pipeline.Generate(params), cfg.Output.Dir)
	if err != nil {
		return err
	}

	cmd.Printf("Staged %d tables in %s (seed %d)\n", len(m.Artifacts), cfg.Output.Dir, m.Seed)
	for _, a := range m.Artifacts {
		cmd.Printf("  %-13s %d rows\n", a.Table, a.Rows)
	}
	logging.Info().Dur("elapsed", time.Since(start)).Msg("Generation complete")
	return nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	applyOutputFlag()
	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	ctx := context.Background()
	wh, err := prepareWarehouse(ctx)
	if err != nil {
		return err
	}
	defer wh.Close()

	report, err := pipeline.Load(ctx, wh, cfg.Output.Dir, pipeline.DefaultLoadOptions())
	if report != nil {
		printReport(cmd, report)
	}
	return err
}

func runRun(cmd *cobra.Command, args []string) error {
	applyGenerateFlags(cmd)
	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	params, err := pipeline.ParamsFromConfig(cfg.Generate, time.Now())
	if err != nil {
		return err
	}

	ctx := context.Background()
	wh, err := prepareWarehouse(ctx)
	if err != nil {
		return err
	}
	defer wh.Close()

	start := time.Now()
	report, err := pipeline.Run(ctx, wh, params, cfg.Output.Dir, pipeline.DefaultLoadOptions())
	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		return err
	}
	logging.Info().Dur("elapsed", time.Since(start)).Msg("Run complete")
	return nil
}

// prepareWarehouse opens the warehouse and, with --create-schema, creates
// any missing tables and views.
func prepareWarehouse(ctx context.Context) (warehouse.Warehouse, error) {
	wh, err := openWarehouse(ctx)
	if err != nil {
		return nil, err
	}
	if createSchema {
		if err := restaurant.CreateSchema(ctx, wh); err != nil {
			wh.Close()
			return nil, err
		}
	}
	return wh, nil
}
