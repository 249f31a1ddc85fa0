package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/salescope/salescope/internal/cache"
	"github.com/salescope/salescope/internal/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed <csv-file>",
	Short: "Bulk-load sales records from a CSV file",
	Long: `Clear the sales table and bulk-load it from a CSV export.

Rows without a Transaction ID are skipped; duplicate transaction
identifiers are ignored. The filter-options cache is invalidated after a
successful load.

Example:
  salescope seed data/sales_data.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open csv file: %w", err)
	}
	defer file.Close()

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	start := time.Now()
	inserted, skipped, err := db.Load(ctx, file)
	if err != nil {
		return err
	}

	// Loaded data changes the distinct-value snapshot, so drop it early
	// rather than waiting out the TTL.
	if opts, err := redis.ParseURL(cfg.Redis.URL); err == nil {
		rdb := redis.NewClient(opts)
		cache.New(rdb, cfg.Redis.CacheTTL).Invalidate(ctx)
		_ = rdb.Close()
	}

	count, err := db.RecordCount(ctx)
	if err != nil {
		return err
	}

	log.Info().
		Int("inserted", inserted).
		Int("skipped", skipped).
		Int64("total", count).
		Dur("elapsed", time.Since(start)).
		Msg("import completed")
	return nil
}
