// Package cmd implements the salescope command line interface.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/salescope/salescope/internal/config"
	"github.com/salescope/salescope/internal/logutil"
)

// Version is the build version reported by the health endpoint.
const Version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "salescope",
	Short: "Sales records browser API",
	Long: `salescope serves a paginated, filterable browser over a sales
records table: search, filter, sort, paginate and export endpoints backed
by PostgreSQL with a Redis filter-options cache.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads .env (when present), then the full configuration, and
// configures logging. Shared by every subcommand.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logutil.Setup(cfg.Logging.Level, cfg.Logging.Pretty)
	return cfg, nil
}
