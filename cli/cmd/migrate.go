package cmd

import (
	"github.com/spf13/cobra"

	"github.com/salescope/salescope/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	Long: `Apply all pending schema migrations: the sales table, its
filter and composite indexes, and the full-text search vector trigger.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return database.Migrate(cfg.Database.URL)
}
