package cli

import (
	"github.com/spf13/cobra"

	"taskboard/internal/database"
)

var rollbackSteps int

func init() {
	migrateDownCmd.Flags().IntVar(&rollbackSteps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		return database.Migrate(cfg.MigrateURL(), log)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "roll back applied migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		return database.Rollback(cfg.MigrateURL(), rollbackSteps, log)
	},
}
