package cli

import (
	"github.com/spf13/cobra"

	"taskboard/internal/database"
	"taskboard/internal/server"
)

var migrateOnStart bool

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before serving")

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if migrateOnStart {
			if err := database.Migrate(cfg.MigrateURL(), log); err != nil {
				return err
			}
		}

		s, err := server.Init(cfg, log)
		if err != nil {
			return err
		}

		ctx, stop := signalContext(cmd.Context())
		defer stop()
		return s.Run(ctx)
	},
}
