package cli

import (
	"github.com/spf13/cobra"

	"taskboard/internal/database"
	"taskboard/internal/wallet"
)

func init() {
	rootCmd.AddCommand(workerCmd)
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run the daily penalty check on its schedule",
	Long:  `worker charges wallet penalties for missed due dates on the cron schedule set by PENALTY_SCHEDULE.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := database.Open(cfg.DSN())
		if err != nil {
			return err
		}

		scheduler, err := wallet.NewScheduler(wallet.NewService(db, log), cfg.PenaltySchedule, cfg.PenaltyTimezone, log)
		if err != nil {
			return err
		}

		ctx, stop := signalContext(cmd.Context())
		defer stop()
		scheduler.Start(ctx)
		return nil
	},
}
