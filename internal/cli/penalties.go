package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskboard/internal/database"
	"taskboard/internal/wallet"
)

var penaltyDay string

func init() {
	penaltiesRunCmd.Flags().StringVar(&penaltyDay, "day", "", "day to check, YYYY-MM-DD (default: yesterday)")

	penaltiesCmd.AddCommand(penaltiesRunCmd)
	rootCmd.AddCommand(penaltiesCmd)
}

var penaltiesCmd = &cobra.Command{
	Use:   "penalties",
	Short: "wallet penalty operations",
}

var penaltiesRunCmd = &cobra.Command{
	Use:   "run",
	Short: "run the penalty check once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		loc, err := time.LoadLocation(cfg.PenaltyTimezone)
		if err != nil {
			return fmt.Errorf("load timezone %q: %w", cfg.PenaltyTimezone, err)
		}
		day, err := parseDay(penaltyDay, time.Now().In(loc))
		if err != nil {
			return err
		}

		db, err := database.Open(cfg.DSN())
		if err != nil {
			return err
		}

		report, err := wallet.NewService(db, log).RunPenaltyCheck(cmd.Context(), day)
		if err != nil {
			return err
		}
		log.Info("penalty check finished",
			zap.String("day", report.Day),
			zap.Int("checked", report.Checked),
			zap.Int("missed", report.Missed),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed),
		)
		return nil
	},
}

// parseDay reads a YYYY-MM-DD flag in now's location; empty means the day before now.
func parseDay(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return wallet.PreviousDay(now), nil
	}
	day, err := time.ParseInLocation(wallet.DayLayout, raw, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --day %q: %w", raw, err)
	}
	return day, nil
}
