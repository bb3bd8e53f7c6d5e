package wallet

import (
	"context"
	"fmt"
	"time"

	cron "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the penalty check for the day that just ended.
type Scheduler struct {
	cron    *cron.Cron
	service *Service
	loc     *time.Location
	log     *zap.Logger
}

func NewScheduler(service *Service, spec, timezone string, log *zap.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid penalty schedule %q: %w", spec, err)
	}

	s := &Scheduler{service: service, loc: loc, log: log}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.PrintfLogger(zap.NewStdLog(log)))),
	)
	if _, err := s.cron.AddFunc(spec, s.runPreviousDay); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) runPreviousDay() {
	day := PreviousDay(time.Now().In(s.loc))
	if _, err := s.service.RunPenaltyCheck(context.Background(), day); err != nil {
		s.log.Error("scheduled penalty check failed", zap.Time("day", day), zap.Error(err))
	}
}

// Start runs the schedule until ctx is done, then waits for a running check to finish.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("penalty scheduler started", zap.Stringer("timezone", s.loc))
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Info("penalty scheduler stopped")
}

// PreviousDay is midnight of the day before now, in now's location.
func PreviousDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, now.Location())
}
