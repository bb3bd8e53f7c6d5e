package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard/internal/metrics"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// DayLayout formats penalty days.
const DayLayout = "2006-01-02"

const recentTransactions = 20

var ErrInvalidAmount = errors.New("invalid amount")

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log}
}

type Summary struct {
	Balance             decimal.Decimal
	PenaltyPerMiss      decimal.Decimal
	ConsecutiveFailures int
	Transactions        []model.WalletTransaction
}

func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	user, err := repository.NewUserRepository(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, repository.ErrUserNotFound
	}
	txns, err := repository.NewWalletRepository(s.db).ListRecent(ctx, userID, recentTransactions)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Balance:             user.WalletBalance,
		PenaltyPerMiss:      user.PenaltyPerMiss,
		ConsecutiveFailures: user.ConsecutiveFailures,
		Transactions:        txns,
	}, nil
}

// Deposit credits a positive amount to the user's wallet.
func (s *Service) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*model.User, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit must be greater than 0", ErrInvalidAmount)
	}
	var user *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		var err error
		user, err = users.LockByID(ctx, userID)
		if err != nil {
			return err
		}
		user.WalletBalance = user.WalletBalance.Add(amount)
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		return repository.NewWalletRepository(tx).Create(ctx, &model.WalletTransaction{
			UserID: userID,
			Amount: amount,
			Kind:   model.TransactionDeposit,
		})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) SetPenalty(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*model.User, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: penalty must not be negative", ErrInvalidAmount)
	}
	var user *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		var err error
		user, err = users.LockByID(ctx, userID)
		if err != nil {
			return err
		}
		user.PenaltyPerMiss = amount
		return users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Report summarises one penalty run.
type Report struct {
	Day     string
	Checked int
	Missed  int
	Skipped int
	Failed  int
}

// RunPenaltyCheck charges every user who left a card open past its due date
// on day. Users already charged for day are skipped, so reruns are safe.
// Each user is handled in its own transaction; one failure does not stop the run.
func (s *Service) RunPenaltyCheck(ctx context.Context, day time.Time) (*Report, error) {
	report := &Report{Day: day.Format(DayLayout)}
	cutoff := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, day.Location())

	ids, err := repository.NewUserRepository(s.db).ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Checked++
		outcome, err := s.checkUser(ctx, id, report.Day, cutoff)
		if err != nil {
			report.Failed++
			s.log.Error("penalty check failed", zap.Stringer("user_id", id), zap.String("day", report.Day), zap.Error(err))
			continue
		}
		switch outcome {
		case outcomeMissed:
			report.Missed++
		case outcomeSkipped:
			report.Skipped++
		}
	}

	s.log.Info("penalty check finished",
		zap.String("day", report.Day),
		zap.Int("checked", report.Checked),
		zap.Int("missed", report.Missed),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

type outcome int

const (
	outcomeClean outcome = iota
	outcomeMissed
	outcomeSkipped
)

func (s *Service) checkUser(ctx context.Context, userID uuid.UUID, day string, cutoff time.Time) (outcome, error) {
	result := outcomeClean
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		wallets := repository.NewWalletRepository(tx)

		user, err := users.LockByID(ctx, userID)
		if err != nil {
			return err
		}
		charged, err := wallets.HasPenaltyFor(ctx, userID, day)
		if err != nil {
			return err
		}
		if charged {
			result = outcomeSkipped
			return nil
		}

		missed, err := repository.NewCardRepository(tx).CountOpenDueBefore(ctx, userID, cutoff)
		if err != nil {
			return err
		}
		if missed == 0 {
			user.ConsecutiveFailures = 0
			return users.Update(ctx, user)
		}

		charge := decimal.Min(user.PenaltyPerMiss, user.WalletBalance)
		if charge.IsNegative() {
			charge = decimal.Zero
		}
		user.WalletBalance = user.WalletBalance.Sub(charge)
		user.ConsecutiveFailures++
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		penaltyDay := day
		if err := wallets.Create(ctx, &model.WalletTransaction{
			UserID:      userID,
			Amount:      charge.Neg(),
			Kind:        model.TransactionPenalty,
			PenaltyDate: &penaltyDay,
		}); err != nil {
			return err
		}
		result = outcomeMissed
		return nil
	})
	if err != nil {
		return outcomeClean, err
	}
	if result == outcomeMissed {
		metrics.PenaltiesCharged.Inc()
	}
	return result, nil
}
