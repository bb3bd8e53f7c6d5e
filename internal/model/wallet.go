package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionKind string

const (
	TransactionDeposit TransactionKind = "deposit"
	TransactionPenalty TransactionKind = "penalty"
)

type WalletTransaction struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID       `gorm:"type:uuid;not null;index:idx_wallet_user_day,priority:1"`
	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Kind   TransactionKind `gorm:"not null;index:idx_wallet_user_day,priority:2"`
	// PenaltyDate is the day a penalty was charged for, formatted YYYY-MM-DD.
	PenaltyDate *string   `gorm:"index:idx_wallet_user_day,priority:3"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (w *WalletTransaction) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
