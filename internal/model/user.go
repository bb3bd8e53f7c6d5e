package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultPenaltyPerMiss is charged from the wallet for every missed day.
var DefaultPenaltyPerMiss = decimal.NewFromInt(50000)

type User struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Email               string          `gorm:"uniqueIndex;not null"`
	HashedPassword      string          `gorm:"not null"`
	Name                string          `gorm:"not null"`
	WalletBalance       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	PenaltyPerMiss      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:50000"`
	ConsecutiveFailures int             `gorm:"not null;default:0"`
	CreatedAt           time.Time       `gorm:"autoCreateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
