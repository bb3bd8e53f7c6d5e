package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) Create(ctx context.Context, txn *model.WalletTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// HasPenaltyFor reports whether the user was already charged for day (YYYY-MM-DD).
func (r *WalletRepository) HasPenaltyFor(ctx context.Context, userID uuid.UUID, day string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WalletTransaction{}).
		Where("user_id = ? AND kind = ? AND penalty_date = ?", userID, model.TransactionPenalty, day).
		Count(&count).Error
	return count > 0, err
}

func (r *WalletRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.WalletTransaction, error) {
	var txns []model.WalletTransaction
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&txns).Error
	return txns, err
}
