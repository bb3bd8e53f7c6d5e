package repository

import (
	"context"
	"errors"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Omit("Board", "Cards").Create(column).Error
}

func (r *ColumnRepository) ownedQuery(ctx context.Context, id, ownerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Joins("JOIN boards ON boards.id = columns.board_id").
		Where("columns.id = ? AND boards.owner_id = ?", id, ownerID)
}

// GetOwnedByID returns the column if its board belongs to ownerID.
func (r *ColumnRepository) GetOwnedByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Column, error) {
	var column model.Column
	if err := r.ownedQuery(ctx, id, ownerID).First(&column).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

// LockOwnedByID is GetOwnedByID plus a row lock held until the transaction ends.
// Every operation that adds cards to a column takes this lock first, so WIP
// checks against the same column are serialized.
func (r *ColumnRepository) LockOwnedByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Column, error) {
	var column model.Column
	if err := r.ownedQuery(ctx, id, ownerID).Clauses(forUpdate).First(&column).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

func (r *ColumnRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("position, name").Find(&columns).Error
	return columns, err
}

// NameTaken reports whether another column on the board already uses name.
func (r *ColumnRepository) NameTaken(ctx context.Context, boardID uuid.UUID, name string, exceptID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Column{}).
		Where("board_id = ? AND name = ? AND id <> ?", boardID, name, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *ColumnRepository) Update(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Omit("Board", "Cards").Save(column).Error
}

func (r *ColumnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Column{}, "id = ?", id).Error
}

func (r *ColumnRepository) DeleteByBoardID(ctx context.Context, boardID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("board_id = ?", boardID).Delete(&model.Column{}).Error
}

func (r *ColumnRepository) GetMaxPosition(ctx context.Context, boardID uuid.UUID) (int, error) {
	var maxPosition struct {
		Max int
	}
	err := r.db.WithContext(ctx).Model(&model.Column{}).
		Select("COALESCE(MAX(position), 0) as max").
		Where("board_id = ?", boardID).
		Scan(&maxPosition).Error

	return maxPosition.Max, err
}

// ReorderColumns writes the given positions. Columns outside boardID are left untouched.
func (r *ColumnRepository) ReorderColumns(ctx context.Context, boardID uuid.UUID, columns []model.Column) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, column := range columns {
			if err := tx.Model(&model.Column{}).
				Where("id = ? AND board_id = ?", column.ID, boardID).
				Update("position", column.Position).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
