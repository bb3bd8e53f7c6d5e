package repository

import (
	"context"
	"errors"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// BoardFilter narrows GetOwned. Zero values mean "any".
type BoardFilter struct {
	BoardType model.BoardType
	IsActive  *bool
	Search    string
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Omit("Owner", "Columns").Create(board).Error
}

func (r *BoardRepository) GetOwned(ctx context.Context, ownerID uuid.UUID, filter BoardFilter) ([]model.Board, error) {
	var boards []model.Board
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if filter.BoardType != "" {
		q = q.Where("board_type = ?", filter.BoardType)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("(LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?))", pattern, pattern)
	}
	err := q.Order("created_at DESC").Find(&boards).Error
	return boards, err
}

// GetOwnedByID returns ErrBoardNotFound for boards that do not exist or belong to someone else.
func (r *BoardRepository) GetOwnedByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBoardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// GetWithColumnsAndCards loads a board together with its ordered columns and their ordered cards.
func (r *BoardRepository) GetWithColumnsAndCards(ctx context.Context, id, ownerID uuid.UUID) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).
		Preload("Columns", func(db *gorm.DB) *gorm.DB { return db.Order("position, name") }).
		Preload("Columns.Cards", func(db *gorm.DB) *gorm.DB { return db.Order("position, created_at") }).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBoardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Omit("Owner", "Columns").Save(board).Error
}

func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Board{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBoardNotFound
	}
	return nil
}
