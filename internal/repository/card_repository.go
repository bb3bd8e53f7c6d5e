package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// CardFilter narrows List. Zero values mean "any".
type CardFilter struct {
	BoardID  uuid.UUID
	ColumnID uuid.UUID
	// OverdueAt keeps only cards whose due date is before it and that are not completed.
	OverdueAt *time.Time
}

// Create adds a new card to the database
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Omit("Column", "Assignee").Create(card).Error
}

func (r *CardRepository) owned(ctx context.Context, ownerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Joins("JOIN columns ON columns.id = cards.column_id").
		Joins("JOIN boards ON boards.id = columns.board_id").
		Where("boards.owner_id = ?", ownerID)
}

// GetOwnedByID retrieves a card whose board belongs to ownerID
func (r *CardRepository) GetOwnedByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Card, error) {
	var card model.Card
	if err := r.owned(ctx, ownerID).Where("cards.id = ?", id).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

// LockOwnedByID is GetOwnedByID with a row lock on the card
func (r *CardRepository) LockOwnedByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Card, error) {
	var card model.Card
	if err := r.owned(ctx, ownerID).Clauses(forUpdate).Where("cards.id = ?", id).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

// LockOwnedByIDs locks and returns the subset of ids visible to ownerID.
// Unknown or foreign ids are silently dropped.
func (r *CardRepository) LockOwnedByIDs(ctx context.Context, ids []uuid.UUID, ownerID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	if len(ids) == 0 {
		return cards, nil
	}
	err := r.owned(ctx, ownerID).Clauses(forUpdate).
		Where("cards.id IN ?", ids).
		Order("cards.id").
		Find(&cards).Error
	return cards, err
}

// GetOwnedByIDs returns the subset of ids visible to ownerID.
func (r *CardRepository) GetOwnedByIDs(ctx context.Context, ids []uuid.UUID, ownerID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	if len(ids) == 0 {
		return cards, nil
	}
	err := r.owned(ctx, ownerID).Where("cards.id IN ?", ids).Order("cards.position, cards.created_at").Find(&cards).Error
	return cards, err
}

// List retrieves the owner's cards ordered by column position then card position
func (r *CardRepository) List(ctx context.Context, ownerID uuid.UUID, filter CardFilter) ([]model.Card, error) {
	var cards []model.Card
	q := r.owned(ctx, ownerID)
	if filter.BoardID != uuid.Nil {
		q = q.Where("columns.board_id = ?", filter.BoardID)
	}
	if filter.ColumnID != uuid.Nil {
		q = q.Where("cards.column_id = ?", filter.ColumnID)
	}
	if filter.OverdueAt != nil {
		q = q.Where("cards.due_date < ? AND cards.completed_at IS NULL", *filter.OverdueAt)
	}
	err := q.Order("columns.position, cards.position, cards.created_at").Find(&cards).Error
	return cards, err
}

// ListByBoard retrieves every card on a board
func (r *CardRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Where("column_id IN (?)", r.db.Model(&model.Column{}).Select("id").Where("board_id = ?", boardID)).
		Find(&cards).Error
	return cards, err
}

// OnBoard returns the subset of ids that belong to cards on boardID
func (r *CardRepository) OnBoard(ctx context.Context, ids []uuid.UUID, boardID uuid.UUID) ([]uuid.UUID, error) {
	var found []uuid.UUID
	if len(ids) == 0 {
		return found, nil
	}
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Joins("JOIN columns ON columns.id = cards.column_id").
		Where("cards.id IN ? AND columns.board_id = ?", ids, boardID).
		Pluck("cards.id", &found).Error
	return found, err
}

// CountByColumn returns how many cards a column currently holds
func (r *CardRepository) CountByColumn(ctx context.Context, columnID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Card{}).Where("column_id = ?", columnID).Count(&count).Error
	return count, err
}

// MaxPosition returns the highest card position in a column, or 0 when it is empty
func (r *CardRepository) MaxPosition(ctx context.Context, columnID uuid.UUID) (int, error) {
	var maxPosition struct {
		Max int
	}
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Select("COALESCE(MAX(position), 0) as max").
		Where("column_id = ?", columnID).
		Scan(&maxPosition).Error
	return maxPosition.Max, err
}

// Update writes every field of the card
func (r *CardRepository) Update(ctx context.Context, card *model.Card) error {
	result := r.db.WithContext(ctx).Omit("Column", "Assignee").Save(card)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// IDsByColumns returns the ids of every card held by the given columns
func (r *CardRepository) IDsByColumns(ctx context.Context, columnIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if len(columnIDs) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).Model(&model.Card{}).Where("column_id IN ?", columnIDs).Pluck("id", &ids).Error
	return ids, err
}

// CountOpenDueBefore counts cards on the user's boards or assigned to the user
// that were due before cutoff and are still not completed.
func (r *CardRepository) CountOpenDueBefore(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Joins("JOIN columns ON columns.id = cards.column_id").
		Joins("JOIN boards ON boards.id = columns.board_id").
		Where("(boards.owner_id = ? OR cards.assigned_to = ?)", userID, userID).
		Where("cards.due_date < ? AND cards.completed_at IS NULL", cutoff).
		Count(&count).Error
	return count, err
}

// DeleteByIDs removes cards. Only column/board cascades call this.
func (r *CardRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Card{}).Error
}
