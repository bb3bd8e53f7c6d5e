package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Omit("Author").Create(comment).Error
}

// GetOwnedByID finds a comment on a card whose board belongs to ownerID
func (r *CommentRepository) GetOwnedByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).
		Joins("JOIN cards ON cards.id = comments.card_id").
		Joins("JOIN columns ON columns.id = cards.column_id").
		Joins("JOIN boards ON boards.id = columns.board_id").
		Where("comments.id = ? AND boards.owner_id = ?", id, ownerID).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByCard returns comments oldest first; limit <= 0 means no limit
func (r *CommentRepository) ListByCard(ctx context.Context, cardID uuid.UUID, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	q := r.db.WithContext(ctx).Preload("Author").Where("card_id = ?", cardID).Order("created_at")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) Update(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Omit("Author").Save(comment).Error
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Comment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) DeleteByCardIDs(ctx context.Context, cardIDs []uuid.UUID) error {
	if len(cardIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("card_id IN ?", cardIDs).Delete(&model.Comment{}).Error
}
