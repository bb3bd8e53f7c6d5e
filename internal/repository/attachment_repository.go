package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, attachment *model.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *AttachmentRepository) GetOwnedByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Attachment, error) {
	var attachment model.Attachment
	err := r.db.WithContext(ctx).
		Joins("JOIN cards ON cards.id = attachments.card_id").
		Joins("JOIN columns ON columns.id = cards.column_id").
		Joins("JOIN boards ON boards.id = columns.board_id").
		Where("attachments.id = ? AND boards.owner_id = ?", id, ownerID).
		First(&attachment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

// ListByCard returns attachments newest first
func (r *AttachmentRepository) ListByCard(ctx context.Context, cardID uuid.UUID) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.db.WithContext(ctx).Where("card_id = ?", cardID).Order("created_at DESC").Find(&attachments).Error
	return attachments, err
}

func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Attachment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}

// PathsByCardIDs lists stored paths so cascaded deletes can clean the file store.
func (r *AttachmentRepository) PathsByCardIDs(ctx context.Context, cardIDs []uuid.UUID) ([]string, error) {
	var paths []string
	if len(cardIDs) == 0 {
		return paths, nil
	}
	err := r.db.WithContext(ctx).Model(&model.Attachment{}).Where("card_id IN ?", cardIDs).Pluck("stored_path", &paths).Error
	return paths, err
}

func (r *AttachmentRepository) DeleteByCardIDs(ctx context.Context, cardIDs []uuid.UUID) error {
	if len(cardIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("card_id IN ?", cardIDs).Delete(&model.Attachment{}).Error
}
