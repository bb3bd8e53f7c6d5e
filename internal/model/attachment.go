package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment holds file metadata only; the bytes live in the file store.
type Attachment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CardID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Filename   string    `gorm:"not null"`
	FileSize   int64     `gorm:"not null"`
	StoredPath string    `gorm:"not null"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
