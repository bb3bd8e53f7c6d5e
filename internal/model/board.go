package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardType string

const (
	BoardTypePersonal BoardType = "personal"
	BoardTypeProject  BoardType = "project"
	BoardTypeSprint   BoardType = "sprint"
)

func (t BoardType) Valid() bool {
	switch t {
	case BoardTypePersonal, BoardTypeProject, BoardTypeSprint:
		return true
	}
	return false
}

// DefaultColumnNames is the five-stage template used when a board is created
// without its own column list.
var DefaultColumnNames = []string{"Backlog", "To Do", "In Progress", "Review", "Done"}

type Board struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID        uuid.UUID `gorm:"type:uuid;not null;index:idx_boards_owner_active"`
	Name           string    `gorm:"not null"`
	Description    string
	BoardType      BoardType `gorm:"not null;default:personal"`
	IsActive       bool      `gorm:"not null;index:idx_boards_owner_active"`
	DefaultColumns []string  `gorm:"serializer:json"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Owner   User     `gorm:"foreignKey:OwnerID"`
	Columns []Column `gorm:"foreignKey:BoardID"`
}

func (b *Board) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
