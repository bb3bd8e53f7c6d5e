package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultColumnColor = "#6B7280"

type Column struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_columns_board_name;index:idx_columns_board_position,priority:1"`
	Name      string    `gorm:"not null;uniqueIndex:idx_columns_board_name"`
	Position  int       `gorm:"not null;default:0;index:idx_columns_board_position,priority:2"`
	WIPLimit  *int      `gorm:"column:wip_limit"`
	Color     string    `gorm:"not null;default:'#6B7280'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Board Board  `gorm:"foreignKey:BoardID"`
	Cards []Card `gorm:"foreignKey:ColumnID"`
}

func (c *Column) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsWIPLimitReached reports whether a column holding cardCount cards can take no more.
func (c Column) IsWIPLimitReached(cardCount int64) bool {
	return c.WIPLimit != nil && cardCount >= int64(*c.WIPLimit)
}
