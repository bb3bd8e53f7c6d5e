package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Sprint struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	BoardID              uuid.UUID `gorm:"type:uuid;not null;index:idx_sprints_board_active,priority:1"`
	Name                 string    `gorm:"not null"`
	Goal                 string
	StartDate            time.Time `gorm:"not null"`
	EndDate              time.Time `gorm:"not null"`
	IsActive             bool      `gorm:"not null;default:false;index:idx_sprints_board_active,priority:2"`
	IsCompleted          bool      `gorm:"not null;default:false"`
	PlannedHours         float64   `gorm:"type:numeric(6,2);not null;default:0"`
	ActualHours          float64   `gorm:"type:numeric(6,2);not null;default:0"`
	PlannedStoryPoints   int       `gorm:"not null;default:0"`
	CompletedStoryPoints int       `gorm:"not null;default:0"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Board Board `gorm:"foreignKey:BoardID"`
}

func (s *Sprint) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SprintCard links a card to a sprint. A card may belong to several sprints.
type SprintCard struct {
	SprintID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CardID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (s Sprint) DurationDays() int {
	return int(s.EndDate.Sub(s.StartDate).Hours() / 24)
}

// Velocity is completed story points as a percentage of planned ones.
func (s Sprint) Velocity() float64 {
	if s.PlannedStoryPoints == 0 {
		return 0
	}
	return float64(s.CompletedStoryPoints) / float64(s.PlannedStoryPoints) * 100
}

// CompletionRate is the share of linked cards that are completed, in percent.
func CompletionRate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
