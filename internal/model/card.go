package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

type CardStatus string

const (
	StatusNormal  CardStatus = "normal"
	StatusAtRisk  CardStatus = "at_risk"
	StatusBlocked CardStatus = "blocked"
	StatusOverdue CardStatus = "overdue"
)

var CardStatuses = []CardStatus{StatusNormal, StatusAtRisk, StatusBlocked, StatusOverdue}

func (s CardStatus) Valid() bool {
	for _, v := range CardStatuses {
		if s == v {
			return true
		}
	}
	return false
}

const DefaultEstimatedHours = 1.0

type Card struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ColumnID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_cards_column_position,priority:1"`
	Title          string     `gorm:"not null"`
	Description    string
	AssignedTo     *uuid.UUID `gorm:"type:uuid;index:idx_cards_assignee_status,priority:1"`
	CreatedBy      uuid.UUID  `gorm:"type:uuid;not null"`
	Position       int        `gorm:"not null;default:0;index:idx_cards_column_position,priority:2"`
	EstimatedHours float64    `gorm:"type:numeric(5,2);not null"`
	ActualHours    float64    `gorm:"type:numeric(5,2);not null;default:0"`
	Priority       Priority   `gorm:"not null;default:medium"`
	Status         CardStatus `gorm:"not null;default:normal;index:idx_cards_assignee_status,priority:2"`
	Tags           []string   `gorm:"serializer:json"`
	DueDate        *time.Time `gorm:"index"`
	StartedAt      *time.Time
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Column   Column `gorm:"foreignKey:ColumnID"`
	Assignee *User  `gorm:"foreignKey:AssignedTo"`
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsOverdue is true when the card has a due date in the past and is not completed.
func (c Card) IsOverdue(now time.Time) bool {
	return c.DueDate != nil && c.CompletedAt == nil && c.DueDate.Before(now)
}

// CompletionPercentage relates logged hours to the estimate, clamped to 100.
func (c Card) CompletionPercentage() float64 {
	if c.EstimatedHours == 0 {
		return 0
	}
	return min(100, c.ActualHours/c.EstimatedHours*100)
}
