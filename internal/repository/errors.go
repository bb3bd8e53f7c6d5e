package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm/clause"
)

// ErrNotFound is wrapped by every entity-specific not-found error.
var ErrNotFound = errors.New("not found")

// Common repository errors
var (
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrBoardNotFound      = fmt.Errorf("board %w", ErrNotFound)
	ErrColumnNotFound     = fmt.Errorf("column %w", ErrNotFound)
	ErrCardNotFound       = fmt.Errorf("card %w", ErrNotFound)
	ErrSprintNotFound     = fmt.Errorf("sprint %w", ErrNotFound)
	ErrCommentNotFound    = fmt.Errorf("comment %w", ErrNotFound)
	ErrAttachmentNotFound = fmt.Errorf("attachment %w", ErrNotFound)
)

// forUpdate locks the selected rows of the statement's own table until the
// surrounding transaction ends.
var forUpdate = clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}}
