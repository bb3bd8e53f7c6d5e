package workflow

import (
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/repository"
)

var (
	ErrCapacityExceeded = errors.New("wip limit reached")
	ErrAlreadyStarted   = errors.New("card already started")
	ErrAlreadyCompleted = errors.New("card already completed")
	ErrAlreadyActive    = errors.New("sprint already active")
	ErrNotAuthor        = errors.New("only the author can change this comment")
	ErrInvalidField     = errors.New("invalid field")
	ErrValidation       = errors.New("validation failed")

	// ErrNotFound matches every repository not-found error.
	ErrNotFound = repository.ErrNotFound
)

// CapacityExceededError is returned when a column is already holding as many
// cards as its WIP limit allows.
type CapacityExceededError struct {
	Column string
	Limit  int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("WIP limit reached for column '%s' (%d cards)", e.Column, e.Limit)
}

func (e *CapacityExceededError) Unwrap() error { return ErrCapacityExceeded }

// InvalidFieldError lists the bulk-update keys outside the allow-list.
type InvalidFieldError struct {
	Fields []string
}

func (e *InvalidFieldError) Error() string {
	return "invalid fields for bulk update: " + strings.Join(e.Fields, ", ")
}

func (e *InvalidFieldError) Unwrap() error { return ErrInvalidField }

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
