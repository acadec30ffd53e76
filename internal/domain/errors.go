package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("time range conflicts with an existing meeting")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already in use")
)

// ValidationError reports malformed input. It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConflictError reports an overlap with a scheduled meeting. Meeting is nil when
// the conflict was detected by the storage layer without details.
type ConflictError struct {
	Meeting *Meeting
}

func (e *ConflictError) Error() string {
	if e.Meeting == nil {
		return ErrConflict.Error()
	}
	return fmt.Sprintf("%s: meeting %d %q [%s, %s)",
		ErrConflict.Error(),
		e.Meeting.ID,
		e.Meeting.Title,
		e.Meeting.StartTime.UTC().Format(time.RFC3339),
		e.Meeting.EndTime.UTC().Format(time.RFC3339),
	)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
