package models

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired means no authenticated user could be resolved for
	// an operation that needs an owner.
	ErrAuthRequired = errors.New("authentication required")

	// ErrNotCancellable means the delete matched no row owned by the
	// caller that is still in the scheduled state.
	ErrNotCancellable = errors.New("post is not cancellable")

	ErrPostNotFound = errors.New("post not found")
)

// Validation failure reasons.
const (
	ReasonMissingField = "missing_field"
	ReasonInvalidField = "invalid_field"
	ReasonPastSchedule = "past_schedule"
)

type ValidationError struct {
	Reason string
	Field  string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s (%s)", e.Reason, e.Field)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func NewMissingFieldError(field string) *ValidationError {
	return &ValidationError{Reason: ReasonMissingField, Field: field}
}

func NewPastScheduleError() *ValidationError {
	return &ValidationError{Reason: ReasonPastSchedule}
}

// PersistenceError wraps a store failure so callers can tell it apart
// from validation and publisher failures.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
