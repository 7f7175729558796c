package domain

import "fmt"

// ValidationError marks malformed caller input (value, time string, limit).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a lookup that resolved to no record.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// ConflictError marks a would-be duplicate under a uniqueness invariant.
// It should not surface in normal operation; seeing one means an idempotence
// contract was violated upstream.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }
