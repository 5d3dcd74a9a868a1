package bhandar

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a key is missing or expired.
	ErrNotFound = errors.New("bhandar: key not found")

	// ErrInvalid matches every *ValidationError with errors.Is.
	ErrInvalid = errors.New("bhandar: invalid argument")
)

// ValidationError reports a malformed key, value or TTL. It is never retried
// and never leaves a trace in the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes every ValidationError match ErrInvalid.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
