/*
errors.go - Error types for the inventory domain

PURPOSE:
  All domain error categories in one place. The API layer maps them to
  HTTP statuses with errors.Is/As:
    validation -> 400, not-found -> 404, unauthorized -> 401.
  Storage failures are not wrapped into a domain category; they
  propagate as-is and surface as 500s.
*/
package inventory

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of every missing/empty-field failure.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned for admin operations without the
	// matching secret key.
	ErrUnauthorized = errors.New("unauthorized")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a missing or empty required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s required", e.Field)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// RowNotFoundError reports a patch against a count row id that does not
// exist in the session.
type RowNotFoundError struct {
	SessionID string
	ID        int
}

func (e *RowNotFoundError) Error() string {
	return fmt.Sprintf("row %d not found in session %s", e.ID, e.SessionID)
}

func (e *RowNotFoundError) Unwrap() error { return ErrNotFound }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err indicates a missing row.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
