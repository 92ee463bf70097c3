package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for profile operations.
var (
	// ErrProfileNotFound indicates the requested profile does not exist.
	// HTTP Status: 404 Not Found
	ErrProfileNotFound = errors.New("profile not found")

	// ErrEmailTaken indicates another profile already uses the email.
	// HTTP Status: 409 Conflict
	ErrEmailTaken = errors.New("email already exists")

	// ErrInvalidEmail indicates the provided email address is invalid.
	// HTTP Status: 400 Bad Request
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrValidation indicates a missing or malformed field.
	// HTTP Status: 400 Bad Request
	ErrValidation = errors.New("validation failed")

	// ErrMalformedCSV indicates the uploaded file could not be parsed as a profile table.
	// HTTP Status: 400 Bad Request
	ErrMalformedCSV = errors.New("error parsing CSV file")
)

// FieldError reports a problem with one profile field.
type FieldError struct {
	Field  string
	Reason string
}

// MissingField returns the error for an absent required field.
func MissingField(field string) *FieldError {
	return &FieldError{Field: field, Reason: "Missing required field"}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Field)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *FieldError) Unwrap() error {
	return ErrValidation
}
