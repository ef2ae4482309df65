package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrMigration     = errors.New("migration failed")
)

// ErrDuplicateName is returned when a category name collides with an active
// category (system default or owned) under case-insensitive comparison.
var ErrDuplicateName = fmt.Errorf("duplicate name: %w", ErrAlreadyExists)

// AuthError describes a failure reported by the auth service or the lack of
// network connectivity to it. It unwraps to ErrUnauthorized so callers can
// match the whole class with errors.Is.
type AuthError struct {
	Code    string // e.g. "invalid_credentials", "user_already_exists", "network"
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth: %s", e.Code)
	}
	return fmt.Sprintf("auth: %s: %s", e.Code, e.Message)
}

func (e *AuthError) Unwrap() error { return ErrUnauthorized }

// NewAuthError creates an AuthError with the given code and message.
func NewAuthError(code, message string) *AuthError {
	return &AuthError{Code: code, Message: message}
}

// IsNetworkAuthError reports whether err is an AuthError caused by the auth
// service being unreachable rather than by a rejected credential.
func IsNetworkAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Code == "network"
}

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
