package domain

import (
	"errors"
	"testing"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("amount", "must be positive")

	if got := err.Error(); got != "validation: amount: must be positive" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "amount", Message: "must be positive"},
		{Field: "currency_code", Message: "unsupported currency"},
	})

	if got := err.Error(); got != "validation: 2 errors" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if len(err.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(err.Errors))
	}
}

func TestAuthError(t *testing.T) {
	t.Parallel()

	err := NewAuthError("invalid_credentials", "wrong email or password")

	if !errors.Is(err, ErrUnauthorized) {
		t.Fatal("errors.Is(err, ErrUnauthorized) = false")
	}
	if IsNetworkAuthError(err) {
		t.Error("invalid_credentials should not classify as network error")
	}

	netErr := NewAuthError("network", "connection refused")
	if !IsNetworkAuthError(netErr) {
		t.Error("network AuthError not detected")
	}
}

func TestErrDuplicateName_UnwrapsToAlreadyExists(t *testing.T) {
	t.Parallel()

	if !errors.Is(ErrDuplicateName, ErrAlreadyExists) {
		t.Fatal("ErrDuplicateName must unwrap to ErrAlreadyExists")
	}
}
