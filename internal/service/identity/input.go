package identity

import (
	"strings"

	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// CredentialsInput holds parameters for email sign-up and sign-in.
type CredentialsInput struct {
	Email    string
	Password string
}

// Validate validates the credentials input.
func (i CredentialsInput) Validate() error {
	var errs []domain.FieldError

	if err := validateEmail(i.Email); err != nil {
		errs = append(errs, domain.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if err := validatePassword(i.Password); err != nil {
		errs = append(errs, domain.FieldError{Field: "password", Message: "must be at least 6 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return domain.NewValidationError("email", "must be a valid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return domain.NewValidationError("password", "must be at least 6 characters")
	}
	return nil
}
