package preference

import (
	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// UpdateInput holds the partial preference update. Nil fields are left
// untouched.
type UpdateInput struct {
	CurrencyCode         *string
	Theme                *domain.Theme
	NotificationsEnabled *bool
}

// Validate checks field values against the known option sets.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.CurrencyCode != nil {
		if _, ok := domain.FindCurrency(*i.CurrencyCode); !ok {
			errs = append(errs, domain.FieldError{Field: "currency_code", Message: "unsupported currency"})
		}
	}
	if i.Theme != nil && !domain.ValidTheme(*i.Theme) {
		errs = append(errs, domain.FieldError{Field: "theme", Message: "must be light, dark, or auto"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
