package domain

import (
	"time"

	"github.com/google/uuid"
)

// SpendingEntry is a single spending event in the user's ledger.
// CategoryID may point at a soft-deleted category; CategoryLabel keeps the
// display name usable even then.
type SpendingEntry struct {
	ID            uuid.UUID
	OwnerID       string
	Amount        float64
	CurrencyCode  string
	CategoryID    *uuid.UUID
	CategoryLabel *string
	OccurredAt    time.Time
	CreatedAt     time.Time
}

// Validate checks the entry invariants before a write.
// Amount must be strictly positive and the currency must be supported.
func (e SpendingEntry) Validate() error {
	var errs []FieldError

	if e.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must be positive"})
	}
	if _, ok := FindCurrency(e.CurrencyCode); !ok {
		errs = append(errs, FieldError{Field: "currency_code", Message: "unsupported currency"})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
