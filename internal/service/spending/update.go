package spending

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	pgentry "github.com/spendcheck/spendcheck-go/internal/adapter/postgres/entry"
	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// UpdateInput holds the partial entry update. Nil fields are left untouched.
type UpdateInput struct {
	Amount       *float64
	CurrencyCode *string
	CategoryID   *uuid.UUID
	OccurredAt   *time.Time
}

// Update modifies an entry owned by the current identity and returns the
// stored record. Changing the category also refreshes the frozen label.
func (s *Service) Update(ctx context.Context, entryID uuid.UUID, input UpdateInput) (*domain.SpendingEntry, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, fmt.Errorf("spending.Update: %w", err)
	}

	changes := pgentry.Changes{
		Amount:       input.Amount,
		CurrencyCode: input.CurrencyCode,
		CategoryID:   input.CategoryID,
		OccurredAt:   input.OccurredAt,
	}
	if input.CategoryID != nil {
		label, err := s.resolveLabel(ctx, *input.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("spending.Update: %w", err)
		}
		changes.CategoryLabel = &label
	}

	updated, err := s.repo.Update(ctx, id.ID, entryID, changes)
	if err != nil {
		return nil, fmt.Errorf("spending.Update: %w", err)
	}

	for i := range s.entries {
		if s.entries[i].ID == entryID {
			s.entries[i] = *updated
			break
		}
	}

	s.log.InfoContext(ctx, "entry updated",
		slog.String("user_id", id.ID),
		slog.String("entry_id", entryID.String()))
	return updated, nil
}

func (input UpdateInput) validate() error {
	var errs []domain.FieldError

	if input.Amount != nil && *input.Amount <= 0 {
		errs = append(errs, domain.FieldError{Field: "amount", Message: "must be positive"})
	}
	if input.CurrencyCode != nil {
		if _, ok := domain.FindCurrency(*input.CurrencyCode); !ok {
			errs = append(errs, domain.FieldError{Field: "currency_code", Message: "unsupported currency"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
