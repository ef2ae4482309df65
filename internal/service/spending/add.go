package spending

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// AddInput holds parameters for recording a spending entry. A zero
// OccurredAt means "now". CategoryID is optional; uncategorized entries
// display under the shared fallback.
type AddInput struct {
	Amount       float64
	CurrencyCode string
	CategoryID   *uuid.UUID
	OccurredAt   time.Time
}

// Add records a new spending entry for the current identity and returns the
// stored record. The category label is resolved and frozen at write time so
// deleting the category later does not blank historical entries.
func (s *Service) Add(ctx context.Context, input AddInput) (*domain.SpendingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, fmt.Errorf("spending.Add: %w", err)
	}

	e := domain.SpendingEntry{
		OwnerID:      id.ID,
		Amount:       input.Amount,
		CurrencyCode: input.CurrencyCode,
		CategoryID:   input.CategoryID,
		OccurredAt:   input.OccurredAt,
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		label, err := s.resolveLabel(ctx, *input.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("spending.Add: %w", err)
		}
		e.CategoryLabel = &label
	}

	created, err := s.repo.Insert(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("spending.Add: %w", err)
	}

	// Newest first, matching the store's list order.
	s.entries = append([]domain.SpendingEntry{*created}, s.entries...)

	s.log.InfoContext(ctx, "entry recorded",
		slog.String("user_id", id.ID),
		slog.String("entry_id", created.ID.String()),
		slog.Float64("amount", created.Amount),
		slog.String("currency", created.CurrencyCode))
	return created, nil
}
