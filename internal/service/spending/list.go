package spending

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pgentry "github.com/spendcheck/spendcheck-go/internal/adapter/postgres/entry"
	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// ListInput narrows a listing. Zero values mean "no constraint".
type ListInput struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *uuid.UUID
	Limit      int
}

// List returns the current identity's entries, newest first. Filtered
// listings always go to the store; an unfiltered listing is served from the
// working set once it is loaded.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.SpendingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, fmt.Errorf("spending.List: %w", err)
	}

	if input.StartDate == nil && input.EndDate == nil && input.CategoryID == nil {
		n := len(s.entries)
		if input.Limit > 0 && input.Limit < n {
			n = input.Limit
		}
		out := make([]domain.SpendingEntry, n)
		copy(out, s.entries[:n])
		return out, nil
	}

	entries, err := s.repo.ListForOwner(ctx, id.ID, pgentry.Filter{
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		CategoryID: input.CategoryID,
		Limit:      input.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("spending.List: %w", err)
	}
	return entries, nil
}

// Recent returns up to n of the newest entries.
func (s *Service) Recent(ctx context.Context, n int) ([]domain.SpendingEntry, error) {
	return s.List(ctx, ListInput{Limit: n})
}
