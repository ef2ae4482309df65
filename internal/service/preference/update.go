package preference

import (
	"context"
	"fmt"
	"log/slog"

	pgpref "github.com/spendcheck/spendcheck-go/internal/adapter/postgres/preference"
	"github.com/spendcheck/spendcheck-go/internal/domain"
	"github.com/spendcheck/spendcheck-go/internal/localstore"
)

// Update applies validated changes for the current identity. Real identities
// write through to the remote row; anonymous identities persist the currency
// locally (guest mode carries no theme or notification state).
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.Preference, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	id, err := s.identity.EnsureValidSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("preference.Update: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id.IsAnonymous() {
		return s.updateLocal(ctx, id, input)
	}

	changes := pgpref.Changes{
		Theme:                input.Theme,
		NotificationsEnabled: input.NotificationsEnabled,
	}
	if input.CurrencyCode != nil {
		currency, _ := domain.FindCurrency(*input.CurrencyCode)
		changes.Currency = &currency
	}

	// The row may not exist yet if Update races ahead of the first Load.
	if _, err := s.repo.EnsureDefault(ctx, id.ID); err != nil {
		return nil, fmt.Errorf("preference.Update: %w", err)
	}

	p, err := s.repo.Update(ctx, id.ID, changes)
	if err != nil {
		return nil, fmt.Errorf("preference.Update: %w", err)
	}

	s.log.InfoContext(ctx, "preferences updated", slog.String("user_id", id.ID))
	return p, nil
}

func (s *Service) updateLocal(ctx context.Context, id domain.Identity, input UpdateInput) (*domain.Preference, error) {
	if input.CurrencyCode != nil {
		currency, _ := domain.FindCurrency(*input.CurrencyCode)
		if err := s.local.SetJSON(ctx, localstore.KeyCurrency, currency); err != nil {
			return nil, fmt.Errorf("preference.Update: %w", err)
		}
	}
	return s.loadLocal(ctx, id)
}
