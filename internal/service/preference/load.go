package preference

import (
	"context"
	"errors"
	"fmt"

	"github.com/spendcheck/spendcheck-go/internal/domain"
	"github.com/spendcheck/spendcheck-go/internal/localstore"
)

// Load returns the current identity's preferences. Real identities read the
// remote row, creating the default one (USD, auto theme, notifications on)
// if absent. Anonymous identities read the device-local guest currency over
// the defaults.
func (s *Service) Load(ctx context.Context) (*domain.Preference, error) {
	id, err := s.identity.EnsureValidSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("preference.Load: %w", err)
	}

	if id.IsAnonymous() {
		return s.loadLocal(ctx, id)
	}

	p, err := s.repo.EnsureDefault(ctx, id.ID)
	if err != nil {
		return nil, fmt.Errorf("preference.Load: %w", err)
	}
	return p, nil
}

// loadLocal builds a guest preference from defaults plus any locally stored
// currency. A missing local value is not an error.
func (s *Service) loadLocal(ctx context.Context, id domain.Identity) (*domain.Preference, error) {
	p := domain.DefaultPreference(id.ID)

	var currency domain.Currency
	err := s.local.GetJSON(ctx, localstore.KeyCurrency, &currency)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// fresh guest, defaults apply
	case err != nil:
		return nil, fmt.Errorf("preference.Load: %w", err)
	default:
		if full, ok := domain.FindCurrency(currency.Code); ok {
			p.CurrencyCode = full.Code
			p.CurrencySymbol = full.Symbol
			p.CurrencyName = full.Name
		}
	}

	return &p, nil
}
