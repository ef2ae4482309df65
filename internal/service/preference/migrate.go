package preference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	pgpref "github.com/spendcheck/spendcheck-go/internal/adapter/postgres/preference"
	"github.com/spendcheck/spendcheck-go/internal/domain"
	"github.com/spendcheck/spendcheck-go/internal/localstore"
)

// MigrateFromGuest carries the device-local guest currency into the real
// identity's remote preference row. The guest value wins only while the
// remote row still holds the bootstrap currency; a currency the user already
// chose on the real account is never overwritten. The local copy is cleared
// afterward either way.
func (s *Service) MigrateFromGuest(ctx context.Context, realOwnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var guest domain.Currency
	err := s.local.GetJSON(ctx, localstore.KeyCurrency, &guest)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("preference.MigrateFromGuest: %w", err)
	}

	currency, ok := domain.FindCurrency(guest.Code)
	if !ok {
		// Unknown stored value, drop it.
		return s.clearLocal(ctx)
	}

	remote, err := s.repo.EnsureDefault(ctx, realOwnerID)
	if err != nil {
		return fmt.Errorf("preference.MigrateFromGuest: %w", err)
	}

	if remote.HasDefaultCurrency() && remote.CurrencyCode != currency.Code {
		if _, err := s.repo.Update(ctx, realOwnerID, pgpref.Changes{Currency: &currency}); err != nil {
			return fmt.Errorf("preference.MigrateFromGuest: %w", err)
		}
		s.log.InfoContext(ctx, "guest currency migrated",
			slog.String("user_id", realOwnerID),
			slog.String("currency", currency.Code))
	}

	return s.clearLocal(ctx)
}

func (s *Service) clearLocal(ctx context.Context) error {
	if err := s.local.Delete(ctx, localstore.KeyCurrency); err != nil {
		return fmt.Errorf("preference.MigrateFromGuest: %w", err)
	}
	return nil
}
