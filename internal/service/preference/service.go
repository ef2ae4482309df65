// Package preference stores per-identity settings: currency, theme, and
// notification preferences. Real identities persist remotely; anonymous
// identities keep a device-local currency only.
package preference

import (
	"context"
	"log/slog"
	"sync"

	pgpref "github.com/spendcheck/spendcheck-go/internal/adapter/postgres/preference"
	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// identityProvider defines the identity operations needed by the preference service.
type identityProvider interface {
	EnsureValidSession(ctx context.Context) (domain.Identity, error)
}

// preferenceRepo defines the remote preference repository interface.
type preferenceRepo interface {
	Get(ctx context.Context, ownerID string) (*domain.Preference, error)
	EnsureDefault(ctx context.Context, ownerID string) (*domain.Preference, error)
	Update(ctx context.Context, ownerID string, changes pgpref.Changes) (*domain.Preference, error)
}

// localStore defines the device-local storage for guest preferences.
type localStore interface {
	GetJSON(ctx context.Context, key string, out any) error
	SetJSON(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

// Service implements preference load, update, and guest migration.
type Service struct {
	log      *slog.Logger
	identity identityProvider
	repo     preferenceRepo
	local    localStore

	// serializes writes so two rapid updates cannot interleave
	mu sync.Mutex
}

// NewService creates a new preference service instance.
func NewService(logger *slog.Logger, identity identityProvider, repo preferenceRepo, local localStore) *Service {
	return &Service{
		log:      logger.With("service", "preference"),
		identity: identity,
		repo:     repo,
		local:    local,
	}
}
