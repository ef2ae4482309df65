// Package category manages spending categories: the shared system defaults
// and each identity's custom set.
package category

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// identityProvider defines the identity operations needed by the category service.
type identityProvider interface {
	EnsureValidSession(ctx context.Context) (domain.Identity, error)
}

// categoryRepo defines the category repository interface.
type categoryRepo interface {
	ListForOwner(ctx context.Context, ownerID string) ([]domain.Category, error)
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, ownerID string, id uuid.UUID, name, color, icon *string) (*domain.Category, error)
	SoftDelete(ctx context.Context, ownerID string, id uuid.UUID) error
	ExistsActiveName(ctx context.Context, ownerID, normalized string, excludeID uuid.UUID) (bool, error)
	SeedSystemDefaults(ctx context.Context, defaults []domain.Category) error
}

// Service implements category listing and mutation for the current identity.
type Service struct {
	log      *slog.Logger
	identity identityProvider
	repo     categoryRepo

	// serializes mutations so rapid double-submission cannot slip past the
	// duplicate-name check
	mu sync.Mutex
}

// NewService creates a new category service instance.
func NewService(logger *slog.Logger, identity identityProvider, repo categoryRepo) *Service {
	return &Service{
		log:      logger.With("service", "category"),
		identity: identity,
		repo:     repo,
	}
}
