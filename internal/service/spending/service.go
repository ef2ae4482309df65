// Package spending manages the spending ledger: recording entries, listing
// them, and computing totals over the current identity's data.
package spending

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	pgentry "github.com/spendcheck/spendcheck-go/internal/adapter/postgres/entry"
	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// identityProvider defines the identity operations needed by the spending service.
type identityProvider interface {
	EnsureValidSession(ctx context.Context) (domain.Identity, error)
}

// entryRepo defines the spending entry repository interface.
type entryRepo interface {
	ListForOwner(ctx context.Context, ownerID string, f pgentry.Filter) ([]domain.SpendingEntry, error)
	Insert(ctx context.Context, e domain.SpendingEntry) (*domain.SpendingEntry, error)
	Update(ctx context.Context, ownerID string, id uuid.UUID, changes pgentry.Changes) (*domain.SpendingEntry, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
	MigrateOwnership(ctx context.Context, fromID, toID string) (int, error)
	TotalsBetween(ctx context.Context, ownerID string, start, end time.Time) (float64, int, error)
	TotalsByLabel(ctx context.Context, ownerID string, start, end time.Time, fallbackLabel string) ([]pgentry.LabelTotal, error)
}

// categoryLookup resolves category references when an entry is written, so
// the entry can carry a display label that survives category deletion.
type categoryLookup interface {
	List(ctx context.Context) ([]domain.Category, error)
}

// cacheLimit bounds the working set kept in memory. When an identity's
// history exceeds it, aggregates fall back to server-side sums so totals
// stay exact.
const cacheLimit = 500

// Service implements spending entry operations for the current identity.
// Writes go to the store first; the in-memory working set is patched with
// the server-confirmed record rather than reloaded.
type Service struct {
	log        *slog.Logger
	identity   identityProvider
	repo       entryRepo
	categories categoryLookup
	loc        *time.Location

	mu      sync.Mutex
	owner   string
	entries []domain.SpendingEntry
	loaded  bool
}

// NewService creates a new spending service instance. loc is the timezone
// used for day and month boundaries; nil means the system local timezone.
func NewService(logger *slog.Logger, identity identityProvider, repo entryRepo, categories categoryLookup, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		log:        logger.With("service", "spending"),
		identity:   identity,
		repo:       repo,
		categories: categories,
		loc:        loc,
	}
}

// ensureLoaded resolves the current identity and fills the working set from
// the store if it is empty or belongs to a previous identity. Callers must
// hold s.mu.
func (s *Service) ensureLoaded(ctx context.Context) (domain.Identity, error) {
	id, err := s.identity.EnsureValidSession(ctx)
	if err != nil {
		return domain.Identity{}, err
	}

	if s.loaded && s.owner == id.ID {
		return id, nil
	}

	entries, err := s.repo.ListForOwner(ctx, id.ID, pgentry.Filter{Limit: cacheLimit})
	if err != nil {
		return domain.Identity{}, err
	}

	s.owner = id.ID
	s.entries = entries
	s.loaded = true
	return id, nil
}

// invalidate drops the working set so the next read reloads from the store.
// Callers must hold s.mu.
func (s *Service) invalidate() {
	s.owner = ""
	s.entries = nil
	s.loaded = false
}

// truncated reports whether the working set may be missing older entries.
// Callers must hold s.mu.
func (s *Service) truncated() bool {
	return len(s.entries) >= cacheLimit
}

// resolveLabel looks up the display label for a category reference.
func (s *Service) resolveLabel(ctx context.Context, categoryID uuid.UUID) (string, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range categories {
		if c.ID == categoryID {
			return c.Name, nil
		}
	}
	return "", fmt.Errorf("category %s: %w", categoryID, domain.ErrNotFound)
}
