package category

import (
	"context"
	"fmt"

	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// List returns the system defaults plus the current identity's active custom
// categories, defaults first, then alphabetical.
func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	id, err := s.identity.EnsureValidSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("category.List: %w", err)
	}

	categories, err := s.repo.ListForOwner(ctx, id.ID)
	if err != nil {
		return nil, fmt.Errorf("category.List: %w", err)
	}
	return categories, nil
}

// FindByName returns the visible active category matching the name under
// case-insensitive comparison, or ErrNotFound.
func (s *Service) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	categories, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("category.FindByName: %w", err)
	}

	normalized := domain.NormalizeName(name)
	for i := range categories {
		if domain.NormalizeName(categories[i].Name) == normalized {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("category %q: %w", name, domain.ErrNotFound)
}

// DefaultCategory returns the "Other" fallback used when an entry's category
// was deleted or never set.
func (s *Service) DefaultCategory(ctx context.Context) (*domain.Category, error) {
	c, err := s.FindByName(ctx, domain.FallbackCategoryName)
	if err != nil {
		return nil, fmt.Errorf("category.DefaultCategory: %w", err)
	}
	return c, nil
}
