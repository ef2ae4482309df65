package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// CreateInput holds parameters for creating a category. Color and icon fall
// back to the standard blue folder when empty.
type CreateInput struct {
	Name  string
	Color string
	Icon  string
}

// Create adds a custom category for the current identity. The name must not
// collide, case-insensitively, with any visible active category, defaults
// included.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Category, error) {
	id, err := s.identity.EnsureValidSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("category.Create: %w", err)
	}

	c := domain.Category{
		OwnerID: &id.ID,
		Name:    input.Name,
		Color:   input.Color,
		Icon:    input.Icon,
	}
	if c.Color == "" {
		c.Color = domain.DefaultCategoryColor
	}
	if c.Icon == "" {
		c.Icon = domain.DefaultCategoryIcon
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	taken, err := s.repo.ExistsActiveName(ctx, id.ID, domain.NormalizeName(c.Name), uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("category.Create: %w", err)
	}
	if taken {
		return nil, domain.ErrDuplicateName
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		// The unique index catches races that slip past the pre-check.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrDuplicateName
		}
		return nil, fmt.Errorf("category.Create: %w", err)
	}

	s.log.InfoContext(ctx, "category created",
		slog.String("user_id", id.ID),
		slog.String("category_id", created.ID.String()),
		slog.String("name", created.Name))
	return created, nil
}
