package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// UpdateInput holds the partial category update. Nil fields are left untouched.
type UpdateInput struct {
	Name  *string
	Color *string
	Icon  *string
}

// Update modifies a custom category. System defaults are not owned by
// anyone, so targeting one reports ErrNotFound, same as a category owned by
// a different identity. A rename re-checks name uniqueness.
func (s *Service) Update(ctx context.Context, categoryID uuid.UUID, input UpdateInput) (*domain.Category, error) {
	id, err := s.identity.EnsureValidSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("category.Update: %w", err)
	}

	if input.Name != nil {
		check := domain.Category{Name: *input.Name, Color: domain.DefaultCategoryColor, Icon: domain.DefaultCategoryIcon}
		if err := check.Validate(); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.GetByID(ctx, id.ID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("category.Update: %w", err)
	}
	if current.IsSystem() {
		return nil, fmt.Errorf("category %s is a system default: %w", categoryID, domain.ErrNotFound)
	}

	if input.Name != nil && domain.NormalizeName(*input.Name) != domain.NormalizeName(current.Name) {
		taken, err := s.repo.ExistsActiveName(ctx, id.ID, domain.NormalizeName(*input.Name), categoryID)
		if err != nil {
			return nil, fmt.Errorf("category.Update: %w", err)
		}
		if taken {
			return nil, domain.ErrDuplicateName
		}
	}

	updated, err := s.repo.Update(ctx, id.ID, categoryID, input.Name, input.Color, input.Icon)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrDuplicateName
		}
		return nil, fmt.Errorf("category.Update: %w", err)
	}

	s.log.InfoContext(ctx, "category updated",
		slog.String("user_id", id.ID),
		slog.String("category_id", categoryID.String()))
	return updated, nil
}
