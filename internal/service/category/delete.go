package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// SoftDelete deactivates a custom category. System defaults cannot be
// deleted and report ErrForbidden. Historical entries keep their stale
// category reference and fall back to the stored label for display.
func (s *Service) SoftDelete(ctx context.Context, categoryID uuid.UUID) error {
	id, err := s.identity.EnsureValidSession(ctx)
	if err != nil {
		return fmt.Errorf("category.SoftDelete: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.GetByID(ctx, id.ID, categoryID)
	if err != nil {
		return fmt.Errorf("category.SoftDelete: %w", err)
	}
	if current.IsSystem() {
		return fmt.Errorf("category %s is a system default: %w", categoryID, domain.ErrForbidden)
	}

	if err := s.repo.SoftDelete(ctx, id.ID, categoryID); err != nil {
		return fmt.Errorf("category.SoftDelete: %w", err)
	}

	s.log.InfoContext(ctx, "category deactivated",
		slog.String("user_id", id.ID),
		slog.String("category_id", categoryID.String()))
	return nil
}
