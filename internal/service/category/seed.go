package category

import (
	"context"
	"fmt"

	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// SeedSystemDefaults upserts the fixed set of built-in categories. Safe to
// call repeatedly and from concurrent app instances; existing rows are left
// untouched.
func (s *Service) SeedSystemDefaults(ctx context.Context) error {
	if err := s.repo.SeedSystemDefaults(ctx, domain.SystemCategories()); err != nil {
		return fmt.Errorf("category.SeedSystemDefaults: %w", err)
	}
	s.log.InfoContext(ctx, "system default categories seeded")
	return nil
}
