package spending

import (
	"context"
	"fmt"
	"log/slog"
)

// MigrateOwnership reassigns every entry recorded under fromID to toID,
// typically after an anonymous identity upgrades to a real account. It is
// idempotent: once the anonymous rows are moved, a replay finds nothing to
// migrate and reports zero.
func (s *Service) MigrateOwnership(ctx context.Context, fromID, toID string) (int, error) {
	if fromID == "" || toID == "" || fromID == toID {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	moved, err := s.repo.MigrateOwnership(ctx, fromID, toID)
	if err != nil {
		return 0, fmt.Errorf("spending.MigrateOwnership: %w", err)
	}

	// The working set may hold rows under the old owner; force a reload.
	s.invalidate()

	s.log.InfoContext(ctx, "ownership migrated",
		slog.String("from", fromID),
		slog.String("to", toID),
		slog.Int("entries", moved))
	return moved, nil
}
