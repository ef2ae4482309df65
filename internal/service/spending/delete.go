package spending

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Delete removes an entry owned by the current identity. Deleting an entry
// that does not exist, or that belongs to someone else, reports ErrNotFound.
func (s *Service) Delete(ctx context.Context, entryID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.ensureLoaded(ctx)
	if err != nil {
		return fmt.Errorf("spending.Delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id.ID, entryID); err != nil {
		return fmt.Errorf("spending.Delete: %w", err)
	}

	for i := range s.entries {
		if s.entries[i].ID == entryID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}

	s.log.InfoContext(ctx, "entry deleted",
		slog.String("user_id", id.ID),
		slog.String("entry_id", entryID.String()))
	return nil
}
