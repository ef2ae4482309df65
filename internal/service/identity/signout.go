package identity

import (
	"context"
	"log/slog"

	"github.com/spendcheck/spendcheck-go/internal/localstore"
)

// SignOut revokes the current session and clears all cached identity state,
// including the stored guest id. The next resolve provisions a fresh
// anonymous identity.
func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()

	if session != nil && session.AccessToken != "" {
		// Server-side revocation is best effort; local state clears regardless.
		if err := s.auth.SignOut(ctx, session.AccessToken); err != nil {
			s.log.WarnContext(ctx, "remote sign-out failed", slog.String("error", err.Error()))
		}
	}

	if err := s.local.Delete(ctx, localstore.KeyUserID); err != nil {
		s.log.WarnContext(ctx, "clear stored user id failed", slog.String("error", err.Error()))
	}

	s.clear(ctx)
	s.log.InfoContext(ctx, "signed out")
	return nil
}
