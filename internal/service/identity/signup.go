package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// SignUpWithEmail registers a real account. When the current identity is
// anonymous this is the upgrade path: the new session replaces the guest one
// and subscribers run the one-time post-upgrade initialization (preference
// bootstrap, guest preference migration, spending ownership migration).
func (s *Service) SignUpWithEmail(ctx context.Context, input CredentialsInput) (domain.Identity, error) {
	if err := input.Validate(); err != nil {
		return domain.Identity{}, err
	}

	session, err := s.auth.SignUp(ctx, input.Email, input.Password)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("identity.SignUpWithEmail: %w", err)
	}

	tr := s.adopt(ctx, session)
	s.log.InfoContext(ctx, "account created",
		slog.String("user_id", session.Identity.ID),
		slog.Bool("became_real", tr.BecameReal))
	return session.Identity, nil
}
