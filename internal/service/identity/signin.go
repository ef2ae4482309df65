package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spendcheck/spendcheck-go/internal/domain"
	"github.com/spendcheck/spendcheck-go/internal/localstore"
)

// SignInAnonymously establishes an anonymous session with the auth service.
// When the service is unreachable it falls back to a locally generated guest
// identity; callers get a usable identity either way.
func (s *Service) SignInAnonymously(ctx context.Context) (domain.Identity, error) {
	session, err := s.auth.SignInAnonymously(ctx)
	if err == nil {
		if err := s.local.Set(ctx, localstore.KeyUserID, session.Identity.ID); err != nil {
			s.log.WarnContext(ctx, "persist anonymous id failed", slog.String("error", err.Error()))
		}
		s.adopt(ctx, session)
		s.log.InfoContext(ctx, "anonymous session created", slog.String("user_id", session.Identity.ID))
		return session.Identity, nil
	}

	if !domain.IsNetworkAuthError(err) {
		return domain.Identity{}, fmt.Errorf("identity.SignInAnonymously: %w", err)
	}

	s.log.WarnContext(ctx, "auth service unreachable, generating local guest identity")
	id, lerr := s.newLocalIdentity(ctx)
	if lerr != nil {
		return domain.Identity{}, lerr
	}
	s.adoptLocal(ctx, id)
	return id, nil
}

// SignInWithEmail exchanges email credentials for a session. Signing in from
// an anonymous identity counts as an upgrade: guest data migrates to the
// signed-in account, once.
func (s *Service) SignInWithEmail(ctx context.Context, input CredentialsInput) (domain.Identity, error) {
	if err := input.Validate(); err != nil {
		return domain.Identity{}, err
	}

	session, err := s.auth.SignInWithPassword(ctx, input.Email, input.Password)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("identity.SignInWithEmail: %w", err)
	}

	tr := s.adopt(ctx, session)
	s.log.InfoContext(ctx, "signed in with email",
		slog.String("user_id", session.Identity.ID),
		slog.Bool("became_real", tr.BecameReal))
	return session.Identity, nil
}

// SignInWithOAuth returns the authorization URL for the provider. The
// session arrives later through HandleAuthEvent once the redirect completes.
func (s *Service) SignInWithOAuth(ctx context.Context, provider string) (string, error) {
	url, err := s.auth.OAuthURL(provider)
	if err != nil {
		return "", fmt.Errorf("identity.SignInWithOAuth: %w", err)
	}

	s.log.InfoContext(ctx, "oauth flow started", slog.String("provider", provider))
	return url, nil
}
