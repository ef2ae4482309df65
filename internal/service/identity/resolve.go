package identity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/spendcheck/spendcheck-go/internal/auth"
	"github.com/spendcheck/spendcheck-go/internal/domain"
	"github.com/spendcheck/spendcheck-go/internal/localstore"
)

// anonPrefix marks locally generated fallback identities, as opposed to
// anonymous ids issued by the auth service.
const anonPrefix = "anon_"

// ResolveCurrentIdentity returns the active identity, establishing one if
// needed. Order: cached identity with a fresh (or refreshable) session, then
// a session persisted by a previous run, then the stored guest id, then a
// brand-new anonymous sign-in. It never returns a zero identity without an
// error.
func (s *Service) ResolveCurrentIdentity(ctx context.Context) (domain.Identity, error) {
	s.mu.Lock()
	cached := s.identity
	session := s.session
	s.mu.Unlock()

	if !cached.IsZero() {
		// Local fallback identities carry no session to refresh.
		if session == nil || !session.IsExpired(time.Now()) {
			return cached, nil
		}
		return s.refreshSession(ctx, cached, session)
	}

	if id, ok := s.restoreSession(ctx); ok {
		return id, nil
	}

	// A guest id stored on device survives restarts without the auth
	// service; sign-out deletes it, so a stored id is always anonymous.
	if stored, err := s.local.Get(ctx, localstore.KeyUserID); err == nil && stored != "" {
		id := domain.Identity{ID: stored, Kind: domain.IdentityAnonymous}
		s.adoptLocal(ctx, id)
		s.log.InfoContext(ctx, "resumed stored guest identity", slog.String("user_id", stored))
		return id, nil
	}

	return s.SignInAnonymously(ctx)
}

// restoreSession resumes a session persisted by a previous run. A still
// fresh access token restores directly, its claims carrying identity and
// expiry, with the user endpoint confirming it is still live; otherwise the
// refresh token is exchanged. Reports false when nothing usable is stored
// or the service rejected the tokens.
func (s *Service) restoreSession(ctx context.Context) (domain.Identity, bool) {
	access, _ := s.local.Get(ctx, localstore.KeyAccessToken)
	refresh, _ := s.local.Get(ctx, localstore.KeyRefreshToken)
	if access == "" && refresh == "" {
		return domain.Identity{}, false
	}

	if access != "" {
		if info, err := auth.InspectToken(access); err == nil {
			session := &domain.Session{
				Identity:     info.Identity(),
				AccessToken:  access,
				RefreshToken: refresh,
				ExpiresAt:    info.ExpiresAt,
			}
			if !session.IsExpired(time.Now()) {
				switch identity, err := s.auth.GetUser(ctx, access); {
				case err == nil:
					session.Identity = *identity
					s.adopt(ctx, session)
					s.log.InfoContext(ctx, "restored persisted session",
						slog.String("user_id", session.Identity.ID))
					return session.Identity, true
				case domain.IsNetworkAuthError(err):
					// Offline: the claims are the best available identity.
					s.adopt(ctx, session)
					s.log.WarnContext(ctx, "auth service unreachable, restored session from token claims",
						slog.String("user_id", session.Identity.ID))
					return session.Identity, true
				}
				// Token revoked server-side; try the refresh token.
			}
		}
	}

	if refresh != "" {
		fresh, err := s.auth.Refresh(ctx, refresh)
		if err == nil {
			s.adopt(ctx, fresh)
			s.log.InfoContext(ctx, "restored session via refresh",
				slog.String("user_id", fresh.Identity.ID))
			return fresh.Identity, true
		}
		if domain.IsNetworkAuthError(err) {
			// Offline: let the stored guest id path take over.
			return domain.Identity{}, false
		}
		s.log.WarnContext(ctx, "stored session rejected, discarding",
			slog.String("error", err.Error()))
	}

	s.dropStoredSession(ctx)
	return domain.Identity{}, false
}

// EnsureValidSession is the guard every store calls before a scoped
// operation. It re-resolves when nothing is cached and refreshes when the
// session has expired.
func (s *Service) EnsureValidSession(ctx context.Context) (domain.Identity, error) {
	return s.ResolveCurrentIdentity(ctx)
}

// refreshSession exchanges the refresh token for a new session. Network
// failures degrade to the cached identity instead of logging the user out;
// a rejected refresh token clears state and re-resolves from scratch.
func (s *Service) refreshSession(ctx context.Context, cached domain.Identity, session *domain.Session) (domain.Identity, error) {
	fresh, err := s.auth.Refresh(ctx, session.RefreshToken)
	if err == nil {
		s.mu.Lock()
		s.identity = fresh.Identity
		s.session = fresh
		s.mu.Unlock()
		s.persistSession(ctx, fresh)
		return fresh.Identity, nil
	}

	if domain.IsNetworkAuthError(err) {
		s.log.WarnContext(ctx, "session refresh unreachable, keeping cached identity",
			slog.String("user_id", cached.ID))
		return cached, nil
	}

	s.log.WarnContext(ctx, "session refresh rejected, re-resolving",
		slog.String("user_id", cached.ID),
		slog.String("error", err.Error()))
	s.clear(ctx)
	return s.ResolveCurrentIdentity(ctx)
}

// newLocalIdentity generates and persists a local guest identity for use
// when the auth service cannot be reached.
func (s *Service) newLocalIdentity(ctx context.Context) (domain.Identity, error) {
	id := anonPrefix + uuid.NewString()
	if err := s.local.Set(ctx, localstore.KeyUserID, id); err != nil {
		return domain.Identity{}, fmt.Errorf("identity.newLocalIdentity: %w", err)
	}
	return domain.Identity{ID: id, Kind: domain.IdentityAnonymous}, nil
}
