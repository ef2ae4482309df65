package identity

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendcheck/spendcheck-go/internal/domain"
	"github.com/spendcheck/spendcheck-go/internal/localstore"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func newTestService(auth authClient, local localStore) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, auth, local)
}

func anonSession(id string) *domain.Session {
	return &domain.Session{
		Identity:     domain.Identity{ID: id, Kind: domain.IdentityAnonymous},
		AccessToken:  "anon-access-" + id,
		RefreshToken: "anon-refresh-" + id,
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func realSession(id, email string) *domain.Session {
	return &domain.Session{
		Identity:     domain.Identity{ID: id, Kind: domain.IdentityReal, Email: email},
		AccessToken:  "real-access-" + id,
		RefreshToken: "real-refresh-" + id,
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

// signedAccessToken mints an access token the way the auth service would;
// the signature is never verified client-side, only the claims are read.
func signedAccessToken(t *testing.T, sub string, anonymous bool, expiresIn time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":          sub,
		"is_anonymous": anonymous,
		"exp":          time.Now().Add(expiresIn).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// ---------------------------------------------------------------------------
// Anonymous sign-in and resolution
// ---------------------------------------------------------------------------

func TestService_SignInAnonymously_Success(t *testing.T) {
	t.Parallel()

	auth := &authClientMock{
		SignInAnonymouslyFunc: func(ctx context.Context) (*domain.Session, error) {
			return anonSession("anon-server-1"), nil
		},
	}
	local := newLocalStoreMock()
	svc := newTestService(auth, local)

	id, err := svc.SignInAnonymously(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "anon-server-1", id.ID)
	assert.True(t, id.IsAnonymous())
	assert.Equal(t, domain.StateAnonymous, svc.State())

	stored, err := local.Get(context.Background(), localstore.KeyUserID)
	require.NoError(t, err)
	assert.Equal(t, "anon-server-1", stored)
}

func TestService_SignInAnonymously_NetworkFallback(t *testing.T) {
	t.Parallel()

	auth := &authClientMock{
		SignInAnonymouslyFunc: func(ctx context.Context) (*domain.Session, error) {
			return nil, domain.NewAuthError("network", "connection refused")
		},
	}
	local := newLocalStoreMock()
	svc := newTestService(auth, local)

	id, err := svc.SignInAnonymously(context.Background())
	require.NoError(t, err, "network failure must degrade, not fail")

	assert.True(t, strings.HasPrefix(id.ID, "anon_"), "local fallback id must carry the anon_ prefix, got %q", id.ID)
	assert.True(t, id.IsAnonymous())

	stored, err := local.Get(context.Background(), localstore.KeyUserID)
	require.NoError(t, err)
	assert.Equal(t, id.ID, stored)
}

func TestService_SignInAnonymously_NonNetworkError(t *testing.T) {
	t.Parallel()

	auth := &authClientMock{
		SignInAnonymouslyFunc: func(ctx context.Context) (*domain.Session, error) {
			return nil, domain.NewAuthError("anonymous_provider_disabled", "disabled")
		},
	}
	svc := newTestService(auth, newLocalStoreMock())

	_, err := svc.SignInAnonymously(context.Background())
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, domain.StateUnauthenticated, svc.State())
}

func TestService_ResolveCurrentIdentity_ReusesStoredGuestID(t *testing.T) {
	t.Parallel()

	local := newLocalStoreMock()
	require.NoError(t, local.Set(context.Background(), localstore.KeyUserID, "anon_stored-guest"))

	// No auth calls expected: the stored local guest id short-circuits.
	svc := newTestService(&authClientMock{}, local)

	id, err := svc.ResolveCurrentIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "anon_stored-guest", id.ID)
	assert.True(t, id.IsAnonymous())
}

func TestService_ResolveCurrentIdentity_SurvivesRestart(t *testing.T) {
	t.Parallel()

	local := newLocalStoreMock()
	ctx := context.Background()

	first := newTestService(&authClientMock{
		SignInAnonymouslyFunc: func(ctx context.Context) (*domain.Session, error) {
			return anonSession("service-anon-1"), nil
		},
	}, local)
	id, err := first.ResolveCurrentIdentity(ctx)
	require.NoError(t, err)
	require.Equal(t, "service-anon-1", id.ID)

	// A new service over the same device store stands in for a restarted
	// process. The opaque access token is not inspectable, so the stored
	// refresh token is exchanged; signing in fresh would panic the mock.
	refreshed := ""
	second := newTestService(&authClientMock{
		RefreshFunc: func(ctx context.Context, refreshToken string) (*domain.Session, error) {
			refreshed = refreshToken
			return anonSession("service-anon-1"), nil
		},
	}, local)

	id, err = second.ResolveCurrentIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "service-anon-1", id.ID)
	assert.Equal(t, "anon-refresh-service-anon-1", refreshed)
}

func TestService_ResolveCurrentIdentity_RestoresFreshAccessToken(t *testing.T) {
	t.Parallel()

	local := newLocalStoreMock()
	ctx := context.Background()
	token := signedAccessToken(t, "anon-jwt-1", true, time.Hour)
	require.NoError(t, local.Set(ctx, localstore.KeyAccessToken, token))
	require.NoError(t, local.Set(ctx, localstore.KeyRefreshToken, "rt-1"))

	// A still-fresh token restores without a refresh round trip.
	auth := &authClientMock{
		GetUserFunc: func(ctx context.Context, accessToken string) (*domain.Identity, error) {
			assert.Equal(t, token, accessToken)
			return &domain.Identity{ID: "anon-jwt-1", Kind: domain.IdentityAnonymous}, nil
		},
	}
	svc := newTestService(auth, local)

	id, err := svc.ResolveCurrentIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "anon-jwt-1", id.ID)
	assert.True(t, id.IsAnonymous())
}

func TestService_ResolveCurrentIdentity_OfflineRestoreKeepsStoredGuest(t *testing.T) {
	t.Parallel()

	local := newLocalStoreMock()
	ctx := context.Background()
	require.NoError(t, local.Set(ctx, localstore.KeyUserID, "service-anon-3"))
	require.NoError(t, local.Set(ctx, localstore.KeyRefreshToken, "rt-3"))

	auth := &authClientMock{
		RefreshFunc: func(ctx context.Context, refreshToken string) (*domain.Session, error) {
			return nil, domain.NewAuthError("network", "connection refused")
		},
	}
	svc := newTestService(auth, local)

	// Service-issued ids resume as anonymous when the tokens cannot be
	// exchanged offline, so a later sign-up migrates the right data.
	id, err := svc.ResolveCurrentIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "service-anon-3", id.ID)
	assert.True(t, id.IsAnonymous())

	// The tokens stay stored for the next attempt.
	stored, err := local.Get(ctx, localstore.KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "rt-3", stored)
}

func TestService_ResolveCurrentIdentity_RejectedStoredTokensDiscarded(t *testing.T) {
	t.Parallel()

	local := newLocalStoreMock()
	ctx := context.Background()
	require.NoError(t, local.Set(ctx, localstore.KeyAccessToken, "opaque-stale"))
	require.NoError(t, local.Set(ctx, localstore.KeyRefreshToken, "rt-revoked"))

	auth := &authClientMock{
		RefreshFunc: func(ctx context.Context, refreshToken string) (*domain.Session, error) {
			return nil, domain.NewAuthError("invalid_grant", "refresh token revoked")
		},
		SignInAnonymouslyFunc: func(ctx context.Context) (*domain.Session, error) {
			return anonSession("anon-after-revoke"), nil
		},
	}
	svc := newTestService(auth, local)

	id, err := svc.ResolveCurrentIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "anon-after-revoke", id.ID)

	// The revoked tokens were replaced by the new session's.
	stored, err := local.Get(ctx, localstore.KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "anon-refresh-anon-after-revoke", stored)
}

func TestService_ResolveCurrentIdentity_CachedFreshSession(t *testing.T) {
	t.Parallel()

	calls := 0
	auth := &authClientMock{
		SignInAnonymouslyFunc: func(ctx context.Context) (*domain.Session, error) {
			calls++
			return anonSession("anon-1"), nil
		},
	}
	svc := newTestService(auth, newLocalStoreMock())
	ctx := context.Background()

	first, err := svc.ResolveCurrentIdentity(ctx)
	require.NoError(t, err)
	second, err := svc.ResolveCurrentIdentity(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "fresh session must not hit the auth service again")
}

func TestService_ResolveCurrentIdentity_RefreshesExpiredSession(t *testing.T) {
	t.Parallel()

	expired := anonSession("anon-exp")
	expired.ExpiresAt = time.Now().Add(-time.Minute)

	auth := &authClientMock{
		RefreshFunc: func(ctx context.Context, refreshToken string) (*domain.Session, error) {
			assert.Equal(t, expired.RefreshToken, refreshToken)
			return anonSession("anon-exp"), nil
		},
	}
	svc := newTestService(auth, newLocalStoreMock())
	svc.adopt(context.Background(), expired)

	id, err := svc.ResolveCurrentIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "anon-exp", id.ID)
}

func TestService_ResolveCurrentIdentity_RefreshNetworkFailureDegrades(t *testing.T) {
	t.Parallel()

	expired := realSession("real-1", "user@example.com")
	expired.ExpiresAt = time.Now().Add(-time.Minute)

	auth := &authClientMock{
		RefreshFunc: func(ctx context.Context, refreshToken string) (*domain.Session, error) {
			return nil, domain.NewAuthError("network", "unreachable")
		},
	}
	svc := newTestService(auth, newLocalStoreMock())
	svc.adopt(context.Background(), expired)

	id, err := svc.ResolveCurrentIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "real-1", id.ID, "offline refresh keeps the cached identity")
}

func TestService_ResolveCurrentIdentity_RejectedRefreshReresolves(t *testing.T) {
	t.Parallel()

	expired := realSession("real-gone", "user@example.com")
	expired.ExpiresAt = time.Now().Add(-time.Minute)

	auth := &authClientMock{
		RefreshFunc: func(ctx context.Context, refreshToken string) (*domain.Session, error) {
			return nil, domain.NewAuthError("invalid_grant", "refresh token revoked")
		},
		SignInAnonymouslyFunc: func(ctx context.Context) (*domain.Session, error) {
			return anonSession("anon-new"), nil
		},
	}
	svc := newTestService(auth, newLocalStoreMock())
	svc.adopt(context.Background(), expired)

	id, err := svc.ResolveCurrentIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "anon-new", id.ID)
	assert.Equal(t, domain.StateAnonymous, svc.State())
}

// ---------------------------------------------------------------------------
// Upgrade path
// ---------------------------------------------------------------------------

func TestService_SignUpWithEmail_UpgradeFiresOnce(t *testing.T) {
	t.Parallel()

	auth := &authClientMock{
		SignInAnonymouslyFunc: func(ctx context.Context) (*domain.Session, error) {
			return anonSession("anon-up"), nil
		},
		SignUpFunc: func(ctx context.Context, email, password string) (*domain.Session, error) {
			return realSession("real-up", email), nil
		},
	}
	svc := newTestService(auth, newLocalStoreMock())
	ctx := context.Background()

	var upgrades []domain.Transition
	svc.Subscribe(func(ctx context.Context, tr domain.Transition) error {
		if tr.BecameReal {
			upgrades = append(upgrades, tr)
		}
		return nil
	})

	_, err := svc.SignInAnonymously(ctx)
	require.NoError(t, err)

	id, err := svc.SignUpWithEmail(ctx, CredentialsInput{Email: "up@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "real-up", id.ID)
	assert.Equal(t, domain.StateReal, svc.State())

	require.Len(t, upgrades, 1)
	assert.Equal(t, "anon-up", upgrades[0].From.ID)
	assert.Equal(t, "real-up", upgrades[0].To.ID)

	// Replaying the same upgrade (e.g. an external auth event echoing the
	// session) must not fire the one-time initialization again.
	svc.HandleAuthEvent(ctx, &domain.Session{
		Identity:    domain.Identity{ID: "anon-up", Kind: domain.IdentityAnonymous},
		AccessToken: "t", ExpiresAt: time.Now().Add(time.Hour),
	})
	svc.HandleAuthEvent(ctx, realSession("real-up", "up@example.com"))
	assert.Len(t, upgrades, 1)
}

func TestService_SignUpWithEmail_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(&authClientMock{}, newLocalStoreMock())

	cases := []struct {
		name  string
		input CredentialsInput
	}{
		{"missing email", CredentialsInput{Password: "secret1"}},
		{"malformed email", CredentialsInput{Email: "not-an-email", Password: "secret1"}},
		{"short password", CredentialsInput{Email: "a@b.com", Password: "12345"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SignUpWithEmail(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestService_SignInWithEmail_PropagatesAuthError(t *testing.T) {
	t.Parallel()

	auth := &authClientMock{
		SignInWithPasswordFunc: func(ctx context.Context, email, password string) (*domain.Session, error) {
			return nil, domain.NewAuthError("invalid_credentials", "Invalid login credentials")
		},
	}
	svc := newTestService(auth, newLocalStoreMock())

	_, err := svc.SignInWithEmail(context.Background(), CredentialsInput{Email: "a@b.com", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "invalid_credentials", authErr.Code)
}

// ---------------------------------------------------------------------------
// Sign-out and subscriptions
// ---------------------------------------------------------------------------

func TestService_SignOut_ClearsEverything(t *testing.T) {
	t.Parallel()

	revoked := ""
	auth := &authClientMock{
		SignInAnonymouslyFunc: func(ctx context.Context) (*domain.Session, error) {
			return anonSession("anon-out"), nil
		},
		SignOutFunc: func(ctx context.Context, accessToken string) error {
			revoked = accessToken
			return nil
		},
	}
	local := newLocalStoreMock()
	svc := newTestService(auth, local)
	ctx := context.Background()

	_, err := svc.SignInAnonymously(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx))
	assert.Equal(t, "anon-access-anon-out", revoked)
	assert.Equal(t, domain.StateUnauthenticated, svc.State())
	assert.True(t, svc.Current().IsZero())

	_, err = local.Get(ctx, localstore.KeyUserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = local.Get(ctx, localstore.KeyAccessToken)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = local.Get(ctx, localstore.KeyRefreshToken)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Subscribe_OrderAndUnsubscribe(t *testing.T) {
	t.Parallel()

	auth := &authClientMock{
		SignInAnonymouslyFunc: func(ctx context.Context) (*domain.Session, error) {
			return anonSession("anon-sub"), nil
		},
		SignOutFunc: func(context.Context, string) error { return nil },
	}
	svc := newTestService(auth, newLocalStoreMock())
	ctx := context.Background()

	var order []string
	svc.Subscribe(func(ctx context.Context, tr domain.Transition) error {
		order = append(order, "first")
		return nil
	})
	unsub := svc.Subscribe(func(ctx context.Context, tr domain.Transition) error {
		order = append(order, "second")
		return nil
	})

	_, err := svc.SignInAnonymously(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)

	unsub()
	order = nil
	require.NoError(t, svc.SignOut(ctx))
	assert.Equal(t, []string{"first"}, order)
}

func TestService_SubscriberErrorDoesNotAbort(t *testing.T) {
	t.Parallel()

	auth := &authClientMock{
		SignInAnonymouslyFunc: func(ctx context.Context) (*domain.Session, error) {
			return anonSession("anon-err"), nil
		},
	}
	svc := newTestService(auth, newLocalStoreMock())

	ran := false
	svc.Subscribe(func(ctx context.Context, tr domain.Transition) error {
		return assert.AnError
	})
	svc.Subscribe(func(ctx context.Context, tr domain.Transition) error {
		ran = true
		return nil
	})

	_, err := svc.SignInAnonymously(context.Background())
	require.NoError(t, err)
	assert.True(t, ran, "later subscribers must run despite earlier failure")
}

// ---------------------------------------------------------------------------
// Password management and OAuth
// ---------------------------------------------------------------------------

func TestService_UpdatePassword_RequiresRealSession(t *testing.T) {
	t.Parallel()

	svc := newTestService(&authClientMock{}, newLocalStoreMock())

	err := svc.UpdatePassword(context.Background(), "newsecret")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_ResetPassword_ValidatesEmail(t *testing.T) {
	t.Parallel()

	svc := newTestService(&authClientMock{}, newLocalStoreMock())

	err := svc.ResetPassword(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_SignInWithOAuth_ReturnsURL(t *testing.T) {
	t.Parallel()

	auth := &authClientMock{
		OAuthURLFunc: func(provider string) (string, error) {
			return "https://auth.example.com/authorize?provider=" + provider, nil
		},
	}
	svc := newTestService(auth, newLocalStoreMock())

	url, err := svc.SignInWithOAuth(context.Background(), "google")
	require.NoError(t, err)
	assert.Contains(t, url, "provider=google")
}
