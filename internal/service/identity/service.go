// Package identity owns the process-wide identity and session state: who the
// current user is, whether the session is fresh, and the Anonymous to Real
// upgrade path with its one-time data migration hook.
package identity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// authClient defines the auth service operations needed by the identity service.
type authClient interface {
	SignInAnonymously(ctx context.Context) (*domain.Session, error)
	SignUp(ctx context.Context, email, password string) (*domain.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.Session, error)
	GetUser(ctx context.Context, accessToken string) (*domain.Identity, error)
	SignOut(ctx context.Context, accessToken string) error
	OAuthURL(provider string) (string, error)
	ResetPasswordForEmail(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) (*domain.Identity, error)
}

// localStore defines the device-local storage needed for guest fallback.
type localStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Subscriber receives identity transitions synchronously, in registration
// order. Errors are logged and do not abort the transition.
type Subscriber func(ctx context.Context, tr domain.Transition) error

// Service implements identity resolution, session lifecycle, and upgrade
// notification.
type Service struct {
	log   *slog.Logger
	auth  authClient
	local localStore

	mu          sync.Mutex
	identity    domain.Identity
	session     *domain.Session
	subscribers []Subscriber
	// anonymous ids whose upgrade already ran, so post-upgrade
	// initialization fires exactly once per transition
	upgradedFrom map[string]struct{}
}

// NewService creates a new identity service instance.
func NewService(logger *slog.Logger, auth authClient, local localStore) *Service {
	return &Service{
		log:          logger.With("service", "identity"),
		auth:         auth,
		local:        local,
		upgradedFrom: make(map[string]struct{}),
	}
}

// Subscribe registers a transition listener and returns its unsubscribe
// function. Listeners are invoked synchronously in registration order.
func (s *Service) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = append(s.subscribers, fn)
	idx := len(s.subscribers) - 1

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subscribers[idx] = nil
	}
}

// Current returns the cached identity without touching the auth service.
// Zero when unresolved.
func (s *Service) Current() domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// State reports the coarse auth state.
func (s *Service) State() domain.IdentityState {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.identity.IsZero():
		return domain.StateUnauthenticated
	case s.identity.IsAnonymous():
		return domain.StateAnonymous
	default:
		return domain.StateReal
	}
}
