package domain

import (
	"time"
)

// IdentityKind distinguishes guest identities from credentialed accounts.
type IdentityKind string

const (
	// IdentityAnonymous is a session identity not tied to a verifiable
	// credential, used for guest mode.
	IdentityAnonymous IdentityKind = "anonymous"
	// IdentityReal is a credentialed identity created via sign-up or OAuth.
	IdentityReal IdentityKind = "real"
)

// Identity is the owner of all user-scoped data. Exactly one identity is
// current per running process; its ID is stable for the session lifetime.
type Identity struct {
	ID        string
	Kind      IdentityKind
	Email     string // empty for anonymous identities
	CreatedAt time.Time
}

// IsAnonymous reports whether the identity is a guest identity.
func (i Identity) IsAnonymous() bool { return i.Kind == IdentityAnonymous }

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool { return i.ID == "" }

// Session is the ephemeral association between the running process and an
// Identity, as issued by the auth service. AccessToken is an opaque bearer
// token; ExpiresAt is taken from the token response and used to decide when
// re-validation is required.
type Session struct {
	Identity     Identity
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// IsExpired reports whether the session needs refreshing relative to now.
// A small skew window is applied so a token about to expire is treated as
// already stale.
func (s Session) IsExpired(now time.Time) bool {
	if s.AccessToken == "" {
		return true
	}
	const skew = 30 * time.Second
	return !s.ExpiresAt.IsZero() && !now.Add(skew).Before(s.ExpiresAt)
}

// IdentityState is the coarse auth state of the process.
type IdentityState string

const (
	StateUnauthenticated IdentityState = "unauthenticated"
	StateAnonymous       IdentityState = "anonymous"
	StateReal            IdentityState = "real"
)

// Transition describes an identity change delivered to subscribers.
// BecameReal is true exactly when an anonymous identity was upgraded to a
// credentialed one, which is the trigger for one-time data migration.
type Transition struct {
	From       Identity
	To         Identity
	BecameReal bool
}
