// Package auth inspects access tokens issued by the external auth service.
// Tokens are verified by the service itself; this package only extracts the
// claims the client needs (subject, expiry, anonymity) without checking the
// signature.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// TokenInfo holds the claims extracted from an access token.
type TokenInfo struct {
	Subject     string
	Email       string
	IsAnonymous bool
	ExpiresAt   time.Time
}

// tokenClaims extends standard JWT claims with the auth service's anonymity flag.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email       string `json:"email,omitempty"`
	IsAnonymous bool   `json:"is_anonymous,omitempty"`
}

// InspectToken parses an access token without signature verification and
// returns its claims. The signature belongs to the auth service; the client
// only needs the subject and expiry to decide when to refresh.
func InspectToken(tokenString string) (TokenInfo, error) {
	if tokenString == "" {
		return TokenInfo{}, fmt.Errorf("token is empty")
	}

	parser := jwt.NewParser()
	claims := &tokenClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("parse token: %w", err)
	}

	if claims.Subject == "" {
		return TokenInfo{}, fmt.Errorf("token has no subject")
	}

	info := TokenInfo{
		Subject:     claims.Subject,
		Email:       claims.Email,
		IsAnonymous: claims.IsAnonymous,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// Identity builds the domain identity described by the token claims.
func (i TokenInfo) Identity() domain.Identity {
	kind := domain.IdentityReal
	if i.IsAnonymous {
		kind = domain.IdentityAnonymous
	}
	return domain.Identity{
		ID:    i.Subject,
		Kind:  kind,
		Email: i.Email,
	}
}
