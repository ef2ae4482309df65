package identity

import (
	"context"
	"fmt"

	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// ResetPassword asks the auth service to send a recovery email. Valid for
// any address; the service does not reveal whether the account exists.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := s.auth.ResetPasswordForEmail(ctx, email); err != nil {
		return fmt.Errorf("identity.ResetPassword: %w", err)
	}
	return nil
}

// UpdatePassword sets a new password for the current real identity.
func (s *Service) UpdatePassword(ctx context.Context, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	s.mu.Lock()
	session := s.session
	identity := s.identity
	s.mu.Unlock()

	if session == nil || identity.IsAnonymous() {
		return domain.ErrUnauthorized
	}

	if _, err := s.auth.UpdatePassword(ctx, session.AccessToken, newPassword); err != nil {
		return fmt.Errorf("identity.UpdatePassword: %w", err)
	}
	return nil
}
