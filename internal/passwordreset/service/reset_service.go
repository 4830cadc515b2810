// Package service implements the password reset flow: issue a single-use
// emailed token, then exchange it for a new password.
package service

import (
	"context"
	"errors"
	"time"

	"portico/internal/passwordreset/domain"
	"portico/internal/passwordreset/repository"
	"portico/internal/security"
	userrepo "portico/internal/user/repository"
)

// ErrInvalidToken covers unknown and expired reset tokens uniformly.
var ErrInvalidToken = errors.New("invalid or expired reset token")

const (
	// TokenValidity is how long a reset token stays usable after issue.
	TokenValidity = 2 * time.Hour
	// tokenEntropyBytes drives the length of the emailed secret.
	tokenEntropyBytes = 25
)

// SessionInvalidator revokes all of a user's sessions after a password change.
type SessionInvalidator interface {
	InvalidateAll(ctx context.Context, userID string) error
}

// Service issues and redeems password reset tokens.
type Service struct {
	tokens   repository.Repository
	users    userrepo.Repository
	hasher   *security.Hasher
	sessions SessionInvalidator
	now      func() time.Time
}

// NewService returns a reset service over the given stores.
func NewService(tokens repository.Repository, users userrepo.Repository, hasher *security.Hasher, sessions SessionInvalidator) *Service {
	return &Service{
		tokens:   tokens,
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Request issues a reset token for the account with the given email and
// returns the raw secret for delivery. Any prior token for the user is
// replaced. An unknown email returns an empty token and nil error so the
// endpoint cannot be used to probe for accounts.
func (s *Service) Request(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}

	token := security.GenerateIDFromEntropySize(tokenEntropyBytes)
	if err := s.tokens.DeleteByUser(ctx, user.ID); err != nil {
		return "", err
	}
	err = s.tokens.Create(ctx, &domain.ResetToken{
		TokenHash: security.HashToken(token),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(TokenValidity),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Reset redeems a token, setting the user's password to newPassword, deleting
// the token, and revoking every session the user holds. Unknown and expired
// tokens both return ErrInvalidToken; an expired token is deleted on sight.
func (s *Service) Reset(ctx context.Context, token string, newPassword []byte) error {
	hash := security.HashToken(token)
	stored, err := s.tokens.GetByHash(ctx, hash)
	if err != nil {
		return err
	}
	if stored == nil {
		return ErrInvalidToken
	}
	if stored.ExpiredAt(s.now()) {
		if err := s.tokens.Delete(ctx, hash); err != nil {
			return err
		}
		return ErrInvalidToken
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, stored.UserID, passwordHash); err != nil {
		return err
	}
	if err := s.tokens.Delete(ctx, hash); err != nil {
		return err
	}
	return s.sessions.InvalidateAll(ctx, stored.UserID)
}
