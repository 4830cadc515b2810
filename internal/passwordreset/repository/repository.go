package repository

import (
	"context"

	"portico/internal/passwordreset/domain"
)

// Repository defines persistence for password reset tokens. A user holds at
// most one live token; issuing a new one replaces any prior token.
type Repository interface {
	// GetByHash returns the token with the given hash, or nil if absent.
	GetByHash(ctx context.Context, tokenHash string) (*domain.ResetToken, error)
	Create(ctx context.Context, t *domain.ResetToken) error
	// DeleteByUser removes all of the user's tokens. Deleting none is not an error.
	DeleteByUser(ctx context.Context, userID string) error
	Delete(ctx context.Context, tokenHash string) error
}
