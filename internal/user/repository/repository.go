package repository

import (
	"context"

	"portico/internal/user/domain"
)

// Repository defines the user reads and the single write (password change)
// the credential subsystem needs. Missing rows are nil results, not errors.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}
