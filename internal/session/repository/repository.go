package repository

import (
	"context"
	"time"

	"portico/internal/session/domain"
	userdomain "portico/internal/user/domain"
)

// Repository defines persistence for sessions. Missing rows are reported as
// nil results, not errors; errors indicate store failures only.
type Repository interface {
	// GetWithUser returns the session with the given id joined with its user,
	// or (nil, nil, nil) if no such session exists. Expiry is not filtered
	// here; the service decides what to do with an expired row.
	GetWithUser(ctx context.Context, sessionID string) (*domain.Session, *userdomain.User, error)
	Create(ctx context.Context, s *domain.Session) error
	UpdateExpiry(ctx context.Context, sessionID string, expiresAt time.Time) error
	Delete(ctx context.Context, sessionID string) error
	DeleteAllByUser(ctx context.Context, userID string) error
}
