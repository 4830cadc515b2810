package repository

import (
	"context"
	"time"

	"portico/internal/accesstoken/domain"
)

// Repository defines persistence for resource access tokens. Listing filters
// expired rows at read time; nothing here deletes them (asymmetric to
// sessions, deliberately — see the catalog service docs).
type Repository interface {
	// GetByID returns the token for id regardless of expiry, or nil if absent.
	GetByID(ctx context.Context, accessTokenID string) (*domain.ResourceAccessToken, error)
	// ListByOrg returns unexpired tokens in the org whose resource is in
	// accessible, ordered by creation time then id.
	ListByOrg(ctx context.Context, orgID string, accessible []int, now time.Time, limit, offset int) ([]*domain.ResourceAccessToken, error)
	CountByOrg(ctx context.Context, orgID string, accessible []int, now time.Time) (int, error)
	// ListByResource returns unexpired tokens for the resource, provided the
	// resource is in accessible, ordered by creation time then id.
	ListByResource(ctx context.Context, resourceID int, accessible []int, now time.Time, limit, offset int) ([]*domain.ResourceAccessToken, error)
	CountByResource(ctx context.Context, resourceID int, accessible []int, now time.Time) (int, error)
	Create(ctx context.Context, t *domain.ResourceAccessToken) error
	Delete(ctx context.Context, accessTokenID string) error
}
