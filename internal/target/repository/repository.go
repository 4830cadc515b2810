package repository

import (
	"context"

	"portico/internal/target/domain"
)

// Repository defines persistence for resource targets.
type Repository interface {
	// ListByResource returns the resource's targets ordered by id.
	ListByResource(ctx context.Context, resourceID, limit, offset int) ([]*domain.Target, error)
	// CountByResource counts the rows ListByResource would return before pagination.
	CountByResource(ctx context.Context, resourceID int) (int, error)
	Create(ctx context.Context, t *domain.Target) error
	Delete(ctx context.Context, targetID int) error
}
