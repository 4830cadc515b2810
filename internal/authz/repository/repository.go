package repository

import "context"

// Repository reads the grant relations backing authorization decisions.
type Repository interface {
	ListUserResources(ctx context.Context, userID string) ([]int, error)
	ListRoleResources(ctx context.Context, roleID int) ([]int, error)
	ListUserActions(ctx context.Context, userID string) ([]string, error)
	ListRoleActions(ctx context.Context, roleID int) ([]string, error)
}
