package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository reads grant relations from Postgres via a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a grant repository backed by the given pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListUserResources returns the resource ids directly granted to the user.
func (r *PostgresRepository) ListUserResources(ctx context.Context, userID string) ([]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT resource_id FROM user_resources WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectInts(rows)
}

// ListRoleResources returns the resource ids granted to the role.
func (r *PostgresRepository) ListRoleResources(ctx context.Context, roleID int) ([]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT resource_id FROM role_resources WHERE role_id = $1
	`, roleID)
	if err != nil {
		return nil, err
	}
	return collectInts(rows)
}

// ListUserActions returns the action ids directly granted to the user.
func (r *PostgresRepository) ListUserActions(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT action_id FROM user_actions WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectStrings(rows)
}

// ListRoleActions returns the action ids granted to the role.
func (r *PostgresRepository) ListRoleActions(ctx context.Context, roleID int) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT action_id FROM role_actions WHERE role_id = $1
	`, roleID)
	if err != nil {
		return nil, err
	}
	return collectStrings(rows)
}

func collectInts(rows pgx.Rows) ([]int, error) {
	defer rows.Close()
	var out []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func collectStrings(rows pgx.Rows) ([]string, error) {
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
