package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portico/internal/target/domain"
)

// PostgresRepository persists targets via a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a target repository backed by the given pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const targetColumns = `target_id, resource_id, ip, method, port, protocol, enabled`

// ListByResource returns the resource's targets ordered by id.
func (r *PostgresRepository) ListByResource(ctx context.Context, resourceID, limit, offset int) ([]*domain.Target, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+targetColumns+`
		FROM targets
		WHERE resource_id = $1
		ORDER BY target_id
		LIMIT $2 OFFSET $3
	`, resourceID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Target
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByResource counts the resource's targets.
func (r *PostgresRepository) CountByResource(ctx context.Context, resourceID int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM targets WHERE resource_id = $1
	`, resourceID).Scan(&n)
	return n, err
}

// Create inserts the target and fills in its generated id.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Target) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO targets (resource_id, ip, method, port, protocol, enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING target_id
	`, t.ResourceID, t.IP, t.Method, t.Port, t.Protocol, t.Enabled).Scan(&t.TargetID)
}

// Delete removes the target by id. Deleting an absent id is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, targetID int) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM targets WHERE target_id = $1
	`, targetID)
	return err
}

func scanTarget(row pgx.Row) (*domain.Target, error) {
	var t domain.Target
	if err := row.Scan(&t.TargetID, &t.ResourceID, &t.IP, &t.Method, &t.Port, &t.Protocol, &t.Enabled); err != nil {
		return nil, err
	}
	return &t, nil
}
