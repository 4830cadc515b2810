package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portico/internal/accesstoken/domain"
)

// PostgresRepository persists resource access tokens via a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns an access token repository backed by the given pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const tokenColumns = `access_token_id, org_id, resource_id, session_length_ms, expires_at, token_hash, title, description, created_at`

// GetByID returns the token for id, or nil if not found. Expired tokens are
// returned as-is; expiry is the caller's decision.
func (r *PostgresRepository) GetByID(ctx context.Context, accessTokenID string) (*domain.ResourceAccessToken, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+tokenColumns+` FROM resource_access_tokens WHERE access_token_id = $1
	`, accessTokenID)
	t, err := scanToken(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// ListByOrg returns unexpired org tokens whose resource is in accessible.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string, accessible []int, now time.Time, limit, offset int) ([]*domain.ResourceAccessToken, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tokenColumns+`
		FROM resource_access_tokens
		WHERE org_id = $1
		  AND resource_id = ANY($2)
		  AND (expires_at IS NULL OR expires_at > $3)
		ORDER BY created_at, access_token_id
		LIMIT $4 OFFSET $5
	`, orgID, accessible, now, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectTokens(rows)
}

// CountByOrg counts the rows ListByOrg would return before pagination.
func (r *PostgresRepository) CountByOrg(ctx context.Context, orgID string, accessible []int, now time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM resource_access_tokens
		WHERE org_id = $1
		  AND resource_id = ANY($2)
		  AND (expires_at IS NULL OR expires_at > $3)
	`, orgID, accessible, now).Scan(&n)
	return n, err
}

// ListByResource returns unexpired tokens for the resource, provided the
// resource is in accessible.
func (r *PostgresRepository) ListByResource(ctx context.Context, resourceID int, accessible []int, now time.Time, limit, offset int) ([]*domain.ResourceAccessToken, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tokenColumns+`
		FROM resource_access_tokens
		WHERE resource_id = $1
		  AND resource_id = ANY($2)
		  AND (expires_at IS NULL OR expires_at > $3)
		ORDER BY created_at, access_token_id
		LIMIT $4 OFFSET $5
	`, resourceID, accessible, now, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectTokens(rows)
}

// CountByResource counts the rows ListByResource would return before pagination.
func (r *PostgresRepository) CountByResource(ctx context.Context, resourceID int, accessible []int, now time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM resource_access_tokens
		WHERE resource_id = $1
		  AND resource_id = ANY($2)
		  AND (expires_at IS NULL OR expires_at > $3)
	`, resourceID, accessible, now).Scan(&n)
	return n, err
}

// Create inserts the token row. TokenHash must already be the digest; the
// raw secret never reaches this layer.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.ResourceAccessToken) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO resource_access_tokens
			(access_token_id, org_id, resource_id, session_length_ms, expires_at, token_hash, title, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.AccessTokenID, t.OrgID, t.ResourceID, t.SessionLength.Milliseconds(), t.ExpiresAt, t.TokenHash, t.Title, t.Description, t.CreatedAt)
	return err
}

// Delete removes the token by id. Deleting an absent id is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, accessTokenID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM resource_access_tokens WHERE access_token_id = $1
	`, accessTokenID)
	return err
}

func scanToken(row pgx.Row) (*domain.ResourceAccessToken, error) {
	var t domain.ResourceAccessToken
	var sessionLengthMS int64
	if err := row.Scan(
		&t.AccessTokenID, &t.OrgID, &t.ResourceID, &sessionLengthMS,
		&t.ExpiresAt, &t.TokenHash, &t.Title, &t.Description, &t.CreatedAt,
	); err != nil {
		return nil, err
	}
	t.SessionLength = time.Duration(sessionLengthMS) * time.Millisecond
	return &t, nil
}

func collectTokens(rows pgx.Rows) ([]*domain.ResourceAccessToken, error) {
	defer rows.Close()
	var out []*domain.ResourceAccessToken
	for rows.Next() {
		t, err := scanToken(rows)
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
