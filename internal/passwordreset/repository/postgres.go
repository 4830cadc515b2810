package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portico/internal/passwordreset/domain"
)

// PostgresRepository persists password reset tokens via a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a reset token repository backed by the given pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetByHash returns the token with the given hash, or nil if absent.
func (r *PostgresRepository) GetByHash(ctx context.Context, tokenHash string) (*domain.ResetToken, error) {
	var t domain.ResetToken
	err := r.pool.QueryRow(ctx, `
		SELECT token_hash, user_id, expires_at
		FROM password_reset_tokens
		WHERE token_hash = $1
	`, tokenHash).Scan(&t.TokenHash, &t.UserID, &t.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts the token row.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.ResetToken) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO password_reset_tokens (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, t.TokenHash, t.UserID, t.ExpiresAt)
	return err
}

// DeleteByUser removes all of the user's tokens.
func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM password_reset_tokens WHERE user_id = $1
	`, userID)
	return err
}

// Delete removes the token by hash.
func (r *PostgresRepository) Delete(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM password_reset_tokens WHERE token_hash = $1
	`, tokenHash)
	return err
}
