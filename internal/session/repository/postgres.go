package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portico/internal/session/domain"
	userdomain "portico/internal/user/domain"
)

// PostgresRepository persists sessions in Postgres via a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a session repository backed by the given pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetWithUser returns the session joined with its user, or (nil, nil, nil)
// when the session id is unknown. Expired rows are returned as-is.
func (r *PostgresRepository) GetWithUser(ctx context.Context, sessionID string) (*domain.Session, *userdomain.User, error) {
	var s domain.Session
	var u userdomain.User
	row := r.pool.QueryRow(ctx, `
		SELECT s.session_id, s.user_id, s.expires_at,
		       u.user_id, u.org_id, u.role_id, u.email, u.password_hash, u.status, u.created_at
		FROM sessions s
		JOIN users u ON u.user_id = s.user_id
		WHERE s.session_id = $1
	`, sessionID)
	if err := row.Scan(
		&s.SessionID, &s.UserID, &s.ExpiresAt,
		&u.ID, &u.OrgID, &u.RoleID, &u.Email, &u.PasswordHash, &u.Status, &u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return &s, &u, nil
}

// Create inserts the session row. The session must have SessionID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (session_id, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, s.SessionID, s.UserID, s.ExpiresAt)
	return err
}

// UpdateExpiry sets the session's expiry. Updating an absent id is a no-op.
func (r *PostgresRepository) UpdateExpiry(ctx context.Context, sessionID string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE sessions SET expires_at = $2 WHERE session_id = $1
	`, sessionID, expiresAt)
	return err
}

// Delete removes the session by primary key. Deleting an absent id is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM sessions WHERE session_id = $1
	`, sessionID)
	return err
}

// DeleteAllByUser removes every session belonging to the user.
func (r *PostgresRepository) DeleteAllByUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM sessions WHERE user_id = $1
	`, userID)
	return err
}
