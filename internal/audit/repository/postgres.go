package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portico/internal/audit/domain"
)

// PostgresRepository persists audit logs via a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns an audit log repository backed by the given pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const auditColumns = `audit_log_id, org_id, user_id, action, resource, ip, metadata, created_at`

// GetByID returns the audit log for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+auditColumns+` FROM audit_logs WHERE audit_log_id = $1
	`, id)
	a, err := scanAuditLog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// ListByOrg returns the org's audit logs newest first, paginated.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]*domain.AuditLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+auditColumns+`
		FROM audit_logs
		WHERE org_id = $1
		ORDER BY created_at DESC, audit_log_id
		LIMIT $2 OFFSET $3
	`, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.AuditLog
	for rows.Next() {
		a, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create persists the audit log. The entry must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_logs (audit_log_id, org_id, user_id, action, resource, ip, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, a.ID, a.OrgID, a.UserID, a.Action, a.Resource, a.IP, a.Metadata, a.CreatedAt)
	return err
}

func scanAuditLog(row pgx.Row) (*domain.AuditLog, error) {
	var a domain.AuditLog
	if err := row.Scan(&a.ID, &a.OrgID, &a.UserID, &a.Action, &a.Resource, &a.IP, &a.Metadata, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
