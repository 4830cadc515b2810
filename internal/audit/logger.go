// Package audit writes the durable audit trail of credential operations.
// Unlike telemetry events, audit entries are persisted in Postgres and
// queryable per org.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"portico/internal/audit/domain"
	auditrepo "portico/internal/audit/repository"
)

// SentinelOrgID is the org_id used for audit events that have no org (e.g. login_failure, password reset for an unknown account).
const SentinelOrgID = "_system"

type clientIPKey struct{}

// WithClientIP stores the request's client IP in the context for the default
// IP extractor. The HTTP layer calls this once per request.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIPFromContext returns the client IP stored by WithClientIP, or
// "unknown" when absent.
func ClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok && ip != "" {
		return ip
	}
	return "unknown"
}

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event with explicit action/resource. Used by auth and session code paths.
// LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, orgID, userID, action, resource, metadata string)
}

// Logger implements AuditLogger using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
}

// NewLogger returns an AuditLogger that persists to repo and uses ipExtractor for client IP.
// ipExtractor may be nil; then ClientIPFromContext is used.
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor) *Logger {
	if ipExtractor == nil {
		ipExtractor = ClientIPFromContext
	}
	return &Logger{repo: repo, ipExtractor: ipExtractor}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, orgID, userID, action, resource, metadata string) {
	if l.repo == nil {
		return
	}
	if orgID == "" {
		orgID = SentinelOrgID
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		IP:        l.ipExtractor(ctx),
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s/%s: %v", action, resource, err)
	}
}
