// Package telemetry defines the auth event model and best-effort emission
// helpers. Events describe credential lifecycle moments (login, logout,
// password reset) and are exported as OTel log records.
package telemetry

import (
	"context"
	"time"
)

// Event is one auth event (org-scoped, optional user/session).
type Event struct {
	OrgID     string
	UserID    string
	SessionID string
	EventType string
	Source    string
	Metadata  []byte // JSON
	CreatedAt time.Time
}

// EventEmitter emits auth events (e.g. to OTel Logs). Best-effort; callers
// log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *Event) error
}
