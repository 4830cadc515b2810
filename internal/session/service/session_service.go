// Package service implements the session lifecycle: opaque-token issuance,
// validation with sliding renewal, and invalidation.
package service

import (
	"context"
	"log"
	"time"

	"portico/internal/security"
	"portico/internal/session/domain"
	"portico/internal/session/repository"
	userdomain "portico/internal/user/domain"
)

// SessionValidity is the fixed validity window V of a session. A session used
// within the trailing V/2 of its window is renewed to now+V, so an active
// session never expires and writes are bounded to one per V/2 per session.
const SessionValidity = 30 * 24 * time.Hour

// Store owns session lifecycle against the session repository.
type Store struct {
	repo repository.Repository
	now  func() time.Time
}

// NewStore returns a session Store backed by repo.
func NewStore(repo repository.Repository) *Store {
	return &Store{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create persists a new session for the raw token and user. The stored
// session id is the token's SHA-256 hex; the token itself is not stored.
func (s *Store) Create(ctx context.Context, token, userID string) (*domain.Session, error) {
	session := &domain.Session{
		SessionID: security.HashToken(token),
		UserID:    userID,
		ExpiresAt: s.now().Add(SessionValidity),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Validate resolves the raw token to its session and user.
//
// Unknown token: (nil, nil, nil). Expired session: the row is deleted and
// (nil, nil, nil) is returned; a failed delete is logged and does not change
// the outcome, since the session is invalid either way. A session inside the
// trailing half of its validity window is extended to now+SessionValidity
// before being returned; a failed extension surfaces as a store error.
func (s *Store) Validate(ctx context.Context, token string) (*domain.Session, *userdomain.User, error) {
	sessionID := security.HashToken(token)
	session, user, err := s.repo.GetWithUser(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, nil
	}
	now := s.now()
	if session.ExpiredAt(now) {
		if err := s.repo.Delete(ctx, sessionID); err != nil {
			log.Printf("session: delete expired session: %v", err)
		}
		return nil, nil, nil
	}
	if !now.Before(session.ExpiresAt.Add(-SessionValidity / 2)) {
		session.ExpiresAt = now.Add(SessionValidity)
		if err := s.repo.UpdateExpiry(ctx, sessionID, session.ExpiresAt); err != nil {
			return nil, nil, err
		}
	}
	return session, user, nil
}

// Invalidate deletes one session by id. Idempotent.
func (s *Store) Invalidate(ctx context.Context, sessionID string) error {
	return s.repo.Delete(ctx, sessionID)
}

// InvalidateAll deletes every session for the user. Used by
// logout-everywhere and credential-change flows.
func (s *Store) InvalidateAll(ctx context.Context, userID string) error {
	return s.repo.DeleteAllByUser(ctx, userID)
}
