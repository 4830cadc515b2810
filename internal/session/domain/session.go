package domain

import "time"

// Session represents an authenticated login. SessionID is the SHA-256 hex of
// the opaque session token; the token itself is never persisted.
type Session struct {
	SessionID string
	UserID    string
	ExpiresAt time.Time
}

// ExpiredAt reports whether the session has expired as of now.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
