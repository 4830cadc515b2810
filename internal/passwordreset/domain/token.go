// Package domain holds the password reset token model.
package domain

import "time"

// ResetToken is a single-use password reset credential. TokenHash is the
// SHA-256 hex of the emailed secret; the raw secret is never persisted.
type ResetToken struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
}

// ExpiredAt reports whether the token is expired as of now.
func (t *ResetToken) ExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
