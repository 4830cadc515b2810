package domain

import "time"

// ResourceAccessToken is a long-lived share-link credential scoped to one
// resource or, when ResourceID is nil, to the whole organization. TokenHash
// is the SHA-256 hex of the secret and the only persisted form of it.
type ResourceAccessToken struct {
	AccessTokenID string
	OrgID         string
	ResourceID    *int // nil = org-wide
	SessionLength time.Duration
	ExpiresAt     *time.Time // nil = permanent
	TokenHash     string
	Title         string
	Description   string
	CreatedAt     time.Time
}

// ExpiredAt reports whether the token is expired as of now. Permanent tokens
// (nil ExpiresAt) never expire.
func (t *ResourceAccessToken) ExpiredAt(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}
