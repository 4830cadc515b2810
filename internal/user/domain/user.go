package domain

import (
	"errors"
	"time"
)

// User is the core user entity. The credential subsystem consumes it
// read-only; user CRUD lives in the surrounding platform.
type User struct {
	ID           string
	OrgID        string
	RoleID       int // org role; grants resources via role_resources
	Email        string
	PasswordHash string // bcrypt; never the plaintext
	Status       UserStatus
	CreatedAt    time.Time
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.OrgID == "" {
		return errors.New("org id is required")
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}
