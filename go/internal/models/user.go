package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole controls what a user may do across the system
type UserRole string

const (
	UserRolePlayer       UserRole = "player"
	UserRoleCommissioner UserRole = "commissioner"
	UserRoleAdmin        UserRole = "admin"
	UserRoleSuspended    UserRole = "suspended"
)

// User represents a user in the system
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	Role         UserRole   `json:"role"`
	PasswordHash string     `json:"-"`
	FailedLogins int        `json:"-"`
	LockedUntil  *time.Time `json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

// IsLocked reports whether the account is locked at the given instant
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// Session is an authenticated login. Only the token hash is persisted.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
