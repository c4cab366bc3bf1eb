package users

import (
	"time"

	"github.com/mcdev12/gridiron/go/internal/models"
)

// SignupRequest represents the data needed to register a new account
type SignupRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Username    string `json:"username" validate:"required,username"`
	Password    string `json:"password" validate:"required,password"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=50,safetext"`
}

// LoginRequest represents a credential check
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,max=128"`
	RememberMe bool   `json:"remember_me,omitempty"`
}

// UpdateProfileRequest represents the profile fields a user may change
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=50,safetext"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
}

// CreateUserParams is what the repository needs to insert a user
type CreateUserParams struct {
	Username     string
	Email        string
	DisplayName  string
	Role         models.UserRole
	PasswordHash string
}

// AuthResult is returned by signup, login and refresh
type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Config tunes sessions and lockout
type Config struct {
	SessionTTL    time.Duration
	RememberMeTTL time.Duration
	BcryptCost    int
	MaxAttempts   int
	LockDuration  time.Duration
}

// DefaultConfig returns the standard session and lockout settings
func DefaultConfig() Config {
	return Config{
		SessionTTL:    24 * time.Hour,
		RememberMeTTL: 30 * 24 * time.Hour,
		BcryptCost:    12,
		MaxAttempts:   5,
		LockDuration:  15 * time.Minute,
	}
}
