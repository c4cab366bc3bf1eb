package users

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/validation"
	"github.com/rs/zerolog/log"
)

const invalidCredentials = "Invalid email or password"

// UsersRepository defines what the app layer needs from the repository
type UsersRepository interface {
	CreateUser(ctx context.Context, req CreateUserParams) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, displayName, email string) (*models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role models.UserRole) (*models.User, error)
	RecordFailedLogin(ctx context.Context, id uuid.UUID) (int, error)
	LockUser(ctx context.Context, id uuid.UUID, until time.Time) error
	RecordSuccessfulLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SoftDeleteUser(ctx context.Context, id uuid.UUID) error
	CreateSession(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*models.Session, error)
	GetSessionUser(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	DeleteSession(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// App handles accounts, credentials and sessions
type App struct {
	repo  UsersRepository
	clock clockwork.Clock
	cfg   Config
}

// NewApp creates a new users App
func NewApp(repo UsersRepository, clock clockwork.Clock, cfg Config) *App {
	return &App{
		repo:  repo,
		clock: clock,
		cfg:   cfg,
	}
}

var _ auth.SessionResolver = (*App)(nil)

// Signup registers a new account and opens a session for it
func (a *App) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	email := validation.NormalizeEmail(req.Email)
	displayName := validation.SanitizeString(req.DisplayName, 50)
	if displayName == "" {
		displayName = req.Username
	}

	// Check if user with same email already exists
	if _, err := a.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, apperr.New(apperr.ErrConflict, "A user with this email already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	// Check if user with same username already exists
	if _, err := a.repo.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, apperr.New(apperr.ErrConflict, "A user with this username already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := auth.HashPassword(req.Password, a.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := a.repo.CreateUser(ctx, CreateUserParams{
		Username:     req.Username,
		Email:        email,
		DisplayName:  displayName,
		Role:         models.UserRolePlayer,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	result, err := a.openSession(ctx, user, false)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user signed up")
	return result, nil
}

// Login checks credentials, enforcing lockout after repeated failures
func (a *App) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	user, err := a.repo.GetUserByEmail(ctx, validation.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.New(apperr.ErrUnauthorized, invalidCredentials)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	now := a.clock.Now()
	if user.IsLocked(now) {
		minutes := int(math.Ceil(user.LockedUntil.Sub(now).Minutes()))
		return nil, apperr.WithData(apperr.ErrLocked,
			fmt.Sprintf("Account is temporarily locked. Try again in %d minutes.", minutes),
			map[string]any{"lock_time_remaining": minutes})
	}

	if user.Role == models.UserRoleSuspended {
		return nil, apperr.WithData(apperr.ErrForbidden,
			"Account is suspended. Please contact support.",
			map[string]any{"account_suspended": true})
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, a.failLogin(ctx, user, now)
	}

	if err := a.repo.RecordSuccessfulLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.FailedLogins = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now

	result, err := a.openSession(ctx, user, req.RememberMe)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Bool("remember_me", req.RememberMe).Msg("user logged in")
	return result, nil
}

func (a *App) failLogin(ctx context.Context, user *models.User, now time.Time) error {
	attempts, err := a.repo.RecordFailedLogin(ctx, user.ID)
	if err != nil {
		return err
	}

	remaining := a.cfg.MaxAttempts - attempts
	if remaining <= 0 {
		remaining = 0
		if err := a.repo.LockUser(ctx, user.ID, now.Add(a.cfg.LockDuration)); err != nil {
			return err
		}
		log.Warn().Str("user_id", user.ID.String()).Dur("lock", a.cfg.LockDuration).Msg("account locked after failed logins")
	}

	return apperr.WithData(apperr.ErrUnauthorized, invalidCredentials, map[string]any{"attempts_remaining": remaining})
}

// Logout revokes the presented session
func (a *App) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return a.repo.DeleteSession(ctx, auth.HashToken(token))
}

// Refresh swaps a live session token for a new one
func (a *App) Refresh(ctx context.Context, token string) (*AuthResult, error) {
	user, err := a.UserForToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.New(apperr.ErrUnauthorized, "Invalid or expired session token")
		}
		return nil, err
	}

	if err := a.repo.DeleteSession(ctx, auth.HashToken(token)); err != nil {
		return nil, err
	}
	return a.openSession(ctx, user, false)
}

// UserForToken resolves a session token to its user
func (a *App) UserForToken(ctx context.Context, token string) (*models.User, error) {
	return a.repo.GetSessionUser(ctx, auth.HashToken(token), a.clock.Now())
}

// GetUser retrieves a user by ID
func (a *App) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile updates the caller's own profile
func (a *App) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*models.User, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	existing, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	displayName := existing.DisplayName
	if req.DisplayName != nil {
		displayName = validation.SanitizeString(*req.DisplayName, 50)
	}

	email := existing.Email
	if req.Email != nil {
		email = validation.NormalizeEmail(*req.Email)
		if email != existing.Email {
			if _, err := a.repo.GetUserByEmail(ctx, email); err == nil {
				return nil, apperr.New(apperr.ErrConflict, "A user with this email already exists")
			}
		}
	}

	user, err := a.repo.UpdateProfile(ctx, id, displayName, email)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	log.Info().Str("user_id", user.ID.String()).Msg("updated user profile")
	return user, nil
}

// SetRole changes a user's role. Suspending a user also blocks their sessions.
func (a *App) SetRole(ctx context.Context, id uuid.UUID, role models.UserRole) (*models.User, error) {
	switch role {
	case models.UserRolePlayer, models.UserRoleCommissioner, models.UserRoleAdmin, models.UserRoleSuspended:
	default:
		return nil, apperr.Field("role", "must be one of: player commissioner admin suspended")
	}
	user, err := a.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	log.Info().Str("user_id", id.String()).Str("role", string(role)).Msg("changed user role")
	return user, nil
}

// DeleteAccount soft-deletes the user
func (a *App) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := a.repo.SoftDeleteUser(ctx, id); err != nil {
		return err
	}
	log.Info().Str("user_id", id.String()).Msg("deleted user account")
	return nil
}

// CleanupSessions removes expired sessions
func (a *App) CleanupSessions(ctx context.Context) (int64, error) {
	return a.repo.DeleteExpiredSessions(ctx, a.clock.Now())
}

func (a *App) openSession(ctx context.Context, user *models.User, rememberMe bool) (*AuthResult, error) {
	token, hash, err := auth.NewToken()
	if err != nil {
		return nil, err
	}

	ttl := a.cfg.SessionTTL
	if rememberMe {
		ttl = a.cfg.RememberMeTTL
	}
	expiresAt := a.clock.Now().Add(ttl)

	if _, err := a.repo.CreateSession(ctx, user.ID, hash, expiresAt); err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

