package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/sqlutil"
	"github.com/mcdev12/gridiron/go/internal/users/db"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreateUser(ctx context.Context, arg db.CreateUserParams) (db.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (db.User, error)
	GetUserByEmail(ctx context.Context, email string) (db.User, error)
	GetUserByUsername(ctx context.Context, username string) (db.User, error)
	UpdateUserProfile(ctx context.Context, arg db.UpdateUserProfileParams) (db.User, error)
	UpdateUserRole(ctx context.Context, arg db.UpdateUserRoleParams) (db.User, error)
	RecordFailedLogin(ctx context.Context, id uuid.UUID) (int32, error)
	LockUser(ctx context.Context, arg db.LockUserParams) error
	RecordSuccessfulLogin(ctx context.Context, arg db.RecordSuccessfulLoginParams) error
	SoftDeleteUser(ctx context.Context, id uuid.UUID) error
	CreateSession(ctx context.Context, arg db.CreateSessionParams) (db.Session, error)
	GetSessionUser(ctx context.Context, arg db.GetSessionUserParams) (db.User, error)
	DeleteSession(ctx context.Context, tokenHash string) error
	DeleteUserSessions(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Repository implements user data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new users repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// CreateUser creates a new user. Unique violations come back as ErrConflict
// naming the duplicated field.
func (r *Repository) CreateUser(ctx context.Context, req CreateUserParams) (*models.User, error) {
	user, err := r.queries.CreateUser(ctx, db.CreateUserParams{
		Username:     req.Username,
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		Role:         string(req.Role),
		PasswordHash: req.PasswordHash,
	})
	if err != nil {
		if constraint, ok := sqlutil.IsUniqueViolation(err); ok {
			field := "email"
			if strings.Contains(constraint, "username") {
				field = "username"
			}
			return nil, apperr.New(apperr.ErrConflict, "A user with this %s already exists", field)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return r.dbUserToModel(user), nil
}

// GetUser retrieves a user by ID
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := r.queries.GetUser(ctx, id)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get user")
	}

	return r.dbUserToModel(user), nil
}

// GetUserByEmail retrieves a user by normalized email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.queries.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get user by email")
	}

	return r.dbUserToModel(user), nil
}

// GetUserByUsername retrieves a user by username, ignoring case
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := r.queries.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get user by username")
	}

	return r.dbUserToModel(user), nil
}

// UpdateProfile updates display name and email
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, displayName, email string) (*models.User, error) {
	user, err := r.queries.UpdateUserProfile(ctx, db.UpdateUserProfileParams{
		ID:          id,
		DisplayName: displayName,
		Email:       email,
	})
	if err != nil {
		if _, ok := sqlutil.IsUniqueViolation(err); ok {
			return nil, apperr.New(apperr.ErrConflict, "A user with this email already exists")
		}
		return nil, sqlutil.MapError(err, "failed to update user")
	}

	return r.dbUserToModel(user), nil
}

// UpdateRole changes a user's role
func (r *Repository) UpdateRole(ctx context.Context, id uuid.UUID, role models.UserRole) (*models.User, error) {
	user, err := r.queries.UpdateUserRole(ctx, db.UpdateUserRoleParams{ID: id, Role: string(role)})
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to update user role")
	}
	return r.dbUserToModel(user), nil
}

// RecordFailedLogin increments the failure counter and returns the new count
func (r *Repository) RecordFailedLogin(ctx context.Context, id uuid.UUID) (int, error) {
	n, err := r.queries.RecordFailedLogin(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to record failed login: %w", err)
	}
	return int(n), nil
}

// LockUser locks the account until the given time
func (r *Repository) LockUser(ctx context.Context, id uuid.UUID, until time.Time) error {
	if err := r.queries.LockUser(ctx, db.LockUserParams{ID: id, LockedUntil: until}); err != nil {
		return fmt.Errorf("failed to lock user: %w", err)
	}
	return nil
}

// RecordSuccessfulLogin clears lockout state and stamps the login time
func (r *Repository) RecordSuccessfulLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if err := r.queries.RecordSuccessfulLogin(ctx, db.RecordSuccessfulLoginParams{ID: id, LastLoginAt: at}); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

// SoftDeleteUser marks the user deleted and revokes every session
func (r *Repository) SoftDeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := r.queries.SoftDeleteUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if err := r.queries.DeleteUserSessions(ctx, id); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

// CreateSession stores a session by token hash
func (r *Repository) CreateSession(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*models.Session, error) {
	s, err := r.queries.CreateSession(ctx, db.CreateSessionParams{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &models.Session{
		ID:        s.ID,
		UserID:    s.UserID,
		TokenHash: s.TokenHash,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
	}, nil
}

// GetSessionUser returns the user owning an unexpired session
func (r *Repository) GetSessionUser(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	user, err := r.queries.GetSessionUser(ctx, db.GetSessionUserParams{TokenHash: tokenHash, Now: now})
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get session")
	}
	return r.dbUserToModel(user), nil
}

// DeleteSession revokes a single session
func (r *Repository) DeleteSession(ctx context.Context, tokenHash string) error {
	if err := r.queries.DeleteSession(ctx, tokenHash); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry
func (r *Repository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.queries.DeleteExpiredSessions(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return n, nil
}

// dbUserToModel converts a database user to domain model
func (r *Repository) dbUserToModel(dbUser db.User) *models.User {
	return &models.User{
		ID:           dbUser.ID,
		Username:     dbUser.Username,
		Email:        dbUser.Email,
		DisplayName:  dbUser.DisplayName,
		Role:         models.UserRole(dbUser.Role),
		PasswordHash: dbUser.PasswordHash,
		FailedLogins: int(dbUser.FailedLogins),
		LockedUntil:  sqlutil.FromSqlTime(dbUser.LockedUntil),
		LastLoginAt:  sqlutil.FromSqlTime(dbUser.LastLoginAt),
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
		DeletedAt:    sqlutil.FromSqlTime(dbUser.DeletedAt),
	}
}
