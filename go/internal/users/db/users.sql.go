package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const userColumns = `id, username, email, display_name, role, password_hash, failed_logins, locked_until, last_login_at, created_at, updated_at, deleted_at`

func scanUser(row interface{ Scan(...interface{}) error }) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Email,
		&i.DisplayName,
		&i.Role,
		&i.PasswordHash,
		&i.FailedLogins,
		&i.LockedUntil,
		&i.LastLoginAt,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (username, email, display_name, role, password_hash)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + userColumns

type CreateUserParams struct {
	Username     string
	Email        string
	DisplayName  string
	Role         string
	PasswordHash string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Username,
		arg.Email,
		arg.DisplayName,
		arg.Role,
		arg.PasswordHash,
	)
	return scanUser(row)
}

const getUser = `-- name: GetUser :one
SELECT ` + userColumns + ` FROM users
WHERE id = $1 AND deleted_at IS NULL`

func (q *Queries) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUser, id))
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT ` + userColumns + ` FROM users
WHERE email = $1 AND deleted_at IS NULL`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const getUserByUsername = `-- name: GetUserByUsername :one
SELECT ` + userColumns + ` FROM users
WHERE lower(username) = lower($1) AND deleted_at IS NULL`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByUsername, username))
}

const updateUserProfile = `-- name: UpdateUserProfile :one
UPDATE users
SET display_name = $2, email = $3, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING ` + userColumns

type UpdateUserProfileParams struct {
	ID          uuid.UUID
	DisplayName string
	Email       string
}

func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, updateUserProfile, arg.ID, arg.DisplayName, arg.Email))
}

const updateUserRole = `-- name: UpdateUserRole :one
UPDATE users
SET role = $2, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING ` + userColumns

type UpdateUserRoleParams struct {
	ID   uuid.UUID
	Role string
}

func (q *Queries) UpdateUserRole(ctx context.Context, arg UpdateUserRoleParams) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, updateUserRole, arg.ID, arg.Role))
}

const recordFailedLogin = `-- name: RecordFailedLogin :one
UPDATE users
SET failed_logins = failed_logins + 1, updated_at = now()
WHERE id = $1
RETURNING failed_logins`

func (q *Queries) RecordFailedLogin(ctx context.Context, id uuid.UUID) (int32, error) {
	row := q.db.QueryRowContext(ctx, recordFailedLogin, id)
	var failedLogins int32
	err := row.Scan(&failedLogins)
	return failedLogins, err
}

const lockUser = `-- name: LockUser :exec
UPDATE users
SET locked_until = $2, failed_logins = 0, updated_at = now()
WHERE id = $1`

type LockUserParams struct {
	ID          uuid.UUID
	LockedUntil time.Time
}

func (q *Queries) LockUser(ctx context.Context, arg LockUserParams) error {
	_, err := q.db.ExecContext(ctx, lockUser, arg.ID, arg.LockedUntil)
	return err
}

const recordSuccessfulLogin = `-- name: RecordSuccessfulLogin :exec
UPDATE users
SET failed_logins = 0, locked_until = NULL, last_login_at = $2, updated_at = now()
WHERE id = $1`

type RecordSuccessfulLoginParams struct {
	ID          uuid.UUID
	LastLoginAt time.Time
}

func (q *Queries) RecordSuccessfulLogin(ctx context.Context, arg RecordSuccessfulLoginParams) error {
	_, err := q.db.ExecContext(ctx, recordSuccessfulLogin, arg.ID, arg.LastLoginAt)
	return err
}

const softDeleteUser = `-- name: SoftDeleteUser :exec
UPDATE users
SET deleted_at = now(), updated_at = now()
WHERE id = $1 AND deleted_at IS NULL`

func (q *Queries) SoftDeleteUser(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, softDeleteUser, id)
	return err
}

const createSession = `-- name: CreateSession :one
INSERT INTO sessions (user_id, token_hash, expires_at)
VALUES ($1, $2, $3)
RETURNING id, user_id, token_hash, expires_at, created_at`

type CreateSessionParams struct {
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error) {
	row := q.db.QueryRowContext(ctx, createSession, arg.UserID, arg.TokenHash, arg.ExpiresAt)
	var i Session
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.TokenHash,
		&i.ExpiresAt,
		&i.CreatedAt,
	)
	return i, err
}

const getSessionUser = `-- name: GetSessionUser :one
SELECT u.id, u.username, u.email, u.display_name, u.role, u.password_hash, u.failed_logins,
       u.locked_until, u.last_login_at, u.created_at, u.updated_at, u.deleted_at
FROM sessions s
JOIN users u ON u.id = s.user_id
WHERE s.token_hash = $1 AND s.expires_at > $2 AND u.deleted_at IS NULL AND u.role <> 'suspended'`

type GetSessionUserParams struct {
	TokenHash string
	Now       time.Time
}

func (q *Queries) GetSessionUser(ctx context.Context, arg GetSessionUserParams) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getSessionUser, arg.TokenHash, arg.Now))
}

const deleteSession = `-- name: DeleteSession :exec
DELETE FROM sessions WHERE token_hash = $1`

func (q *Queries) DeleteSession(ctx context.Context, tokenHash string) error {
	_, err := q.db.ExecContext(ctx, deleteSession, tokenHash)
	return err
}

const deleteUserSessions = `-- name: DeleteUserSessions :exec
DELETE FROM sessions WHERE user_id = $1`

func (q *Queries) DeleteUserSessions(ctx context.Context, userID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteUserSessions, userID)
	return err
}

const deleteExpiredSessions = `-- name: DeleteExpiredSessions :execrows
DELETE FROM sessions WHERE expires_at <= $1`

func (q *Queries) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpiredSessions, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
