package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/stretchr/testify/mock"
)

// fakeRepo is an in-memory UsersRepository
type fakeRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	sessions map[string]*models.Session
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    map[uuid.UUID]*models.User{},
		sessions: map[string]*models.Session{},
	}
}

func (f *fakeRepo) CreateUser(ctx context.Context, req CreateUserParams) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == req.Email {
			return nil, apperr.New(apperr.ErrConflict, "A user with this email already exists")
		}
	}
	u := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		Role:         req.Role,
		PasswordHash: req.PasswordHash,
	}
	f.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.DeletedAt == nil && match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeRepo) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return strings.EqualFold(u.Username, username) })
}

func (f *fakeRepo) UpdateProfile(ctx context.Context, id uuid.UUID, displayName, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	u.DisplayName = displayName
	u.Email = email
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) UpdateRole(ctx context.Context, id uuid.UUID, role models.UserRole) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) RecordFailedLogin(ctx context.Context, id uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].FailedLogins++
	return f.users[id].FailedLogins, nil
}

func (f *fakeRepo) LockUser(ctx context.Context, id uuid.UUID, until time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].LockedUntil = &until
	f.users[id].FailedLogins = 0
	return nil
}

func (f *fakeRepo) RecordSuccessfulLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[id]
	u.FailedLogins = 0
	u.LockedUntil = nil
	u.LastLoginAt = &at
	return nil
}

func (f *fakeRepo) SoftDeleteUser(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	f.users[id].DeletedAt = &now
	for hash, s := range f.sessions {
		if s.UserID == id {
			delete(f.sessions, hash)
		}
	}
	return nil
}

func (f *fakeRepo) CreateSession(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &models.Session{ID: uuid.New(), UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt}
	f.sessions[tokenHash] = s
	return s, nil
}

func (f *fakeRepo) GetSessionUser(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	f.mu.Lock()
	s, ok := f.sessions[tokenHash]
	f.mu.Unlock()
	if !ok || !s.ExpiresAt.After(now) {
		return nil, apperr.ErrNotFound
	}
	return f.GetUser(ctx, s.UserID)
}

func (f *fakeRepo) DeleteSession(ctx context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, tokenHash)
	return nil
}

func (f *fakeRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for hash, s := range f.sessions {
		if !s.ExpiresAt.After(now) {
			delete(f.sessions, hash)
			n++
		}
	}
	return n, nil
}

// mockApp is a testify mock of UsersApp
type mockApp struct {
	mock.Mock
}

func (m *mockApp) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*AuthResult)
	return res, args.Error(1)
}

func (m *mockApp) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*AuthResult)
	return res, args.Error(1)
}

func (m *mockApp) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockApp) Refresh(ctx context.Context, token string) (*AuthResult, error) {
	args := m.Called(ctx, token)
	res, _ := args.Get(0).(*AuthResult)
	return res, args.Error(1)
}

func (m *mockApp) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, id, req)
	res, _ := args.Get(0).(*models.User)
	return res, args.Error(1)
}

func (m *mockApp) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
