package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/notifications/db"
	"github.com/stretchr/testify/mock"
)

// mockRepo is a testify mock of NotificationRepository
type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateNotification(ctx context.Context, n models.Notification) (*models.Notification, error) {
	args := m.Called(ctx, n)
	if r := args.Get(0); r != nil {
		return r.(*models.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit)
	if r := args.Get(0); r != nil {
		return r.([]models.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockRepo) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (*models.Notification, error) {
	args := m.Called(ctx, userID, id, at)
	if r := args.Get(0); r != nil {
		return r.(*models.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int, error) {
	args := m.Called(ctx, userID, at)
	return args.Int(0), args.Error(1)
}

// mockQuerier stubs Querier methods for repository tests
type mockQuerier struct {
	mock.Mock
	Querier
}

func (m *mockQuerier) CreateNotification(ctx context.Context, arg db.CreateNotificationParams) (db.Notification, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Notification), args.Error(1)
}

func (m *mockQuerier) ListUserNotifications(ctx context.Context, arg db.ListUserNotificationsParams) ([]db.Notification, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.Notification), args.Error(1)
}

func (m *mockQuerier) MarkRead(ctx context.Context, arg db.MarkReadParams) (db.Notification, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Notification), args.Error(1)
}

// mockApp is a testify mock of NotificationApp
type mockApp struct {
	mock.Mock
}

func (m *mockApp) Create(ctx context.Context, req CreateNotificationRequest) (*models.Notification, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*models.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*ListResult, error) {
	args := m.Called(ctx, userID, filter)
	if r := args.Get(0); r != nil {
		return r.(*ListResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockApp) MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	args := m.Called(ctx, userID, id)
	if r := args.Get(0); r != nil {
		return r.(*models.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
