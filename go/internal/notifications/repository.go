package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/notifications/db"
	"github.com/mcdev12/gridiron/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreateNotification(ctx context.Context, arg db.CreateNotificationParams) (db.Notification, error)
	ListUserNotifications(ctx context.Context, arg db.ListUserNotificationsParams) ([]db.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, arg db.MarkReadParams) (db.Notification, error)
	MarkAllRead(ctx context.Context, arg db.MarkAllReadParams) (int64, error)
}

// Repository implements notification data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new notifications repository
func NewRepository(querier Querier) *Repository {
	return &Repository{queries: querier}
}

// CreateNotification stores a notification
func (r *Repository) CreateNotification(ctx context.Context, n models.Notification) (*models.Notification, error) {
	var data pqtype.NullRawMessage
	if len(n.Data) > 0 {
		data = pqtype.NullRawMessage{RawMessage: n.Data, Valid: true}
	}
	row, err := r.queries.CreateNotification(ctx, db.CreateNotificationParams{
		UserID:    n.UserID,
		LeagueID:  sqlutil.ToNullUUID(n.LeagueID),
		Type:      string(n.Type),
		Priority:  string(n.Priority),
		Title:     n.Title,
		Message:   n.Message,
		Data:      data,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return r.dbNotificationToModel(row), nil
}

// ListForUser returns a user's notifications, newest first
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	rows, err := r.queries.ListUserNotifications(ctx, db.ListUserNotificationsParams{
		UserID:     userID,
		UnreadOnly: unreadOnly,
		Limit:      int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	out := make([]models.Notification, len(rows))
	for i, row := range rows {
		out[i] = *r.dbNotificationToModel(row)
	}
	return out, nil
}

// CountUnread counts a user's unread notifications
func (r *Repository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := r.queries.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return int(n), nil
}

// MarkRead marks one of the user's notifications read. Reading it again keeps
// the first read time.
func (r *Repository) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (*models.Notification, error) {
	row, err := r.queries.MarkRead(ctx, db.MarkReadParams{ID: id, UserID: userID, ReadAt: at})
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to mark notification read")
	}
	return r.dbNotificationToModel(row), nil
}

// MarkAllRead marks every unread notification of the user read
func (r *Repository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int, error) {
	n, err := r.queries.MarkAllRead(ctx, db.MarkAllReadParams{UserID: userID, ReadAt: at})
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return int(n), nil
}

// dbNotificationToModel converts a database notification to domain model
func (r *Repository) dbNotificationToModel(n db.Notification) *models.Notification {
	var data json.RawMessage
	if n.Data.Valid {
		data = n.Data.RawMessage
	}
	return &models.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		LeagueID:  sqlutil.FromNullUUID(n.LeagueID),
		Type:      models.NotificationType(n.Type),
		Priority:  models.NotificationPriority(n.Priority),
		Title:     n.Title,
		Message:   n.Message,
		Data:      data,
		ReadAt:    sqlutil.FromSqlTime(n.ReadAt),
		CreatedAt: n.CreatedAt,
	}
}
