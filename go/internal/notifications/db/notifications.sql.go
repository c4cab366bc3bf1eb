package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const notificationColumns = `id, user_id, league_id, type, priority, title, message, data, read_at, created_at`

func scanNotification(row interface{ Scan(...interface{}) error }) (Notification, error) {
	var i Notification
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.LeagueID,
		&i.Type,
		&i.Priority,
		&i.Title,
		&i.Message,
		&i.Data,
		&i.ReadAt,
		&i.CreatedAt,
	)
	return i, err
}

const createNotification = `-- name: CreateNotification :one
INSERT INTO notifications (user_id, league_id, type, priority, title, message, data, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + notificationColumns

type CreateNotificationParams struct {
	UserID    uuid.UUID
	LeagueID  uuid.NullUUID
	Type      string
	Priority  string
	Title     string
	Message   string
	Data      pqtype.NullRawMessage
	CreatedAt time.Time
}

func (q *Queries) CreateNotification(ctx context.Context, arg CreateNotificationParams) (Notification, error) {
	row := q.db.QueryRowContext(ctx, createNotification,
		arg.UserID,
		arg.LeagueID,
		arg.Type,
		arg.Priority,
		arg.Title,
		arg.Message,
		arg.Data,
		arg.CreatedAt,
	)
	return scanNotification(row)
}

const listUserNotifications = `-- name: ListUserNotifications :many
SELECT ` + notificationColumns + ` FROM notifications
WHERE user_id = $1
  AND (NOT $2::boolean OR read_at IS NULL)
ORDER BY created_at DESC
LIMIT $3`

type ListUserNotificationsParams struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Limit      int32
}

func (q *Queries) ListUserNotifications(ctx context.Context, arg ListUserNotificationsParams) ([]Notification, error) {
	rows, err := q.db.QueryContext(ctx, listUserNotifications, arg.UserID, arg.UnreadOnly, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Notification
	for rows.Next() {
		i, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countUnread = `-- name: CountUnread :one
SELECT count(*) FROM notifications
WHERE user_id = $1 AND read_at IS NULL`

func (q *Queries) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	row := q.db.QueryRowContext(ctx, countUnread, userID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const markRead = `-- name: MarkRead :one
UPDATE notifications SET read_at = COALESCE(read_at, $3)
WHERE id = $1 AND user_id = $2
RETURNING ` + notificationColumns

type MarkReadParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
	ReadAt time.Time
}

func (q *Queries) MarkRead(ctx context.Context, arg MarkReadParams) (Notification, error) {
	return scanNotification(q.db.QueryRowContext(ctx, markRead, arg.ID, arg.UserID, arg.ReadAt))
}

const markAllRead = `-- name: MarkAllRead :execrows
UPDATE notifications SET read_at = $2
WHERE user_id = $1 AND read_at IS NULL`

type MarkAllReadParams struct {
	UserID uuid.UUID
	ReadAt time.Time
}

func (q *Queries) MarkAllRead(ctx context.Context, arg MarkAllReadParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, markAllRead, arg.UserID, arg.ReadAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
