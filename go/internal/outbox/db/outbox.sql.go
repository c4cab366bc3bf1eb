package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const insertOutboxEvent = `-- name: InsertOutboxEvent :exec
INSERT INTO event_outbox (id, room, event_type, payload, created_at)
VALUES ($1, $2, $3, $4, $5)`

type InsertOutboxEventParams struct {
	ID        uuid.UUID
	Room      string
	EventType string
	Payload   pqtype.NullRawMessage
	CreatedAt time.Time
}

func (q *Queries) InsertOutboxEvent(ctx context.Context, arg InsertOutboxEventParams) error {
	_, err := q.db.ExecContext(ctx, insertOutboxEvent,
		arg.ID,
		arg.Room,
		arg.EventType,
		arg.Payload,
		arg.CreatedAt,
	)
	return err
}

const fetchUnsentOutbox = `-- name: FetchUnsentOutbox :many
SELECT id, room, event_type, payload, created_at, sent_at
FROM event_outbox
WHERE sent_at IS NULL
ORDER BY created_at
LIMIT $1`

func (q *Queries) FetchUnsentOutbox(ctx context.Context, limit int32) ([]EventOutbox, error) {
	rows, err := q.db.QueryContext(ctx, fetchUnsentOutbox, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []EventOutbox
	for rows.Next() {
		var i EventOutbox
		if err := rows.Scan(
			&i.ID,
			&i.Room,
			&i.EventType,
			&i.Payload,
			&i.CreatedAt,
			&i.SentAt,
		); err != nil {
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

const fetchOutboxByID = `-- name: FetchOutboxByID :one
SELECT id, room, event_type, payload, created_at, sent_at
FROM event_outbox
WHERE id = $1 AND sent_at IS NULL`

func (q *Queries) FetchOutboxByID(ctx context.Context, id uuid.UUID) (EventOutbox, error) {
	row := q.db.QueryRowContext(ctx, fetchOutboxByID, id)
	var i EventOutbox
	err := row.Scan(
		&i.ID,
		&i.Room,
		&i.EventType,
		&i.Payload,
		&i.CreatedAt,
		&i.SentAt,
	)
	return i, err
}

const markOutboxSent = `-- name: MarkOutboxSent :exec
UPDATE event_outbox SET sent_at = $2 WHERE id = $1 AND sent_at IS NULL`

func (q *Queries) MarkOutboxSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	_, err := q.db.ExecContext(ctx, markOutboxSent, id, sentAt)
	return err
}

const countPendingOutbox = `-- name: CountPendingOutbox :one
SELECT count(*) FROM event_outbox WHERE sent_at IS NULL`

func (q *Queries) CountPendingOutbox(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPendingOutbox)
	var count int64
	err := row.Scan(&count)
	return count, err
}
