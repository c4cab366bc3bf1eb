package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const messageColumns = `m.id, m.room_id, m.league_id, m.user_id, u.username, m.body, m.created_at, m.deleted_at`

func scanMessage(row interface{ Scan(...interface{}) error }) (ChatMessage, error) {
	var i ChatMessage
	err := row.Scan(
		&i.ID,
		&i.RoomID,
		&i.LeagueID,
		&i.UserID,
		&i.Username,
		&i.Body,
		&i.CreatedAt,
		&i.DeletedAt,
	)
	return i, err
}

func scanMessages(rows *sql.Rows, err error) ([]ChatMessage, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ChatMessage
	for rows.Next() {
		i, err := scanMessage(rows)
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

const createMessage = `-- name: CreateMessage :one
WITH m AS (
    INSERT INTO chat_messages (room_id, league_id, user_id, body, created_at)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING *
)
SELECT ` + messageColumns + `
FROM m JOIN users u ON u.id = m.user_id`

type CreateMessageParams struct {
	RoomID    uuid.UUID
	LeagueID  uuid.UUID
	UserID    uuid.UUID
	Body      string
	CreatedAt time.Time
}

func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (ChatMessage, error) {
	row := q.db.QueryRowContext(ctx, createMessage,
		arg.RoomID,
		arg.LeagueID,
		arg.UserID,
		arg.Body,
		arg.CreatedAt,
	)
	return scanMessage(row)
}

const getMessage = `-- name: GetMessage :one
SELECT ` + messageColumns + `
FROM chat_messages m JOIN users u ON u.id = m.user_id
WHERE m.id = $1`

func (q *Queries) GetMessage(ctx context.Context, id uuid.UUID) (ChatMessage, error) {
	return scanMessage(q.db.QueryRowContext(ctx, getMessage, id))
}

const listRoomMessages = `-- name: ListRoomMessages :many
SELECT ` + messageColumns + `
FROM chat_messages m JOIN users u ON u.id = m.user_id
WHERE m.room_id = $1
  AND m.deleted_at IS NULL
  AND ($2::uuid IS NULL OR (m.created_at, m.id) < (
      SELECT c.created_at, c.id FROM chat_messages c WHERE c.id = $2
  ))
ORDER BY m.created_at DESC, m.id DESC
LIMIT $3`

type ListRoomMessagesParams struct {
	RoomID uuid.UUID
	Before uuid.NullUUID
	Limit  int32
}

func (q *Queries) ListRoomMessages(ctx context.Context, arg ListRoomMessagesParams) ([]ChatMessage, error) {
	return scanMessages(q.db.QueryContext(ctx, listRoomMessages, arg.RoomID, arg.Before, arg.Limit))
}

const searchLeagueMessages = `-- name: SearchLeagueMessages :many
SELECT ` + messageColumns + `
FROM chat_messages m JOIN users u ON u.id = m.user_id
WHERE m.league_id = $1
  AND m.deleted_at IS NULL
  AND m.body ILIKE '%' || $2 || '%' ESCAPE '\'
ORDER BY m.created_at DESC
LIMIT $3`

type SearchLeagueMessagesParams struct {
	LeagueID uuid.UUID
	Pattern  string
	Limit    int32
}

func (q *Queries) SearchLeagueMessages(ctx context.Context, arg SearchLeagueMessagesParams) ([]ChatMessage, error) {
	return scanMessages(q.db.QueryContext(ctx, searchLeagueMessages, arg.LeagueID, arg.Pattern, arg.Limit))
}

const softDeleteMessage = `-- name: SoftDeleteMessage :execrows
UPDATE chat_messages SET deleted_at = $2
WHERE id = $1 AND deleted_at IS NULL`

type SoftDeleteMessageParams struct {
	ID        uuid.UUID
	DeletedAt time.Time
}

func (q *Queries) SoftDeleteMessage(ctx context.Context, arg SoftDeleteMessageParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, softDeleteMessage, arg.ID, arg.DeletedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const addReaction = `-- name: AddReaction :exec
INSERT INTO chat_reactions (message_id, user_id, emoji, created_at)
VALUES ($1, $2, $3, $4)`

type AddReactionParams struct {
	MessageID uuid.UUID
	UserID    uuid.UUID
	Emoji     string
	CreatedAt time.Time
}

func (q *Queries) AddReaction(ctx context.Context, arg AddReactionParams) error {
	_, err := q.db.ExecContext(ctx, addReaction, arg.MessageID, arg.UserID, arg.Emoji, arg.CreatedAt)
	return err
}

const removeReaction = `-- name: RemoveReaction :execrows
DELETE FROM chat_reactions
WHERE message_id = $1 AND user_id = $2 AND emoji = $3`

type RemoveReactionParams struct {
	MessageID uuid.UUID
	UserID    uuid.UUID
	Emoji     string
}

func (q *Queries) RemoveReaction(ctx context.Context, arg RemoveReactionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, removeReaction, arg.MessageID, arg.UserID, arg.Emoji)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listReactionCounts = `-- name: ListReactionCounts :many
SELECT message_id, emoji, count(*)
FROM chat_reactions
WHERE message_id = ANY($1::uuid[])
GROUP BY message_id, emoji
ORDER BY message_id, min(created_at)`

func (q *Queries) ListReactionCounts(ctx context.Context, messageIDs []uuid.UUID) ([]ReactionCount, error) {
	rows, err := q.db.QueryContext(ctx, listReactionCounts, pq.Array(messageIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ReactionCount
	for rows.Next() {
		var i ReactionCount
		if err := rows.Scan(&i.MessageID, &i.Emoji, &i.Count); err != nil {
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
