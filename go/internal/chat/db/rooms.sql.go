package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const roomColumns = `id, league_id, room_type, name, created_at`

func scanRoom(row interface{ Scan(...interface{}) error }) (ChatRoom, error) {
	var i ChatRoom
	err := row.Scan(
		&i.ID,
		&i.LeagueID,
		&i.RoomType,
		&i.Name,
		&i.CreatedAt,
	)
	return i, err
}

const ensureRoom = `-- name: EnsureRoom :one
INSERT INTO chat_rooms (league_id, room_type, name)
VALUES ($1, $2, $3)
ON CONFLICT (league_id, room_type) DO UPDATE SET name = chat_rooms.name
RETURNING ` + roomColumns

type EnsureRoomParams struct {
	LeagueID uuid.UUID
	RoomType string
	Name     string
}

func (q *Queries) EnsureRoom(ctx context.Context, arg EnsureRoomParams) (ChatRoom, error) {
	return scanRoom(q.db.QueryRowContext(ctx, ensureRoom, arg.LeagueID, arg.RoomType, arg.Name))
}

const listLeagueMembersByUsername = `-- name: ListLeagueMembersByUsername :many
SELECT u.id, u.username
FROM fantasy_teams ft
JOIN users u ON u.id = ft.owner_id
WHERE ft.league_id = $1
  AND lower(u.username) = ANY($2::text[])
  AND u.deleted_at IS NULL`

type ListLeagueMembersByUsernameParams struct {
	LeagueID  uuid.UUID
	Usernames []string
}

func (q *Queries) ListLeagueMembersByUsername(ctx context.Context, arg ListLeagueMembersByUsernameParams) ([]LeagueMember, error) {
	rows, err := q.db.QueryContext(ctx, listLeagueMembersByUsername, arg.LeagueID, pq.Array(arg.Usernames))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LeagueMember
	for rows.Next() {
		var i LeagueMember
		if err := rows.Scan(&i.UserID, &i.Username); err != nil {
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
