package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const playerColumns = `id, external_id, full_name, position, nfl_team, bye_week, rank, active, injury_status, created_at`

func scanPlayer(row interface{ Scan(...interface{}) error }) (Player, error) {
	var i Player
	err := row.Scan(
		&i.ID,
		&i.ExternalID,
		&i.FullName,
		&i.Position,
		&i.NflTeam,
		&i.ByeWeek,
		&i.Rank,
		&i.Active,
		&i.InjuryStatus,
		&i.CreatedAt,
	)
	return i, err
}

func (q *Queries) listPlayers(ctx context.Context, query string, args ...interface{}) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		i, err := scanPlayer(rows)
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

const upsertPlayer = `-- name: UpsertPlayer :one
INSERT INTO players (external_id, full_name, position, nfl_team, bye_week, rank, active, injury_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (external_id) DO UPDATE
SET full_name = EXCLUDED.full_name,
    position = EXCLUDED.position,
    nfl_team = EXCLUDED.nfl_team,
    bye_week = EXCLUDED.bye_week,
    rank = EXCLUDED.rank,
    active = EXCLUDED.active,
    injury_status = EXCLUDED.injury_status
RETURNING ` + playerColumns + `, (xmax = 0) AS inserted`

type UpsertPlayerParams struct {
	ExternalID   string
	FullName     string
	Position     string
	NflTeam      string
	ByeWeek      int32
	Rank         int32
	Active       bool
	InjuryStatus string
}

type UpsertPlayerRow struct {
	Player
	Inserted bool
}

func (q *Queries) UpsertPlayer(ctx context.Context, arg UpsertPlayerParams) (UpsertPlayerRow, error) {
	row := q.db.QueryRowContext(ctx, upsertPlayer,
		arg.ExternalID,
		arg.FullName,
		arg.Position,
		arg.NflTeam,
		arg.ByeWeek,
		arg.Rank,
		arg.Active,
		arg.InjuryStatus,
	)
	var i UpsertPlayerRow
	err := row.Scan(
		&i.ID,
		&i.ExternalID,
		&i.FullName,
		&i.Position,
		&i.NflTeam,
		&i.ByeWeek,
		&i.Rank,
		&i.Active,
		&i.InjuryStatus,
		&i.CreatedAt,
		&i.Inserted,
	)
	return i, err
}

const getPlayer = `-- name: GetPlayer :one
SELECT ` + playerColumns + ` FROM players
WHERE id = $1`

func (q *Queries) GetPlayer(ctx context.Context, id uuid.UUID) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, getPlayer, id))
}

const getPlayerByExternalID = `-- name: GetPlayerByExternalID :one
SELECT ` + playerColumns + ` FROM players
WHERE external_id = $1`

func (q *Queries) GetPlayerByExternalID(ctx context.Context, externalID string) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, getPlayerByExternalID, externalID))
}

const getPlayersByIDs = `-- name: GetPlayersByIDs :many
SELECT ` + playerColumns + ` FROM players
WHERE id = ANY($1::uuid[])`

func (q *Queries) GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) ([]Player, error) {
	return q.listPlayers(ctx, getPlayersByIDs, pq.Array(ids))
}

const searchPlayers = `-- name: SearchPlayers :many
SELECT ` + playerColumns + ` FROM players
WHERE active
  AND ($1::text IS NULL OR lower(full_name) LIKE lower($1::text) || '%'
       OR lower(split_part(full_name, ' ', 2)) LIKE lower($1::text) || '%')
  AND ($2::text IS NULL OR position = $2::text)
  AND ($3::text IS NULL OR nfl_team = $3::text)
ORDER BY rank, full_name
LIMIT $4 OFFSET $5`

type SearchPlayersParams struct {
	Name     sql.NullString
	Position sql.NullString
	NflTeam  sql.NullString
	Limit    int32
	Offset   int32
}

func (q *Queries) SearchPlayers(ctx context.Context, arg SearchPlayersParams) ([]Player, error) {
	return q.listPlayers(ctx, searchPlayers,
		arg.Name,
		arg.Position,
		arg.NflTeam,
		arg.Limit,
		arg.Offset,
	)
}

const listAvailablePlayers = `-- name: ListAvailablePlayers :many
SELECT ` + playerColumns + ` FROM players p
WHERE p.active
  AND NOT EXISTS (SELECT 1 FROM roster r WHERE r.league_id = $1 AND r.player_id = p.id)
  AND ($2::text IS NULL OR p.position = $2::text)
ORDER BY p.rank, p.full_name
LIMIT $3`

type ListAvailablePlayersParams struct {
	LeagueID uuid.UUID
	Position sql.NullString
	Limit    int32
}

func (q *Queries) ListAvailablePlayers(ctx context.Context, arg ListAvailablePlayersParams) ([]Player, error) {
	return q.listPlayers(ctx, listAvailablePlayers, arg.LeagueID, arg.Position, arg.Limit)
}

const setInjuryStatus = `-- name: SetInjuryStatus :one
UPDATE players
SET injury_status = $2
WHERE id = $1
RETURNING ` + playerColumns

func (q *Queries) SetInjuryStatus(ctx context.Context, id uuid.UUID, status string) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, setInjuryStatus, id, status))
}
