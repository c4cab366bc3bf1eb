package db

import (
	"context"

	"github.com/google/uuid"
)

const draftPickColumns = `id, draft_id, round, pick, overall_pick, team_id, player_id, picked_at, auto_picked`

func scanDraftPick(row interface{ Scan(...interface{}) error }) (DraftPick, error) {
	var i DraftPick
	err := row.Scan(
		&i.ID,
		&i.DraftID,
		&i.Round,
		&i.Pick,
		&i.OverallPick,
		&i.TeamID,
		&i.PlayerID,
		&i.PickedAt,
		&i.AutoPicked,
	)
	return i, err
}

const createDraftPick = `-- name: CreateDraftPick :exec
INSERT INTO draft_picks (id, draft_id, round, pick, overall_pick, team_id)
VALUES ($1, $2, $3, $4, $5, $6)`

type CreateDraftPickParams struct {
	ID          uuid.UUID
	DraftID     uuid.UUID
	Round       int32
	Pick        int32
	OverallPick int32
	TeamID      uuid.UUID
}

func (q *Queries) CreateDraftPick(ctx context.Context, arg CreateDraftPickParams) error {
	_, err := q.db.ExecContext(ctx, createDraftPick,
		arg.ID,
		arg.DraftID,
		arg.Round,
		arg.Pick,
		arg.OverallPick,
		arg.TeamID,
	)
	return err
}

const getDraftBoard = `-- name: GetDraftBoard :many
SELECT dp.id, dp.draft_id, dp.round, dp.pick, dp.overall_pick, dp.team_id, dp.player_id, dp.picked_at, dp.auto_picked,
       p.full_name, p.position
FROM draft_picks dp
LEFT JOIN players p ON p.id = dp.player_id
WHERE dp.draft_id = $1
ORDER BY dp.overall_pick`

func (q *Queries) GetDraftBoard(ctx context.Context, draftID uuid.UUID) ([]DraftBoardRow, error) {
	rows, err := q.db.QueryContext(ctx, getDraftBoard, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DraftBoardRow
	for rows.Next() {
		var i DraftBoardRow
		if err := rows.Scan(
			&i.ID,
			&i.DraftID,
			&i.Round,
			&i.Pick,
			&i.OverallPick,
			&i.TeamID,
			&i.PlayerID,
			&i.PickedAt,
			&i.AutoPicked,
			&i.PlayerName,
			&i.PlayerPosition,
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

const getNextOpenPick = `-- name: GetNextOpenPick :one
SELECT ` + draftPickColumns + ` FROM draft_picks
WHERE draft_id = $1 AND player_id IS NULL
ORDER BY overall_pick
LIMIT 1`

func (q *Queries) GetNextOpenPick(ctx context.Context, draftID uuid.UUID) (DraftPick, error) {
	return scanDraftPick(q.db.QueryRowContext(ctx, getNextOpenPick, draftID))
}

const recordPick = `-- name: RecordPick :execrows
UPDATE draft_picks
SET player_id = $2, picked_at = now(), auto_picked = $3
WHERE id = $1 AND player_id IS NULL`

type RecordPickParams struct {
	ID         uuid.UUID
	PlayerID   uuid.NullUUID
	AutoPicked bool
}

func (q *Queries) RecordPick(ctx context.Context, arg RecordPickParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, recordPick, arg.ID, arg.PlayerID, arg.AutoPicked)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countRemainingPicks = `-- name: CountRemainingPicks :one
SELECT count(*) FROM draft_picks
WHERE draft_id = $1 AND player_id IS NULL`

func (q *Queries) CountRemainingPicks(ctx context.Context, draftID uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countRemainingPicks, draftID).Scan(&count)
	return count, err
}

const addDraftedPlayer = `-- name: AddDraftedPlayer :exec
INSERT INTO roster (league_id, fantasy_team_id, player_id, position, acquisition_type, acquisition_cost)
VALUES ($1, $2, $3, 'BENCH', 'DRAFT', 0)`

type AddDraftedPlayerParams struct {
	LeagueID      uuid.UUID
	FantasyTeamID uuid.UUID
	PlayerID      uuid.UUID
}

func (q *Queries) AddDraftedPlayer(ctx context.Context, arg AddDraftedPlayerParams) error {
	_, err := q.db.ExecContext(ctx, addDraftedPlayer, arg.LeagueID, arg.FantasyTeamID, arg.PlayerID)
	return err
}

const bestAvailablePlayer = `-- name: BestAvailablePlayer :one
SELECT p.id, p.full_name, p.position, p.rank
FROM players p
WHERE p.active
  AND NOT EXISTS (SELECT 1 FROM roster r WHERE r.league_id = $1 AND r.player_id = p.id)
ORDER BY p.rank, p.full_name
LIMIT 1`

func (q *Queries) BestAvailablePlayer(ctx context.Context, leagueID uuid.UUID) (AvailablePlayer, error) {
	var i AvailablePlayer
	err := q.db.QueryRowContext(ctx, bestAvailablePlayer, leagueID).Scan(&i.ID, &i.FullName, &i.Position, &i.Rank)
	return i, err
}
