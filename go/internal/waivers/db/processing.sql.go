package db

import (
	"context"

	"github.com/google/uuid"
)

const listWaiverTeamsForUpdate = `-- name: ListWaiverTeamsForUpdate :many
SELECT id, owner_id, name, wins, losses, ties, points_for, waiver_priority, faab_remaining
FROM fantasy_teams
WHERE league_id = $1
ORDER BY waiver_priority, created_at
FOR UPDATE`

func (q *Queries) ListWaiverTeamsForUpdate(ctx context.Context, leagueID uuid.UUID) ([]WaiverTeam, error) {
	rows, err := q.db.QueryContext(ctx, listWaiverTeamsForUpdate, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WaiverTeam
	for rows.Next() {
		var i WaiverTeam
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Name,
			&i.Wins,
			&i.Losses,
			&i.Ties,
			&i.PointsFor,
			&i.WaiverPriority,
			&i.FaabRemaining,
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

const listRosterSlots = `-- name: ListRosterSlots :many
SELECT fantasy_team_id, player_id, position FROM roster
WHERE league_id = $1`

func (q *Queries) ListRosterSlots(ctx context.Context, leagueID uuid.UUID) ([]RosterSlot, error) {
	rows, err := q.db.QueryContext(ctx, listRosterSlots, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RosterSlot
	for rows.Next() {
		var i RosterSlot
		if err := rows.Scan(&i.FantasyTeamID, &i.PlayerID, &i.Position); err != nil {
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

const getRosterSlot = `-- name: GetRosterSlot :one
SELECT fantasy_team_id, player_id, position FROM roster
WHERE league_id = $1 AND player_id = $2`

type GetRosterSlotParams struct {
	LeagueID uuid.UUID
	PlayerID uuid.UUID
}

func (q *Queries) GetRosterSlot(ctx context.Context, arg GetRosterSlotParams) (RosterSlot, error) {
	var i RosterSlot
	err := q.db.QueryRowContext(ctx, getRosterSlot, arg.LeagueID, arg.PlayerID).
		Scan(&i.FantasyTeamID, &i.PlayerID, &i.Position)
	return i, err
}

const dropRosterPlayer = `-- name: DropRosterPlayer :execrows
DELETE FROM roster
WHERE fantasy_team_id = $1 AND player_id = $2`

type DropRosterPlayerParams struct {
	FantasyTeamID uuid.UUID
	PlayerID      uuid.UUID
}

func (q *Queries) DropRosterPlayer(ctx context.Context, arg DropRosterPlayerParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, dropRosterPlayer, arg.FantasyTeamID, arg.PlayerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const addWaiverPlayer = `-- name: AddWaiverPlayer :exec
INSERT INTO roster (league_id, fantasy_team_id, player_id, position, acquisition_type, acquisition_cost)
VALUES ($1, $2, $3, 'BENCH', 'WAIVER', $4)`

type AddWaiverPlayerParams struct {
	LeagueID        uuid.UUID
	FantasyTeamID   uuid.UUID
	PlayerID        uuid.UUID
	AcquisitionCost int32
}

func (q *Queries) AddWaiverPlayer(ctx context.Context, arg AddWaiverPlayerParams) error {
	_, err := q.db.ExecContext(ctx, addWaiverPlayer, arg.LeagueID, arg.FantasyTeamID, arg.PlayerID, arg.AcquisitionCost)
	return err
}

const setTeamFaab = `-- name: SetTeamFaab :exec
UPDATE fantasy_teams SET faab_remaining = $2
WHERE id = $1`

type SetTeamFaabParams struct {
	ID            uuid.UUID
	FaabRemaining int32
}

func (q *Queries) SetTeamFaab(ctx context.Context, arg SetTeamFaabParams) error {
	_, err := q.db.ExecContext(ctx, setTeamFaab, arg.ID, arg.FaabRemaining)
	return err
}

const setTeamWaiverPriority = `-- name: SetTeamWaiverPriority :exec
UPDATE fantasy_teams SET waiver_priority = $2
WHERE id = $1`

type SetTeamWaiverPriorityParams struct {
	ID             uuid.UUID
	WaiverPriority int32
}

func (q *Queries) SetTeamWaiverPriority(ctx context.Context, arg SetTeamWaiverPriorityParams) error {
	_, err := q.db.ExecContext(ctx, setTeamWaiverPriority, arg.ID, arg.WaiverPriority)
	return err
}
