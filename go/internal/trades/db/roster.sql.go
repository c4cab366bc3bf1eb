package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const listRosterOwners = `-- name: ListRosterOwners :many
SELECT fantasy_team_id, player_id, position FROM roster
WHERE league_id = $1 AND player_id = ANY($2::uuid[])`

type ListRosterOwnersParams struct {
	LeagueID  uuid.UUID
	PlayerIDs []uuid.UUID
}

func (q *Queries) ListRosterOwners(ctx context.Context, arg ListRosterOwnersParams) ([]RosterSlot, error) {
	return q.rosterSlots(ctx, listRosterOwners, arg.LeagueID, pq.Array(arg.PlayerIDs))
}

const lockTeamRosters = `-- name: LockTeamRosters :many
SELECT fantasy_team_id, player_id, position FROM roster
WHERE fantasy_team_id = ANY($1::uuid[])
FOR UPDATE`

func (q *Queries) LockTeamRosters(ctx context.Context, teamIDs []uuid.UUID) ([]RosterSlot, error) {
	return q.rosterSlots(ctx, lockTeamRosters, pq.Array(teamIDs))
}

func (q *Queries) rosterSlots(ctx context.Context, query string, args ...interface{}) ([]RosterSlot, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
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

const moveTradedPlayer = `-- name: MoveTradedPlayer :execrows
UPDATE roster
SET fantasy_team_id = $3, position = 'BENCH', acquisition_type = 'TRADE', acquisition_cost = 0, acquired_at = $4
WHERE player_id = $1 AND fantasy_team_id = $2`

type MoveTradedPlayerParams struct {
	PlayerID   uuid.UUID
	FromTeamID uuid.UUID
	ToTeamID   uuid.UUID
	AcquiredAt time.Time
}

func (q *Queries) MoveTradedPlayer(ctx context.Context, arg MoveTradedPlayerParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, moveTradedPlayer, arg.PlayerID, arg.FromTeamID, arg.ToTeamID, arg.AcquiredAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const adjustTeamFaab = `-- name: AdjustTeamFaab :execrows
UPDATE fantasy_teams SET faab_remaining = faab_remaining + $2
WHERE id = $1 AND faab_remaining + $2 >= 0`

type AdjustTeamFaabParams struct {
	ID    uuid.UUID
	Delta int32
}

func (q *Queries) AdjustTeamFaab(ctx context.Context, arg AdjustTeamFaabParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, adjustTeamFaab, arg.ID, arg.Delta)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
