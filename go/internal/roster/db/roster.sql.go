package db

import (
	"context"

	"github.com/google/uuid"
)

const rosterColumns = `id, league_id, fantasy_team_id, player_id, position, acquired_at, acquisition_type, acquisition_cost`

func scanRoster(row interface{ Scan(...interface{}) error }) (Roster, error) {
	var i Roster
	err := row.Scan(
		&i.ID,
		&i.LeagueID,
		&i.FantasyTeamID,
		&i.PlayerID,
		&i.Position,
		&i.AcquiredAt,
		&i.AcquisitionType,
		&i.AcquisitionCost,
	)
	return i, err
}

const createRosterEntry = `-- name: CreateRosterEntry :one
INSERT INTO roster (league_id, fantasy_team_id, player_id, position, acquisition_type, acquisition_cost)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + rosterColumns

type CreateRosterEntryParams struct {
	LeagueID        uuid.UUID
	FantasyTeamID   uuid.UUID
	PlayerID        uuid.UUID
	Position        string
	AcquisitionType string
	AcquisitionCost int32
}

func (q *Queries) CreateRosterEntry(ctx context.Context, arg CreateRosterEntryParams) (Roster, error) {
	row := q.db.QueryRowContext(ctx, createRosterEntry,
		arg.LeagueID,
		arg.FantasyTeamID,
		arg.PlayerID,
		arg.Position,
		arg.AcquisitionType,
		arg.AcquisitionCost,
	)
	return scanRoster(row)
}

const getLeagueRosterEntry = `-- name: GetLeagueRosterEntry :one
SELECT ` + rosterColumns + ` FROM roster
WHERE league_id = $1 AND player_id = $2`

type GetLeagueRosterEntryParams struct {
	LeagueID uuid.UUID
	PlayerID uuid.UUID
}

func (q *Queries) GetLeagueRosterEntry(ctx context.Context, arg GetLeagueRosterEntryParams) (Roster, error) {
	return scanRoster(q.db.QueryRowContext(ctx, getLeagueRosterEntry, arg.LeagueID, arg.PlayerID))
}

const getTeamRoster = `-- name: GetTeamRoster :many
SELECT r.id, r.league_id, r.fantasy_team_id, r.player_id, r.position, r.acquired_at, r.acquisition_type, r.acquisition_cost,
       p.full_name, p.position, p.nfl_team, p.bye_week, p.rank, p.active, p.injury_status
FROM roster r
JOIN players p ON p.id = r.player_id
WHERE r.fantasy_team_id = $1
ORDER BY CASE r.position WHEN 'STARTER' THEN 0 WHEN 'BENCH' THEN 1 ELSE 2 END, p.rank`

func (q *Queries) GetTeamRoster(ctx context.Context, fantasyTeamID uuid.UUID) ([]RosterPlayerRow, error) {
	rows, err := q.db.QueryContext(ctx, getTeamRoster, fantasyTeamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RosterPlayerRow
	for rows.Next() {
		var i RosterPlayerRow
		if err := rows.Scan(
			&i.ID,
			&i.LeagueID,
			&i.FantasyTeamID,
			&i.PlayerID,
			&i.Position,
			&i.AcquiredAt,
			&i.AcquisitionType,
			&i.AcquisitionCost,
			&i.FullName,
			&i.PlayerPos,
			&i.NflTeam,
			&i.ByeWeek,
			&i.Rank,
			&i.Active,
			&i.InjuryStatus,
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

const getLeagueRoster = `-- name: GetLeagueRoster :many
SELECT ` + rosterColumns + ` FROM roster
WHERE league_id = $1
ORDER BY fantasy_team_id`

func (q *Queries) GetLeagueRoster(ctx context.Context, leagueID uuid.UUID) ([]Roster, error) {
	rows, err := q.db.QueryContext(ctx, getLeagueRoster, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Roster
	for rows.Next() {
		i, err := scanRoster(rows)
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

const countRosterByPosition = `-- name: CountRosterByPosition :one
SELECT count(*) FILTER (WHERE position <> 'IR') AS active,
       count(*) FILTER (WHERE position = 'STARTER') AS starters,
       count(*) FILTER (WHERE position = 'IR') AS ir
FROM roster
WHERE fantasy_team_id = $1`

type CountRosterByPositionRow struct {
	Active   int64
	Starters int64
	Ir       int64
}

func (q *Queries) CountRosterByPosition(ctx context.Context, fantasyTeamID uuid.UUID) (CountRosterByPositionRow, error) {
	var i CountRosterByPositionRow
	err := q.db.QueryRowContext(ctx, countRosterByPosition, fantasyTeamID).Scan(&i.Active, &i.Starters, &i.Ir)
	return i, err
}

const updateRosterPosition = `-- name: UpdateRosterPosition :one
UPDATE roster
SET position = $3
WHERE fantasy_team_id = $1 AND player_id = $2
RETURNING ` + rosterColumns

type UpdateRosterPositionParams struct {
	FantasyTeamID uuid.UUID
	PlayerID      uuid.UUID
	Position      string
}

func (q *Queries) UpdateRosterPosition(ctx context.Context, arg UpdateRosterPositionParams) (Roster, error) {
	return scanRoster(q.db.QueryRowContext(ctx, updateRosterPosition, arg.FantasyTeamID, arg.PlayerID, arg.Position))
}

const deleteRosterEntry = `-- name: DeleteRosterEntry :execrows
DELETE FROM roster
WHERE fantasy_team_id = $1 AND player_id = $2`

type DeleteRosterEntryParams struct {
	FantasyTeamID uuid.UUID
	PlayerID      uuid.UUID
}

func (q *Queries) DeleteRosterEntry(ctx context.Context, arg DeleteRosterEntryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteRosterEntry, arg.FantasyTeamID, arg.PlayerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
