package db

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

const leagueColumns = `id, name, league_type, commissioner_id, league_settings, status, season, current_week, created_at, updated_at`

func scanLeague(row interface{ Scan(...interface{}) error }) (League, error) {
	var i League
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.LeagueType,
		&i.CommissionerID,
		&i.LeagueSettings,
		&i.Status,
		&i.Season,
		&i.CurrentWeek,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) listLeagues(ctx context.Context, query string, args ...interface{}) ([]League, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []League
	for rows.Next() {
		i, err := scanLeague(rows)
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

const createLeague = `-- name: CreateLeague :one
INSERT INTO leagues (name, league_type, commissioner_id, league_settings, status, season)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + leagueColumns

type CreateLeagueParams struct {
	Name           string
	LeagueType     string
	CommissionerID uuid.UUID
	LeagueSettings json.RawMessage
	Status         string
	Season         int32
}

func (q *Queries) CreateLeague(ctx context.Context, arg CreateLeagueParams) (League, error) {
	row := q.db.QueryRowContext(ctx, createLeague,
		arg.Name,
		arg.LeagueType,
		arg.CommissionerID,
		arg.LeagueSettings,
		arg.Status,
		arg.Season,
	)
	return scanLeague(row)
}

const getLeague = `-- name: GetLeague :one
SELECT ` + leagueColumns + ` FROM leagues
WHERE id = $1`

func (q *Queries) GetLeague(ctx context.Context, id uuid.UUID) (League, error) {
	return scanLeague(q.db.QueryRowContext(ctx, getLeague, id))
}

const getLeaguesForUser = `-- name: GetLeaguesForUser :many
SELECT ` + leagueColumns + ` FROM leagues
WHERE commissioner_id = $1
   OR id IN (SELECT league_id FROM fantasy_teams WHERE owner_id = $1)
ORDER BY created_at DESC`

func (q *Queries) GetLeaguesForUser(ctx context.Context, userID uuid.UUID) ([]League, error) {
	return q.listLeagues(ctx, getLeaguesForUser, userID)
}

const getLeaguesByStatus = `-- name: GetLeaguesByStatus :many
SELECT ` + leagueColumns + ` FROM leagues
WHERE status = $1
ORDER BY created_at`

func (q *Queries) GetLeaguesByStatus(ctx context.Context, status string) ([]League, error) {
	return q.listLeagues(ctx, getLeaguesByStatus, status)
}

const isLeagueMember = `-- name: IsLeagueMember :one
SELECT EXISTS (
    SELECT 1 FROM leagues l
    WHERE l.id = $1
      AND (l.commissioner_id = $2
           OR EXISTS (SELECT 1 FROM fantasy_teams t WHERE t.league_id = l.id AND t.owner_id = $2))
)`

type IsLeagueMemberParams struct {
	LeagueID uuid.UUID
	UserID   uuid.UUID
}

func (q *Queries) IsLeagueMember(ctx context.Context, arg IsLeagueMemberParams) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, isLeagueMember, arg.LeagueID, arg.UserID).Scan(&exists)
	return exists, err
}

const updateLeagueName = `-- name: UpdateLeagueName :one
UPDATE leagues
SET name = $2, updated_at = now()
WHERE id = $1
RETURNING ` + leagueColumns

func (q *Queries) UpdateLeagueName(ctx context.Context, id uuid.UUID, name string) (League, error) {
	return scanLeague(q.db.QueryRowContext(ctx, updateLeagueName, id, name))
}

const updateLeagueSettings = `-- name: UpdateLeagueSettings :one
UPDATE leagues
SET league_settings = $2, updated_at = now()
WHERE id = $1
RETURNING ` + leagueColumns

type UpdateLeagueSettingsParams struct {
	ID             uuid.UUID
	LeagueSettings json.RawMessage
}

func (q *Queries) UpdateLeagueSettings(ctx context.Context, arg UpdateLeagueSettingsParams) (League, error) {
	return scanLeague(q.db.QueryRowContext(ctx, updateLeagueSettings, arg.ID, arg.LeagueSettings))
}

const updateLeagueStatus = `-- name: UpdateLeagueStatus :one
UPDATE leagues
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + leagueColumns

type UpdateLeagueStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateLeagueStatus(ctx context.Context, arg UpdateLeagueStatusParams) (League, error) {
	return scanLeague(q.db.QueryRowContext(ctx, updateLeagueStatus, arg.ID, arg.Status))
}

const setCurrentWeek = `-- name: SetCurrentWeek :one
UPDATE leagues
SET current_week = $2, updated_at = now()
WHERE id = $1
RETURNING ` + leagueColumns

func (q *Queries) SetCurrentWeek(ctx context.Context, id uuid.UUID, week int32) (League, error) {
	return scanLeague(q.db.QueryRowContext(ctx, setCurrentWeek, id, week))
}

const deleteLeague = `-- name: DeleteLeague :exec
DELETE FROM leagues
WHERE id = $1`

func (q *Queries) DeleteLeague(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteLeague, id)
	return err
}
