package db

import (
	"context"

	"github.com/google/uuid"
)

const teamColumns = `id, league_id, owner_id, name, logo_url, wins, losses, ties, points_for, points_against, waiver_priority, faab_remaining, created_at`

func scanTeam(row interface{ Scan(...interface{}) error }) (FantasyTeam, error) {
	var i FantasyTeam
	err := row.Scan(
		&i.ID,
		&i.LeagueID,
		&i.OwnerID,
		&i.Name,
		&i.LogoUrl,
		&i.Wins,
		&i.Losses,
		&i.Ties,
		&i.PointsFor,
		&i.PointsAgainst,
		&i.WaiverPriority,
		&i.FaabRemaining,
		&i.CreatedAt,
	)
	return i, err
}

func (q *Queries) listTeams(ctx context.Context, query string, args ...interface{}) ([]FantasyTeam, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FantasyTeam
	for rows.Next() {
		i, err := scanTeam(rows)
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

const createFantasyTeam = `-- name: CreateFantasyTeam :one
INSERT INTO fantasy_teams (league_id, owner_id, name, logo_url, waiver_priority, faab_remaining)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + teamColumns

type CreateFantasyTeamParams struct {
	LeagueID       uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	LogoUrl        string
	WaiverPriority int32
	FaabRemaining  int32
}

func (q *Queries) CreateFantasyTeam(ctx context.Context, arg CreateFantasyTeamParams) (FantasyTeam, error) {
	row := q.db.QueryRowContext(ctx, createFantasyTeam,
		arg.LeagueID,
		arg.OwnerID,
		arg.Name,
		arg.LogoUrl,
		arg.WaiverPriority,
		arg.FaabRemaining,
	)
	return scanTeam(row)
}

const getFantasyTeam = `-- name: GetFantasyTeam :one
SELECT ` + teamColumns + ` FROM fantasy_teams
WHERE id = $1`

func (q *Queries) GetFantasyTeam(ctx context.Context, id uuid.UUID) (FantasyTeam, error) {
	return scanTeam(q.db.QueryRowContext(ctx, getFantasyTeam, id))
}

const getFantasyTeamByLeagueAndOwner = `-- name: GetFantasyTeamByLeagueAndOwner :one
SELECT ` + teamColumns + ` FROM fantasy_teams
WHERE league_id = $1 AND owner_id = $2`

type GetFantasyTeamByLeagueAndOwnerParams struct {
	LeagueID uuid.UUID
	OwnerID  uuid.UUID
}

func (q *Queries) GetFantasyTeamByLeagueAndOwner(ctx context.Context, arg GetFantasyTeamByLeagueAndOwnerParams) (FantasyTeam, error) {
	return scanTeam(q.db.QueryRowContext(ctx, getFantasyTeamByLeagueAndOwner, arg.LeagueID, arg.OwnerID))
}

const getFantasyTeamsByLeague = `-- name: GetFantasyTeamsByLeague :many
SELECT ` + teamColumns + ` FROM fantasy_teams
WHERE league_id = $1
ORDER BY created_at`

func (q *Queries) GetFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]FantasyTeam, error) {
	return q.listTeams(ctx, getFantasyTeamsByLeague, leagueID)
}

const getFantasyTeamsByOwner = `-- name: GetFantasyTeamsByOwner :many
SELECT ` + teamColumns + ` FROM fantasy_teams
WHERE owner_id = $1
ORDER BY created_at`

func (q *Queries) GetFantasyTeamsByOwner(ctx context.Context, ownerID uuid.UUID) ([]FantasyTeam, error) {
	return q.listTeams(ctx, getFantasyTeamsByOwner, ownerID)
}

const getStandings = `-- name: GetStandings :many
SELECT ` + teamColumns + ` FROM fantasy_teams
WHERE league_id = $1
ORDER BY wins DESC, points_for DESC, name`

func (q *Queries) GetStandings(ctx context.Context, leagueID uuid.UUID) ([]FantasyTeam, error) {
	return q.listTeams(ctx, getStandings, leagueID)
}

const countFantasyTeamsByLeague = `-- name: CountFantasyTeamsByLeague :one
SELECT count(*) FROM fantasy_teams
WHERE league_id = $1`

func (q *Queries) CountFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countFantasyTeamsByLeague, leagueID).Scan(&count)
	return count, err
}

const updateFantasyTeam = `-- name: UpdateFantasyTeam :one
UPDATE fantasy_teams
SET name = $2, logo_url = $3
WHERE id = $1
RETURNING ` + teamColumns

type UpdateFantasyTeamParams struct {
	ID      uuid.UUID
	Name    string
	LogoUrl string
}

func (q *Queries) UpdateFantasyTeam(ctx context.Context, arg UpdateFantasyTeamParams) (FantasyTeam, error) {
	return scanTeam(q.db.QueryRowContext(ctx, updateFantasyTeam, arg.ID, arg.Name, arg.LogoUrl))
}

const recordResult = `-- name: RecordResult :exec
UPDATE fantasy_teams
SET wins = wins + $2,
    losses = losses + $3,
    ties = ties + $4,
    points_for = points_for + $5,
    points_against = points_against + $6
WHERE id = $1`

type RecordResultParams struct {
	ID            uuid.UUID
	Wins          int32
	Losses        int32
	Ties          int32
	PointsFor     float64
	PointsAgainst float64
}

func (q *Queries) RecordResult(ctx context.Context, arg RecordResultParams) error {
	_, err := q.db.ExecContext(ctx, recordResult,
		arg.ID,
		arg.Wins,
		arg.Losses,
		arg.Ties,
		arg.PointsFor,
		arg.PointsAgainst,
	)
	return err
}
