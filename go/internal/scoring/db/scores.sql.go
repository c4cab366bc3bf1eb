package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const listActiveLeagues = `-- name: ListActiveLeagues :many
SELECT id, season, current_week,
       COALESCE(NULLIF(league_settings->>'scoring_format', ''), 'ppr')
FROM leagues
WHERE status = 'ACTIVE'
ORDER BY season, current_week`

func (q *Queries) ListActiveLeagues(ctx context.Context) ([]ActiveLeague, error) {
	rows, err := q.db.QueryContext(ctx, listActiveLeagues)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ActiveLeague
	for rows.Next() {
		var i ActiveLeague
		if err := rows.Scan(&i.ID, &i.Season, &i.CurrentWeek, &i.ScoringFormat); err != nil {
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

const getActiveLeague = `-- name: GetActiveLeague :one
SELECT id, season, current_week,
       COALESCE(NULLIF(league_settings->>'scoring_format', ''), 'ppr')
FROM leagues
WHERE id = $1`

func (q *Queries) GetActiveLeague(ctx context.Context, id uuid.UUID) (ActiveLeague, error) {
	var i ActiveLeague
	err := q.db.QueryRowContext(ctx, getActiveLeague, id).Scan(&i.ID, &i.Season, &i.CurrentWeek, &i.ScoringFormat)
	return i, err
}

const listPlayersByExternalIDs = `-- name: ListPlayersByExternalIDs :many
SELECT id, external_id FROM players
WHERE external_id = ANY($1::text[])`

func (q *Queries) ListPlayersByExternalIDs(ctx context.Context, externalIDs []string) ([]PlayerRef, error) {
	rows, err := q.db.QueryContext(ctx, listPlayersByExternalIDs, pq.Array(externalIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PlayerRef
	for rows.Next() {
		var i PlayerRef
		if err := rows.Scan(&i.ID, &i.ExternalID); err != nil {
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

const upsertPlayerScore = `-- name: UpsertPlayerScore :exec
INSERT INTO player_scores (player_id, season, week, format, points, stats, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (player_id, season, week, format) DO UPDATE
SET points = EXCLUDED.points,
    stats = EXCLUDED.stats,
    updated_at = EXCLUDED.updated_at`

func (q *Queries) UpsertPlayerScore(ctx context.Context, arg PlayerScore) error {
	_, err := q.db.ExecContext(ctx, upsertPlayerScore,
		arg.PlayerID,
		arg.Season,
		arg.Week,
		arg.Format,
		arg.Points,
		arg.Stats,
		arg.UpdatedAt,
	)
	return err
}

const listTeamTotals = `-- name: ListTeamTotals :many
SELECT ft.id, ft.name,
       COALESCE(SUM(ps.points) FILTER (WHERE r.position = 'STARTER'), 0)::float8 AS points
FROM fantasy_teams ft
LEFT JOIN roster r ON r.fantasy_team_id = ft.id
LEFT JOIN player_scores ps ON ps.player_id = r.player_id
    AND ps.season = $2 AND ps.week = $3 AND ps.format = $4
WHERE ft.league_id = $1
GROUP BY ft.id, ft.name
ORDER BY points DESC, ft.name`

type ListTeamTotalsParams struct {
	LeagueID uuid.UUID
	Season   int32
	Week     int32
	Format   string
}

func (q *Queries) ListTeamTotals(ctx context.Context, arg ListTeamTotalsParams) ([]TeamTotal, error) {
	rows, err := q.db.QueryContext(ctx, listTeamTotals, arg.LeagueID, arg.Season, arg.Week, arg.Format)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TeamTotal
	for rows.Next() {
		var i TeamTotal
		if err := rows.Scan(&i.TeamID, &i.TeamName, &i.Points); err != nil {
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

const listTeamPlayerScores = `-- name: ListTeamPlayerScores :many
SELECT r.player_id, p.full_name, r.position, ps.points
FROM roster r
JOIN players p ON p.id = r.player_id
LEFT JOIN player_scores ps ON ps.player_id = r.player_id
    AND ps.season = $2 AND ps.week = $3 AND ps.format = $4
WHERE r.fantasy_team_id = $1
ORDER BY r.position DESC, ps.points DESC NULLS LAST`

type ListTeamPlayerScoresParams struct {
	TeamID uuid.UUID
	Season int32
	Week   int32
	Format string
}

type ListTeamPlayerScoresRow struct {
	PlayerID   uuid.UUID
	PlayerName string
	Position   string
	Points     sql.NullFloat64
}

func (q *Queries) ListTeamPlayerScores(ctx context.Context, arg ListTeamPlayerScoresParams) ([]ListTeamPlayerScoresRow, error) {
	rows, err := q.db.QueryContext(ctx, listTeamPlayerScores, arg.TeamID, arg.Season, arg.Week, arg.Format)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListTeamPlayerScoresRow
	for rows.Next() {
		var i ListTeamPlayerScoresRow
		if err := rows.Scan(&i.PlayerID, &i.PlayerName, &i.Position, &i.Points); err != nil {
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
