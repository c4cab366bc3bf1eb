package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const getReportLeague = `-- name: GetReportLeague :one
SELECT id, name, season, current_week,
       COALESCE(NULLIF(league_settings->>'scoring_format', ''), 'ppr'),
       commissioner_id
FROM leagues
WHERE id = $1`

func (q *Queries) GetReportLeague(ctx context.Context, id uuid.UUID) (ReportLeague, error) {
	row := q.db.QueryRowContext(ctx, getReportLeague, id)
	var i ReportLeague
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Season,
		&i.CurrentWeek,
		&i.ScoringFormat,
		&i.CommissionerID,
	)
	return i, err
}

const listWeekTeamScores = `-- name: ListWeekTeamScores :many
SELECT ft.id, ft.name, u.username,
       COALESCE(SUM(ps.points) FILTER (WHERE r.position = 'STARTER'), 0)::float8 AS points
FROM fantasy_teams ft
JOIN users u ON u.id = ft.owner_id
LEFT JOIN roster r ON r.fantasy_team_id = ft.id
LEFT JOIN player_scores ps ON ps.player_id = r.player_id
    AND ps.season = $2 AND ps.week = $3 AND ps.format = $4
WHERE ft.league_id = $1
GROUP BY ft.id, ft.name, u.username
ORDER BY points DESC, ft.name`

type ListWeekTeamScoresParams struct {
	LeagueID uuid.UUID
	Season   int32
	Week     int32
	Format   string
}

func (q *Queries) ListWeekTeamScores(ctx context.Context, arg ListWeekTeamScoresParams) ([]TeamWeekScore, error) {
	rows, err := q.db.QueryContext(ctx, listWeekTeamScores, arg.LeagueID, arg.Season, arg.Week, arg.Format)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TeamWeekScore
	for rows.Next() {
		var i TeamWeekScore
		if err := rows.Scan(&i.TeamID, &i.TeamName, &i.OwnerUsername, &i.Points); err != nil {
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

const listWeekPerformers = `-- name: ListWeekPerformers :many
SELECT p.id, p.full_name, p.position, ft.name, ps.points
FROM roster r
JOIN players p ON p.id = r.player_id
JOIN fantasy_teams ft ON ft.id = r.fantasy_team_id
JOIN player_scores ps ON ps.player_id = r.player_id
    AND ps.season = $2 AND ps.week = $3 AND ps.format = $4
WHERE r.league_id = $1
ORDER BY ps.points DESC, p.full_name
LIMIT $5`

type ListWeekPerformersParams struct {
	LeagueID uuid.UUID
	Season   int32
	Week     int32
	Format   string
	Limit    int32
}

func (q *Queries) ListWeekPerformers(ctx context.Context, arg ListWeekPerformersParams) ([]Performer, error) {
	rows, err := q.db.QueryContext(ctx, listWeekPerformers,
		arg.LeagueID,
		arg.Season,
		arg.Week,
		arg.Format,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	return scanPerformers(rows)
}

const listSeasonLeaders = `-- name: ListSeasonLeaders :many
SELECT p.id, p.full_name, p.position, ft.name, SUM(ps.points)::float8 AS points
FROM roster r
JOIN players p ON p.id = r.player_id
JOIN fantasy_teams ft ON ft.id = r.fantasy_team_id
JOIN player_scores ps ON ps.player_id = r.player_id
    AND ps.season = $2 AND ps.format = $3
WHERE r.league_id = $1
GROUP BY p.id, p.full_name, p.position, ft.name
ORDER BY points DESC, p.full_name
LIMIT $4`

type ListSeasonLeadersParams struct {
	LeagueID uuid.UUID
	Season   int32
	Format   string
	Limit    int32
}

func (q *Queries) ListSeasonLeaders(ctx context.Context, arg ListSeasonLeadersParams) ([]Performer, error) {
	rows, err := q.db.QueryContext(ctx, listSeasonLeaders, arg.LeagueID, arg.Season, arg.Format, arg.Limit)
	if err != nil {
		return nil, err
	}
	return scanPerformers(rows)
}

func scanPerformers(rows *sql.Rows) ([]Performer, error) {
	defer rows.Close()
	var items []Performer
	for rows.Next() {
		var i Performer
		if err := rows.Scan(&i.PlayerID, &i.PlayerName, &i.Position, &i.TeamName, &i.Points); err != nil {
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

const listTeamTransactions = `-- name: ListTeamTransactions :many
SELECT ft.id, ft.name,
       (SELECT count(*) FROM waiver_claims w
        WHERE w.team_id = ft.id AND w.status = 'successful'
          AND w.processed_at >= $2 AND w.processed_at < $3) AS waivers,
       (SELECT count(*) FROM trades t
        WHERE (t.proposing_team_id = ft.id OR t.receiving_team_id = ft.id)
          AND t.status = 'accepted'
          AND t.responded_at >= $2 AND t.responded_at < $3) AS trades
FROM fantasy_teams ft
WHERE ft.league_id = $1
ORDER BY ft.name`

type ListTeamTransactionsParams struct {
	LeagueID uuid.UUID
	From     time.Time
	To       time.Time
}

func (q *Queries) ListTeamTransactions(ctx context.Context, arg ListTeamTransactionsParams) ([]TeamTransactions, error) {
	rows, err := q.db.QueryContext(ctx, listTeamTransactions, arg.LeagueID, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TeamTransactions
	for rows.Next() {
		var i TeamTransactions
		if err := rows.Scan(&i.TeamID, &i.TeamName, &i.Waivers, &i.Trades); err != nil {
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

const listStandings = `-- name: ListStandings :many
SELECT ft.id, ft.name, u.username, ft.wins, ft.losses, ft.ties,
       ft.points_for, ft.points_against
FROM fantasy_teams ft
JOIN users u ON u.id = ft.owner_id
WHERE ft.league_id = $1
ORDER BY ft.wins DESC, ft.points_for DESC, ft.name`

func (q *Queries) ListStandings(ctx context.Context, leagueID uuid.UUID) ([]Standing, error) {
	rows, err := q.db.QueryContext(ctx, listStandings, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Standing
	for rows.Next() {
		var i Standing
		if err := rows.Scan(
			&i.TeamID,
			&i.TeamName,
			&i.OwnerUsername,
			&i.Wins,
			&i.Losses,
			&i.Ties,
			&i.PointsFor,
			&i.PointsAgainst,
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

const listMemberActivity = `-- name: ListMemberActivity :many
SELECT u.id, u.username, ft.name,
       (SELECT count(*) FROM chat_messages m
        JOIN chat_rooms cr ON cr.id = m.room_id
        WHERE cr.league_id = ft.league_id AND m.user_id = u.id
          AND m.deleted_at IS NULL
          AND m.created_at >= $2 AND m.created_at < $3) AS messages,
       (SELECT count(*) FROM waiver_claims w
        WHERE w.team_id = ft.id
          AND w.submitted_at >= $2 AND w.submitted_at < $3) AS claims,
       (SELECT count(*) FROM trades t
        WHERE t.proposing_team_id = ft.id
          AND t.created_at >= $2 AND t.created_at < $3) AS trades,
       (SELECT count(*) FROM sessions s
        WHERE s.user_id = u.id
          AND s.created_at >= $2 AND s.created_at < $3) AS logins,
       (SELECT max(s.created_at) FROM sessions s
        WHERE s.user_id = u.id AND s.created_at < $3) AS last_login_at
FROM fantasy_teams ft
JOIN users u ON u.id = ft.owner_id
WHERE ft.league_id = $1
ORDER BY lower(u.username)`

type ListMemberActivityParams struct {
	LeagueID uuid.UUID
	From     time.Time
	To       time.Time
}

func (q *Queries) ListMemberActivity(ctx context.Context, arg ListMemberActivityParams) ([]MemberActivity, error) {
	rows, err := q.db.QueryContext(ctx, listMemberActivity, arg.LeagueID, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MemberActivity
	for rows.Next() {
		var i MemberActivity
		if err := rows.Scan(
			&i.UserID,
			&i.Username,
			&i.TeamName,
			&i.Messages,
			&i.Claims,
			&i.Trades,
			&i.Logins,
			&i.LastLoginAt,
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
