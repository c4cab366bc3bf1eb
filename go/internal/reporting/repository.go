package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/reporting/db"
	"github.com/mcdev12/gridiron/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	GetReportLeague(ctx context.Context, id uuid.UUID) (db.ReportLeague, error)
	ListWeekTeamScores(ctx context.Context, arg db.ListWeekTeamScoresParams) ([]db.TeamWeekScore, error)
	ListWeekPerformers(ctx context.Context, arg db.ListWeekPerformersParams) ([]db.Performer, error)
	ListSeasonLeaders(ctx context.Context, arg db.ListSeasonLeadersParams) ([]db.Performer, error)
	ListTeamTransactions(ctx context.Context, arg db.ListTeamTransactionsParams) ([]db.TeamTransactions, error)
	ListStandings(ctx context.Context, leagueID uuid.UUID) ([]db.Standing, error)
	ListMemberActivity(ctx context.Context, arg db.ListMemberActivityParams) ([]db.MemberActivity, error)
}

// Repository implements the read-only queries behind league reports
type Repository struct {
	queries Querier
}

// NewRepository creates a new reporting repository
func NewRepository(querier Querier) *Repository {
	return &Repository{queries: querier}
}

func (r *Repository) League(ctx context.Context, id uuid.UUID) (*LeagueRef, error) {
	row, err := r.queries.GetReportLeague(ctx, id)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get league")
	}
	return &LeagueRef{
		ID:     row.ID,
		Name:   row.Name,
		Season: int(row.Season),
		Week:   int(row.CurrentWeek),
		Format: models.ScoringFormat(row.ScoringFormat),
	}, nil
}

// WeekScores returns each team's starter total for a week, highest first
func (r *Repository) WeekScores(ctx context.Context, league LeagueRef, week int) ([]TeamWeek, error) {
	rows, err := r.queries.ListWeekTeamScores(ctx, db.ListWeekTeamScoresParams{
		LeagueID: league.ID,
		Season:   int32(league.Season),
		Week:     int32(week),
		Format:   string(league.Format),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list week scores: %w", err)
	}
	out := make([]TeamWeek, len(rows))
	for i, row := range rows {
		out[i] = TeamWeek{
			TeamID:   row.TeamID,
			TeamName: row.TeamName,
			Owner:    row.OwnerUsername,
			Points:   row.Points,
		}
	}
	return out, nil
}

// WeekPerformers returns the league's highest scoring rostered players for a week
func (r *Repository) WeekPerformers(ctx context.Context, league LeagueRef, week, limit int) ([]Performer, error) {
	rows, err := r.queries.ListWeekPerformers(ctx, db.ListWeekPerformersParams{
		LeagueID: league.ID,
		Season:   int32(league.Season),
		Week:     int32(week),
		Format:   string(league.Format),
		Limit:    int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list week performers: %w", err)
	}
	return dbPerformers(rows), nil
}

// SeasonLeaders returns the rostered players with the most points this season
func (r *Repository) SeasonLeaders(ctx context.Context, league LeagueRef, limit int) ([]Performer, error) {
	rows, err := r.queries.ListSeasonLeaders(ctx, db.ListSeasonLeadersParams{
		LeagueID: league.ID,
		Season:   int32(league.Season),
		Format:   string(league.Format),
		Limit:    int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list season leaders: %w", err)
	}
	return dbPerformers(rows), nil
}

// TeamMoves counts each team's completed transactions in [from, to)
func (r *Repository) TeamMoves(ctx context.Context, leagueID uuid.UUID, from, to time.Time) ([]TeamMoves, error) {
	rows, err := r.queries.ListTeamTransactions(ctx, db.ListTeamTransactionsParams{
		LeagueID: leagueID,
		From:     from,
		To:       to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}
	out := make([]TeamMoves, len(rows))
	for i, row := range rows {
		out[i] = TeamMoves{TeamID: row.TeamID, Waivers: int(row.Waivers), Trades: int(row.Trades)}
	}
	return out, nil
}

// Standings returns the league's teams ordered by wins then points for
func (r *Repository) Standings(ctx context.Context, leagueID uuid.UUID) ([]StandingLine, error) {
	rows, err := r.queries.ListStandings(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}
	out := make([]StandingLine, len(rows))
	for i, row := range rows {
		out[i] = StandingLine{
			Rank:          i + 1,
			TeamID:        row.TeamID,
			TeamName:      row.TeamName,
			Owner:         row.OwnerUsername,
			Wins:          int(row.Wins),
			Losses:        int(row.Losses),
			Ties:          int(row.Ties),
			PointsFor:     row.PointsFor,
			PointsAgainst: row.PointsAgainst,
		}
	}
	return out, nil
}

// MemberActivity counts each team owner's messages, transactions and logins in [from, to)
func (r *Repository) MemberActivity(ctx context.Context, leagueID uuid.UUID, from, to time.Time) ([]MemberStats, error) {
	rows, err := r.queries.ListMemberActivity(ctx, db.ListMemberActivityParams{
		LeagueID: leagueID,
		From:     from,
		To:       to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list member activity: %w", err)
	}
	out := make([]MemberStats, len(rows))
	for i, row := range rows {
		out[i] = MemberStats{
			UserID:       row.UserID,
			Username:     row.Username,
			TeamName:     row.TeamName,
			Messages:     int(row.Messages),
			Transactions: int(row.Claims + row.Trades),
			Logins:       int(row.Logins),
			LastLoginAt:  sqlutil.FromSqlTime(row.LastLoginAt),
		}
	}
	return out, nil
}

func dbPerformers(rows []db.Performer) []Performer {
	out := make([]Performer, len(rows))
	for i, row := range rows {
		out[i] = Performer{
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			Position:   row.Position,
			TeamName:   row.TeamName,
			Points:     row.Points,
		}
	}
	return out
}
