package scoring

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/scoring/db"
	"github.com/mcdev12/gridiron/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	ListActiveLeagues(ctx context.Context) ([]db.ActiveLeague, error)
	GetActiveLeague(ctx context.Context, id uuid.UUID) (db.ActiveLeague, error)
	ListPlayersByExternalIDs(ctx context.Context, externalIDs []string) ([]db.PlayerRef, error)
	UpsertPlayerScore(ctx context.Context, arg db.PlayerScore) error
	ListTeamTotals(ctx context.Context, arg db.ListTeamTotalsParams) ([]db.TeamTotal, error)
	ListTeamPlayerScores(ctx context.Context, arg db.ListTeamPlayerScoresParams) ([]db.ListTeamPlayerScoresRow, error)
}

// Repository implements scoring data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new scoring repository
func NewRepository(querier Querier) *Repository {
	return &Repository{queries: querier}
}

// ActiveLeagues lists every ACTIVE league with its current week and format
func (r *Repository) ActiveLeagues(ctx context.Context) ([]ActiveLeague, error) {
	rows, err := r.queries.ListActiveLeagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active leagues: %w", err)
	}
	out := make([]ActiveLeague, len(rows))
	for i, row := range rows {
		out[i] = dbLeagueToActive(row)
	}
	return out, nil
}

// League loads the scoring view of one league
func (r *Repository) League(ctx context.Context, id uuid.UUID) (*ActiveLeague, error) {
	row, err := r.queries.GetActiveLeague(ctx, id)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get league")
	}
	l := dbLeagueToActive(row)
	return &l, nil
}

// PlayerIDs maps provider ids to player ids. Unknown ids are left out.
func (r *Repository) PlayerIDs(ctx context.Context, externalIDs []string) (map[string]uuid.UUID, error) {
	out := make(map[string]uuid.UUID, len(externalIDs))
	if len(externalIDs) == 0 {
		return out, nil
	}
	rows, err := r.queries.ListPlayersByExternalIDs(ctx, externalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve players: %w", err)
	}
	for _, row := range rows {
		out[row.ExternalID] = row.ID
	}
	return out, nil
}

// SaveScore stores a player's points and the stat line they came from
func (r *Repository) SaveScore(ctx context.Context, score models.PlayerScore, line models.StatLine) error {
	stats, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("failed to marshal stat line: %w", err)
	}
	err = r.queries.UpsertPlayerScore(ctx, db.PlayerScore{
		PlayerID:  score.PlayerID,
		Season:    int32(score.Season),
		Week:      int32(score.Week),
		Format:    string(score.Format),
		Points:    score.Points,
		Stats:     stats,
		UpdatedAt: score.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save score for player %s: %w", score.PlayerID, err)
	}
	return nil
}

// TeamTotals sums each team's starters for a week, highest first
func (r *Repository) TeamTotals(ctx context.Context, league ActiveLeague, week int) ([]models.TeamScore, error) {
	rows, err := r.queries.ListTeamTotals(ctx, db.ListTeamTotalsParams{
		LeagueID: league.ID,
		Season:   int32(league.Season),
		Week:     int32(week),
		Format:   string(league.Format),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to total team scores: %w", err)
	}
	out := make([]models.TeamScore, len(rows))
	for i, row := range rows {
		out[i] = models.TeamScore{TeamID: row.TeamID, TeamName: row.TeamName, Points: row.Points}
	}
	return out, nil
}

// TeamPlayers returns every rostered player on a team with their points for a week
func (r *Repository) TeamPlayers(ctx context.Context, teamID uuid.UUID, league ActiveLeague, week int) ([]PlayerPoints, error) {
	rows, err := r.queries.ListTeamPlayerScores(ctx, db.ListTeamPlayerScoresParams{
		TeamID: teamID,
		Season: int32(league.Season),
		Week:   int32(week),
		Format: string(league.Format),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list team player scores: %w", err)
	}
	out := make([]PlayerPoints, len(rows))
	for i, row := range rows {
		out[i] = PlayerPoints{
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			Position:   models.RosterPosition(row.Position),
		}
		if row.Points.Valid {
			p := row.Points.Float64
			out[i].Points = &p
		}
	}
	return out, nil
}

func dbLeagueToActive(row db.ActiveLeague) ActiveLeague {
	return ActiveLeague{
		ID:     row.ID,
		Season: int(row.Season),
		Week:   int(row.CurrentWeek),
		Format: models.ScoringFormat(row.ScoringFormat),
	}
}
