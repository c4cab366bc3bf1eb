package fantasyteam

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/fantasyteam/db"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/sqlutil"
)

type Querier interface {
	CreateFantasyTeam(ctx context.Context, arg db.CreateFantasyTeamParams) (db.FantasyTeam, error)
	GetFantasyTeam(ctx context.Context, id uuid.UUID) (db.FantasyTeam, error)
	GetFantasyTeamByLeagueAndOwner(ctx context.Context, arg db.GetFantasyTeamByLeagueAndOwnerParams) (db.FantasyTeam, error)
	GetFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]db.FantasyTeam, error)
	GetFantasyTeamsByOwner(ctx context.Context, ownerID uuid.UUID) ([]db.FantasyTeam, error)
	GetStandings(ctx context.Context, leagueID uuid.UUID) ([]db.FantasyTeam, error)
	CountFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) (int64, error)
	UpdateFantasyTeam(ctx context.Context, arg db.UpdateFantasyTeamParams) (db.FantasyTeam, error)
	RecordResult(ctx context.Context, arg db.RecordResultParams) error
}

type Repository struct {
	queries Querier
}

func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

func (r *Repository) CreateFantasyTeam(ctx context.Context, req CreateFantasyTeamRequest) (*models.FantasyTeam, error) {
	team, err := r.queries.CreateFantasyTeam(ctx, db.CreateFantasyTeamParams{
		LeagueID:       req.LeagueID,
		OwnerID:        req.OwnerID,
		Name:           req.Name,
		LogoUrl:        req.LogoURL,
		WaiverPriority: int32(req.WaiverPriority),
		FaabRemaining:  int32(req.FAABBudget),
	})
	if err != nil {
		if _, ok := sqlutil.IsUniqueViolation(err); ok {
			return nil, apperr.New(apperr.ErrConflict, "You already have a team in this league")
		}
		return nil, fmt.Errorf("failed to create fantasy team: %w", err)
	}

	return r.dbFantasyTeamToModel(team), nil
}

func (r *Repository) GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error) {
	team, err := r.queries.GetFantasyTeam(ctx, id)
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get fantasy team")
	}

	return r.dbFantasyTeamToModel(team), nil
}

func (r *Repository) GetFantasyTeamByLeagueAndOwner(ctx context.Context, leagueID, ownerID uuid.UUID) (*models.FantasyTeam, error) {
	team, err := r.queries.GetFantasyTeamByLeagueAndOwner(ctx, db.GetFantasyTeamByLeagueAndOwnerParams{
		LeagueID: leagueID,
		OwnerID:  ownerID,
	})
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to get fantasy team by league and owner")
	}

	return r.dbFantasyTeamToModel(team), nil
}

func (r *Repository) GetFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error) {
	teams, err := r.queries.GetFantasyTeamsByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fantasy teams by league: %w", err)
	}
	return r.toModels(teams), nil
}

func (r *Repository) GetFantasyTeamsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FantasyTeam, error) {
	teams, err := r.queries.GetFantasyTeamsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fantasy teams by owner: %w", err)
	}
	return r.toModels(teams), nil
}

// GetStandings returns a league's teams ordered by wins then points for
func (r *Repository) GetStandings(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error) {
	teams, err := r.queries.GetStandings(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get standings: %w", err)
	}
	return r.toModels(teams), nil
}

func (r *Repository) CountFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) (int, error) {
	n, err := r.queries.CountFantasyTeamsByLeague(ctx, leagueID)
	if err != nil {
		return 0, fmt.Errorf("failed to count fantasy teams: %w", err)
	}
	return int(n), nil
}

func (r *Repository) UpdateFantasyTeam(ctx context.Context, id uuid.UUID, req UpdateFantasyTeamRequest) (*models.FantasyTeam, error) {
	team, err := r.queries.UpdateFantasyTeam(ctx, db.UpdateFantasyTeamParams{
		ID:      id,
		Name:    req.Name,
		LogoUrl: req.LogoURL,
	})
	if err != nil {
		return nil, sqlutil.MapError(err, "failed to update fantasy team")
	}

	return r.dbFantasyTeamToModel(team), nil
}

// RecordResult adds one week's outcome to a team's record
func (r *Repository) RecordResult(ctx context.Context, res GameResult) error {
	arg := db.RecordResultParams{
		ID:            res.TeamID,
		PointsFor:     res.PointsFor,
		PointsAgainst: res.PointsAgainst,
	}
	switch {
	case res.PointsFor > res.PointsAgainst:
		arg.Wins = 1
	case res.PointsFor < res.PointsAgainst:
		arg.Losses = 1
	default:
		arg.Ties = 1
	}
	if err := r.queries.RecordResult(ctx, arg); err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

func (r *Repository) toModels(teams []db.FantasyTeam) []models.FantasyTeam {
	result := make([]models.FantasyTeam, len(teams))
	for i, team := range teams {
		result[i] = *r.dbFantasyTeamToModel(team)
	}
	return result
}

// dbFantasyTeamToModel converts a database fantasy team to domain model
func (r *Repository) dbFantasyTeamToModel(t db.FantasyTeam) *models.FantasyTeam {
	return &models.FantasyTeam{
		ID:             t.ID,
		LeagueID:       t.LeagueID,
		OwnerID:        t.OwnerID,
		Name:           t.Name,
		LogoURL:        t.LogoUrl,
		Wins:           int(t.Wins),
		Losses:         int(t.Losses),
		Ties:           int(t.Ties),
		PointsFor:      t.PointsFor,
		PointsAgainst:  t.PointsAgainst,
		WaiverPriority: int(t.WaiverPriority),
		FAABRemaining:  int(t.FaabRemaining),
		CreatedAt:      t.CreatedAt,
	}
}
