package fantasyteam

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/validation"
	"github.com/rs/zerolog/log"
)

// FantasyTeamRepository defines what the app layer needs from the repository
type FantasyTeamRepository interface {
	CreateFantasyTeam(ctx context.Context, req CreateFantasyTeamRequest) (*models.FantasyTeam, error)
	GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error)
	GetFantasyTeamByLeagueAndOwner(ctx context.Context, leagueID, ownerID uuid.UUID) (*models.FantasyTeam, error)
	GetFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error)
	GetFantasyTeamsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FantasyTeam, error)
	GetStandings(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error)
	CountFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) (int, error)
	UpdateFantasyTeam(ctx context.Context, id uuid.UUID, req UpdateFantasyTeamRequest) (*models.FantasyTeam, error)
	RecordResult(ctx context.Context, res GameResult) error
}

// App handles fantasy teams business logic
type App struct {
	repo FantasyTeamRepository
}

// NewApp creates a new fantasy teams App
func NewApp(repo FantasyTeamRepository) *App {
	return &App{
		repo: repo,
	}
}

// CreateFantasyTeam creates a team in a league. The caller checks league capacity.
func (a *App) CreateFantasyTeam(ctx context.Context, req CreateFantasyTeamRequest) (*models.FantasyTeam, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	req.Name = validation.SanitizeString(req.Name, 50)

	team, err := a.repo.CreateFantasyTeam(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("team_id", team.ID.String()).
		Str("league_id", team.LeagueID.String()).
		Str("owner_id", team.OwnerID.String()).
		Msg("created fantasy team")
	return team, nil
}

// GetFantasyTeam retrieves a fantasy team by ID
func (a *App) GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error) {
	return a.repo.GetFantasyTeam(ctx, id)
}

// GetTeamForUser returns the caller's team in a league
func (a *App) GetTeamForUser(ctx context.Context, leagueID, userID uuid.UUID) (*models.FantasyTeam, error) {
	return a.repo.GetFantasyTeamByLeagueAndOwner(ctx, leagueID, userID)
}

// GetFantasyTeamsByLeague retrieves fantasy teams by league ID
func (a *App) GetFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error) {
	return a.repo.GetFantasyTeamsByLeague(ctx, leagueID)
}

// GetFantasyTeamsByOwner retrieves fantasy teams by owner ID
func (a *App) GetFantasyTeamsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FantasyTeam, error) {
	return a.repo.GetFantasyTeamsByOwner(ctx, ownerID)
}

// CountTeams returns how many teams have joined a league
func (a *App) CountTeams(ctx context.Context, leagueID uuid.UUID) (int, error) {
	return a.repo.CountFantasyTeamsByLeague(ctx, leagueID)
}

// UpdateFantasyTeam renames a team. Only the owner may do this.
func (a *App) UpdateFantasyTeam(ctx context.Context, userID, teamID uuid.UUID, req UpdateFantasyTeamRequest) (*models.FantasyTeam, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	team, err := a.repo.GetFantasyTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.OwnerID != userID {
		return nil, apperr.New(apperr.ErrForbidden, "Only the team owner can update this team")
	}

	req.Name = validation.SanitizeString(req.Name, 50)
	updated, err := a.repo.UpdateFantasyTeam(ctx, teamID, req)
	if err != nil {
		return nil, err
	}

	log.Info().Str("team_id", teamID.String()).Str("name", updated.Name).Msg("updated fantasy team")
	return updated, nil
}

// Standings ranks a league's teams by wins, then points for
func (a *App) Standings(ctx context.Context, leagueID uuid.UUID) ([]models.Standing, error) {
	teams, err := a.repo.GetStandings(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return BuildStandings(teams), nil
}

// RecordResults applies a week of results to team records
func (a *App) RecordResults(ctx context.Context, results []GameResult) error {
	for _, res := range results {
		if err := a.repo.RecordResult(ctx, res); err != nil {
			return fmt.Errorf("team %s: %w", res.TeamID, err)
		}
	}
	return nil
}

// BuildStandings assigns rank, win percentage and games back to teams that
// are already ordered.
func BuildStandings(teams []models.FantasyTeam) []models.Standing {
	standings := make([]models.Standing, len(teams))
	if len(teams) == 0 {
		return standings
	}

	leader := teams[0]
	for i, t := range teams {
		var pct float64
		if games := t.Wins + t.Losses + t.Ties; games > 0 {
			pct = (float64(t.Wins) + 0.5*float64(t.Ties)) / float64(games)
		}
		standings[i] = models.Standing{
			Rank:      i + 1,
			Team:      t,
			WinPct:    pct,
			GamesBack: float64((leader.Wins-t.Wins)+(t.Losses-leader.Losses)) / 2,
		}
	}
	return standings
}
