package leagues

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/events"
	"github.com/mcdev12/gridiron/go/internal/fantasyteam"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/validation"
	"github.com/rs/zerolog/log"
)

// LeaguesRepository defines what the app layer needs from the repository
type LeaguesRepository interface {
	CreateLeague(ctx context.Context, req CreateLeagueParams) (*models.League, error)
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	GetLeaguesForUser(ctx context.Context, userID uuid.UUID) ([]models.League, error)
	GetLeaguesByStatus(ctx context.Context, status models.LeagueStatus) ([]models.League, error)
	IsMember(ctx context.Context, leagueID, userID uuid.UUID) (bool, error)
	UpdateLeagueName(ctx context.Context, id uuid.UUID, name string) (*models.League, error)
	UpdateLeagueSettings(ctx context.Context, id uuid.UUID, settings models.LeagueSettings) (*models.League, error)
	UpdateLeagueStatus(ctx context.Context, id uuid.UUID, status models.LeagueStatus) (*models.League, error)
	SetCurrentWeek(ctx context.Context, id uuid.UUID, week int) (*models.League, error)
}

// TeamsApp is the part of the fantasy team application joining a league needs
type TeamsApp interface {
	CreateFantasyTeam(ctx context.Context, req fantasyteam.CreateFantasyTeamRequest) (*models.FantasyTeam, error)
	GetTeamForUser(ctx context.Context, leagueID, userID uuid.UUID) (*models.FantasyTeam, error)
	CountTeams(ctx context.Context, leagueID uuid.UUID) (int, error)
}

// App handles leagues business logic
type App struct {
	repo      LeaguesRepository
	teams     TeamsApp
	publisher events.Publisher
}

// NewApp creates a new leagues App
func NewApp(repo LeaguesRepository, teams TeamsApp, publisher events.Publisher) *App {
	return &App{
		repo:      repo,
		teams:     teams,
		publisher: publisher,
	}
}

var statusTransitions = map[models.LeagueStatus][]models.LeagueStatus{
	models.LeagueStatusPending: {models.LeagueStatusActive, models.LeagueStatusCancelled},
	models.LeagueStatusActive:  {models.LeagueStatusCompleted, models.LeagueStatusCancelled},
}

// CreateLeague creates a league with the caller as commissioner
func (a *App) CreateLeague(ctx context.Context, userID uuid.UUID, req CreateLeagueRequest) (*models.League, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	settings := models.DefaultLeagueSettings()
	req.Settings.apply(&settings)

	league, err := a.repo.CreateLeague(ctx, CreateLeagueParams{
		Name:           validation.SanitizeString(req.Name, 50),
		LeagueType:     req.LeagueType,
		CommissionerID: userID,
		Settings:       settings,
		Season:         req.Season,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("league_id", league.ID.String()).
		Str("commissioner_id", userID.String()).
		Str("league_type", string(league.LeagueType)).
		Msg("created league")
	return league, nil
}

// GetLeague retrieves a league by ID
func (a *App) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	return a.repo.GetLeague(ctx, id)
}

// ListForUser returns leagues the user runs or plays in
func (a *App) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.League, error) {
	return a.repo.GetLeaguesForUser(ctx, userID)
}

// ListActive returns every active league
func (a *App) ListActive(ctx context.Context) ([]models.League, error) {
	return a.repo.GetLeaguesByStatus(ctx, models.LeagueStatusActive)
}

// IsMember reports whether the user belongs to the league
func (a *App) IsMember(ctx context.Context, leagueID, userID uuid.UUID) (bool, error) {
	return a.repo.IsMember(ctx, leagueID, userID)
}

// RequireMember returns ErrForbidden unless the user belongs to the league
func (a *App) RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error {
	if _, err := a.repo.GetLeague(ctx, leagueID); err != nil {
		return err
	}
	ok, err := a.repo.IsMember(ctx, leagueID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.ErrForbidden, "You are not a member of this league")
	}
	return nil
}

// GetCommissionedLeague loads a league and checks the user is its commissioner
func (a *App) GetCommissionedLeague(ctx context.Context, leagueID, userID uuid.UUID) (*models.League, error) {
	league, err := a.repo.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if league.CommissionerID != userID {
		return nil, apperr.New(apperr.ErrForbidden, "Only the commissioner can perform this action")
	}
	return league, nil
}

// UpdateSettings merges the given settings into the league. Commissioner only.
func (a *App) UpdateSettings(ctx context.Context, userID, leagueID uuid.UUID, req UpdateSettingsRequest) (*models.League, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	league, err := a.GetCommissionedLeague(ctx, leagueID, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if league, err = a.repo.UpdateLeagueName(ctx, leagueID, validation.SanitizeString(*req.Name, 50)); err != nil {
			return nil, err
		}
	}

	settings := league.Settings
	req.apply(&settings)
	if settings.MaxTeams != league.Settings.MaxTeams {
		count, err := a.teams.CountTeams(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		if settings.MaxTeams < count {
			return nil, apperr.Field("max_teams", fmt.Sprintf("must be at least the %d teams already in the league", count))
		}
	}

	updated, err := a.repo.UpdateLeagueSettings(ctx, leagueID, settings)
	if err != nil {
		return nil, err
	}

	a.emit(ctx, updated)
	log.Info().Str("league_id", leagueID.String()).Msg("updated league settings")
	return updated, nil
}

// UpdateStatus moves the league along PENDING -> ACTIVE -> COMPLETED, with
// CANCELLED reachable from either live state. Commissioner only.
func (a *App) UpdateStatus(ctx context.Context, userID, leagueID uuid.UUID, req UpdateStatusRequest) (*models.League, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	league, err := a.GetCommissionedLeague(ctx, leagueID, userID)
	if err != nil {
		return nil, err
	}

	if !canTransition(league.Status, req.Status) {
		return nil, apperr.New(apperr.ErrInvalid, "Cannot change league status from %s to %s", league.Status, req.Status)
	}

	updated, err := a.repo.UpdateLeagueStatus(ctx, leagueID, req.Status)
	if err != nil {
		return nil, err
	}

	a.emit(ctx, updated)
	log.Info().
		Str("league_id", leagueID.String()).
		Str("from", string(league.Status)).
		Str("to", string(updated.Status)).
		Msg("updated league status")
	return updated, nil
}

// AdvanceWeek moves an active league to the next scoring week
func (a *App) AdvanceWeek(ctx context.Context, leagueID uuid.UUID) (*models.League, error) {
	league, err := a.repo.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if league.Status != models.LeagueStatusActive {
		return nil, apperr.New(apperr.ErrInvalid, "League is not active")
	}
	return a.repo.SetCurrentWeek(ctx, leagueID, league.CurrentWeek+1)
}

// Join creates the caller's team in the league
func (a *App) Join(ctx context.Context, userID, leagueID uuid.UUID, req JoinLeagueRequest) (*models.FantasyTeam, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	league, err := a.repo.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if league.Status != models.LeagueStatusPending && league.Status != models.LeagueStatusActive {
		return nil, apperr.New(apperr.ErrConflict, "League is not accepting new teams")
	}

	if _, err := a.teams.GetTeamForUser(ctx, leagueID, userID); err == nil {
		return nil, apperr.New(apperr.ErrConflict, "You already have a team in this league")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	count, err := a.teams.CountTeams(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if count >= league.Settings.MaxTeams {
		return nil, apperr.New(apperr.ErrConflict, "League is full")
	}

	team, err := a.teams.CreateFantasyTeam(ctx, fantasyteam.CreateFantasyTeamRequest{
		LeagueID:       leagueID,
		OwnerID:        userID,
		Name:           req.TeamName,
		LogoURL:        req.LogoURL,
		WaiverPriority: count + 1,
		FAABBudget:     league.Settings.FAABBudget,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("league_id", leagueID.String()).Str("user_id", userID.String()).Msg("user joined league")
	return team, nil
}

func canTransition(from, to models.LeagueStatus) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (a *App) emit(ctx context.Context, league *models.League) {
	if err := events.Emit(ctx, a.publisher, events.TypeLeagueUpdated, events.LeagueRoom(league.ID), league); err != nil {
		log.Warn().Err(err).Str("league_id", league.ID.String()).Msg("failed to publish league update")
	}
}
