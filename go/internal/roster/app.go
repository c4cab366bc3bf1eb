package roster

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/events"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/validation"
	"github.com/rs/zerolog/log"
)

// RosterRepository defines what the app layer needs from the repository
type RosterRepository interface {
	GetTeamRoster(ctx context.Context, teamID uuid.UUID) ([]models.RosterPlayer, error)
	GetLeagueRoster(ctx context.Context, leagueID uuid.UUID) ([]models.Roster, error)
	GetRosterEntry(ctx context.Context, leagueID, playerID uuid.UUID) (*models.Roster, error)
	CountByPosition(ctx context.Context, teamID uuid.UUID) (*RosterCounts, error)
	AddPlayer(ctx context.Context, params AddPlayerParams) (*models.Roster, error)
	RemovePlayer(ctx context.Context, teamID, playerID uuid.UUID) error
	SetPosition(ctx context.Context, teamID, playerID uuid.UUID, position models.RosterPosition) (*models.Roster, error)
}

// TeamsApp looks up fantasy teams
type TeamsApp interface {
	GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error)
}

// LeaguesApp looks up leagues
type LeaguesApp interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
}

// PlayersApp looks up players
type PlayersApp interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
}

// App handles roster business logic
type App struct {
	repo      RosterRepository
	teams     TeamsApp
	leagues   LeaguesApp
	players   PlayersApp
	publisher events.Publisher
}

// NewApp creates a new roster App
func NewApp(repo RosterRepository, teams TeamsApp, leagues LeaguesApp, players PlayersApp, publisher events.Publisher) *App {
	return &App{
		repo:      repo,
		teams:     teams,
		leagues:   leagues,
		players:   players,
		publisher: publisher,
	}
}

// GetTeamRoster returns the team's roster, starters first
func (a *App) GetTeamRoster(ctx context.Context, teamID uuid.UUID) ([]models.RosterPlayer, error) {
	if _, err := a.teams.GetFantasyTeam(ctx, teamID); err != nil {
		return nil, err
	}
	return a.repo.GetTeamRoster(ctx, teamID)
}

// GetLeagueRoster returns every rostered player in the league
func (a *App) GetLeagueRoster(ctx context.Context, leagueID uuid.UUID) ([]models.Roster, error) {
	return a.repo.GetLeagueRoster(ctx, leagueID)
}

// AddFreeAgent puts an unowned player on the caller's bench
func (a *App) AddFreeAgent(ctx context.Context, userID, teamID uuid.UUID, req AddPlayerRequest) (*models.Roster, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	team, err := a.ownedTeam(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}
	league, err := a.leagues.GetLeague(ctx, team.LeagueID)
	if err != nil {
		return nil, err
	}
	if league.Status != models.LeagueStatusActive {
		return nil, apperr.New(apperr.ErrConflict, "League is not active")
	}

	player, err := a.players.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return nil, err
	}
	if !player.Active {
		return nil, apperr.New(apperr.ErrInvalid, "Player is not active")
	}

	owned, err := a.ownerOf(ctx, league.ID, player.ID)
	if err != nil {
		return nil, err
	}
	if owned != nil {
		return nil, apperr.New(apperr.ErrConflict, "Player is already on a roster in this league")
	}

	if req.DropPlayerID != nil {
		drop, err := a.ownerOf(ctx, league.ID, *req.DropPlayerID)
		if err != nil {
			return nil, err
		}
		if drop == nil || drop.FantasyTeamID != team.ID {
			return nil, apperr.New(apperr.ErrNotFound, "Drop player is not on this roster")
		}
	} else {
		counts, err := a.repo.CountByPosition(ctx, team.ID)
		if err != nil {
			return nil, err
		}
		if counts.Active >= league.Settings.RosterSize {
			return nil, apperr.New(apperr.ErrConflict, "Roster is full")
		}
	}

	entry, err := a.repo.AddPlayer(ctx, AddPlayerParams{
		LeagueID:        league.ID,
		TeamID:          team.ID,
		PlayerID:        player.ID,
		DropPlayerID:    req.DropPlayerID,
		Position:        models.RosterPositionBench,
		AcquisitionType: models.AcquisitionTypeFreeAgent,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("team_id", team.ID.String()).
		Str("player_id", player.ID.String()).
		Msg("added free agent")

	if req.DropPlayerID != nil {
		a.emit(ctx, league.ID, team.ID, *req.DropPlayerID, actionDropped)
	}
	a.emit(ctx, league.ID, team.ID, player.ID, actionAdded)
	return entry, nil
}

// DropPlayer releases a player from the caller's team
func (a *App) DropPlayer(ctx context.Context, userID, teamID, playerID uuid.UUID) error {
	team, err := a.ownedTeam(ctx, userID, teamID)
	if err != nil {
		return err
	}
	if err := a.repo.RemovePlayer(ctx, team.ID, playerID); err != nil {
		return err
	}

	log.Info().
		Str("team_id", team.ID.String()).
		Str("player_id", playerID.String()).
		Msg("dropped player")

	a.emit(ctx, team.LeagueID, team.ID, playerID, actionDropped)
	return nil
}

// MovePlayer changes a rostered player's slot. Starter and IR slots are
// capped by league settings, and only OUT or IR players may go to IR.
func (a *App) MovePlayer(ctx context.Context, userID, teamID, playerID uuid.UUID, req MovePlayerRequest) (*models.Roster, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	team, err := a.ownedTeam(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}
	entry, err := a.ownerOf(ctx, team.LeagueID, playerID)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.FantasyTeamID != team.ID {
		return nil, apperr.New(apperr.ErrNotFound, "Player is not on this roster")
	}
	if entry.Position == req.Position {
		return entry, nil
	}

	league, err := a.leagues.GetLeague(ctx, team.LeagueID)
	if err != nil {
		return nil, err
	}
	counts, err := a.repo.CountByPosition(ctx, team.ID)
	if err != nil {
		return nil, err
	}

	switch req.Position {
	case models.RosterPositionStarter:
		if counts.Starters >= league.Settings.StarterSlots {
			return nil, apperr.New(apperr.ErrConflict, "No open starter slots")
		}
	case models.RosterPositionIR:
		player, err := a.players.GetPlayer(ctx, playerID)
		if err != nil {
			return nil, err
		}
		if player.InjuryStatus != models.InjuryOut && player.InjuryStatus != models.InjuryIR {
			return nil, apperr.New(apperr.ErrInvalid, "Only players ruled out or on injured reserve can be moved to IR")
		}
		if counts.IR >= league.Settings.IRSlots {
			return nil, apperr.New(apperr.ErrConflict, "No open IR slots")
		}
	}
	if entry.Position == models.RosterPositionIR && counts.Active >= league.Settings.RosterSize {
		return nil, apperr.New(apperr.ErrConflict, "Roster is full")
	}

	moved, err := a.repo.SetPosition(ctx, team.ID, playerID, req.Position)
	if err != nil {
		return nil, err
	}
	a.emit(ctx, team.LeagueID, team.ID, playerID, actionMoved)
	return moved, nil
}

func (a *App) ownedTeam(ctx context.Context, userID, teamID uuid.UUID) (*models.FantasyTeam, error) {
	team, err := a.teams.GetFantasyTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.OwnerID != userID {
		return nil, apperr.New(apperr.ErrForbidden, "Only the team owner can change this roster")
	}
	return team, nil
}

// ownerOf returns the roster entry holding the player, or nil when the
// player is a free agent in the league.
func (a *App) ownerOf(ctx context.Context, leagueID, playerID uuid.UUID) (*models.Roster, error) {
	entry, err := a.repo.GetRosterEntry(ctx, leagueID, playerID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (a *App) emit(ctx context.Context, leagueID, teamID, playerID uuid.UUID, action string) {
	payload := events.RosterChangedPayload{TeamID: teamID, PlayerID: playerID, Action: action}
	if err := events.Emit(ctx, a.publisher, events.TypeRosterChanged, events.LeagueRoom(leagueID), payload); err != nil {
		log.Warn().Err(err).Str("team_id", teamID.String()).Msg("failed to publish roster change")
	}
}
