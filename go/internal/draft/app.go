package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/events"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/validation"
	"github.com/rs/zerolog/log"
)

// DraftRepository defines what the app layer needs from the repository
type DraftRepository interface {
	CreateDraft(ctx context.Context, params CreateDraftParams) (*models.Draft, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	GetActiveDraftForLeague(ctx context.Context, leagueID uuid.UUID) (*models.Draft, error)
	UpdateDraftStatus(ctx context.Context, id uuid.UUID, status models.DraftStatus) (*models.Draft, error)
	SetNextDeadline(ctx context.Context, id uuid.UUID, deadline *time.Time) error
	ListScheduledDrafts(ctx context.Context) ([]models.Draft, error)
	GetBoard(ctx context.Context, draftID uuid.UUID) ([]BoardPick, error)
	GetNextOpenPick(ctx context.Context, draftID uuid.UUID) (*models.DraftPick, error)
	RecordPick(ctx context.Context, params RecordPickParams) (int, error)
	BestAvailable(ctx context.Context, leagueID uuid.UUID) (*AvailablePlayer, error)
}

// LeaguesApp is the part of the leagues application drafts need
type LeaguesApp interface {
	GetCommissionedLeague(ctx context.Context, leagueID, userID uuid.UUID) (*models.League, error)
	RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error
}

// TeamsApp looks up the league's fantasy teams
type TeamsApp interface {
	GetFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error)
	GetTeamForUser(ctx context.Context, leagueID, userID uuid.UUID) (*models.FantasyTeam, error)
}

// PlayersApp looks up players
type PlayersApp interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
}

// Scheduler runs the pick clocks
type Scheduler interface {
	Schedule(draftID uuid.UUID, deadline time.Time)
	Cancel(draftID uuid.UUID)
}

// App handles draft business logic
type App struct {
	repo      DraftRepository
	leagues   LeaguesApp
	teams     TeamsApp
	players   PlayersApp
	scheduler Scheduler
	publisher events.Publisher
	clock     clockwork.Clock
}

// NewApp creates a new draft App
func NewApp(repo DraftRepository, leagues LeaguesApp, teams TeamsApp, players PlayersApp, scheduler Scheduler, publisher events.Publisher, clock clockwork.Clock) *App {
	return &App{
		repo:      repo,
		leagues:   leagues,
		teams:     teams,
		players:   players,
		scheduler: scheduler,
		publisher: publisher,
		clock:     clock,
	}
}

var statusTransitions = map[models.DraftStatus][]models.DraftStatus{
	models.DraftStatusNotStarted: {models.DraftStatusInProgress, models.DraftStatusCancelled},
	models.DraftStatusInProgress: {models.DraftStatusPaused, models.DraftStatusCompleted, models.DraftStatusCancelled},
	models.DraftStatusPaused:     {models.DraftStatusInProgress, models.DraftStatusCompleted, models.DraftStatusCancelled},
}

// CreateDraft sets up a league's draft and all of its pick slots. Commissioner only.
func (a *App) CreateDraft(ctx context.Context, userID, leagueID uuid.UUID, req CreateDraftRequest) (*models.Draft, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	league, err := a.leagues.GetCommissionedLeague(ctx, leagueID, userID)
	if err != nil {
		return nil, err
	}
	if league.Status == models.LeagueStatusCompleted || league.Status == models.LeagueStatusCancelled {
		return nil, apperr.New(apperr.ErrConflict, "League is %s", league.Status)
	}

	existing, err := a.repo.GetActiveDraftForLeague(ctx, leagueID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.New(apperr.ErrConflict, "League already has a draft")
	}

	teams, err := a.teams.GetFantasyTeamsByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	order, err := draftOrder(req.DraftOrder, teams)
	if err != nil {
		return nil, err
	}

	settings := models.DraftSettings{
		Rounds:             req.Rounds,
		TimePerPickSec:     req.TimePerPickSec,
		DraftOrder:         order,
		ThirdRoundReversal: req.ThirdRoundReversal && req.DraftType == models.DraftTypeSnake,
	}
	id := uuid.New()
	draft, err := a.repo.CreateDraft(ctx, CreateDraftParams{
		ID:        id,
		LeagueID:  leagueID,
		DraftType: req.DraftType,
		Settings:  settings,
		Picks:     GeneratePicks(id, req.DraftType, settings),
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("draft_id", draft.ID.String()).
		Str("league_id", leagueID.String()).
		Str("draft_type", string(draft.DraftType)).
		Int("rounds", settings.Rounds).
		Int("teams", len(order)).
		Msg("created draft")
	return draft, nil
}

// draftOrder checks a requested order names every team in the league exactly
// once, or builds one from the teams when none was given.
func draftOrder(requested []uuid.UUID, teams []models.FantasyTeam) ([]uuid.UUID, error) {
	if len(teams) < 2 {
		return nil, apperr.New(apperr.ErrInvalid, "A draft needs at least 2 teams")
	}
	if len(requested) == 0 {
		order := make([]uuid.UUID, len(teams))
		for i, t := range teams {
			order[i] = t.ID
		}
		return order, nil
	}

	inLeague := make(map[uuid.UUID]bool, len(teams))
	for _, t := range teams {
		inLeague[t.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(requested))
	for _, id := range requested {
		if !inLeague[id] {
			return nil, apperr.Field("draft_order", fmt.Sprintf("team %s is not in this league", id))
		}
		if seen[id] {
			return nil, apperr.Field("draft_order", fmt.Sprintf("team %s appears more than once", id))
		}
		seen[id] = true
	}
	if len(seen) != len(teams) {
		return nil, apperr.Field("draft_order", "must include every team in the league")
	}
	return requested, nil
}

// GetDraft retrieves a draft by ID
func (a *App) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	return a.repo.GetDraft(ctx, id)
}

// GetLeagueDraft returns the league's current draft
func (a *App) GetLeagueDraft(ctx context.Context, leagueID uuid.UUID) (*models.Draft, error) {
	return a.repo.GetActiveDraftForLeague(ctx, leagueID)
}

// GetBoard returns the draft with every pick and the pick on the clock.
// League members only.
func (a *App) GetBoard(ctx context.Context, userID, draftID uuid.UUID) (*Board, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := a.leagues.RequireMember(ctx, draft.LeagueID, userID); err != nil {
		return nil, err
	}

	picks, err := a.repo.GetBoard(ctx, draftID)
	if err != nil {
		return nil, err
	}
	board := &Board{Draft: draft, Picks: picks}
	for i := range picks {
		if picks[i].PlayerID == nil {
			board.Remaining++
			if board.OnTheClock == nil {
				p := picks[i].DraftPick
				board.OnTheClock = &p
			}
		}
	}
	return board, nil
}

// StartDraft starts the first pick clock. Commissioner only.
func (a *App) StartDraft(ctx context.Context, userID, draftID uuid.UUID) (*models.Draft, error) {
	draft, err := a.commissionedDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != models.DraftStatusNotStarted {
		return nil, apperr.New(apperr.ErrConflict, "Draft has already started")
	}

	draft, err = a.transition(ctx, draft, models.DraftStatusInProgress)
	if err != nil {
		return nil, err
	}
	startedAt := a.clock.Now()
	if draft.StartedAt != nil {
		startedAt = *draft.StartedAt
	}

	rounds := draft.Settings.Rounds
	a.emit(ctx, draft.LeagueID, events.TypeDraftStarted, events.DraftStartedPayload{
		DraftID:     draft.ID,
		DraftType:   string(draft.DraftType),
		StartedAt:   startedAt,
		TotalRounds: rounds,
		TotalPicks:  rounds * len(draft.Settings.DraftOrder),
	})

	if err := a.startPickClock(ctx, draft); err != nil {
		return nil, err
	}

	log.Info().Str("draft_id", draft.ID.String()).Msg("draft started")
	return a.repo.GetDraft(ctx, draft.ID)
}

// MakePick drafts a player for the caller's team, which must be on the clock
func (a *App) MakePick(ctx context.Context, userID, draftID uuid.UUID, req MakePickRequest) (*models.DraftPick, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != models.DraftStatusInProgress {
		return nil, apperr.New(apperr.ErrConflict, "Draft is not in progress")
	}

	team, err := a.teams.GetTeamForUser(ctx, draft.LeagueID, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.New(apperr.ErrForbidden, "You do not have a team in this draft")
	}
	if err != nil {
		return nil, err
	}

	pick, err := a.repo.GetNextOpenPick(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if pick == nil {
		return nil, apperr.New(apperr.ErrConflict, "Draft has no picks remaining")
	}
	if pick.TeamID != team.ID {
		return nil, apperr.New(apperr.ErrForbidden, "It is not your turn to pick")
	}

	player, err := a.players.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return nil, err
	}
	if !player.Active {
		return nil, apperr.New(apperr.ErrInvalid, "Player is not active")
	}

	return a.recordPick(ctx, draft, pick, player.ID, player.FullName, false)
}

// HandlePickTimeout auto-picks the best ranked available player for the team
// on the clock once its deadline has passed.
func (a *App) HandlePickTimeout(ctx context.Context, draftID uuid.UUID) error {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if errors.Is(err, apperr.ErrNotFound) {
		log.Warn().Str("draft_id", draftID.String()).Msg("pick timeout for missing draft")
		return nil
	}
	if err != nil {
		return err
	}
	if draft.Status != models.DraftStatusInProgress || draft.NextDeadline == nil {
		log.Debug().Str("draft_id", draftID.String()).Str("status", string(draft.Status)).Msg("skipping timeout for inactive draft")
		return nil
	}
	if a.clock.Now().Before(*draft.NextDeadline) {
		// the pick was made and the clock moved on
		a.scheduler.Schedule(draft.ID, *draft.NextDeadline)
		return nil
	}

	pick, err := a.repo.GetNextOpenPick(ctx, draftID)
	if err != nil {
		return err
	}
	if pick == nil {
		return a.complete(ctx, draft)
	}

	player, err := a.repo.BestAvailable(ctx, draft.LeagueID)
	if errors.Is(err, apperr.ErrNotFound) {
		log.Warn().Str("draft_id", draftID.String()).Msg("no players left to auto-pick; completing draft")
		return a.complete(ctx, draft)
	}
	if err != nil {
		return err
	}

	_, err = a.recordPick(ctx, draft, pick, player.ID, player.FullName, true)
	return err
}

func (a *App) recordPick(ctx context.Context, draft *models.Draft, pick *models.DraftPick, playerID uuid.UUID, playerName string, auto bool) (*models.DraftPick, error) {
	remaining, err := a.repo.RecordPick(ctx, RecordPickParams{
		DraftID:    draft.ID,
		LeagueID:   draft.LeagueID,
		PickID:     pick.ID,
		TeamID:     pick.TeamID,
		PlayerID:   playerID,
		AutoPicked: auto,
	})
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	pick.PlayerID = &playerID
	pick.PickedAt = &now
	pick.AutoPicked = auto

	log.Info().
		Str("draft_id", draft.ID.String()).
		Str("team_id", pick.TeamID.String()).
		Str("player_id", playerID.String()).
		Int("overall_pick", pick.OverallPick).
		Bool("auto_picked", auto).
		Msg("pick made")

	a.emit(ctx, draft.LeagueID, events.TypeDraftPick, events.PickMadePayload{
		DraftID:     draft.ID,
		PickID:      pick.ID,
		TeamID:      pick.TeamID,
		PlayerID:    playerID,
		PlayerName:  playerName,
		Round:       pick.Round,
		Pick:        pick.Pick,
		OverallPick: pick.OverallPick,
		AutoPicked:  auto,
		MadeAt:      now,
	})

	if remaining == 0 {
		if err := a.complete(ctx, draft); err != nil {
			return nil, err
		}
		return pick, nil
	}
	if err := a.startPickClock(ctx, draft); err != nil {
		return nil, err
	}
	return pick, nil
}

// PauseDraft stops the pick clock. Commissioner only.
func (a *App) PauseDraft(ctx context.Context, userID, draftID uuid.UUID) (*models.Draft, error) {
	draft, err := a.commissionedDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	draft, err = a.transition(ctx, draft, models.DraftStatusPaused)
	if err != nil {
		return nil, err
	}
	a.scheduler.Cancel(draft.ID)

	a.emit(ctx, draft.LeagueID, events.TypeDraftPaused, events.DraftStatePayload{
		DraftID: draft.ID,
		Status:  string(draft.Status),
		At:      a.clock.Now(),
	})
	log.Info().Str("draft_id", draft.ID.String()).Msg("draft paused")
	return draft, nil
}

// ResumeDraft restarts a paused draft with a full clock for the current pick.
// Commissioner only.
func (a *App) ResumeDraft(ctx context.Context, userID, draftID uuid.UUID) (*models.Draft, error) {
	draft, err := a.commissionedDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != models.DraftStatusPaused {
		return nil, apperr.New(apperr.ErrConflict, "Draft is not paused")
	}
	draft, err = a.transition(ctx, draft, models.DraftStatusInProgress)
	if err != nil {
		return nil, err
	}

	a.emit(ctx, draft.LeagueID, events.TypeDraftResumed, events.DraftStatePayload{
		DraftID: draft.ID,
		Status:  string(draft.Status),
		At:      a.clock.Now(),
	})
	if err := a.startPickClock(ctx, draft); err != nil {
		return nil, err
	}
	log.Info().Str("draft_id", draft.ID.String()).Msg("draft resumed")
	return a.repo.GetDraft(ctx, draft.ID)
}

// CompleteDraft ends the draft early. Commissioner only.
func (a *App) CompleteDraft(ctx context.Context, userID, draftID uuid.UUID) (*models.Draft, error) {
	draft, err := a.commissionedDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	if !canTransition(draft.Status, models.DraftStatusCompleted) {
		return nil, apperr.New(apperr.ErrConflict, "Cannot complete a draft that is %s", draft.Status)
	}
	if err := a.complete(ctx, draft); err != nil {
		return nil, err
	}
	return a.repo.GetDraft(ctx, draftID)
}

// RestoreClocks re-arms pick clocks for drafts that were in progress when the
// process stopped.
func (a *App) RestoreClocks(ctx context.Context) error {
	drafts, err := a.repo.ListScheduledDrafts(ctx)
	if err != nil {
		return err
	}
	for _, d := range drafts {
		a.scheduler.Schedule(d.ID, *d.NextDeadline)
	}
	log.Info().Int("drafts", len(drafts)).Msg("restored pick clocks")
	return nil
}

func (a *App) complete(ctx context.Context, draft *models.Draft) error {
	a.scheduler.Cancel(draft.ID)
	completed, err := a.repo.UpdateDraftStatus(ctx, draft.ID, models.DraftStatusCompleted)
	if err != nil {
		return err
	}

	now := a.clock.Now()
	payload := events.DraftCompletedPayload{
		DraftID:     draft.ID,
		CompletedAt: now,
		TotalPicks:  draft.Settings.Rounds * len(draft.Settings.DraftOrder),
	}
	if completed.StartedAt != nil {
		payload.Duration = now.Sub(*completed.StartedAt).Round(time.Second).String()
	}
	a.emit(ctx, draft.LeagueID, events.TypeDraftCompleted, payload)

	log.Info().Str("draft_id", draft.ID.String()).Msg("draft completed")
	return nil
}

// startPickClock sets the deadline for the pick now on the clock and arms its timer
func (a *App) startPickClock(ctx context.Context, draft *models.Draft) error {
	pick, err := a.repo.GetNextOpenPick(ctx, draft.ID)
	if err != nil {
		return err
	}
	if pick == nil {
		return a.complete(ctx, draft)
	}

	startedAt := a.clock.Now()
	deadline := startedAt.Add(time.Duration(draft.Settings.TimePerPickSec) * time.Second)
	if err := a.repo.SetNextDeadline(ctx, draft.ID, &deadline); err != nil {
		return err
	}
	a.scheduler.Schedule(draft.ID, deadline)

	a.emit(ctx, draft.LeagueID, events.TypePickStarted, events.PickStartedPayload{
		DraftID:        draft.ID,
		PickID:         pick.ID,
		TeamID:         pick.TeamID,
		Round:          pick.Round,
		Pick:           pick.Pick,
		OverallPick:    pick.OverallPick,
		StartedAt:      startedAt,
		TimeoutAt:      deadline,
		TimePerPickSec: draft.Settings.TimePerPickSec,
	})
	return nil
}

func (a *App) commissionedDraft(ctx context.Context, userID, draftID uuid.UUID) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if _, err := a.leagues.GetCommissionedLeague(ctx, draft.LeagueID, userID); err != nil {
		return nil, err
	}
	return draft, nil
}

func (a *App) transition(ctx context.Context, draft *models.Draft, to models.DraftStatus) (*models.Draft, error) {
	if !canTransition(draft.Status, to) {
		return nil, apperr.New(apperr.ErrConflict, "Cannot move draft from %s to %s", draft.Status, to)
	}
	return a.repo.UpdateDraftStatus(ctx, draft.ID, to)
}

func canTransition(from, to models.DraftStatus) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (a *App) emit(ctx context.Context, leagueID uuid.UUID, t events.Type, payload any) {
	if err := events.Emit(ctx, a.publisher, t, events.LeagueRoom(leagueID), payload); err != nil {
		log.Warn().Err(err).Str("event_type", string(t)).Str("league_id", leagueID.String()).Msg("failed to publish draft event")
	}
}
