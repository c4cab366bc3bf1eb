package waivers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/events"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/validation"
	"github.com/rs/zerolog/log"
)

// WaiverRepository defines what the app layer needs from the repository
type WaiverRepository interface {
	CreateClaim(ctx context.Context, params CreateClaimParams) (*models.WaiverClaim, error)
	GetClaim(ctx context.Context, id uuid.UUID) (*models.WaiverClaim, error)
	ListClaims(ctx context.Context, leagueID uuid.UUID, teamID *uuid.UUID, status *models.WaiverClaimStatus) ([]models.WaiverClaim, error)
	CancelClaim(ctx context.Context, id uuid.UUID, at time.Time) error
	RosterOwner(ctx context.Context, leagueID, playerID uuid.UUID) (*uuid.UUID, error)
	ListDueLeagues(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	ProcessClaims(ctx context.Context, leagueID uuid.UUID, resolve func(RunInput) *models.WaiverRun) (*models.WaiverRun, error)
}

// LeaguesApp is the part of the leagues application waivers need
type LeaguesApp interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	GetCommissionedLeague(ctx context.Context, leagueID, userID uuid.UUID) (*models.League, error)
	RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error
}

// TeamsApp looks up fantasy teams
type TeamsApp interface {
	GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error)
	GetFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error)
}

// PlayersApp looks up players
type PlayersApp interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Player, error)
}

// Notifier stores and delivers a notification to one user
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// App handles waiver business logic
type App struct {
	repo      WaiverRepository
	leagues   LeaguesApp
	teams     TeamsApp
	players   PlayersApp
	notifier  Notifier
	publisher events.Publisher
	clock     clockwork.Clock

	mu         sync.Mutex
	processing map[uuid.UUID]bool
}

// NewApp creates a new waivers App
func NewApp(repo WaiverRepository, leagues LeaguesApp, teams TeamsApp, players PlayersApp, notifier Notifier, publisher events.Publisher, clock clockwork.Clock) *App {
	return &App{
		repo:       repo,
		leagues:    leagues,
		teams:      teams,
		players:    players,
		notifier:   notifier,
		publisher:  publisher,
		clock:      clock,
		processing: make(map[uuid.UUID]bool),
	}
}

// SubmitClaim files a claim for the next waiver run of the league
func (a *App) SubmitClaim(ctx context.Context, userID, leagueID uuid.UUID, req SubmitClaimRequest) (*models.WaiverClaim, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	league, err := a.leagues.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	team, err := a.teams.GetFantasyTeam(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}
	if team.LeagueID != leagueID {
		return nil, apperr.New(apperr.ErrNotFound, "Team not found in this league")
	}
	if team.OwnerID != userID {
		return nil, apperr.New(apperr.ErrForbidden, "Only the team owner can submit waiver claims")
	}

	player, err := a.players.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return nil, err
	}
	if !player.Active {
		return nil, apperr.New(apperr.ErrInvalid, "Player is not active")
	}
	owner, err := a.repo.RosterOwner(ctx, leagueID, req.PlayerID)
	if err != nil {
		return nil, err
	}
	if owner != nil {
		return nil, apperr.New(apperr.ErrConflict, "Player is already on a roster in this league")
	}

	if req.DropPlayerID != nil {
		dropOwner, err := a.repo.RosterOwner(ctx, leagueID, *req.DropPlayerID)
		if err != nil {
			return nil, err
		}
		if dropOwner == nil || *dropOwner != team.ID {
			return nil, apperr.Field("drop_player_id", "is not on your roster")
		}
	}

	bid, err := checkBid(league.Settings, team, req.BidAmount)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	claim, err := a.repo.CreateClaim(ctx, CreateClaimParams{
		LeagueID:     leagueID,
		TeamID:       team.ID,
		PlayerID:     req.PlayerID,
		DropPlayerID: req.DropPlayerID,
		BidAmount:    bid,
		Priority:     team.WaiverPriority,
		ProcessDate:  NextProcessDate(league.Settings, now),
		SubmittedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("claim_id", claim.ID.String()).
		Str("league_id", leagueID.String()).
		Str("team_id", team.ID.String()).
		Str("player_id", req.PlayerID.String()).
		Int("bid_amount", bid).
		Time("process_date", claim.ProcessDate).
		Msg("waiver claim submitted")
	return claim, nil
}

// checkBid validates the bid for FAAB leagues. Other waiver types ignore it.
func checkBid(settings models.LeagueSettings, team *models.FantasyTeam, bid *int) (int, error) {
	if settings.WaiverType != models.WaiverTypeFAAB {
		return 0, nil
	}
	if bid == nil {
		return 0, apperr.Field("bid_amount", "is required in FAAB leagues")
	}
	if *bid == 0 && !settings.AllowZeroBids {
		return 0, apperr.Field("bid_amount", "must be greater than 0")
	}
	if *bid > team.FAABRemaining {
		return 0, apperr.Field("bid_amount", fmt.Sprintf("exceeds remaining FAAB budget of %d", team.FAABRemaining))
	}
	return *bid, nil
}

// SubmitBatch submits up to 10 claims. A claim that is rejected is reported
// in its result and does not stop the rest.
func (a *App) SubmitBatch(ctx context.Context, userID, leagueID uuid.UUID, req BatchClaimRequest) (*BatchResult, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	result := &BatchResult{Results: make([]BatchItem, 0, len(req.Claims))}
	for i, c := range req.Claims {
		claim, err := a.SubmitClaim(ctx, userID, leagueID, c)
		switch {
		case err == nil:
			result.Successful++
			result.Results = append(result.Results, BatchItem{Index: i, Claim: claim})
		case isClaimRejection(err):
			result.Failed++
			msg, ok := apperr.Message(err)
			if !ok {
				msg = err.Error()
			}
			result.Results = append(result.Results, BatchItem{Index: i, Error: msg})
		default:
			return nil, err
		}
	}
	return result, nil
}

func isClaimRejection(err error) bool {
	for _, kind := range []error{apperr.ErrInvalid, apperr.ErrNotFound, apperr.ErrConflict, apperr.ErrForbidden} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// ListClaims lists a league's claims. League members only.
func (a *App) ListClaims(ctx context.Context, userID, leagueID uuid.UUID, filter ClaimFilter) ([]models.WaiverClaim, error) {
	if err := a.leagues.RequireMember(ctx, leagueID, userID); err != nil {
		return nil, err
	}

	var status *models.WaiverClaimStatus
	switch s := models.WaiverClaimStatus(filter.Status); s {
	case "":
		pending := models.WaiverClaimPending
		status = &pending
	case statusAll:
	case models.WaiverClaimPending, models.WaiverClaimSuccessful, models.WaiverClaimFailed, models.WaiverClaimCancelled:
		status = &s
	default:
		return nil, apperr.Field("status", "must be one of pending successful failed cancelled all")
	}
	return a.repo.ListClaims(ctx, leagueID, filter.TeamID, status)
}

// CancelClaim withdraws a pending claim. Only the claiming team's owner may.
func (a *App) CancelClaim(ctx context.Context, userID, claimID uuid.UUID) error {
	claim, err := a.repo.GetClaim(ctx, claimID)
	if err != nil {
		return err
	}
	team, err := a.teams.GetFantasyTeam(ctx, claim.TeamID)
	if err != nil {
		return err
	}
	if team.OwnerID != userID {
		return apperr.New(apperr.ErrForbidden, "Only the team owner can cancel this claim")
	}
	if claim.Status != models.WaiverClaimPending {
		return apperr.New(apperr.ErrConflict, "Cannot cancel a processed waiver claim")
	}
	if err := a.repo.CancelClaim(ctx, claimID, a.clock.Now()); err != nil {
		return err
	}

	log.Info().Str("claim_id", claimID.String()).Str("team_id", team.ID.String()).Msg("waiver claim cancelled")
	return nil
}

// ProcessLeagueAs runs waivers on behalf of the commissioner
func (a *App) ProcessLeagueAs(ctx context.Context, userID, leagueID uuid.UUID) (*models.WaiverRun, error) {
	if _, err := a.leagues.GetCommissionedLeague(ctx, leagueID, userID); err != nil {
		return nil, err
	}
	return a.ProcessLeague(ctx, leagueID)
}

// ProcessLeague resolves every pending claim in the league. Only one run per
// league may be in progress.
func (a *App) ProcessLeague(ctx context.Context, leagueID uuid.UUID) (*models.WaiverRun, error) {
	if !a.acquire(leagueID) {
		return nil, apperr.New(apperr.ErrConflict, "Waiver processing already in progress for this league")
	}
	defer a.release(leagueID)

	league, err := a.leagues.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	start := a.clock.Now()
	run, err := a.repo.ProcessClaims(ctx, leagueID, func(in RunInput) *models.WaiverRun {
		in.Settings = league.Settings
		in.Now = start
		return Resolve(in)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("league_id", leagueID.String()).
		Str("waiver_type", string(run.WaiverType)).
		Int("total_claims", run.TotalClaims).
		Int("successful", len(run.Awarded)).
		Int("failed", len(run.Failed)).
		Int("faab_spent", run.TotalFAABSpent).
		Dur("duration", a.clock.Since(start)).
		Msg("waivers processed")

	if run.TotalClaims == 0 {
		return run, nil
	}
	a.notifyOutcomes(ctx, league, run)
	if err := events.Emit(ctx, a.publisher, events.TypeWaiverProcessed, events.LeagueRoom(leagueID), events.WaiverProcessedPayload{
		LeagueID:         leagueID,
		TotalClaims:      run.TotalClaims,
		Successful:       len(run.Awarded),
		Failed:           len(run.Failed),
		PlayersProcessed: run.PlayersProcessed,
		ProcessedAt:      run.ProcessedAt,
	}); err != nil {
		log.Warn().Err(err).Str("league_id", leagueID.String()).Msg("failed to publish waiver_processed event")
	}
	return run, nil
}

// ProcessDue runs every league whose claims have reached their process date
func (a *App) ProcessDue(ctx context.Context) error {
	leagueIDs, err := a.repo.ListDueLeagues(ctx, a.clock.Now())
	if err != nil {
		return err
	}
	for _, id := range leagueIDs {
		if _, err := a.ProcessLeague(ctx, id); err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				log.Debug().Str("league_id", id.String()).Msg("waiver run already in progress")
				continue
			}
			log.Error().Err(err).Str("league_id", id.String()).Msg("failed to process waivers")
		}
	}
	return nil
}

func (a *App) acquire(leagueID uuid.UUID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.processing[leagueID] {
		return false
	}
	a.processing[leagueID] = true
	return true
}

func (a *App) release(leagueID uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.processing, leagueID)
}

type claimNotice struct {
	ClaimID   uuid.UUID `json:"claim_id"`
	PlayerID  uuid.UUID `json:"player_id"`
	BidAmount int       `json:"bid_amount,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// notifyOutcomes tells each claiming owner whether they won or lost.
// Delivery failures are logged and do not undo the run.
func (a *App) notifyOutcomes(ctx context.Context, league *models.League, run *models.WaiverRun) {
	teams, err := a.teams.GetFantasyTeamsByLeague(ctx, league.ID)
	if err != nil {
		log.Warn().Err(err).Str("league_id", league.ID.String()).Msg("failed to load teams for waiver notifications")
		return
	}
	owners := make(map[uuid.UUID]uuid.UUID, len(teams))
	for _, t := range teams {
		owners[t.ID] = t.OwnerID
	}

	ids := make([]uuid.UUID, 0, len(run.Awarded)+len(run.Failed))
	for _, o := range append(append([]models.WaiverOutcome(nil), run.Awarded...), run.Failed...) {
		ids = append(ids, o.PlayerID)
	}
	players, err := a.players.GetPlayersByIDs(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load players for waiver notifications")
		players = map[uuid.UUID]models.Player{}
	}
	name := func(id uuid.UUID) string {
		if p, ok := players[id]; ok {
			return p.FullName
		}
		return "a player"
	}

	send := func(o models.WaiverOutcome, typ models.NotificationType, title, message string) {
		owner, ok := owners[o.TeamID]
		if !ok {
			return
		}
		data, _ := json.Marshal(claimNotice{ClaimID: o.ClaimID, PlayerID: o.PlayerID, BidAmount: o.BidAmount, Reason: o.Reason})
		leagueID := league.ID
		err := a.notifier.Notify(ctx, models.Notification{
			UserID:   owner,
			LeagueID: &leagueID,
			Type:     typ,
			Priority: models.PriorityNormal,
			Title:    title,
			Message:  message,
			Data:     data,
		})
		if err != nil {
			log.Warn().Err(err).Str("claim_id", o.ClaimID.String()).Msg("failed to send waiver notification")
		}
	}
	for _, o := range run.Awarded {
		send(o, models.NotificationWaiverWon, "Waiver claim successful",
			fmt.Sprintf("You added %s in %s", name(o.PlayerID), league.Name))
	}
	for _, o := range run.Failed {
		send(o, models.NotificationWaiverLost, "Waiver claim unsuccessful",
			fmt.Sprintf("Your claim for %s failed: %s", name(o.PlayerID), o.Reason))
	}
}
