package trades

import (
	"context"
	"encoding/json"
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

// TradeRepository defines what the app layer needs from the repository
type TradeRepository interface {
	CreateTrade(ctx context.Context, params CreateTradeParams) (*models.Trade, error)
	GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	ListTrades(ctx context.Context, leagueID uuid.UUID, teamID *uuid.UUID, status *models.TradeStatus) ([]models.Trade, error)
	HasRecentTrade(ctx context.Context, proposingTeamID, receivingTeamID uuid.UUID, since time.Time) (bool, error)
	RosterOwners(ctx context.Context, leagueID uuid.UUID, playerIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.TradeStatus, at time.Time) error
	ExecuteTrade(ctx context.Context, tradeID uuid.UUID, rosterSize int, at time.Time) (*models.Trade, error)
	CounterTrade(ctx context.Context, originalID uuid.UUID, params CreateTradeParams) (*models.Trade, error)
	ExpireTrades(ctx context.Context, now time.Time) ([]models.Trade, error)
}

// LeaguesApp is the part of the leagues application trades need
type LeaguesApp interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error
}

// TeamsApp looks up fantasy teams
type TeamsApp interface {
	GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error)
}

// PlayersApp looks up players
type PlayersApp interface {
	GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Player, error)
}

// Notifier stores and delivers a notification to one user
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// App handles trade business logic
type App struct {
	repo      TradeRepository
	leagues   LeaguesApp
	teams     TeamsApp
	players   PlayersApp
	notifier  Notifier
	publisher events.Publisher
	clock     clockwork.Clock
}

// NewApp creates a new trades App
func NewApp(repo TradeRepository, leagues LeaguesApp, teams TeamsApp, players PlayersApp, notifier Notifier, publisher events.Publisher, clock clockwork.Clock) *App {
	return &App{
		repo:      repo,
		leagues:   leagues,
		teams:     teams,
		players:   players,
		notifier:  notifier,
		publisher: publisher,
		clock:     clock,
	}
}

// proposal is a trade offer between two loaded teams, before it is stored
type proposal struct {
	league    *models.League
	proposing *models.FantasyTeam
	receiving *models.FantasyTeam
	offered   []uuid.UUID
	requested []uuid.UUID
	faab      int
	message   string
	hours     *int
}

// ProposeTrade offers a trade from one of the caller's teams
func (a *App) ProposeTrade(ctx context.Context, userID, leagueID uuid.UUID, req ProposeTradeRequest) (*models.Trade, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	if req.ProposingTeamID == req.ReceivingTeamID {
		return nil, apperr.Field("receiving_team_id", "must be a different team")
	}

	league, err := a.leagues.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	proposing, err := a.leagueTeam(ctx, leagueID, req.ProposingTeamID)
	if err != nil {
		return nil, err
	}
	if proposing.OwnerID != userID {
		return nil, apperr.New(apperr.ErrForbidden, "Only the team owner can propose trades")
	}
	receiving, err := a.leagueTeam(ctx, leagueID, req.ReceivingTeamID)
	if err != nil {
		return nil, err
	}

	params, err := a.prepare(ctx, proposal{
		league:    league,
		proposing: proposing,
		receiving: receiving,
		offered:   req.OfferedPlayers,
		requested: req.RequestedPlayers,
		faab:      req.FAABAmount,
		message:   validation.SanitizeString(req.Message, 500),
		hours:     req.ExpirationHours,
	})
	if err != nil {
		return nil, err
	}

	recent, err := a.repo.HasRecentTrade(ctx, proposing.ID, receiving.ID, params.CreatedAt.Add(-duplicateWindow))
	if err != nil {
		return nil, err
	}
	if recent {
		return nil, apperr.New(apperr.ErrConflict, "A trade proposal between these teams is already pending")
	}

	trade, err := a.repo.CreateTrade(ctx, params)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("trade_id", trade.ID.String()).
		Str("league_id", leagueID.String()).
		Str("proposing_team_id", proposing.ID.String()).
		Str("receiving_team_id", receiving.ID.String()).
		Int("offered", len(trade.OfferedPlayers)).
		Int("requested", len(trade.RequestedPlayers)).
		Int("faab_amount", trade.FAABAmount).
		Msg("trade proposed")

	a.notify(ctx, receiving.OwnerID, trade, models.NotificationTradeProposal, models.PriorityHigh,
		"New trade proposal", fmt.Sprintf("%s sent you a trade proposal", proposing.Name))
	a.emit(ctx, events.TypeTradeProposed, trade)
	return trade, nil
}

// prepare checks a proposal against league rules and rosters and builds the
// stored form, including the asset snapshot
func (a *App) prepare(ctx context.Context, p proposal) (CreateTradeParams, error) {
	if p.league.Settings.TradesDisabled {
		return CreateTradeParams{}, apperr.New(apperr.ErrForbidden, "Trades are currently disabled in this league")
	}
	if deadline := p.league.Settings.TradeDeadlineWeek; deadline > 0 && p.league.CurrentWeek > deadline {
		return CreateTradeParams{}, apperr.New(apperr.ErrForbidden, "Trade deadline has passed")
	}
	if len(p.offered)+len(p.requested) == 0 {
		return CreateTradeParams{}, apperr.Field("offered_players", "a trade must include at least one player")
	}
	if p.faab > p.proposing.FAABRemaining {
		return CreateTradeParams{}, apperr.Field("faab_amount", fmt.Sprintf("exceeds remaining FAAB budget of %d", p.proposing.FAABRemaining))
	}

	all := make([]uuid.UUID, 0, len(p.offered)+len(p.requested))
	seen := make(map[uuid.UUID]bool, cap(all))
	for _, id := range append(append([]uuid.UUID(nil), p.offered...), p.requested...) {
		if seen[id] {
			return CreateTradeParams{}, apperr.Field("offered_players", "a player may appear in a trade only once")
		}
		seen[id] = true
		all = append(all, id)
	}

	owners, err := a.repo.RosterOwners(ctx, p.league.ID, all)
	if err != nil {
		return CreateTradeParams{}, err
	}
	for _, id := range p.offered {
		if owners[id] != p.proposing.ID {
			return CreateTradeParams{}, apperr.Field("offered_players", fmt.Sprintf("player %s is not on %s", id, p.proposing.Name))
		}
	}
	for _, id := range p.requested {
		if owners[id] != p.receiving.ID {
			return CreateTradeParams{}, apperr.Field("requested_players", fmt.Sprintf("player %s is not on %s", id, p.receiving.Name))
		}
	}

	players, err := a.players.GetPlayersByIDs(ctx, all)
	if err != nil {
		return CreateTradeParams{}, err
	}
	assets := make([]models.TradeAsset, 0, len(all))
	addAssets := func(ids []uuid.UUID, from, to uuid.UUID) {
		for _, id := range ids {
			pl := players[id]
			assets = append(assets, models.TradeAsset{
				PlayerID:   id,
				PlayerName: pl.FullName,
				Position:   pl.Position,
				NFLTeam:    pl.NFLTeam,
				FromTeamID: from,
				ToTeamID:   to,
			})
		}
	}
	addAssets(p.offered, p.proposing.ID, p.receiving.ID)
	addAssets(p.requested, p.receiving.ID, p.proposing.ID)

	expiry := defaultExpiration
	if p.hours != nil {
		expiry = time.Duration(*p.hours) * time.Hour
	}
	now := a.clock.Now()
	return CreateTradeParams{
		LeagueID:         p.league.ID,
		ProposingTeamID:  p.proposing.ID,
		ReceivingTeamID:  p.receiving.ID,
		OfferedPlayers:   p.offered,
		RequestedPlayers: p.requested,
		FAABAmount:       p.faab,
		Message:          p.message,
		Assets:           assets,
		ExpiresAt:        now.Add(expiry),
		CreatedAt:        now,
	}, nil
}

// RespondToTrade accepts, rejects or counters a pending trade. Only the
// receiving team's owner may respond.
func (a *App) RespondToTrade(ctx context.Context, userID, tradeID uuid.UUID, req RespondRequest) (*RespondResult, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	trade, err := a.repo.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	receiving, err := a.teams.GetFantasyTeam(ctx, trade.ReceivingTeamID)
	if err != nil {
		return nil, err
	}
	if receiving.OwnerID != userID {
		return nil, apperr.New(apperr.ErrForbidden, "Only the receiving team can respond to this trade")
	}
	if err := a.checkOpen(ctx, trade); err != nil {
		return nil, err
	}
	proposing, err := a.teams.GetFantasyTeam(ctx, trade.ProposingTeamID)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case ActionAccept:
		return a.accept(ctx, trade, proposing)
	case ActionReject:
		return a.reject(ctx, trade, proposing, receiving)
	default:
		return a.counter(ctx, trade, proposing, receiving, req.Counter)
	}
}

// checkOpen rejects answers to trades that are closed. A trade found past its
// window is expired on the spot.
func (a *App) checkOpen(ctx context.Context, trade *models.Trade) error {
	if trade.Status != models.TradeStatusPending {
		return apperr.New(apperr.ErrInvalid, "Trade is %s and cannot be modified", trade.Status)
	}
	now := a.clock.Now()
	if trade.IsExpired(now) {
		if err := a.repo.SetStatus(ctx, trade.ID, models.TradeStatusExpired, now); err != nil {
			log.Warn().Err(err).Str("trade_id", trade.ID.String()).Msg("failed to expire trade")
		} else {
			trade.Status = models.TradeStatusExpired
			a.emit(ctx, events.TypeTradeUpdated, trade)
		}
		return apperr.New(apperr.ErrInvalid, "Trade has expired")
	}
	return nil
}

func (a *App) accept(ctx context.Context, trade *models.Trade, proposing *models.FantasyTeam) (*RespondResult, error) {
	league, err := a.leagues.GetLeague(ctx, trade.LeagueID)
	if err != nil {
		return nil, err
	}
	accepted, err := a.repo.ExecuteTrade(ctx, trade.ID, league.Settings.RosterSize, a.clock.Now())
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("trade_id", trade.ID.String()).
		Str("league_id", trade.LeagueID.String()).
		Int("players_moved", len(accepted.OfferedPlayers)+len(accepted.RequestedPlayers)).
		Int("faab_amount", accepted.FAABAmount).
		Msg("trade accepted")

	a.notify(ctx, proposing.OwnerID, accepted, models.NotificationTradeAccepted, models.PriorityHigh,
		"Trade accepted", "Your trade proposal was accepted")
	a.emit(ctx, events.TypeTradeUpdated, accepted)
	return &RespondResult{Trade: accepted}, nil
}

func (a *App) reject(ctx context.Context, trade *models.Trade, proposing, receiving *models.FantasyTeam) (*RespondResult, error) {
	now := a.clock.Now()
	if err := a.repo.SetStatus(ctx, trade.ID, models.TradeStatusRejected, now); err != nil {
		return nil, err
	}
	trade.Status = models.TradeStatusRejected
	trade.RespondedAt = &now

	log.Info().Str("trade_id", trade.ID.String()).Str("league_id", trade.LeagueID.String()).Msg("trade rejected")

	a.notify(ctx, proposing.OwnerID, trade, models.NotificationTradeRejected, models.PriorityNormal,
		"Trade rejected", fmt.Sprintf("%s rejected your trade proposal", receiving.Name))
	a.emit(ctx, events.TypeTradeUpdated, trade)
	return &RespondResult{Trade: trade}, nil
}

func (a *App) counter(ctx context.Context, trade *models.Trade, proposing, receiving *models.FantasyTeam, offer *CounterOffer) (*RespondResult, error) {
	if offer == nil {
		return nil, apperr.Field("counter_offer", "is required when countering a trade")
	}
	league, err := a.leagues.GetLeague(ctx, trade.LeagueID)
	if err != nil {
		return nil, err
	}

	params, err := a.prepare(ctx, proposal{
		league:    league,
		proposing: receiving,
		receiving: proposing,
		offered:   offer.OfferedPlayers,
		requested: offer.RequestedPlayers,
		faab:      offer.FAABAmount,
		message:   validation.SanitizeString(offer.Message, 500),
		hours:     offer.ExpirationHours,
	})
	if err != nil {
		return nil, err
	}
	counter, err := a.repo.CounterTrade(ctx, trade.ID, params)
	if err != nil {
		return nil, err
	}
	trade.Status = models.TradeStatusCountered
	trade.RespondedAt = &params.CreatedAt

	log.Info().
		Str("trade_id", trade.ID.String()).
		Str("counter_id", counter.ID.String()).
		Str("league_id", trade.LeagueID.String()).
		Msg("trade countered")

	a.notify(ctx, proposing.OwnerID, counter, models.NotificationTradeProposal, models.PriorityHigh,
		"Counter offer received", fmt.Sprintf("%s countered your trade proposal", receiving.Name))
	a.emit(ctx, events.TypeTradeUpdated, trade)
	a.emit(ctx, events.TypeTradeProposed, counter)
	return &RespondResult{Trade: trade, Counter: counter}, nil
}

// CancelTrade withdraws a pending proposal. Only the proposing team's owner may.
func (a *App) CancelTrade(ctx context.Context, userID, tradeID uuid.UUID) error {
	trade, err := a.repo.GetTrade(ctx, tradeID)
	if err != nil {
		return err
	}
	proposing, err := a.teams.GetFantasyTeam(ctx, trade.ProposingTeamID)
	if err != nil {
		return err
	}
	if proposing.OwnerID != userID {
		return apperr.New(apperr.ErrForbidden, "Only the proposing team can cancel this trade")
	}
	if trade.Status != models.TradeStatusPending {
		return apperr.New(apperr.ErrInvalid, "Trade is %s and cannot be modified", trade.Status)
	}

	now := a.clock.Now()
	if err := a.repo.SetStatus(ctx, tradeID, models.TradeStatusCancelled, now); err != nil {
		return err
	}
	trade.Status = models.TradeStatusCancelled
	trade.RespondedAt = &now

	log.Info().Str("trade_id", tradeID.String()).Str("team_id", proposing.ID.String()).Msg("trade cancelled")
	a.emit(ctx, events.TypeTradeUpdated, trade)
	return nil
}

// GetTrade returns a trade to a member of its league
func (a *App) GetTrade(ctx context.Context, userID, tradeID uuid.UUID) (*models.Trade, error) {
	trade, err := a.repo.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if err := a.leagues.RequireMember(ctx, trade.LeagueID, userID); err != nil {
		return nil, err
	}
	return trade, nil
}

// ListTrades lists a league's trades. League members only.
func (a *App) ListTrades(ctx context.Context, userID, leagueID uuid.UUID, filter TradeFilter) ([]models.Trade, error) {
	if err := a.leagues.RequireMember(ctx, leagueID, userID); err != nil {
		return nil, err
	}

	var status *models.TradeStatus
	switch s := models.TradeStatus(filter.Status); s {
	case "":
	case models.TradeStatusPending, models.TradeStatusAccepted, models.TradeStatusRejected,
		models.TradeStatusCountered, models.TradeStatusCancelled, models.TradeStatusExpired:
		status = &s
	default:
		return nil, apperr.Field("status", "must be one of pending accepted rejected countered cancelled expired")
	}
	return a.repo.ListTrades(ctx, leagueID, filter.TeamID, status)
}

// ExpireStale expires every pending trade past its window and returns how
// many were expired
func (a *App) ExpireStale(ctx context.Context) (int, error) {
	expired, err := a.repo.ExpireTrades(ctx, a.clock.Now())
	if err != nil {
		return 0, err
	}
	for i := range expired {
		a.emit(ctx, events.TypeTradeUpdated, &expired[i])
	}
	if len(expired) > 0 {
		log.Info().Int("expired", len(expired)).Msg("stale trades expired")
	}
	return len(expired), nil
}

func (a *App) leagueTeam(ctx context.Context, leagueID, teamID uuid.UUID) (*models.FantasyTeam, error) {
	team, err := a.teams.GetFantasyTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeagueID != leagueID {
		return nil, apperr.New(apperr.ErrNotFound, "Team not found in this league")
	}
	return team, nil
}

type tradeNotice struct {
	TradeID         uuid.UUID          `json:"trade_id"`
	ProposingTeamID uuid.UUID          `json:"proposing_team_id"`
	ReceivingTeamID uuid.UUID          `json:"receiving_team_id"`
	Status          models.TradeStatus `json:"status"`
}

// notify sends a trade notification. Failures are logged and do not undo the
// trade change.
func (a *App) notify(ctx context.Context, userID uuid.UUID, trade *models.Trade, typ models.NotificationType, priority models.NotificationPriority, title, message string) {
	data, _ := json.Marshal(tradeNotice{
		TradeID:         trade.ID,
		ProposingTeamID: trade.ProposingTeamID,
		ReceivingTeamID: trade.ReceivingTeamID,
		Status:          trade.Status,
	})
	leagueID := trade.LeagueID
	err := a.notifier.Notify(ctx, models.Notification{
		UserID:   userID,
		LeagueID: &leagueID,
		Type:     typ,
		Priority: priority,
		Title:    title,
		Message:  message,
		Data:     data,
	})
	if err != nil {
		log.Warn().Err(err).Str("trade_id", trade.ID.String()).Msg("failed to send trade notification")
	}
}

func (a *App) emit(ctx context.Context, typ events.Type, trade *models.Trade) {
	err := events.Emit(ctx, a.publisher, typ, events.LeagueRoom(trade.LeagueID), events.TradePayload{
		TradeID:         trade.ID,
		ProposingTeamID: trade.ProposingTeamID,
		ReceivingTeamID: trade.ReceivingTeamID,
		Status:          string(trade.Status),
	})
	if err != nil {
		log.Warn().Err(err).Str("trade_id", trade.ID.String()).Msg("failed to publish trade event")
	}
}
