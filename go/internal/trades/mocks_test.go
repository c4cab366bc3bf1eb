package trades

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/trades/db"
	"github.com/stretchr/testify/mock"
)

// fakeRepo is an in-memory TradeRepository that also backs fakeTeams
type fakeRepo struct {
	mu     sync.Mutex
	trades map[uuid.UUID]*models.Trade
	teams  map[uuid.UUID]*models.FantasyTeam
	roster map[uuid.UUID]uuid.UUID // player -> team, single league
}

func newFakeRepo(teams ...models.FantasyTeam) *fakeRepo {
	f := &fakeRepo{
		trades: map[uuid.UUID]*models.Trade{},
		teams:  map[uuid.UUID]*models.FantasyTeam{},
		roster: map[uuid.UUID]uuid.UUID{},
	}
	for i := range teams {
		t := teams[i]
		f.teams[t.ID] = &t
	}
	return f
}

func (f *fakeRepo) team(id uuid.UUID) models.FantasyTeam {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.teams[id]
}

func (f *fakeRepo) owner(playerID uuid.UUID) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roster[playerID]
}

func (f *fakeRepo) trade(id uuid.UUID) models.Trade {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.trades[id]
}

func (f *fakeRepo) CreateTrade(ctx context.Context, params CreateTradeParams) (*models.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.create(params), nil
}

func (f *fakeRepo) create(params CreateTradeParams) *models.Trade {
	t := &models.Trade{
		ID:               uuid.New(),
		LeagueID:         params.LeagueID,
		ProposingTeamID:  params.ProposingTeamID,
		ReceivingTeamID:  params.ReceivingTeamID,
		OfferedPlayers:   params.OfferedPlayers,
		RequestedPlayers: params.RequestedPlayers,
		FAABAmount:       params.FAABAmount,
		Message:          params.Message,
		Status:           models.TradeStatusPending,
		CounterOfID:      params.CounterOfID,
		Assets:           params.Assets,
		ExpiresAt:        params.ExpiresAt,
		CreatedAt:        params.CreatedAt,
	}
	f.trades[t.ID] = t
	cp := *t
	return &cp
}

func (f *fakeRepo) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trades[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRepo) ListTrades(ctx context.Context, leagueID uuid.UUID, teamID *uuid.UUID, status *models.TradeStatus) ([]models.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Trade
	for _, t := range f.trades {
		if t.LeagueID != leagueID {
			continue
		}
		if teamID != nil && t.ProposingTeamID != *teamID && t.ReceivingTeamID != *teamID {
			continue
		}
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRepo) HasRecentTrade(ctx context.Context, proposingTeamID, receivingTeamID uuid.UUID, since time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.trades {
		open := t.Status == models.TradeStatusPending || t.Status == models.TradeStatusAccepted
		if t.ProposingTeamID == proposingTeamID && t.ReceivingTeamID == receivingTeamID && open && t.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) RosterOwners(ctx context.Context, leagueID uuid.UUID, playerIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uuid.UUID]uuid.UUID{}
	for _, id := range playerIDs {
		if team, ok := f.roster[id]; ok {
			out[id] = team
		}
	}
	return out, nil
}

func (f *fakeRepo) SetStatus(ctx context.Context, id uuid.UUID, status models.TradeStatus, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setStatus(id, status, at)
}

func (f *fakeRepo) setStatus(id uuid.UUID, status models.TradeStatus, at time.Time) error {
	t := f.trades[id]
	if t.Status != models.TradeStatusPending {
		return apperr.New(apperr.ErrConflict, "Trade is no longer pending")
	}
	t.Status = status
	t.RespondedAt = &at
	return nil
}

func (f *fakeRepo) ExecuteTrade(ctx context.Context, tradeID uuid.UUID, rosterSize int, at time.Time) (*models.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.trades[tradeID]
	for _, p := range t.OfferedPlayers {
		if f.roster[p] != t.ProposingTeamID {
			return nil, apperr.New(apperr.ErrConflict, "Trade is no longer valid: a player has left the roster")
		}
	}
	for _, p := range t.RequestedPlayers {
		if f.roster[p] != t.ReceivingTeamID {
			return nil, apperr.New(apperr.ErrConflict, "Trade is no longer valid: a player has left the roster")
		}
	}
	if err := f.setStatus(tradeID, models.TradeStatusAccepted, at); err != nil {
		return nil, err
	}
	for _, p := range t.OfferedPlayers {
		f.roster[p] = t.ReceivingTeamID
	}
	for _, p := range t.RequestedPlayers {
		f.roster[p] = t.ProposingTeamID
	}
	f.teams[t.ProposingTeamID].FAABRemaining -= t.FAABAmount
	f.teams[t.ReceivingTeamID].FAABRemaining += t.FAABAmount
	cp := *t
	return &cp, nil
}

func (f *fakeRepo) CounterTrade(ctx context.Context, originalID uuid.UUID, params CreateTradeParams) (*models.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.setStatus(originalID, models.TradeStatusCountered, params.CreatedAt); err != nil {
		return nil, err
	}
	params.CounterOfID = &originalID
	return f.create(params), nil
}

func (f *fakeRepo) ExpireTrades(ctx context.Context, now time.Time) ([]models.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Trade
	for _, t := range f.trades {
		if t.Status == models.TradeStatusPending && !t.ExpiresAt.After(now) {
			t.Status = models.TradeStatusExpired
			t.RespondedAt = &now
			out = append(out, *t)
		}
	}
	return out, nil
}

type fakeTeams struct {
	repo *fakeRepo
}

func (f fakeTeams) GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error) {
	f.repo.mu.Lock()
	defer f.repo.mu.Unlock()
	t, ok := f.repo.teams[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

type fakeLeagues struct {
	league  *models.League
	members map[uuid.UUID]bool
}

func (f *fakeLeagues) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	if f.league.ID != id {
		return nil, apperr.ErrNotFound
	}
	cp := *f.league
	return &cp, nil
}

func (f *fakeLeagues) RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error {
	if !f.members[userID] {
		return apperr.New(apperr.ErrForbidden, "You are not a member of this league")
	}
	return nil
}

type fakePlayers map[uuid.UUID]models.Player

func (f fakePlayers) GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Player, error) {
	out := map[uuid.UUID]models.Player{}
	for _, id := range ids {
		if p, ok := f[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (f *fakeNotifier) Notify(ctx context.Context, n models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) ofType(t models.NotificationType) []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.sent {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// mockQuerier stubs Querier methods for repository tests
type mockQuerier struct {
	mock.Mock
	Querier
}

func (m *mockQuerier) CreateTrade(ctx context.Context, arg db.CreateTradeParams) (db.Trade, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Trade), args.Error(1)
}

func (m *mockQuerier) GetTrade(ctx context.Context, id uuid.UUID) (db.Trade, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.Trade), args.Error(1)
}

func (m *mockQuerier) GetTradeForUpdate(ctx context.Context, id uuid.UUID) (db.Trade, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.Trade), args.Error(1)
}

func (m *mockQuerier) SetTradeStatus(ctx context.Context, arg db.SetTradeStatusParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) ListRosterOwners(ctx context.Context, arg db.ListRosterOwnersParams) ([]db.RosterSlot, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.RosterSlot), args.Error(1)
}

func (m *mockQuerier) LockTeamRosters(ctx context.Context, teamIDs []uuid.UUID) ([]db.RosterSlot, error) {
	args := m.Called(ctx, teamIDs)
	return args.Get(0).([]db.RosterSlot), args.Error(1)
}

func (m *mockQuerier) MoveTradedPlayer(ctx context.Context, arg db.MoveTradedPlayerParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) AdjustTeamFaab(ctx context.Context, arg db.AdjustTeamFaabParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

// mockApp is a testify mock of TradeApp
type mockApp struct {
	mock.Mock
}

func (m *mockApp) ProposeTrade(ctx context.Context, userID, leagueID uuid.UUID, req ProposeTradeRequest) (*models.Trade, error) {
	args := m.Called(ctx, userID, leagueID, req)
	if t := args.Get(0); t != nil {
		return t.(*models.Trade), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) RespondToTrade(ctx context.Context, userID, tradeID uuid.UUID, req RespondRequest) (*RespondResult, error) {
	args := m.Called(ctx, userID, tradeID, req)
	if r := args.Get(0); r != nil {
		return r.(*RespondResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) CancelTrade(ctx context.Context, userID, tradeID uuid.UUID) error {
	return m.Called(ctx, userID, tradeID).Error(0)
}

func (m *mockApp) GetTrade(ctx context.Context, userID, tradeID uuid.UUID) (*models.Trade, error) {
	args := m.Called(ctx, userID, tradeID)
	if t := args.Get(0); t != nil {
		return t.(*models.Trade), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) ListTrades(ctx context.Context, userID, leagueID uuid.UUID, filter TradeFilter) ([]models.Trade, error) {
	args := m.Called(ctx, userID, leagueID, filter)
	if t := args.Get(0); t != nil {
		return t.([]models.Trade), args.Error(1)
	}
	return nil, args.Error(1)
}
