package waivers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/waivers/db"
	"github.com/stretchr/testify/mock"
)

// fakeRepo is an in-memory WaiverRepository that also backs fakeTeams
type fakeRepo struct {
	mu     sync.Mutex
	claims map[uuid.UUID]*models.WaiverClaim
	teams  map[uuid.UUID]*models.FantasyTeam
	roster map[uuid.UUID]RosterSlot // player -> slot, single league

	// beforeProcess runs at the start of ProcessClaims when set
	beforeProcess func()
}

func newFakeRepo(teams ...models.FantasyTeam) *fakeRepo {
	f := &fakeRepo{
		claims: map[uuid.UUID]*models.WaiverClaim{},
		teams:  map[uuid.UUID]*models.FantasyTeam{},
		roster: map[uuid.UUID]RosterSlot{},
	}
	for i := range teams {
		t := teams[i]
		f.teams[t.ID] = &t
	}
	return f
}

func (f *fakeRepo) rosterPlayer(teamID, playerID uuid.UUID, pos models.RosterPosition) {
	f.roster[playerID] = RosterSlot{TeamID: teamID, PlayerID: playerID, Position: pos}
}

func (f *fakeRepo) team(id uuid.UUID) models.FantasyTeam {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.teams[id]
}

func (f *fakeRepo) CreateClaim(ctx context.Context, params CreateClaimParams) (*models.WaiverClaim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.claims {
		if c.TeamID == params.TeamID && c.PlayerID == params.PlayerID && c.Status == models.WaiverClaimPending {
			return nil, apperr.New(apperr.ErrConflict, "You already have a pending claim for this player")
		}
	}
	c := &models.WaiverClaim{
		ID:           uuid.New(),
		LeagueID:     params.LeagueID,
		TeamID:       params.TeamID,
		PlayerID:     params.PlayerID,
		DropPlayerID: params.DropPlayerID,
		BidAmount:    params.BidAmount,
		Priority:     params.Priority,
		Status:       models.WaiverClaimPending,
		ProcessDate:  params.ProcessDate,
		SubmittedAt:  params.SubmittedAt,
	}
	f.claims[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) GetClaim(ctx context.Context, id uuid.UUID) (*models.WaiverClaim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.claims[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) ListClaims(ctx context.Context, leagueID uuid.UUID, teamID *uuid.UUID, status *models.WaiverClaimStatus) ([]models.WaiverClaim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.WaiverClaim
	for _, c := range f.claims {
		if c.LeagueID != leagueID {
			continue
		}
		if teamID != nil && c.TeamID != *teamID {
			continue
		}
		if status != nil && c.Status != *status {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (f *fakeRepo) CancelClaim(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.claims[id]
	if c.Status != models.WaiverClaimPending {
		return apperr.New(apperr.ErrConflict, "Cannot cancel a processed waiver claim")
	}
	c.Status = models.WaiverClaimCancelled
	c.ProcessedAt = &at
	return nil
}

func (f *fakeRepo) RosterOwner(ctx context.Context, leagueID, playerID uuid.UUID) (*uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slot, ok := f.roster[playerID]; ok {
		id := slot.TeamID
		return &id, nil
	}
	return nil, nil
}

func (f *fakeRepo) ListDueLeagues(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[uuid.UUID]bool{}
	var out []uuid.UUID
	for _, c := range f.claims {
		if c.Status == models.WaiverClaimPending && !c.ProcessDate.After(now) && !seen[c.LeagueID] {
			seen[c.LeagueID] = true
			out = append(out, c.LeagueID)
		}
	}
	return out, nil
}

func (f *fakeRepo) ProcessClaims(ctx context.Context, leagueID uuid.UUID, resolve func(RunInput) *models.WaiverRun) (*models.WaiverRun, error) {
	if f.beforeProcess != nil {
		f.beforeProcess()
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var in RunInput
	for _, t := range f.teams {
		in.Teams = append(in.Teams, *t)
	}
	for _, c := range f.claims {
		if c.LeagueID == leagueID && c.Status == models.WaiverClaimPending {
			in.Claims = append(in.Claims, *c)
		}
	}
	for _, s := range f.roster {
		in.Roster = append(in.Roster, s)
	}

	run := resolve(in)
	run.LeagueID = leagueID
	for _, o := range run.Awarded {
		if o.DropPlayerID != nil {
			delete(f.roster, *o.DropPlayerID)
		}
		f.roster[o.PlayerID] = RosterSlot{TeamID: o.TeamID, PlayerID: o.PlayerID, Position: models.RosterPositionBench}
		f.claims[o.ClaimID].Status = models.WaiverClaimSuccessful
	}
	for _, o := range run.Failed {
		f.claims[o.ClaimID].Status = models.WaiverClaimFailed
		f.claims[o.ClaimID].FailureReason = o.Reason
	}
	for _, u := range run.BudgetUpdates {
		f.teams[u.TeamID].FAABRemaining = u.NewBudget
	}
	for _, u := range run.PriorityUpdates {
		f.teams[u.TeamID].WaiverPriority = u.NewPriority
	}
	return run, nil
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

func (f fakeTeams) GetFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error) {
	f.repo.mu.Lock()
	defer f.repo.mu.Unlock()
	var out []models.FantasyTeam
	for _, t := range f.repo.teams {
		if t.LeagueID == leagueID {
			out = append(out, *t)
		}
	}
	return out, nil
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

func (f *fakeLeagues) GetCommissionedLeague(ctx context.Context, leagueID, userID uuid.UUID) (*models.League, error) {
	l, err := f.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if l.CommissionerID != userID {
		return nil, apperr.New(apperr.ErrForbidden, "Only the commissioner can perform this action")
	}
	return l, nil
}

func (f *fakeLeagues) RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error {
	if !f.members[userID] {
		return apperr.New(apperr.ErrForbidden, "You are not a member of this league")
	}
	return nil
}

type fakePlayers map[uuid.UUID]models.Player

func (f fakePlayers) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	if p, ok := f[id]; ok {
		return &p, nil
	}
	return nil, apperr.ErrNotFound
}

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

func (m *mockQuerier) CreateWaiverClaim(ctx context.Context, arg db.CreateWaiverClaimParams) (db.WaiverClaim, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.WaiverClaim), args.Error(1)
}

func (m *mockQuerier) CancelWaiverClaim(ctx context.Context, arg db.CancelWaiverClaimParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) GetRosterSlot(ctx context.Context, arg db.GetRosterSlotParams) (db.RosterSlot, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.RosterSlot), args.Error(1)
}

func (m *mockQuerier) ListWaiverTeamsForUpdate(ctx context.Context, leagueID uuid.UUID) ([]db.WaiverTeam, error) {
	args := m.Called(ctx, leagueID)
	return args.Get(0).([]db.WaiverTeam), args.Error(1)
}

func (m *mockQuerier) ListPendingClaimsForUpdate(ctx context.Context, leagueID uuid.UUID) ([]db.WaiverClaim, error) {
	args := m.Called(ctx, leagueID)
	return args.Get(0).([]db.WaiverClaim), args.Error(1)
}

func (m *mockQuerier) ListRosterSlots(ctx context.Context, leagueID uuid.UUID) ([]db.RosterSlot, error) {
	args := m.Called(ctx, leagueID)
	return args.Get(0).([]db.RosterSlot), args.Error(1)
}

func (m *mockQuerier) DropRosterPlayer(ctx context.Context, arg db.DropRosterPlayerParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) AddWaiverPlayer(ctx context.Context, arg db.AddWaiverPlayerParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockQuerier) ResolveWaiverClaim(ctx context.Context, arg db.ResolveWaiverClaimParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockQuerier) SetTeamFaab(ctx context.Context, arg db.SetTeamFaabParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockQuerier) SetTeamWaiverPriority(ctx context.Context, arg db.SetTeamWaiverPriorityParams) error {
	return m.Called(ctx, arg).Error(0)
}

// mockApp is a testify mock of WaiverApp
type mockApp struct {
	mock.Mock
}

func (m *mockApp) SubmitClaim(ctx context.Context, userID, leagueID uuid.UUID, req SubmitClaimRequest) (*models.WaiverClaim, error) {
	args := m.Called(ctx, userID, leagueID, req)
	if c := args.Get(0); c != nil {
		return c.(*models.WaiverClaim), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) SubmitBatch(ctx context.Context, userID, leagueID uuid.UUID, req BatchClaimRequest) (*BatchResult, error) {
	args := m.Called(ctx, userID, leagueID, req)
	if r := args.Get(0); r != nil {
		return r.(*BatchResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) ListClaims(ctx context.Context, userID, leagueID uuid.UUID, filter ClaimFilter) ([]models.WaiverClaim, error) {
	args := m.Called(ctx, userID, leagueID, filter)
	if c := args.Get(0); c != nil {
		return c.([]models.WaiverClaim), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) CancelClaim(ctx context.Context, userID, claimID uuid.UUID) error {
	return m.Called(ctx, userID, claimID).Error(0)
}

func (m *mockApp) ProcessLeagueAs(ctx context.Context, userID, leagueID uuid.UUID) (*models.WaiverRun, error) {
	args := m.Called(ctx, userID, leagueID)
	if r := args.Get(0); r != nil {
		return r.(*models.WaiverRun), args.Error(1)
	}
	return nil, args.Error(1)
}
