package draft

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/draft/db"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/stretchr/testify/mock"
)

// fakeRepo is an in-memory DraftRepository with a player pool and league rosters
type fakeRepo struct {
	mu      sync.Mutex
	drafts  map[uuid.UUID]*models.Draft
	picks   map[uuid.UUID][]models.DraftPick
	players []models.Player
	rosters map[uuid.UUID]map[uuid.UUID]uuid.UUID // league -> player -> team
	now     func() time.Time
}

func newFakeRepo(now func() time.Time, players ...models.Player) *fakeRepo {
	return &fakeRepo{
		drafts:  map[uuid.UUID]*models.Draft{},
		picks:   map[uuid.UUID][]models.DraftPick{},
		players: players,
		rosters: map[uuid.UUID]map[uuid.UUID]uuid.UUID{},
		now:     now,
	}
}

func (f *fakeRepo) CreateDraft(ctx context.Context, params CreateDraftParams) (*models.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := &models.Draft{
		ID:        params.ID,
		LeagueID:  params.LeagueID,
		DraftType: params.DraftType,
		Status:    models.DraftStatusNotStarted,
		Settings:  params.Settings,
		CreatedAt: f.now(),
	}
	f.drafts[d.ID] = d
	f.picks[d.ID] = append([]models.DraftPick(nil), params.Picks...)
	cp := *d
	return &cp, nil
}

func (f *fakeRepo) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.drafts[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeRepo) GetActiveDraftForLeague(ctx context.Context, leagueID uuid.UUID) (*models.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.drafts {
		if d.LeagueID == leagueID && d.Status != models.DraftStatusCancelled {
			cp := *d
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeRepo) UpdateDraftStatus(ctx context.Context, id uuid.UUID, status models.DraftStatus) (*models.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.drafts[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	now := f.now()
	d.Status = status
	if status == models.DraftStatusInProgress && d.StartedAt == nil {
		d.StartedAt = &now
	}
	if status == models.DraftStatusCompleted {
		d.CompletedAt = &now
	}
	if status != models.DraftStatusInProgress {
		d.NextDeadline = nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeRepo) SetNextDeadline(ctx context.Context, id uuid.UUID, deadline *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts[id].NextDeadline = deadline
	return nil
}

func (f *fakeRepo) ListScheduledDrafts(ctx context.Context) ([]models.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Draft
	for _, d := range f.drafts {
		if d.Status == models.DraftStatusInProgress && d.NextDeadline != nil {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetBoard(ctx context.Context, draftID uuid.UUID) ([]BoardPick, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []BoardPick
	for _, p := range f.picks[draftID] {
		bp := BoardPick{DraftPick: p}
		if p.PlayerID != nil {
			for _, pl := range f.players {
				if pl.ID == *p.PlayerID {
					bp.PlayerName = pl.FullName
					bp.PlayerPosition = pl.Position
				}
			}
		}
		out = append(out, bp)
	}
	return out, nil
}

func (f *fakeRepo) GetNextOpenPick(ctx context.Context, draftID uuid.UUID) (*models.DraftPick, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.picks[draftID] {
		if p.PlayerID == nil {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) RecordPick(ctx context.Context, params RecordPickParams) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	picks := f.picks[params.DraftID]
	if f.rosters[params.LeagueID] == nil {
		f.rosters[params.LeagueID] = map[uuid.UUID]uuid.UUID{}
	}
	if _, taken := f.rosters[params.LeagueID][params.PlayerID]; taken {
		return 0, apperr.New(apperr.ErrConflict, "Player is already on a roster in this league")
	}
	remaining := 0
	found := false
	for i := range picks {
		if picks[i].ID == params.PickID {
			if picks[i].PlayerID != nil {
				return 0, apperr.New(apperr.ErrConflict, "Pick has already been made")
			}
			id := params.PlayerID
			now := f.now()
			picks[i].PlayerID = &id
			picks[i].PickedAt = &now
			picks[i].AutoPicked = params.AutoPicked
			found = true
		}
		if picks[i].PlayerID == nil {
			remaining++
		}
	}
	if !found {
		return 0, apperr.ErrNotFound
	}
	f.rosters[params.LeagueID][params.PlayerID] = params.TeamID
	return remaining, nil
}

func (f *fakeRepo) BestAvailable(ctx context.Context, leagueID uuid.UUID) (*AvailablePlayer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pool := append([]models.Player(nil), f.players...)
	sort.Slice(pool, func(i, j int) bool { return pool[i].Rank < pool[j].Rank })
	for _, p := range pool {
		if _, taken := f.rosters[leagueID][p.ID]; !taken && p.Active {
			return &AvailablePlayer{ID: p.ID, FullName: p.FullName, Position: p.Position, Rank: p.Rank}, nil
		}
	}
	return nil, apperr.ErrNotFound
}

type fakeLeagues struct {
	leagues map[uuid.UUID]*models.League
	members map[uuid.UUID]bool
}

func (f *fakeLeagues) GetCommissionedLeague(ctx context.Context, leagueID, userID uuid.UUID) (*models.League, error) {
	l, ok := f.leagues[leagueID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if l.CommissionerID != userID {
		return nil, apperr.New(apperr.ErrForbidden, "Only the commissioner can perform this action")
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLeagues) RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error {
	if !f.members[userID] {
		return apperr.New(apperr.ErrForbidden, "You are not a member of this league")
	}
	return nil
}

type fakeTeams []models.FantasyTeam

func (f fakeTeams) GetFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error) {
	var out []models.FantasyTeam
	for _, t := range f {
		if t.LeagueID == leagueID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f fakeTeams) GetTeamForUser(ctx context.Context, leagueID, userID uuid.UUID) (*models.FantasyTeam, error) {
	for _, t := range f {
		if t.LeagueID == leagueID && t.OwnerID == userID {
			cp := t
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

type fakePlayers map[uuid.UUID]models.Player

func (f fakePlayers) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	if p, ok := f[id]; ok {
		return &p, nil
	}
	return nil, apperr.ErrNotFound
}

// fakeScheduler records the pick clock instead of running timers
type fakeScheduler struct {
	mu        sync.Mutex
	deadlines map[uuid.UUID]time.Time
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{deadlines: map[uuid.UUID]time.Time{}}
}

func (f *fakeScheduler) Schedule(draftID uuid.UUID, deadline time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deadlines[draftID] = deadline
}

func (f *fakeScheduler) Cancel(draftID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.deadlines, draftID)
}

func (f *fakeScheduler) deadline(draftID uuid.UUID) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.deadlines[draftID]
	return d, ok
}

// mockQuerier stubs Querier methods for repository tests
type mockQuerier struct {
	mock.Mock
	Querier
}

func (m *mockQuerier) RecordPick(ctx context.Context, arg db.RecordPickParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) AddDraftedPlayer(ctx context.Context, arg db.AddDraftedPlayerParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockQuerier) CountRemainingPicks(ctx context.Context, draftID uuid.UUID) (int64, error) {
	args := m.Called(ctx, draftID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) GetDraft(ctx context.Context, id uuid.UUID) (db.Draft, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.Draft), args.Error(1)
}

// mockApp is a testify mock of DraftApp
type mockApp struct {
	mock.Mock
}

func (m *mockApp) draft(args mock.Arguments) (*models.Draft, error) {
	if d := args.Get(0); d != nil {
		return d.(*models.Draft), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) CreateDraft(ctx context.Context, userID, leagueID uuid.UUID, req CreateDraftRequest) (*models.Draft, error) {
	return m.draft(m.Called(ctx, userID, leagueID, req))
}

func (m *mockApp) GetLeagueDraft(ctx context.Context, leagueID uuid.UUID) (*models.Draft, error) {
	return m.draft(m.Called(ctx, leagueID))
}

func (m *mockApp) GetBoard(ctx context.Context, userID, draftID uuid.UUID) (*Board, error) {
	args := m.Called(ctx, userID, draftID)
	if b := args.Get(0); b != nil {
		return b.(*Board), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) StartDraft(ctx context.Context, userID, draftID uuid.UUID) (*models.Draft, error) {
	return m.draft(m.Called(ctx, userID, draftID))
}

func (m *mockApp) MakePick(ctx context.Context, userID, draftID uuid.UUID, req MakePickRequest) (*models.DraftPick, error) {
	args := m.Called(ctx, userID, draftID, req)
	if p := args.Get(0); p != nil {
		return p.(*models.DraftPick), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) PauseDraft(ctx context.Context, userID, draftID uuid.UUID) (*models.Draft, error) {
	return m.draft(m.Called(ctx, userID, draftID))
}

func (m *mockApp) ResumeDraft(ctx context.Context, userID, draftID uuid.UUID) (*models.Draft, error) {
	return m.draft(m.Called(ctx, userID, draftID))
}

func (m *mockApp) CompleteDraft(ctx context.Context, userID, draftID uuid.UUID) (*models.Draft, error) {
	return m.draft(m.Called(ctx, userID, draftID))
}
