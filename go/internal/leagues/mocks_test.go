package leagues

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/fantasyteam"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/stretchr/testify/mock"
)

// fakeRepo is an in-memory LeaguesRepository that shares team state with fakeTeams
type fakeRepo struct {
	mu      sync.Mutex
	leagues map[uuid.UUID]*models.League
	teams   *fakeTeams
}

func newFakeRepo(teams *fakeTeams) *fakeRepo {
	return &fakeRepo{leagues: map[uuid.UUID]*models.League{}, teams: teams}
}

func (f *fakeRepo) CreateLeague(ctx context.Context, req CreateLeagueParams) (*models.League, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := &models.League{
		ID:             uuid.New(),
		Name:           req.Name,
		LeagueType:     req.LeagueType,
		CommissionerID: req.CommissionerID,
		Settings:       req.Settings,
		Status:         models.LeagueStatusPending,
		Season:         req.Season,
		CurrentWeek:    1,
	}
	f.leagues[l.ID] = l
	cp := *l
	return &cp, nil
}

func (f *fakeRepo) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leagues[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeRepo) GetLeaguesForUser(ctx context.Context, userID uuid.UUID) ([]models.League, error) {
	var out []models.League
	for _, l := range f.all() {
		if ok, _ := f.IsMember(ctx, l.ID, userID); ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetLeaguesByStatus(ctx context.Context, status models.LeagueStatus) ([]models.League, error) {
	var out []models.League
	for _, l := range f.all() {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeRepo) IsMember(ctx context.Context, leagueID, userID uuid.UUID) (bool, error) {
	l, err := f.GetLeague(ctx, leagueID)
	if err != nil {
		return false, nil
	}
	if l.CommissionerID == userID {
		return true, nil
	}
	_, err = f.teams.GetTeamForUser(ctx, leagueID, userID)
	return err == nil, nil
}

func (f *fakeRepo) UpdateLeagueName(ctx context.Context, id uuid.UUID, name string) (*models.League, error) {
	return f.update(id, func(l *models.League) { l.Name = name })
}

func (f *fakeRepo) UpdateLeagueSettings(ctx context.Context, id uuid.UUID, settings models.LeagueSettings) (*models.League, error) {
	return f.update(id, func(l *models.League) { l.Settings = settings })
}

func (f *fakeRepo) UpdateLeagueStatus(ctx context.Context, id uuid.UUID, status models.LeagueStatus) (*models.League, error) {
	return f.update(id, func(l *models.League) { l.Status = status })
}

func (f *fakeRepo) SetCurrentWeek(ctx context.Context, id uuid.UUID, week int) (*models.League, error) {
	return f.update(id, func(l *models.League) { l.CurrentWeek = week })
}

func (f *fakeRepo) update(id uuid.UUID, fn func(*models.League)) (*models.League, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leagues[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	fn(l)
	cp := *l
	return &cp, nil
}

func (f *fakeRepo) all() []models.League {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.League, 0, len(f.leagues))
	for _, l := range f.leagues {
		out = append(out, *l)
	}
	return out
}

// fakeTeams is an in-memory TeamsApp
type fakeTeams struct {
	mu    sync.Mutex
	teams []models.FantasyTeam
}

func (f *fakeTeams) CreateFantasyTeam(ctx context.Context, req fantasyteam.CreateFantasyTeamRequest) (*models.FantasyTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := models.FantasyTeam{
		ID:             uuid.New(),
		LeagueID:       req.LeagueID,
		OwnerID:        req.OwnerID,
		Name:           req.Name,
		WaiverPriority: req.WaiverPriority,
		FAABRemaining:  req.FAABBudget,
	}
	f.teams = append(f.teams, t)
	return &t, nil
}

func (f *fakeTeams) GetTeamForUser(ctx context.Context, leagueID, userID uuid.UUID) (*models.FantasyTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.teams {
		if t.LeagueID == leagueID && t.OwnerID == userID {
			cp := t
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeTeams) CountTeams(ctx context.Context, leagueID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.teams {
		if t.LeagueID == leagueID {
			n++
		}
	}
	return n, nil
}

// mockApp is a testify mock of LeaguesApp
type mockApp struct {
	mock.Mock
}

func (m *mockApp) CreateLeague(ctx context.Context, userID uuid.UUID, req CreateLeagueRequest) (*models.League, error) {
	args := m.Called(ctx, userID, req)
	if l := args.Get(0); l != nil {
		return l.(*models.League), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	args := m.Called(ctx, id)
	if l := args.Get(0); l != nil {
		return l.(*models.League), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.League, error) {
	args := m.Called(ctx, userID)
	if l := args.Get(0); l != nil {
		return l.([]models.League), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error {
	return m.Called(ctx, leagueID, userID).Error(0)
}

func (m *mockApp) UpdateSettings(ctx context.Context, userID, leagueID uuid.UUID, req UpdateSettingsRequest) (*models.League, error) {
	args := m.Called(ctx, userID, leagueID, req)
	if l := args.Get(0); l != nil {
		return l.(*models.League), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) UpdateStatus(ctx context.Context, userID, leagueID uuid.UUID, req UpdateStatusRequest) (*models.League, error) {
	args := m.Called(ctx, userID, leagueID, req)
	if l := args.Get(0); l != nil {
		return l.(*models.League), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) Join(ctx context.Context, userID, leagueID uuid.UUID, req JoinLeagueRequest) (*models.FantasyTeam, error) {
	args := m.Called(ctx, userID, leagueID, req)
	if t := args.Get(0); t != nil {
		return t.(*models.FantasyTeam), args.Error(1)
	}
	return nil, args.Error(1)
}
