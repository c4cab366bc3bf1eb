package fantasyteam

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/stretchr/testify/mock"
)

// fakeRepo is an in-memory FantasyTeamRepository
type fakeRepo struct {
	mu    sync.Mutex
	teams map[uuid.UUID]*models.FantasyTeam
}

func newFakeRepo(teams ...models.FantasyTeam) *fakeRepo {
	f := &fakeRepo{teams: map[uuid.UUID]*models.FantasyTeam{}}
	for i := range teams {
		t := teams[i]
		f.teams[t.ID] = &t
	}
	return f
}

func (f *fakeRepo) CreateFantasyTeam(ctx context.Context, req CreateFantasyTeamRequest) (*models.FantasyTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.teams {
		if t.LeagueID == req.LeagueID && t.OwnerID == req.OwnerID {
			return nil, apperr.New(apperr.ErrConflict, "You already have a team in this league")
		}
	}
	t := &models.FantasyTeam{
		ID:             uuid.New(),
		LeagueID:       req.LeagueID,
		OwnerID:        req.OwnerID,
		Name:           req.Name,
		LogoURL:        req.LogoURL,
		WaiverPriority: req.WaiverPriority,
		FAABRemaining:  req.FAABBudget,
	}
	f.teams[t.ID] = t
	cp := *t
	return &cp, nil
}

func (f *fakeRepo) GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRepo) GetFantasyTeamByLeagueAndOwner(ctx context.Context, leagueID, ownerID uuid.UUID) (*models.FantasyTeam, error) {
	for _, t := range f.list(func(t *models.FantasyTeam) bool { return t.LeagueID == leagueID && t.OwnerID == ownerID }) {
		return &t, nil
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeRepo) GetFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error) {
	return f.list(func(t *models.FantasyTeam) bool { return t.LeagueID == leagueID }), nil
}

func (f *fakeRepo) GetFantasyTeamsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FantasyTeam, error) {
	return f.list(func(t *models.FantasyTeam) bool { return t.OwnerID == ownerID }), nil
}

func (f *fakeRepo) GetStandings(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error) {
	teams := f.list(func(t *models.FantasyTeam) bool { return t.LeagueID == leagueID })
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].Wins != teams[j].Wins {
			return teams[i].Wins > teams[j].Wins
		}
		return teams[i].PointsFor > teams[j].PointsFor
	})
	return teams, nil
}

func (f *fakeRepo) CountFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) (int, error) {
	teams, _ := f.GetFantasyTeamsByLeague(ctx, leagueID)
	return len(teams), nil
}

func (f *fakeRepo) UpdateFantasyTeam(ctx context.Context, id uuid.UUID, req UpdateFantasyTeamRequest) (*models.FantasyTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	t.Name = req.Name
	t.LogoURL = req.LogoURL
	cp := *t
	return &cp, nil
}

func (f *fakeRepo) RecordResult(ctx context.Context, res GameResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[res.TeamID]
	if !ok {
		return apperr.ErrNotFound
	}
	switch {
	case res.PointsFor > res.PointsAgainst:
		t.Wins++
	case res.PointsFor < res.PointsAgainst:
		t.Losses++
	default:
		t.Ties++
	}
	t.PointsFor += res.PointsFor
	t.PointsAgainst += res.PointsAgainst
	return nil
}

func (f *fakeRepo) list(match func(*models.FantasyTeam) bool) []models.FantasyTeam {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FantasyTeam
	for _, t := range f.teams {
		if match(t) {
			out = append(out, *t)
		}
	}
	return out
}

// mockApp is a testify mock of FantasyTeamApp
type mockApp struct {
	mock.Mock
}

func (m *mockApp) GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*models.FantasyTeam), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) GetFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error) {
	args := m.Called(ctx, leagueID)
	if t := args.Get(0); t != nil {
		return t.([]models.FantasyTeam), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) UpdateFantasyTeam(ctx context.Context, userID, teamID uuid.UUID, req UpdateFantasyTeamRequest) (*models.FantasyTeam, error) {
	args := m.Called(ctx, userID, teamID, req)
	if t := args.Get(0); t != nil {
		return t.(*models.FantasyTeam), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) Standings(ctx context.Context, leagueID uuid.UUID) ([]models.Standing, error) {
	args := m.Called(ctx, leagueID)
	if s := args.Get(0); s != nil {
		return s.([]models.Standing), args.Error(1)
	}
	return nil, args.Error(1)
}
