package roster

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/roster/db"
	"github.com/stretchr/testify/mock"
)

// fakeRepo is an in-memory RosterRepository keyed by league and player
type fakeRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*models.Roster
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: map[uuid.UUID]*models.Roster{}}
}

func (f *fakeRepo) put(e models.Roster) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	f.entries[e.ID] = &e
}

func (f *fakeRepo) GetTeamRoster(ctx context.Context, teamID uuid.UUID) ([]models.RosterPlayer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.RosterPlayer
	for _, e := range f.entries {
		if e.FantasyTeamID == teamID {
			out = append(out, models.RosterPlayer{Roster: *e, Player: models.Player{ID: e.PlayerID}})
		}
	}
	return out, nil
}

func (f *fakeRepo) GetLeagueRoster(ctx context.Context, leagueID uuid.UUID) ([]models.Roster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Roster
	for _, e := range f.entries {
		if e.LeagueID == leagueID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetRosterEntry(ctx context.Context, leagueID, playerID uuid.UUID) (*models.Roster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.LeagueID == leagueID && e.PlayerID == playerID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeRepo) CountByPosition(ctx context.Context, teamID uuid.UUID) (*RosterCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &RosterCounts{}
	for _, e := range f.entries {
		if e.FantasyTeamID != teamID {
			continue
		}
		switch e.Position {
		case models.RosterPositionIR:
			c.IR++
			continue
		case models.RosterPositionStarter:
			c.Starters++
		}
		c.Active++
	}
	return c, nil
}

func (f *fakeRepo) AddPlayer(ctx context.Context, params AddPlayerParams) (*models.Roster, error) {
	if params.DropPlayerID != nil {
		if err := f.RemovePlayer(ctx, params.TeamID, *params.DropPlayerID); err != nil {
			return nil, err
		}
	}
	e := models.Roster{
		ID:              uuid.New(),
		LeagueID:        params.LeagueID,
		FantasyTeamID:   params.TeamID,
		PlayerID:        params.PlayerID,
		Position:        params.Position,
		AcquiredAt:      time.Now(),
		AcquisitionType: params.AcquisitionType,
		AcquisitionCost: params.AcquisitionCost,
	}
	f.put(e)
	return &e, nil
}

func (f *fakeRepo) RemovePlayer(ctx context.Context, teamID, playerID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, e := range f.entries {
		if e.FantasyTeamID == teamID && e.PlayerID == playerID {
			delete(f.entries, id)
			return nil
		}
	}
	return apperr.New(apperr.ErrNotFound, "Player is not on this roster")
}

func (f *fakeRepo) SetPosition(ctx context.Context, teamID, playerID uuid.UUID, position models.RosterPosition) (*models.Roster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.FantasyTeamID == teamID && e.PlayerID == playerID {
			e.Position = position
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

type fakeTeams map[uuid.UUID]*models.FantasyTeam

func (f fakeTeams) GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error) {
	if t, ok := f[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, apperr.ErrNotFound
}

type fakeLeagues map[uuid.UUID]*models.League

func (f fakeLeagues) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	if l, ok := f[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, apperr.ErrNotFound
}

type fakePlayers map[uuid.UUID]*models.Player

func (f fakePlayers) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	if p, ok := f[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, apperr.ErrNotFound
}

// mockQuerier stubs Querier methods for repository tests
type mockQuerier struct {
	mock.Mock
	Querier
}

func (m *mockQuerier) CreateRosterEntry(ctx context.Context, arg db.CreateRosterEntryParams) (db.Roster, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Roster), args.Error(1)
}

func (m *mockQuerier) DeleteRosterEntry(ctx context.Context, arg db.DeleteRosterEntryParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) GetTeamRoster(ctx context.Context, fantasyTeamID uuid.UUID) ([]db.RosterPlayerRow, error) {
	args := m.Called(ctx, fantasyTeamID)
	return args.Get(0).([]db.RosterPlayerRow), args.Error(1)
}

// mockApp is a testify mock of RosterApp
type mockApp struct {
	mock.Mock
}

func (m *mockApp) GetTeamRoster(ctx context.Context, teamID uuid.UUID) ([]models.RosterPlayer, error) {
	args := m.Called(ctx, teamID)
	if r := args.Get(0); r != nil {
		return r.([]models.RosterPlayer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) AddFreeAgent(ctx context.Context, userID, teamID uuid.UUID, req AddPlayerRequest) (*models.Roster, error) {
	args := m.Called(ctx, userID, teamID, req)
	if r := args.Get(0); r != nil {
		return r.(*models.Roster), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) DropPlayer(ctx context.Context, userID, teamID, playerID uuid.UUID) error {
	return m.Called(ctx, userID, teamID, playerID).Error(0)
}

func (m *mockApp) MovePlayer(ctx context.Context, userID, teamID, playerID uuid.UUID, req MovePlayerRequest) (*models.Roster, error) {
	args := m.Called(ctx, userID, teamID, playerID, req)
	if r := args.Get(0); r != nil {
		return r.(*models.Roster), args.Error(1)
	}
	return nil, args.Error(1)
}
