package scoring

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/clients/scorefeed"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/scoring/db"
	"github.com/stretchr/testify/mock"
)

// fakeRepo keeps saved scores in memory and totals starters from them
type fakeRepo struct {
	mu       sync.Mutex
	leagues  []ActiveLeague
	players  map[string]uuid.UUID
	starters map[uuid.UUID][]uuid.UUID // team -> starting players
	teamOf   map[uuid.UUID]uuid.UUID   // team -> league
	saved    []models.PlayerScore
}

func (f *fakeRepo) ActiveLeagues(ctx context.Context) ([]ActiveLeague, error) {
	return f.leagues, nil
}

func (f *fakeRepo) League(ctx context.Context, id uuid.UUID) (*ActiveLeague, error) {
	for _, l := range f.leagues {
		if l.ID == id {
			cp := l
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeRepo) PlayerIDs(ctx context.Context, externalIDs []string) (map[string]uuid.UUID, error) {
	out := map[string]uuid.UUID{}
	for _, ext := range externalIDs {
		if id, ok := f.players[ext]; ok {
			out[ext] = id
		}
	}
	return out, nil
}

func (f *fakeRepo) SaveScore(ctx context.Context, score models.PlayerScore, line models.StatLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.saved {
		if s.PlayerID == score.PlayerID && s.Season == score.Season && s.Week == score.Week && s.Format == score.Format {
			f.saved[i] = score
			return nil
		}
	}
	f.saved = append(f.saved, score)
	return nil
}

func (f *fakeRepo) points(playerID uuid.UUID, season, week int, format models.ScoringFormat) (float64, bool) {
	for _, s := range f.saved {
		if s.PlayerID == playerID && s.Season == season && s.Week == week && s.Format == format {
			return s.Points, true
		}
	}
	return 0, false
}

func (f *fakeRepo) TeamTotals(ctx context.Context, league ActiveLeague, week int) ([]models.TeamScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TeamScore
	for teamID, leagueID := range f.teamOf {
		if leagueID != league.ID {
			continue
		}
		var total float64
		for _, p := range f.starters[teamID] {
			pts, _ := f.points(p, league.Season, week, league.Format)
			total += pts
		}
		out = append(out, models.TeamScore{TeamID: teamID, Points: total})
	}
	return out, nil
}

func (f *fakeRepo) TeamPlayers(ctx context.Context, teamID uuid.UUID, league ActiveLeague, week int) ([]PlayerPoints, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []PlayerPoints
	for _, p := range f.starters[teamID] {
		pp := PlayerPoints{PlayerID: p, Position: models.RosterPositionStarter}
		if pts, ok := f.points(p, league.Season, week, league.Format); ok {
			pp.Points = &pts
		}
		out = append(out, pp)
	}
	return out, nil
}

type feedKey struct{ season, week int }

// fakeFeed serves canned stat lines per week
type fakeFeed struct {
	mu    sync.Mutex
	lines map[feedKey][]scorefeed.FeedStatLine
	errs  map[feedKey]error
	calls   []feedKey
	started chan struct{}
	block   chan struct{}
}

func (f *fakeFeed) WeeklyStats(ctx context.Context, season, week int) ([]scorefeed.FeedStatLine, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	k := feedKey{season, week}
	f.calls = append(f.calls, k)
	if err := f.errs[k]; err != nil {
		return nil, err
	}
	return f.lines[k], nil
}

type fakeLeagues struct {
	members map[uuid.UUID]bool
}

func (f *fakeLeagues) RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error {
	if !f.members[userID] {
		return apperr.New(apperr.ErrForbidden, "You are not a member of this league")
	}
	return nil
}

type fakeTeams map[uuid.UUID]models.FantasyTeam

func (f fakeTeams) GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error) {
	t, ok := f[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &t, nil
}

// mockQuerier stubs Querier methods for repository tests
type mockQuerier struct {
	mock.Mock
	Querier
}

func (m *mockQuerier) ListActiveLeagues(ctx context.Context) ([]db.ActiveLeague, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.ActiveLeague), args.Error(1)
}

func (m *mockQuerier) GetActiveLeague(ctx context.Context, id uuid.UUID) (db.ActiveLeague, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.ActiveLeague), args.Error(1)
}

func (m *mockQuerier) ListPlayersByExternalIDs(ctx context.Context, externalIDs []string) ([]db.PlayerRef, error) {
	args := m.Called(ctx, externalIDs)
	return args.Get(0).([]db.PlayerRef), args.Error(1)
}

func (m *mockQuerier) UpsertPlayerScore(ctx context.Context, arg db.PlayerScore) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockQuerier) ListTeamPlayerScores(ctx context.Context, arg db.ListTeamPlayerScoresParams) ([]db.ListTeamPlayerScoresRow, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.ListTeamPlayerScoresRow), args.Error(1)
}

// mockApp is a testify mock of ScoringApp
type mockApp struct {
	mock.Mock
}

func (m *mockApp) Scoreboard(ctx context.Context, userID, leagueID uuid.UUID, week int) (*LeagueScoreboard, error) {
	args := m.Called(ctx, userID, leagueID, week)
	if r := args.Get(0); r != nil {
		return r.(*LeagueScoreboard), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApp) TeamScores(ctx context.Context, userID, teamID uuid.UUID, week int) ([]PlayerPoints, error) {
	args := m.Called(ctx, userID, teamID, week)
	if r := args.Get(0); r != nil {
		return r.([]PlayerPoints), args.Error(1)
	}
	return nil, args.Error(1)
}

// countingUpdater records how often the poller fired
type countingUpdater struct {
	mu    sync.Mutex
	calls int
	err   error
	fired chan struct{}
}

func (c *countingUpdater) UpdateScores(ctx context.Context) (*PollResult, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	c.fired <- struct{}{}
	return &PollResult{}, c.err
}
