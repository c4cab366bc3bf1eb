package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app   *App
	repo  *mockRepo
	clock *clockwork.FakeClock

	league              LeagueRef
	teamA, teamB, teamC uuid.UUID
	member, outsider    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     &mockRepo{},
		clock:    clockwork.NewFakeClockAt(time.Date(2025, 10, 8, 12, 0, 0, 0, time.UTC)),
		teamA:    uuid.New(),
		teamB:    uuid.New(),
		teamC:    uuid.New(),
		member:   uuid.New(),
		outsider: uuid.New(),
	}
	f.league = LeagueRef{ID: uuid.New(), Name: "Sunday Scaries", Season: 2025, Week: 6, Format: models.ScoringPPR}
	leagues := &fakeLeagues{members: map[uuid.UUID]bool{f.member: true}}
	f.app = NewApp(f.repo, leagues, f.clock)
	t.Cleanup(func() { f.repo.AssertExpectations(t) })
	return f
}

func (f *fixture) expectLeague() {
	l := f.league
	f.repo.On("League", mock.Anything, f.league.ID).Return(&l, nil)
}

func TestWeeklyRecap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.expectLeague()

	start := time.Date(2025, 10, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
	f.repo.On("WeekScores", mock.Anything, f.league, 6).Return([]TeamWeek{
		{TeamID: f.teamA, TeamName: "Alpha", Owner: "alice", Points: 120.5},
		{TeamID: f.teamB, TeamName: "Bravo", Owner: "bob", Points: 120.5},
		{TeamID: f.teamC, TeamName: "Charlie", Owner: "carol", Points: 98},
	}, nil).Once()
	f.repo.On("WeekPerformers", mock.Anything, f.league, 6, topPerformerLimit).Return([]Performer{
		{PlayerName: "Christian McCaffrey", Position: "RB", TeamName: "Alpha", Points: 31.2},
	}, nil).Once()
	f.repo.On("TeamMoves", mock.Anything, f.league.ID, start, end).Return([]TeamMoves{
		{TeamID: f.teamA, Waivers: 2, Trades: 1},
		{TeamID: f.teamB, Trades: 1},
		{TeamID: f.teamC},
	}, nil).Once()

	recap, err := f.app.WeeklyRecap(ctx, f.member, f.league.ID, 0)
	require.NoError(t, err)

	assert.Equal(t, 6, recap.Week)
	assert.Equal(t, start, recap.WindowStart)
	assert.Equal(t, end, recap.WindowEnd)
	require.Len(t, recap.Teams, 3)
	assert.Equal(t, []int{1, 1, 3}, []int{recap.Teams[0].Rank, recap.Teams[1].Rank, recap.Teams[2].Rank})
	assert.Equal(t, 2, recap.Teams[0].Waivers)
	assert.Equal(t, 1, recap.Teams[1].Trades)

	require.Len(t, recap.TopScorers, 2)
	assert.Equal(t, f.teamA, recap.TopScorers[0].TeamID)
	assert.Equal(t, f.teamB, recap.TopScorers[1].TeamID)

	assert.Equal(t, TransactionTotals{Waivers: 2, Trades: 1, Total: 3}, recap.Transactions)
	assert.Len(t, recap.TopPerformers, 1)
	assert.Equal(t, f.clock.Now(), recap.GeneratedAt)
}

func TestWeeklyRecapEmptyWeek(t *testing.T) {
	f := newFixture(t)
	f.expectLeague()
	f.repo.On("WeekScores", mock.Anything, f.league, 2).Return([]TeamWeek{
		{TeamID: f.teamA, Points: 0},
		{TeamID: f.teamB, Points: 0},
	}, nil).Once()
	f.repo.On("WeekPerformers", mock.Anything, f.league, 2, topPerformerLimit).Return([]Performer{}, nil).Once()
	f.repo.On("TeamMoves", mock.Anything, f.league.ID, mock.Anything, mock.Anything).Return([]TeamMoves{}, nil).Once()

	recap, err := f.app.WeeklyRecap(context.Background(), f.member, f.league.ID, 2)
	require.NoError(t, err)
	assert.NotNil(t, recap.TopScorers)
	assert.Empty(t, recap.TopScorers)
	assert.Equal(t, TransactionTotals{}, recap.Transactions)
}

func TestWeeklyRecapRejectsWeekOutOfRange(t *testing.T) {
	f := newFixture(t)
	f.expectLeague()

	_, err := f.app.WeeklyRecap(context.Background(), f.member, f.league.ID, maxWeek+1)
	require.ErrorIs(t, err, apperr.ErrInvalid)
	assert.Equal(t, "week", apperr.Fields(err)[0].Field)
	f.repo.AssertNotCalled(t, "WeekScores", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportsRequireMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.app.WeeklyRecap(ctx, f.outsider, f.league.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = f.app.SeasonSummary(ctx, f.outsider, f.league.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = f.app.MemberActivity(ctx, f.outsider, f.league.ID, nil, nil)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	f.repo.AssertNotCalled(t, "League", mock.Anything, mock.Anything)
}

func TestSeasonSummary(t *testing.T) {
	f := newFixture(t)
	f.expectLeague()
	f.repo.On("Standings", mock.Anything, f.league.ID).Return([]StandingLine{
		{Rank: 1, TeamID: f.teamA, TeamName: "Alpha", Owner: "alice", Wins: 5, PointsFor: 700.25},
		{Rank: 2, TeamID: f.teamB, TeamName: "Bravo", Owner: "bob", Wins: 4, PointsFor: 751.5},
		{Rank: 3, TeamID: f.teamC, TeamName: "Charlie", Owner: "carol", Wins: 1, PointsFor: 610},
	}, nil).Once()
	f.repo.On("SeasonLeaders", mock.Anything, f.league, pointsLeaderLimit).Return([]Performer{
		{PlayerName: "Ja'Marr Chase", Points: 140.1},
	}, nil).Once()
	f.repo.On("TeamMoves", mock.Anything, f.league.ID, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), f.clock.Now()).Return([]TeamMoves{
		{TeamID: f.teamA, Waivers: 1},
		{TeamID: f.teamB, Waivers: 3, Trades: 2},
		{TeamID: f.teamC, Waivers: 4, Trades: 2},
	}, nil).Once()

	summary, err := f.app.SeasonSummary(context.Background(), f.member, f.league.ID)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 5, 6}, []int{
		summary.Standings[0].Transactions,
		summary.Standings[1].Transactions,
		summary.Standings[2].Transactions,
	})
	require.NotNil(t, summary.Awards.HighestScorer)
	assert.Equal(t, f.teamB, summary.Awards.HighestScorer.TeamID)
	assert.Equal(t, 751.5, summary.Awards.HighestScorer.Value)
	require.NotNil(t, summary.Awards.MostTransactions)
	assert.Equal(t, f.teamC, summary.Awards.MostTransactions.TeamID)
	assert.Equal(t, float64(6), summary.Awards.MostTransactions.Value)
	assert.Equal(t, TransactionTotals{Waivers: 8, Trades: 2, Total: 10}, summary.Transactions)
	assert.Len(t, summary.PointsLeaders, 1)
}

func TestSeasonSummaryBeforeAnyGames(t *testing.T) {
	f := newFixture(t)
	f.expectLeague()
	f.repo.On("Standings", mock.Anything, f.league.ID).Return([]StandingLine{
		{Rank: 1, TeamID: f.teamA}, {Rank: 2, TeamID: f.teamB},
	}, nil).Once()
	f.repo.On("SeasonLeaders", mock.Anything, f.league, pointsLeaderLimit).Return([]Performer{}, nil).Once()
	f.repo.On("TeamMoves", mock.Anything, f.league.ID, mock.Anything, mock.Anything).Return([]TeamMoves{}, nil).Once()

	summary, err := f.app.SeasonSummary(context.Background(), f.member, f.league.ID)
	require.NoError(t, err)
	assert.Nil(t, summary.Awards.HighestScorer)
	assert.Nil(t, summary.Awards.MostTransactions)
}

func TestMemberActivityDefaultsToLast30Days(t *testing.T) {
	f := newFixture(t)
	f.expectLeague()
	now := f.clock.Now()
	f.repo.On("MemberActivity", mock.Anything, f.league.ID, now.AddDate(0, 0, -30), now).Return([]MemberStats{
		{UserID: f.member, Username: "alice", Messages: 12, Transactions: 3, Logins: 4},
	}, nil).Once()

	report, err := f.app.MemberActivity(context.Background(), f.member, f.league.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -30), report.From)
	assert.Equal(t, now, report.To)
	require.Len(t, report.Members, 1)
	assert.Equal(t, 12, report.Members[0].Messages)
}

func TestMemberActivityRejectsBadRanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	from := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.app.MemberActivity(ctx, f.member, f.league.ID, &from, &to)
	require.ErrorIs(t, err, apperr.ErrInvalid)
	assert.Equal(t, "from", apperr.Fields(err)[0].Field)

	from = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.app.MemberActivity(ctx, f.member, f.league.ID, &from, &to)
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestGenerate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.app.Generate(ctx, f.member, f.league.ID, Kind("power-rankings"), Params{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	f.expectLeague()
	from := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	f.repo.On("MemberActivity", mock.Anything, f.league.ID, from, to).Return([]MemberStats{}, nil).Once()

	rep, err := f.app.Generate(ctx, f.member, f.league.ID, KindMemberActivity, Params{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, KindMemberActivity, rep.ReportKind())

	_, err = f.app.Generate(ctx, f.outsider, f.league.ID, KindSeasonSummary, Params{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
