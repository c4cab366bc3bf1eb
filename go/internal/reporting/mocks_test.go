package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/reporting/db"
	"github.com/stretchr/testify/mock"
)

// mockRepo is a testify mock of ReportRepository
type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) League(ctx context.Context, id uuid.UUID) (*LeagueRef, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*LeagueRef), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) WeekScores(ctx context.Context, league LeagueRef, week int) ([]TeamWeek, error) {
	args := m.Called(ctx, league, week)
	return args.Get(0).([]TeamWeek), args.Error(1)
}

func (m *mockRepo) WeekPerformers(ctx context.Context, league LeagueRef, week, limit int) ([]Performer, error) {
	args := m.Called(ctx, league, week, limit)
	return args.Get(0).([]Performer), args.Error(1)
}

func (m *mockRepo) SeasonLeaders(ctx context.Context, league LeagueRef, limit int) ([]Performer, error) {
	args := m.Called(ctx, league, limit)
	return args.Get(0).([]Performer), args.Error(1)
}

func (m *mockRepo) TeamMoves(ctx context.Context, leagueID uuid.UUID, from, to time.Time) ([]TeamMoves, error) {
	args := m.Called(ctx, leagueID, from, to)
	return args.Get(0).([]TeamMoves), args.Error(1)
}

func (m *mockRepo) Standings(ctx context.Context, leagueID uuid.UUID) ([]StandingLine, error) {
	args := m.Called(ctx, leagueID)
	return args.Get(0).([]StandingLine), args.Error(1)
}

func (m *mockRepo) MemberActivity(ctx context.Context, leagueID uuid.UUID, from, to time.Time) ([]MemberStats, error) {
	args := m.Called(ctx, leagueID, from, to)
	return args.Get(0).([]MemberStats), args.Error(1)
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

// mockQuerier stubs Querier methods for repository tests
type mockQuerier struct {
	mock.Mock
	Querier
}

func (m *mockQuerier) GetReportLeague(ctx context.Context, id uuid.UUID) (db.ReportLeague, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.ReportLeague), args.Error(1)
}

func (m *mockQuerier) ListTeamTransactions(ctx context.Context, arg db.ListTeamTransactionsParams) ([]db.TeamTransactions, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.TeamTransactions), args.Error(1)
}

func (m *mockQuerier) ListStandings(ctx context.Context, leagueID uuid.UUID) ([]db.Standing, error) {
	args := m.Called(ctx, leagueID)
	return args.Get(0).([]db.Standing), args.Error(1)
}

func (m *mockQuerier) ListMemberActivity(ctx context.Context, arg db.ListMemberActivityParams) ([]db.MemberActivity, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.MemberActivity), args.Error(1)
}

func (m *mockQuerier) ListWeekPerformers(ctx context.Context, arg db.ListWeekPerformersParams) ([]db.Performer, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.Performer), args.Error(1)
}

// mockApp is a testify mock of ReportingApp
type mockApp struct {
	mock.Mock
}

func (m *mockApp) Generate(ctx context.Context, userID, leagueID uuid.UUID, kind Kind, p Params) (Report, error) {
	args := m.Called(ctx, userID, leagueID, kind, p)
	if r := args.Get(0); r != nil {
		return r.(Report), args.Error(1)
	}
	return nil, args.Error(1)
}
