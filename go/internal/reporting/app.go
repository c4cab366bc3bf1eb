package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/rs/zerolog/log"
)

// ReportRepository defines what the app layer needs from the repository
type ReportRepository interface {
	League(ctx context.Context, id uuid.UUID) (*LeagueRef, error)
	WeekScores(ctx context.Context, league LeagueRef, week int) ([]TeamWeek, error)
	WeekPerformers(ctx context.Context, league LeagueRef, week, limit int) ([]Performer, error)
	SeasonLeaders(ctx context.Context, league LeagueRef, limit int) ([]Performer, error)
	TeamMoves(ctx context.Context, leagueID uuid.UUID, from, to time.Time) ([]TeamMoves, error)
	Standings(ctx context.Context, leagueID uuid.UUID) ([]StandingLine, error)
	MemberActivity(ctx context.Context, leagueID uuid.UUID, from, to time.Time) ([]MemberStats, error)
}

// LeaguesApp checks league membership
type LeaguesApp interface {
	RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error
}

// App builds league reports for members
type App struct {
	repo    ReportRepository
	leagues LeaguesApp
	clock   clockwork.Clock
}

// NewApp creates a new reporting App
func NewApp(repo ReportRepository, leagues LeaguesApp, clock clockwork.Clock) *App {
	return &App{
		repo:    repo,
		leagues: leagues,
		clock:   clock,
	}
}

// Generate builds the named report
func (a *App) Generate(ctx context.Context, userID, leagueID uuid.UUID, kind Kind, p Params) (Report, error) {
	var rep Report
	switch kind {
	case KindWeeklyRecap:
		r, err := a.WeeklyRecap(ctx, userID, leagueID, p.Week)
		if err != nil {
			return nil, err
		}
		rep = r
	case KindSeasonSummary:
		r, err := a.SeasonSummary(ctx, userID, leagueID)
		if err != nil {
			return nil, err
		}
		rep = r
	case KindMemberActivity:
		r, err := a.MemberActivity(ctx, userID, leagueID, p.From, p.To)
		if err != nil {
			return nil, err
		}
		rep = r
	default:
		return nil, apperr.New(apperr.ErrNotFound, "Unknown report %q", string(kind))
	}

	log.Debug().
		Str("league_id", leagueID.String()).
		Str("kind", string(kind)).
		Msg("report generated")
	return rep, nil
}

// WeeklyRecap ranks the league's teams for a week and lists the week's top
// players and completed transactions. week 0 means the league's current week.
func (a *App) WeeklyRecap(ctx context.Context, userID, leagueID uuid.UUID, week int) (*WeeklyRecap, error) {
	league, err := a.memberLeague(ctx, userID, leagueID)
	if err != nil {
		return nil, err
	}
	if week == 0 {
		week = league.Week
	}
	if week < 1 || week > maxWeek {
		return nil, apperr.Field("week", fmt.Sprintf("must be between 1 and %d", maxWeek))
	}

	teams, err := a.repo.WeekScores(ctx, *league, week)
	if err != nil {
		return nil, err
	}
	performers, err := a.repo.WeekPerformers(ctx, *league, week, topPerformerLimit)
	if err != nil {
		return nil, err
	}
	start, end := WeekWindow(league.Season, week)
	moves, err := a.repo.TeamMoves(ctx, league.ID, start, end)
	if err != nil {
		return nil, err
	}

	byTeam := indexMoves(moves)
	rankTeams(teams)
	for i := range teams {
		m := byTeam[teams[i].TeamID]
		teams[i].Waivers = m.Waivers
		teams[i].Trades = m.Trades
	}

	return &WeeklyRecap{
		League:        *league,
		Week:          week,
		WindowStart:   start,
		WindowEnd:     end,
		Teams:         teams,
		TopScorers:    topScorers(teams),
		TopPerformers: performers,
		Transactions:  totalMoves(moves),
		GeneratedAt:   a.clock.Now(),
	}, nil
}

// SeasonSummary returns standings, the season's points leaders, awards and
// transaction totals to date.
func (a *App) SeasonSummary(ctx context.Context, userID, leagueID uuid.UUID) (*SeasonSummary, error) {
	league, err := a.memberLeague(ctx, userID, leagueID)
	if err != nil {
		return nil, err
	}

	standings, err := a.repo.Standings(ctx, league.ID)
	if err != nil {
		return nil, err
	}
	leaders, err := a.repo.SeasonLeaders(ctx, *league, pointsLeaderLimit)
	if err != nil {
		return nil, err
	}
	now := a.clock.Now()
	moves, err := a.repo.TeamMoves(ctx, league.ID, seasonStart(league.Season), now)
	if err != nil {
		return nil, err
	}

	byTeam := indexMoves(moves)
	for i := range standings {
		m := byTeam[standings[i].TeamID]
		standings[i].Transactions = m.Waivers + m.Trades
	}

	return &SeasonSummary{
		League:        *league,
		Standings:     standings,
		PointsLeaders: leaders,
		Awards:        seasonAwards(standings),
		Transactions:  totalMoves(moves),
		GeneratedAt:   now,
	}, nil
}

// MemberActivity counts each member's messages, transactions and logins in
// [from, to). Missing bounds default to the last 30 days.
func (a *App) MemberActivity(ctx context.Context, userID, leagueID uuid.UUID, from, to *time.Time) (*MemberActivity, error) {
	now := a.clock.Now()
	end := now
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -defaultActivityDays)
	if from != nil {
		start = *from
	}
	if !start.Before(end) {
		return nil, apperr.Field("from", "must be before to")
	}
	if end.Sub(start) > maxActivityDays*24*time.Hour {
		return nil, apperr.Field("from", fmt.Sprintf("range cannot exceed %d days", maxActivityDays))
	}

	league, err := a.memberLeague(ctx, userID, leagueID)
	if err != nil {
		return nil, err
	}
	members, err := a.repo.MemberActivity(ctx, league.ID, start, end)
	if err != nil {
		return nil, err
	}
	return &MemberActivity{
		League:      *league,
		From:        start,
		To:          end,
		Members:     members,
		GeneratedAt: now,
	}, nil
}

func (a *App) memberLeague(ctx context.Context, userID, leagueID uuid.UUID) (*LeagueRef, error) {
	if err := a.leagues.RequireMember(ctx, leagueID, userID); err != nil {
		return nil, err
	}
	return a.repo.League(ctx, leagueID)
}

// rankTeams assigns competition ranks to teams sorted by points, so tied
// teams share a rank and the next rank is skipped.
func rankTeams(teams []TeamWeek) {
	for i := range teams {
		if i > 0 && teams[i].Points == teams[i-1].Points {
			teams[i].Rank = teams[i-1].Rank
			continue
		}
		teams[i].Rank = i + 1
	}
}

func topScorers(teams []TeamWeek) []TeamWeek {
	out := []TeamWeek{}
	if len(teams) == 0 || teams[0].Points <= 0 {
		return out
	}
	for _, t := range teams {
		if t.Points != teams[0].Points {
			break
		}
		out = append(out, t)
	}
	return out
}

func seasonAwards(standings []StandingLine) Awards {
	var awards Awards
	for _, s := range standings {
		if s.PointsFor > 0 && (awards.HighestScorer == nil || s.PointsFor > awards.HighestScorer.Value) {
			awards.HighestScorer = &Award{TeamID: s.TeamID, TeamName: s.TeamName, Owner: s.Owner, Value: s.PointsFor}
		}
		n := float64(s.Transactions)
		if n > 0 && (awards.MostTransactions == nil || n > awards.MostTransactions.Value) {
			awards.MostTransactions = &Award{TeamID: s.TeamID, TeamName: s.TeamName, Owner: s.Owner, Value: n}
		}
	}
	return awards
}

func indexMoves(moves []TeamMoves) map[uuid.UUID]TeamMoves {
	out := make(map[uuid.UUID]TeamMoves, len(moves))
	for _, m := range moves {
		out[m.TeamID] = m
	}
	return out
}

// totalMoves sums the league's transactions. Both sides of an accepted trade
// are in the league, so team trade counts are halved.
func totalMoves(moves []TeamMoves) TransactionTotals {
	var t TransactionTotals
	var tradeSides int
	for _, m := range moves {
		t.Waivers += m.Waivers
		tradeSides += m.Trades
	}
	t.Trades = tradeSides / 2
	t.Total = t.Waivers + t.Trades
	return t
}
