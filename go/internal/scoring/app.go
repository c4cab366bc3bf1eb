package scoring

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/clients/scorefeed"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/events"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ScoreRepository defines what the app layer needs from the repository
type ScoreRepository interface {
	ActiveLeagues(ctx context.Context) ([]ActiveLeague, error)
	League(ctx context.Context, id uuid.UUID) (*ActiveLeague, error)
	PlayerIDs(ctx context.Context, externalIDs []string) (map[string]uuid.UUID, error)
	SaveScore(ctx context.Context, score models.PlayerScore, line models.StatLine) error
	TeamTotals(ctx context.Context, league ActiveLeague, week int) ([]models.TeamScore, error)
	TeamPlayers(ctx context.Context, teamID uuid.UUID, league ActiveLeague, week int) ([]PlayerPoints, error)
}

// StatsFeed supplies weekly box scores
type StatsFeed interface {
	WeeklyStats(ctx context.Context, season, week int) ([]scorefeed.FeedStatLine, error)
}

// LeaguesApp checks league membership
type LeaguesApp interface {
	RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error
}

// TeamsApp looks up fantasy teams
type TeamsApp interface {
	GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error)
}

// App scores stat lines from the feed and serves scoreboards
type App struct {
	repo      ScoreRepository
	feed      StatsFeed
	leagues   LeaguesApp
	teams     TeamsApp
	publisher events.Publisher
	clock     clockwork.Clock

	polling sync.Mutex
}

// NewApp creates a new scoring App
func NewApp(repo ScoreRepository, feed StatsFeed, leagues LeaguesApp, teams TeamsApp, publisher events.Publisher, clock clockwork.Clock) *App {
	return &App{
		repo:      repo,
		feed:      feed,
		leagues:   leagues,
		teams:     teams,
		publisher: publisher,
		clock:     clock,
	}
}

// UpdateScores pulls the current week of every active league from the feed,
// stores player points in each format in use, and pushes team totals to the
// league rooms. Only one update runs at a time.
func (a *App) UpdateScores(ctx context.Context) (*PollResult, error) {
	if !a.polling.TryLock() {
		return nil, apperr.New(apperr.ErrConflict, "Score update already in progress")
	}
	defer a.polling.Unlock()

	leagues, err := a.repo.ActiveLeagues(ctx)
	if err != nil {
		return nil, err
	}

	var order []weekKey
	formats := map[weekKey]map[models.ScoringFormat]bool{}
	for _, l := range leagues {
		k := weekKey{l.Season, l.Week}
		if formats[k] == nil {
			formats[k] = map[models.ScoringFormat]bool{}
			order = append(order, k)
		}
		formats[k][l.Format] = true
	}

	result := &PollResult{}
	scored := map[weekKey]bool{}
	for _, k := range order {
		n, unknown, err := a.scoreWeek(ctx, k, formats[k])
		if err != nil {
			log.Error().Err(err).Int("season", k.season).Int("week", k.week).Msg("failed to score week")
			continue
		}
		scored[k] = true
		result.Weeks++
		result.Scored += n
		result.Unknown += unknown
	}

	for _, l := range leagues {
		if !scored[weekKey{l.Season, l.Week}] {
			continue
		}
		if err := a.publishTotals(ctx, l); err != nil {
			log.Warn().Err(err).Str("league_id", l.ID.String()).Msg("failed to publish score update")
			continue
		}
		result.Leagues++
	}

	log.Info().
		Int("weeks", result.Weeks).
		Int("scored", result.Scored).
		Int("unknown_players", result.Unknown).
		Int("leagues", result.Leagues).
		Msg("scores updated")
	return result, nil
}

// scoreWeek stores every known player's points for one week. It returns the
// number of scores written and the number of feed lines with no matching player.
func (a *App) scoreWeek(ctx context.Context, k weekKey, formats map[models.ScoringFormat]bool) (int, int, error) {
	lines, err := a.feed.WeeklyStats(ctx, k.season, k.week)
	if err != nil {
		return 0, 0, err
	}
	externalIDs := make([]string, len(lines))
	for i, l := range lines {
		externalIDs[i] = l.PlayerID
	}
	ids, err := a.repo.PlayerIDs(ctx, externalIDs)
	if err != nil {
		return 0, 0, err
	}

	now := a.clock.Now()
	var written, unknown int
	for _, fl := range lines {
		playerID, ok := ids[fl.PlayerID]
		if !ok {
			unknown++
			continue
		}
		line := toStatLine(fl, playerID, k)
		for _, format := range models.ScoringFormats {
			if !formats[format] {
				continue
			}
			score := models.PlayerScore{
				PlayerID:  playerID,
				Season:    k.season,
				Week:      k.week,
				Format:    format,
				Points:    RulesFor(format).Points(line),
				UpdatedAt: now,
			}
			if err := a.repo.SaveScore(ctx, score, line); err != nil {
				return written, unknown, err
			}
			written++
		}
	}
	return written, unknown, nil
}

func (a *App) publishTotals(ctx context.Context, l ActiveLeague) error {
	totals, err := a.repo.TeamTotals(ctx, l, l.Week)
	if err != nil {
		return err
	}
	teams := make([]events.TeamScore, len(totals))
	for i, t := range totals {
		teams[i] = events.TeamScore{TeamID: t.TeamID, TeamName: t.TeamName, Points: t.Points}
	}
	return events.Emit(ctx, a.publisher, events.TypeScoreUpdate, events.LeagueRoom(l.ID), events.ScoreUpdatePayload{
		LeagueID: l.ID,
		Week:     l.Week,
		Teams:    teams,
	})
}

func toStatLine(fl scorefeed.FeedStatLine, playerID uuid.UUID, k weekKey) models.StatLine {
	return models.StatLine{
		PlayerID:       playerID,
		ExternalID:     fl.PlayerID,
		Season:         k.season,
		Week:           k.week,
		PassingYards:   fl.PassingYards,
		PassingTDs:     fl.PassingTDs,
		Interceptions:  fl.Interceptions,
		RushingYards:   fl.RushingYards,
		RushingTDs:     fl.RushingTDs,
		Receptions:     fl.Receptions,
		ReceivingYards: fl.ReceivingYards,
		ReceivingTDs:   fl.ReceivingTDs,
		FumblesLost:    fl.FumblesLost,
		FieldGoals:     fl.FieldGoals,
		ExtraPoints:    fl.ExtraPoints,
	}
}

// Scoreboard returns the league's team totals for a week. week 0 means the
// league's current week.
func (a *App) Scoreboard(ctx context.Context, userID, leagueID uuid.UUID, week int) (*LeagueScoreboard, error) {
	if err := a.leagues.RequireMember(ctx, leagueID, userID); err != nil {
		return nil, err
	}
	league, err := a.repo.League(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if week == 0 {
		week = league.Week
	}
	teams, err := a.repo.TeamTotals(ctx, *league, week)
	if err != nil {
		return nil, err
	}
	return &LeagueScoreboard{
		LeagueID: league.ID,
		Season:   league.Season,
		Week:     week,
		Format:   league.Format,
		Teams:    teams,
	}, nil
}

// TeamScores returns each rostered player's points on a team for a week
func (a *App) TeamScores(ctx context.Context, userID, teamID uuid.UUID, week int) ([]PlayerPoints, error) {
	team, err := a.teams.GetFantasyTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := a.leagues.RequireMember(ctx, team.LeagueID, userID); err != nil {
		return nil, err
	}
	league, err := a.repo.League(ctx, team.LeagueID)
	if err != nil {
		return nil, err
	}
	if week == 0 {
		week = league.Week
	}
	return a.repo.TeamPlayers(ctx, teamID, *league, week)
}
