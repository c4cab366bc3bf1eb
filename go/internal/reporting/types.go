package reporting

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
)

// Kind names a report
type Kind string

const (
	KindWeeklyRecap    Kind = "weekly-recap"
	KindSeasonSummary  Kind = "season-summary"
	KindMemberActivity Kind = "member-activity"
)

// Format is the export encoding of a report
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Params carries the optional inputs a report may use
type Params struct {
	// Week selects the recap week; 0 means the league's current week.
	Week int
	From *time.Time
	To   *time.Time
}

// Report is any generated report. Table returns its main table as CSV
// records, header first.
type Report interface {
	ReportKind() Kind
	Table() [][]string
}

// LeagueRef identifies the league a report was generated for
type LeagueRef struct {
	ID     uuid.UUID            `json:"id"`
	Name   string               `json:"name"`
	Season int                  `json:"season"`
	Week   int                  `json:"current_week"`
	Format models.ScoringFormat `json:"scoring_format"`
}

// TeamWeek is one team's line in a weekly recap
type TeamWeek struct {
	Rank     int       `json:"rank"`
	TeamID   uuid.UUID `json:"team_id"`
	TeamName string    `json:"team_name"`
	Owner    string    `json:"owner"`
	Points   float64   `json:"points"`
	Waivers  int       `json:"waivers"`
	Trades   int       `json:"trades"`
}

// Performer is a rostered player's points over the report period
type Performer struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Position   string    `json:"position"`
	TeamName   string    `json:"team_name"`
	Points     float64   `json:"points"`
}

// TransactionTotals counts completed roster moves in a league. Each
// accepted trade counts once.
type TransactionTotals struct {
	Waivers int `json:"waivers"`
	Trades  int `json:"trades"`
	Total   int `json:"total"`
}

// WeeklyRecap summarizes one week of a league
type WeeklyRecap struct {
	League        LeagueRef         `json:"league"`
	Week          int               `json:"week"`
	WindowStart   time.Time         `json:"window_start"`
	WindowEnd     time.Time         `json:"window_end"`
	Teams         []TeamWeek        `json:"teams"`
	TopScorers    []TeamWeek        `json:"top_scorers"`
	TopPerformers []Performer       `json:"top_performers"`
	Transactions  TransactionTotals `json:"transactions"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

// StandingLine is one team's season record
type StandingLine struct {
	Rank          int       `json:"rank"`
	TeamID        uuid.UUID `json:"team_id"`
	TeamName      string    `json:"team_name"`
	Owner         string    `json:"owner"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	Ties          int       `json:"ties"`
	PointsFor     float64   `json:"points_for"`
	PointsAgainst float64   `json:"points_against"`
	Transactions  int       `json:"transactions"`
}

// Award names the team that led a season category
type Award struct {
	TeamID   uuid.UUID `json:"team_id"`
	TeamName string    `json:"team_name"`
	Owner    string    `json:"owner"`
	Value    float64   `json:"value"`
}

// Awards are the season's superlatives. A nil award had no qualifying team.
type Awards struct {
	HighestScorer    *Award `json:"highest_scorer"`
	MostTransactions *Award `json:"most_transactions"`
}

// SeasonSummary is the league's season to date
type SeasonSummary struct {
	League        LeagueRef         `json:"league"`
	Standings     []StandingLine    `json:"standings"`
	PointsLeaders []Performer       `json:"points_leaders"`
	Awards        Awards            `json:"awards"`
	Transactions  TransactionTotals `json:"transactions"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

// MemberStats is one member's engagement over a date range
type MemberStats struct {
	UserID       uuid.UUID  `json:"user_id"`
	Username     string     `json:"username"`
	TeamName     string     `json:"team_name"`
	Messages     int        `json:"messages"`
	Transactions int        `json:"transactions"`
	Logins       int        `json:"logins"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

// MemberActivity reports member engagement between From and To
type MemberActivity struct {
	League      LeagueRef     `json:"league"`
	From        time.Time     `json:"from"`
	To          time.Time     `json:"to"`
	Members     []MemberStats `json:"members"`
	GeneratedAt time.Time     `json:"generated_at"`
}

const (
	topPerformerLimit   = 5
	pointsLeaderLimit   = 10
	defaultActivityDays = 30
	maxActivityDays     = 366
)

// maxWeek is the last week of the NFL regular season
const maxWeek = 18

// TeamMoves counts one team's completed waiver claims and accepted trades
type TeamMoves struct {
	TeamID  uuid.UUID
	Waivers int
	Trades  int
}
