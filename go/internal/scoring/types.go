package scoring

import (
	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
)

// ActiveLeague is what the poller needs to score a league's current week
type ActiveLeague struct {
	ID     uuid.UUID
	Season int
	Week   int
	Format models.ScoringFormat
}

// PlayerPoints is one rostered player's score for a week
type PlayerPoints struct {
	PlayerID   uuid.UUID             `json:"player_id"`
	PlayerName string                `json:"player_name"`
	Position   models.RosterPosition `json:"position"`
	Points     *float64              `json:"points"`
}

// LeagueScoreboard is the week's team totals in a league
type LeagueScoreboard struct {
	LeagueID uuid.UUID            `json:"league_id"`
	Season   int                  `json:"season"`
	Week     int                  `json:"week"`
	Format   models.ScoringFormat `json:"format"`
	Teams    []models.TeamScore   `json:"teams"`
}

// PollResult summarizes one poll of the stats feed
type PollResult struct {
	Weeks   int `json:"weeks"`
	Scored  int `json:"scored"`
	Unknown int `json:"unknown"`
	Leagues int `json:"leagues"`
}

type weekKey struct {
	season int
	week   int
}

// maxWeek is the last week of the NFL regular season
const maxWeek = 18
