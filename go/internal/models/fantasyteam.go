package models

import (
	"time"

	"github.com/google/uuid"
)

// FantasyTeam is a user's team inside one league
type FantasyTeam struct {
	ID             uuid.UUID `json:"id"`
	LeagueID       uuid.UUID `json:"league_id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Name           string    `json:"name"`
	LogoURL        string    `json:"logo_url"`
	Wins           int       `json:"wins"`
	Losses         int       `json:"losses"`
	Ties           int       `json:"ties"`
	PointsFor      float64   `json:"points_for"`
	PointsAgainst  float64   `json:"points_against"`
	WaiverPriority int       `json:"waiver_priority"`
	FAABRemaining  int       `json:"faab_remaining"`
	CreatedAt      time.Time `json:"created_at"`
}

// Standing is a team's position in the league table
type Standing struct {
	Rank      int         `json:"rank"`
	Team      FantasyTeam `json:"team"`
	WinPct    float64     `json:"win_pct"`
	GamesBack float64     `json:"games_back"`
}
