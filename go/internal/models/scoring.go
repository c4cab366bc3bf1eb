package models

import (
	"time"

	"github.com/google/uuid"
)

// StatLine is one player's box score for a week
type StatLine struct {
	PlayerID       uuid.UUID `json:"player_id"`
	ExternalID     string    `json:"external_id"`
	Season         int       `json:"season"`
	Week           int       `json:"week"`
	PassingYards   int       `json:"passing_yards"`
	PassingTDs     int       `json:"passing_tds"`
	Interceptions  int       `json:"interceptions"`
	RushingYards   int       `json:"rushing_yards"`
	RushingTDs     int       `json:"rushing_tds"`
	Receptions     int       `json:"receptions"`
	ReceivingYards int       `json:"receiving_yards"`
	ReceivingTDs   int       `json:"receiving_tds"`
	FumblesLost    int       `json:"fumbles_lost"`
	FieldGoals     int       `json:"field_goals"`
	ExtraPoints    int       `json:"extra_points"`
}

// TeamScore is a fantasy team's running total for a week
type TeamScore struct {
	TeamID   uuid.UUID `json:"team_id"`
	TeamName string    `json:"team_name"`
	Points   float64   `json:"points"`
}

// PlayerScore is the stored points for one player in one week and format
type PlayerScore struct {
	PlayerID  uuid.UUID     `json:"player_id"`
	Season    int           `json:"season"`
	Week      int           `json:"week"`
	Format    ScoringFormat `json:"format"`
	Points    float64       `json:"points"`
	UpdatedAt time.Time     `json:"updated_at"`
}
