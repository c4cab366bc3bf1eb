package models

import (
	"time"

	"github.com/google/uuid"
)

// Roster is one player's slot on a fantasy team
type Roster struct {
	ID              uuid.UUID       `json:"id"`
	LeagueID        uuid.UUID       `json:"league_id"`
	FantasyTeamID   uuid.UUID       `json:"fantasy_team_id"`
	PlayerID        uuid.UUID       `json:"player_id"`
	Position        RosterPosition  `json:"position"`
	AcquiredAt      time.Time       `json:"acquired_at"`
	AcquisitionType AcquisitionType `json:"acquisition_type"`
	AcquisitionCost int             `json:"acquisition_cost"`
}

// RosterPosition represents the position a player has on a roster
type RosterPosition string

const (
	RosterPositionStarter RosterPosition = "STARTER"
	RosterPositionBench   RosterPosition = "BENCH"
	RosterPositionIR      RosterPosition = "IR"
)

// AcquisitionType represents how a player was acquired
type AcquisitionType string

const (
	AcquisitionTypeDraft     AcquisitionType = "DRAFT"
	AcquisitionTypeWaiver    AcquisitionType = "WAIVER"
	AcquisitionTypeTrade     AcquisitionType = "TRADE"
	AcquisitionTypeFreeAgent AcquisitionType = "FREE_AGENT"
)

// RosterPlayer joins a roster slot with the player it holds
type RosterPlayer struct {
	Roster
	Player Player `json:"player"`
}
