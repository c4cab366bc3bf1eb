package models

import (
	"time"

	"github.com/google/uuid"
)

// Position is an NFL roster position
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDEF Position = "DEF"
)

// ValidPositions lists every position a player may hold
var ValidPositions = []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDEF}

// InjuryStatus mirrors the official NFL injury report designations
type InjuryStatus string

const (
	InjuryHealthy      InjuryStatus = "HEALTHY"
	InjuryQuestionable InjuryStatus = "QUESTIONABLE"
	InjuryDoubtful     InjuryStatus = "DOUBTFUL"
	InjuryOut          InjuryStatus = "OUT"
	InjuryIR           InjuryStatus = "IR"
)

// Player represents an NFL player
type Player struct {
	ID           uuid.UUID    `json:"id"`
	ExternalID   string       `json:"external_id"`
	FullName     string       `json:"full_name"`
	Position     Position     `json:"position"`
	NFLTeam      string       `json:"nfl_team"`
	ByeWeek      int          `json:"bye_week"`
	Rank         int          `json:"rank"`
	Active       bool         `json:"active"`
	InjuryStatus InjuryStatus `json:"injury_status"`
	CreatedAt    time.Time    `json:"created_at"`
}
