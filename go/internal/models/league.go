package models

import (
	"time"

	"github.com/google/uuid"
)

// LeagueType represents the type of league
type LeagueType string

const (
	LeagueTypeRedraft LeagueType = "REDRAFT"
	LeagueTypeKeeper  LeagueType = "KEEPER"
	LeagueTypeDynasty LeagueType = "DYNASTY"
)

type LeagueStatus string

const (
	LeagueStatusPending   LeagueStatus = "PENDING"
	LeagueStatusActive    LeagueStatus = "ACTIVE"
	LeagueStatusCompleted LeagueStatus = "COMPLETED"
	LeagueStatusCancelled LeagueStatus = "CANCELLED"
)

// WaiverType selects how a league awards contested waiver claims
type WaiverType string

const (
	WaiverTypeFAAB    WaiverType = "faab"
	WaiverTypeRolling WaiverType = "rolling"
	WaiverTypeReverse WaiverType = "reverse"
)

// WaiverTiebreaker orders FAAB claims with equal bids
type WaiverTiebreaker string

const (
	TiebreakerPriority WaiverTiebreaker = "priority"
	TiebreakerBidTime  WaiverTiebreaker = "bid_time"
)

// ScoringFormat selects the points-per-reception table
type ScoringFormat string

const (
	ScoringStandard ScoringFormat = "standard"
	ScoringHalfPPR  ScoringFormat = "half_ppr"
	ScoringPPR      ScoringFormat = "ppr"
)

// ScoringFormats lists every supported format
var ScoringFormats = []ScoringFormat{ScoringStandard, ScoringHalfPPR, ScoringPPR}

// LeagueSettings is stored as JSONB on the league row
type LeagueSettings struct {
	MaxTeams          int              `json:"max_teams"`
	RosterSize        int              `json:"roster_size"`
	StarterSlots      int              `json:"starter_slots"`
	IRSlots           int              `json:"ir_slots"`
	ScoringFormat     ScoringFormat    `json:"scoring_format"`
	WaiverType        WaiverType       `json:"waiver_type"`
	FAABBudget        int              `json:"faab_budget"`
	WaiverProcessDay  string           `json:"waiver_process_day"`  // "wednesday"
	WaiverProcessTime string           `json:"waiver_process_time"` // "03:00", league local time is UTC
	Tiebreaker        WaiverTiebreaker `json:"tiebreaker"`
	AllowZeroBids     bool             `json:"allow_zero_bids"`
	TradeDeadlineWeek int              `json:"trade_deadline_week"`
	TradesDisabled    bool             `json:"trades_disabled"`
}

// DefaultLeagueSettings returns the settings applied when a league is created
// without overrides.
func DefaultLeagueSettings() LeagueSettings {
	return LeagueSettings{
		MaxTeams:          12,
		RosterSize:        16,
		StarterSlots:      9,
		IRSlots:           2,
		ScoringFormat:     ScoringPPR,
		WaiverType:        WaiverTypeFAAB,
		FAABBudget:        100,
		WaiverProcessDay:  "wednesday",
		WaiverProcessTime: "03:00",
		Tiebreaker:        TiebreakerPriority,
		AllowZeroBids:     true,
		TradeDeadlineWeek: 10,
	}
}

// League represents a fantasy football league
type League struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	LeagueType     LeagueType     `json:"league_type"`
	CommissionerID uuid.UUID      `json:"commissioner_id"`
	Settings       LeagueSettings `json:"settings"`
	Status         LeagueStatus   `json:"league_status"`
	Season         int            `json:"season"`
	CurrentWeek    int            `json:"current_week"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
