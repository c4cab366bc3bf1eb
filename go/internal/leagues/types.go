package leagues

import (
	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
)

// CreateLeagueRequest represents the data needed to create a new league
type CreateLeagueRequest struct {
	Name       string                 `json:"name" validate:"required,leaguename"`
	LeagueType models.LeagueType      `json:"league_type" validate:"required,oneof=REDRAFT KEEPER DYNASTY"`
	Season     int                    `json:"season" validate:"required,min=2000,max=2100"`
	Settings   *UpdateSettingsRequest `json:"settings,omitempty"`
}

// UpdateSettingsRequest carries the settings a commissioner may change.
// Nil fields keep their current value.
type UpdateSettingsRequest struct {
	Name              *string                  `json:"name,omitempty" validate:"omitempty,leaguename"`
	MaxTeams          *int                     `json:"max_teams,omitempty" validate:"omitempty,min=2,max=20"`
	RosterSize        *int                     `json:"roster_size,omitempty" validate:"omitempty,min=5,max=30"`
	StarterSlots      *int                     `json:"starter_slots,omitempty" validate:"omitempty,min=1,max=15"`
	IRSlots           *int                     `json:"ir_slots,omitempty" validate:"omitempty,min=0,max=5"`
	ScoringFormat     *models.ScoringFormat    `json:"scoring_format,omitempty" validate:"omitempty,oneof=standard half_ppr ppr"`
	WaiverType        *models.WaiverType       `json:"waiver_type,omitempty" validate:"omitempty,oneof=faab rolling reverse"`
	FAABBudget        *int                     `json:"faab_budget,omitempty" validate:"omitempty,min=0,max=1000"`
	WaiverProcessDay  *string                  `json:"waiver_process_day,omitempty" validate:"omitempty,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	WaiverProcessTime *string                  `json:"waiver_process_time,omitempty" validate:"omitempty,datetime=15:04"`
	Tiebreaker        *models.WaiverTiebreaker `json:"tiebreaker,omitempty" validate:"omitempty,oneof=priority bid_time"`
	AllowZeroBids     *bool                    `json:"allow_zero_bids,omitempty"`
	TradeDeadlineWeek *int                     `json:"trade_deadline_week,omitempty" validate:"omitempty,min=1,max=18"`
	TradesDisabled    *bool                    `json:"trades_disabled,omitempty"`
}

// UpdateStatusRequest moves a league through its lifecycle
type UpdateStatusRequest struct {
	Status models.LeagueStatus `json:"status" validate:"required,oneof=PENDING ACTIVE COMPLETED CANCELLED"`
}

// JoinLeagueRequest creates the caller's team in a league
type JoinLeagueRequest struct {
	TeamName string `json:"team_name" validate:"required,min=2,max=50,safetext"`
	LogoURL  string `json:"logo_url,omitempty" validate:"omitempty,url,max=500"`
}

// CreateLeagueParams is what the repository needs to insert a league
type CreateLeagueParams struct {
	Name           string
	LeagueType     models.LeagueType
	CommissionerID uuid.UUID
	Settings       models.LeagueSettings
	Season         int
}

// apply copies every non-nil field onto s
func (r *UpdateSettingsRequest) apply(s *models.LeagueSettings) {
	if r == nil {
		return
	}
	if r.MaxTeams != nil {
		s.MaxTeams = *r.MaxTeams
	}
	if r.RosterSize != nil {
		s.RosterSize = *r.RosterSize
	}
	if r.StarterSlots != nil {
		s.StarterSlots = *r.StarterSlots
	}
	if r.IRSlots != nil {
		s.IRSlots = *r.IRSlots
	}
	if r.ScoringFormat != nil {
		s.ScoringFormat = *r.ScoringFormat
	}
	if r.WaiverType != nil {
		s.WaiverType = *r.WaiverType
	}
	if r.FAABBudget != nil {
		s.FAABBudget = *r.FAABBudget
	}
	if r.WaiverProcessDay != nil {
		s.WaiverProcessDay = *r.WaiverProcessDay
	}
	if r.WaiverProcessTime != nil {
		s.WaiverProcessTime = *r.WaiverProcessTime
	}
	if r.Tiebreaker != nil {
		s.Tiebreaker = *r.Tiebreaker
	}
	if r.AllowZeroBids != nil {
		s.AllowZeroBids = *r.AllowZeroBids
	}
	if r.TradeDeadlineWeek != nil {
		s.TradeDeadlineWeek = *r.TradeDeadlineWeek
	}
	if r.TradesDisabled != nil {
		s.TradesDisabled = *r.TradesDisabled
	}
}
