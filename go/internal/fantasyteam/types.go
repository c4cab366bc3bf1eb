package fantasyteam

import "github.com/google/uuid"

// CreateFantasyTeamRequest represents the data needed to create a new team
type CreateFantasyTeamRequest struct {
	LeagueID       uuid.UUID `json:"league_id" validate:"required"`
	OwnerID        uuid.UUID `json:"owner_id" validate:"required"`
	Name           string    `json:"name" validate:"required,min=2,max=50,safetext"`
	LogoURL        string    `json:"logo_url,omitempty" validate:"omitempty,url,max=500"`
	WaiverPriority int       `json:"-"`
	FAABBudget     int       `json:"-"`
}

// UpdateFantasyTeamRequest represents the fields an owner may change
type UpdateFantasyTeamRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=50,safetext"`
	LogoURL string `json:"logo_url,omitempty" validate:"omitempty,url,max=500"`
}

// GameResult is one team's result for a scored week
type GameResult struct {
	TeamID        uuid.UUID
	PointsFor     float64
	PointsAgainst float64
}
