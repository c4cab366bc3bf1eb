package player

import "github.com/mcdev12/gridiron/go/internal/models"

const (
	defaultSearchLimit = 25
	maxSearchLimit     = 100
)

// SearchPlayersRequest filters the player pool
type SearchPlayersRequest struct {
	Name     string          `json:"name,omitempty" validate:"omitempty,max=50,safetext"`
	Position models.Position `json:"position,omitempty" validate:"omitempty,oneof=QB RB WR TE K DEF"`
	NFLTeam  string          `json:"nfl_team,omitempty" validate:"omitempty,alpha,min=2,max=3"`
	Limit    int             `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Offset   int             `json:"offset,omitempty" validate:"omitempty,min=0"`
}

// UpsertPlayerRequest creates or refreshes a player keyed by external ID
type UpsertPlayerRequest struct {
	ExternalID   string
	FullName     string
	Position     models.Position
	NFLTeam      string
	ByeWeek      int
	Rank         int
	Active       bool
	InjuryStatus models.InjuryStatus
}

// SyncResult represents the result of syncing players from the stats provider
type SyncResult struct {
	TotalProcessed int      `json:"total_processed"`
	Created        int      `json:"created"`
	Updated        int      `json:"updated"`
	Skipped        int      `json:"skipped"`
	Errors         []string `json:"errors,omitempty"`
}
