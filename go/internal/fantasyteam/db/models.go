package db

import (
	"time"

	"github.com/google/uuid"
)

type FantasyTeam struct {
	ID             uuid.UUID
	LeagueID       uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	LogoUrl        string
	Wins           int32
	Losses         int32
	Ties           int32
	PointsFor      float64
	PointsAgainst  float64
	WaiverPriority int32
	FaabRemaining  int32
	CreatedAt      time.Time
}
