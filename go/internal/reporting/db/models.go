package db

import (
	"database/sql"

	"github.com/google/uuid"
)

// ReportLeague is the slice of a league the reports are built around
type ReportLeague struct {
	ID             uuid.UUID
	Name           string
	Season         int32
	CurrentWeek    int32
	ScoringFormat  string
	CommissionerID uuid.UUID
}

type TeamWeekScore struct {
	TeamID        uuid.UUID
	TeamName      string
	OwnerUsername string
	Points        float64
}

type Performer struct {
	PlayerID   uuid.UUID
	PlayerName string
	Position   string
	TeamName   string
	Points     float64
}

type TeamTransactions struct {
	TeamID   uuid.UUID
	TeamName string
	Waivers  int64
	Trades   int64
}

type Standing struct {
	TeamID        uuid.UUID
	TeamName      string
	OwnerUsername string
	Wins          int32
	Losses        int32
	Ties          int32
	PointsFor     float64
	PointsAgainst float64
}

type MemberActivity struct {
	UserID      uuid.UUID
	Username    string
	TeamName    string
	Messages    int64
	Claims      int64
	Trades      int64
	Logins      int64
	LastLoginAt sql.NullTime
}
