package adminrpc

import (
	"time"

	"github.com/mcdev12/gridiron/go/internal/models"
)

// ServiceName is the fully qualified name of the admin service
const ServiceName = "admin.v1.AdminService"

const (
	ProcessWaiversProcedure = "/" + ServiceName + "/ProcessWaivers"
	ExpireTradesProcedure   = "/" + ServiceName + "/ExpireTrades"
	HealthProcedure         = "/" + ServiceName + "/Health"
	SetUserRoleProcedure    = "/" + ServiceName + "/SetUserRole"
)

// TokenHeader carries the shared admin token
const TokenHeader = "X-Admin-Token"

type ProcessWaiversRequest struct {
	LeagueID string `json:"league_id"`
}

type ProcessWaiversResponse struct {
	Run *models.WaiverRun `json:"run"`
}

type ExpireTradesRequest struct{}

type ExpireTradesResponse struct {
	Expired int `json:"expired"`
}

type HealthRequest struct{}

type HealthResponse struct {
	Status    string    `json:"status"`
	Breaching []string  `json:"breaching"`
	CheckedAt time.Time `json:"checked_at"`
	Error     string    `json:"error,omitempty"`
}

type SetUserRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type SetUserRoleResponse struct {
	User *models.User `json:"user"`
}
