package adminrpc

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/monitoring"
	"github.com/rs/zerolog/log"
)

// WaiversApp defines what the admin service needs from waivers
type WaiversApp interface {
	ProcessLeague(ctx context.Context, leagueID uuid.UUID) (*models.WaiverRun, error)
}

// TradesApp defines what the admin service needs from trades
type TradesApp interface {
	ExpireStale(ctx context.Context) (int, error)
}

// UsersApp defines what the admin service needs from users
type UsersApp interface {
	SetRole(ctx context.Context, id uuid.UUID, role models.UserRole) (*models.User, error)
}

// HealthSource reports the production monitor's verdict
type HealthSource interface {
	Health() monitoring.Health
}

// Service implements the admin RPCs
type Service struct {
	waivers WaiversApp
	trades  TradesApp
	users   UsersApp
	health  HealthSource
}

func NewService(waivers WaiversApp, trades TradesApp, users UsersApp, health HealthSource) *Service {
	return &Service{
		waivers: waivers,
		trades:  trades,
		users:   users,
		health:  health,
	}
}

// ProcessWaivers runs waiver processing for one league immediately
func (s *Service) ProcessWaivers(ctx context.Context, req *connect.Request[ProcessWaiversRequest]) (*connect.Response[ProcessWaiversResponse], error) {
	leagueID, err := uuid.Parse(req.Msg.LeagueID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("league_id must be a UUID"))
	}

	run, err := s.waivers.ProcessLeague(ctx, leagueID)
	if err != nil {
		return nil, connectError(err)
	}
	log.Info().Str("league_id", leagueID.String()).Int("claims", run.TotalClaims).Msg("admin waiver run completed")
	return connect.NewResponse(&ProcessWaiversResponse{Run: run}), nil
}

// ExpireTrades expires every pending trade past its deadline
func (s *Service) ExpireTrades(ctx context.Context, _ *connect.Request[ExpireTradesRequest]) (*connect.Response[ExpireTradesResponse], error) {
	n, err := s.trades.ExpireStale(ctx)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ExpireTradesResponse{Expired: n}), nil
}

// SetUserRole promotes, demotes or suspends a user
func (s *Service) SetUserRole(ctx context.Context, req *connect.Request[SetUserRoleRequest]) (*connect.Response[SetUserRoleResponse], error) {
	userID, err := uuid.Parse(req.Msg.UserID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("user_id must be a UUID"))
	}

	user, err := s.users.SetRole(ctx, userID, models.UserRole(req.Msg.Role))
	if err != nil {
		return nil, connectError(err)
	}
	log.Info().Str("user_id", userID.String()).Str("role", string(user.Role)).Msg("admin changed user role")
	return connect.NewResponse(&SetUserRoleResponse{User: user}), nil
}

// Health returns the monitor's latest health verdict
func (s *Service) Health(_ context.Context, _ *connect.Request[HealthRequest]) (*connect.Response[HealthResponse], error) {
	h := s.health.Health()
	return connect.NewResponse(&HealthResponse{
		Status:    string(h.Status),
		Breaching: h.Breaching,
		CheckedAt: h.CheckedAt,
		Error:     h.Error,
	}), nil
}

// connectError maps application error kinds to Connect codes. Internal
// errors are logged and hidden.
func connectError(err error) error {
	msg, ok := apperr.Message(err)
	if !ok {
		msg = err.Error()
	}
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		return connect.NewError(connect.CodeInvalidArgument, errors.New(msg))
	case errors.Is(err, apperr.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, errors.New(msg))
	case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrLocked):
		return connect.NewError(connect.CodeFailedPrecondition, errors.New(msg))
	case errors.Is(err, apperr.ErrUnauthorized):
		return connect.NewError(connect.CodeUnauthenticated, errors.New(msg))
	case errors.Is(err, apperr.ErrForbidden):
		return connect.NewError(connect.CodePermissionDenied, errors.New(msg))
	case errors.Is(err, apperr.ErrRateLimited):
		return connect.NewError(connect.CodeResourceExhausted, errors.New(msg))
	default:
		log.Error().Err(err).Msg("admin rpc failed")
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
}
