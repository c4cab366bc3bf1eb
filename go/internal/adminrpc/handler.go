package adminrpc

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"connectrpc.com/connect"
)

// NewHandler mounts the admin service. Every call must carry token in the
// X-Admin-Token header; an empty token disables the service.
func NewHandler(svc *Service, token string) (string, http.Handler) {
	opts := []connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(requireToken(token)),
	}

	mux := http.NewServeMux()
	mux.Handle(ProcessWaiversProcedure, connect.NewUnaryHandler(ProcessWaiversProcedure, svc.ProcessWaivers, opts...))
	mux.Handle(ExpireTradesProcedure, connect.NewUnaryHandler(ExpireTradesProcedure, svc.ExpireTrades, opts...))
	mux.Handle(SetUserRoleProcedure, connect.NewUnaryHandler(SetUserRoleProcedure, svc.SetUserRole, opts...))
	mux.Handle(HealthProcedure, connect.NewUnaryHandler(HealthProcedure, svc.Health, opts...))
	return "/" + ServiceName + "/", mux
}

func requireToken(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token == "" {
				return nil, connect.NewError(connect.CodeUnavailable, errors.New("admin API is disabled"))
			}
			got := req.Header().Get(TokenHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("invalid admin token"))
			}
			return next(ctx, req)
		}
	}
}
