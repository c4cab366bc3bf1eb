package monitoring

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// ErrorLog persists server errors for the production monitor
type ErrorLog interface {
	LogError(ctx context.Context, component, message string) error
}

// Middleware records every request in the collector and writes 5xx responses
// to errs. errs may be nil.
func Middleware(c *Collector, errs ErrorLog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			c.RecordRequest(r.Method, route, status, time.Since(start))

			if status >= 500 && errs != nil {
				msg := fmt.Sprintf("%s %s returned %d", r.Method, r.URL.Path, status)
				if err := errs.LogError(context.WithoutCancel(r.Context()), route, msg); err != nil {
					log.Warn().Err(err).Str("route", route).Msg("failed to record error log")
				}
			}
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
