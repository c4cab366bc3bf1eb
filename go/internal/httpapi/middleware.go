package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/render"

	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/ratelimit"
)

// requestLogger writes one structured line per request
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		default:
			ev = log.Debug()
		}
		ev.Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// userOrIP keys authenticated callers by user id and everyone else by address
func userOrIP(r *http.Request) string {
	if user, ok := auth.UserFromContext(r.Context()); ok {
		return ratelimit.ClientIP(r) + ":" + user.ID.String()
	}
	return ratelimit.ClientIP(r)
}

// limit applies the limiter pick selects from set. A nil set disables limiting.
func limit(set *ratelimit.Set, key ratelimit.KeyFunc, rnd *render.Render, pick func(*ratelimit.Set) *ratelimit.Limiter) func(http.Handler) http.Handler {
	if set == nil {
		return passthrough
	}
	return ratelimit.Middleware(pick(set), key, rnd)
}

// byMethod limits reads with the read policy and writes with the api policy
func byMethod(set *ratelimit.Set, rnd *render.Render) func(http.Handler) http.Handler {
	if set == nil {
		return passthrough
	}
	read := ratelimit.Middleware(set.Read, userOrIP, rnd)
	write := ratelimit.Middleware(set.API, userOrIP, rnd)
	return func(next http.Handler) http.Handler {
		reads, writes := read(next), write(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				reads.ServeHTTP(w, r)
				return
			}
			writes.ServeHTTP(w, r)
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }
