package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/unrolled/render"
)

// KeyFunc derives the limiter key for a request
type KeyFunc func(r *http.Request) string

// ClientIP keys on the remote address. Run chi's RealIP middleware first.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type limitedResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retry_after"`
}

// Middleware rejects requests over the limiter's policy with 429
func Middleware(l *Limiter, key KeyFunc, rnd *render.Render) func(http.Handler) http.Handler {
	if key == nil {
		key = ClientIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := l.policy.Name + ":" + key(r)
			d := l.Allow(k)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

			if !d.Allowed {
				retry := int(math.Ceil(d.RetryAfter.Seconds()))
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				log.Warn().
					Str("policy", l.policy.Name).
					Str("key", k).
					Int("retry_after", retry).
					Msg("rate limit exceeded")
				_ = rnd.JSON(w, http.StatusTooManyRequests, limitedResponse{Error: l.policy.Message, RetryAfter: retry})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
