package ratelimit

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/config"
)

// Set holds one limiter per endpoint class
type Set struct {
	Auth      *Limiter
	API       *Limiter
	Read      *Limiter
	Live      *Limiter
	WebSocket *Limiter
}

// NewSet builds the limiters from configuration
func NewSet(cfg config.RateLimitConfig, clock clockwork.Clock) *Set {
	return &Set{
		Auth:      New(policy("auth", cfg.Auth, "Too many authentication attempts, please try again later"), clock),
		API:       New(policy("api", cfg.API, "Too many requests, please slow down"), clock),
		Read:      New(policy("read", cfg.Read, "Rate limit exceeded, please try again later"), clock),
		Live:      New(policy("live", cfg.Live, "Live data rate limit exceeded, please try again later"), clock),
		WebSocket: New(policy("websocket", cfg.WebSocket, "WebSocket connection limit exceeded"), clock),
	}
}

func policy(name string, p config.RatePolicy, msg string) Policy {
	return Policy{Name: name, Requests: p.Requests, Window: p.Window, Message: msg}
}

// Run sweeps every limiter until ctx is done
func (s *Set) Run(ctx context.Context) {
	for _, l := range []*Limiter{s.Auth, s.API, s.Read, s.Live, s.WebSocket} {
		go l.Run(ctx)
	}
	<-ctx.Done()
}
