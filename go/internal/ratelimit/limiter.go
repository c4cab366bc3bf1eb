package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long a key may go unused before it is evicted
const DefaultIdleTTL = 5 * time.Minute

// Policy allows Requests per Window for each key
type Policy struct {
	Name     string
	Requests int
	Window   time.Duration
	Message  string
}

// Decision is the outcome of a single Allow call
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter is a token bucket per key. Buckets refill at Requests/Window and
// hold at most Requests tokens.
type Limiter struct {
	policy  Policy
	clock   clockwork.Clock
	idleTTL time.Duration

	mu      sync.Mutex
	entries map[string]*entry
}

// New creates a keyed limiter for policy
func New(policy Policy, clock clockwork.Clock) *Limiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Limiter{
		policy:  policy,
		clock:   clock,
		idleTTL: DefaultIdleTTL,
		entries: make(map[string]*entry),
	}
}

// Policy returns the limiter's policy
func (l *Limiter) Policy() Policy {
	return l.policy
}

// Allow consumes one token for key if one is available
func (l *Limiter) Allow(key string) Decision {
	now := l.clock.Now()

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.every(), l.policy.Requests)}
		l.entries[key] = e
	}
	e.lastSeen = now
	lim := e.limiter
	l.mu.Unlock()

	d := Decision{Limit: l.policy.Requests, ResetAt: now.Add(l.policy.Window)}

	res := lim.ReserveN(now, 1)
	if !res.OK() {
		d.RetryAfter = l.policy.Window
		return d
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		d.RetryAfter = delay
		d.ResetAt = now.Add(delay)
		return d
	}

	d.Allowed = true
	d.Remaining = int(math.Max(0, math.Floor(lim.TokensAt(now))))
	return d
}

func (l *Limiter) every() rate.Limit {
	if l.policy.Requests <= 0 || l.policy.Window <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(l.policy.Requests) / l.policy.Window.Seconds())
}

// Sweep evicts keys idle for longer than the idle TTL and returns how many were removed
func (l *Limiter) Sweep() int {
	cutoff := l.clock.Now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Run sweeps idle keys every minute until ctx is done
func (l *Limiter) Run(ctx context.Context) {
	ticker := l.clock.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := l.Sweep(); n > 0 {
				log.Debug().Str("policy", l.policy.Name).Int("evicted", n).Msg("rate limiter swept idle keys")
			}
		}
	}
}
