package trades

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Expirer closes pending trades past their window
type Expirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

// Sweeper expires stale trades on a fixed interval so their status is
// accurate without waiting for someone to respond
type Sweeper struct {
	expirer  Expirer
	clock    clockwork.Clock
	interval time.Duration
}

// NewSweeper creates a sweeper. interval defaults to five minutes.
func NewSweeper(expirer Expirer, clock clockwork.Clock, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{
		expirer:  expirer,
		clock:    clock,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if _, err := s.expirer.ExpireStale(ctx); err != nil {
				log.Error().Err(err).Msg("trade sweep failed")
			}
		}
	}
}
