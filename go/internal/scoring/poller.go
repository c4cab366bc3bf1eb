package scoring

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/rs/zerolog/log"
)

// Updater refreshes scores from the stats feed
type Updater interface {
	UpdateScores(ctx context.Context) (*PollResult, error)
}

// Poller refreshes live scores on a fixed interval
type Poller struct {
	updater  Updater
	clock    clockwork.Clock
	interval time.Duration
}

// NewPoller creates a poller. interval defaults to one minute.
func NewPoller(updater Updater, clock clockwork.Clock, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Poller{
		updater:  updater,
		clock:    clock,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled
func (p *Poller) Run(ctx context.Context) {
	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			_, err := p.updater.UpdateScores(ctx)
			switch {
			case errors.Is(err, apperr.ErrConflict):
				log.Debug().Msg("score update still running, skipping tick")
			case err != nil:
				log.Error().Err(err).Msg("score update failed")
			}
		}
	}
}
