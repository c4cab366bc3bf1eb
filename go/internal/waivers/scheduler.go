package waivers

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DueProcessor runs the leagues whose waivers are due
type DueProcessor interface {
	ProcessDue(ctx context.Context) error
}

// Scheduler checks for due waiver runs on a fixed interval
type Scheduler struct {
	processor DueProcessor
	clock     clockwork.Clock
	interval  time.Duration
}

// NewScheduler creates a scheduler. interval defaults to one minute.
func NewScheduler(processor DueProcessor, clock clockwork.Clock, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		processor: processor,
		clock:     clock,
		interval:  interval,
	}
}

// Run blocks until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.interval).Msg("waiver scheduler started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("waiver scheduler stopped")
			return
		case <-ticker.Chan():
			if err := s.processor.ProcessDue(ctx); err != nil {
				log.Error().Err(err).Msg("waiver scheduler tick failed")
			}
		}
	}
}
