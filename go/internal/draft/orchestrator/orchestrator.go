// Package orchestrator runs draft pick clocks. Each in-progress draft has one
// clockwork timer for its current pick; when it fires the draft is handed to a
// worker pool that makes the auto-pick.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	defaultWorkers = 10

	// a failed or dropped timeout is retried after retryBase, doubling up to retryMax
	retryBase = 5 * time.Second
	retryMax  = time.Minute
)

// TimeoutHandler is called by a worker when a draft's pick clock expires
type TimeoutHandler interface {
	HandlePickTimeout(ctx context.Context, draftID uuid.UUID) error
}

// TimeoutHandlerFunc adapts a function to TimeoutHandler
type TimeoutHandlerFunc func(ctx context.Context, draftID uuid.UUID) error

func (f TimeoutHandlerFunc) HandlePickTimeout(ctx context.Context, draftID uuid.UUID) error {
	return f(ctx, draftID)
}

type scheduled struct {
	timer clockwork.Timer
	gen   uint64
}

type Orchestrator struct {
	clock      clockwork.Clock
	numWorkers int
	workCh     chan uuid.UUID
	instanceID string

	mu       sync.Mutex
	timers   map[uuid.UUID]scheduled
	gen      uint64
	attempts map[uuid.UUID]int

	// drafts queued or being handled, so a draft is never auto-picked twice at once
	inFlight   map[uuid.UUID]bool
	inFlightMu sync.Mutex
}

// New creates an orchestrator. numWorkers <= 0 uses the default pool size.
func New(clock clockwork.Clock, numWorkers int) *Orchestrator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Orchestrator{
		clock:      clock,
		numWorkers: numWorkers,
		workCh:     make(chan uuid.UUID, numWorkers*2),
		instanceID: uuid.New().String()[:8],
		timers:     make(map[uuid.UUID]scheduled),
		attempts:   make(map[uuid.UUID]int),
		inFlight:   make(map[uuid.UUID]bool),
	}
}

// Schedule arms the draft's pick clock to fire at deadline, replacing any
// timer already running for it. A deadline in the past fires immediately.
func (o *Orchestrator) Schedule(draftID uuid.UUID, deadline time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.attempts, draftID)
	o.armLocked(draftID, deadline)
}

func (o *Orchestrator) armLocked(draftID uuid.UUID, deadline time.Time) {
	d := deadline.Sub(o.clock.Now())
	if d < 0 {
		d = 0
	}

	if existing, ok := o.timers[draftID]; ok {
		existing.timer.Stop()
	}
	o.gen++
	gen := o.gen
	timer := o.clock.AfterFunc(d, func() { o.fire(draftID, gen) })
	o.timers[draftID] = scheduled{timer: timer, gen: gen}

	log.Debug().
		Str("draft_id", draftID.String()).
		Time("deadline", deadline).
		Dur("duration", d).
		Msg("scheduled pick timer")
}

// retry re-arms a draft whose timeout could not be handled, unless a newer
// timer was scheduled in the meantime
func (o *Orchestrator) retry(draftID uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.timers[draftID]; ok {
		return
	}
	o.attempts[draftID]++
	delay := retryBase << (o.attempts[draftID] - 1)
	if delay > retryMax || delay <= 0 {
		delay = retryMax
	}
	log.Warn().
		Str("draft_id", draftID.String()).
		Int("attempt", o.attempts[draftID]).
		Dur("delay", delay).
		Msg("retrying pick timeout")
	o.armLocked(draftID, o.clock.Now().Add(delay))
}

func (o *Orchestrator) succeeded(draftID uuid.UUID) {
	o.mu.Lock()
	delete(o.attempts, draftID)
	o.mu.Unlock()
}

// Cancel stops the draft's pick clock if one is running
func (o *Orchestrator) Cancel(draftID uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if existing, ok := o.timers[draftID]; ok {
		existing.timer.Stop()
		delete(o.timers, draftID)
		log.Debug().Str("draft_id", draftID.String()).Msg("cancelled pick timer")
	}
	delete(o.attempts, draftID)
}

// Pending reports how many drafts have a running pick clock
func (o *Orchestrator) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.timers)
}

func (o *Orchestrator) fire(draftID uuid.UUID, gen uint64) {
	o.mu.Lock()
	current, ok := o.timers[draftID]
	if !ok || current.gen != gen {
		// replaced or cancelled after the timer fired
		o.mu.Unlock()
		return
	}
	delete(o.timers, draftID)
	o.mu.Unlock()

	o.inFlightMu.Lock()
	if o.inFlight[draftID] {
		o.inFlightMu.Unlock()
		log.Debug().Str("draft_id", draftID.String()).Msg("skipping draft already in flight")
		return
	}
	o.inFlight[draftID] = true
	o.inFlightMu.Unlock()

	select {
	case o.workCh <- draftID:
		log.Debug().Str("draft_id", draftID.String()).Msg("timer fired - enqueued for processing")
	default:
		o.done(draftID)
		log.Warn().Str("draft_id", draftID.String()).Msg("timer fired but work channel full")
		o.retry(draftID)
	}
}

func (o *Orchestrator) done(draftID uuid.UUID) {
	o.inFlightMu.Lock()
	delete(o.inFlight, draftID)
	o.inFlightMu.Unlock()
}

// Run starts the worker pool and blocks until ctx is cancelled. Running
// timers are stopped on the way out.
func (o *Orchestrator) Run(ctx context.Context, handler TimeoutHandler) error {
	log.Info().Str("instance", o.instanceID).Int("workers", o.numWorkers).Msg("pick clock started")

	var wg sync.WaitGroup
	for i := 0; i < o.numWorkers; i++ {
		wg.Add(1)
		go o.worker(ctx, &wg, i, handler)
	}

	<-ctx.Done()

	o.mu.Lock()
	for draftID, s := range o.timers {
		s.timer.Stop()
		delete(o.timers, draftID)
	}
	clear(o.attempts)
	o.mu.Unlock()

	wg.Wait()
	log.Info().Str("instance", o.instanceID).Msg("all workers shut down")
	return nil
}

func (o *Orchestrator) worker(ctx context.Context, wg *sync.WaitGroup, workerID int, handler TimeoutHandler) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case draftID := <-o.workCh:
			log.Info().
				Str("draft_id", draftID.String()).
				Str("instance", o.instanceID).
				Int("worker_id", workerID).
				Msg("worker handling timeout")

			err := handler.HandlePickTimeout(ctx, draftID)
			o.done(draftID)
			switch {
			case err == nil:
				o.succeeded(draftID)
			case ctx.Err() != nil:
				return
			default:
				log.Error().
					Err(err).
					Str("draft_id", draftID.String()).
					Str("instance", o.instanceID).
					Int("worker_id", workerID).
					Msg("worker timeout handling failed")
				o.retry(draftID)
			}
		}
	}
}
