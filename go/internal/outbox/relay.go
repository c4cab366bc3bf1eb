package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/events"
	"github.com/rs/zerolog/log"
)

// NotifyChannel is the channel the event_outbox insert trigger notifies
const NotifyChannel = "event_outbox_channel"

type RelayConfig struct {
	FallbackInterval time.Duration // how often to poll for missed events
	PingInterval     time.Duration
	MaxRetries       int
	RetryDelay       time.Duration // grows linearly per attempt
	BatchSize        int
}

func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		FallbackInterval: 30 * time.Second,
		PingInterval:     90 * time.Second,
		MaxRetries:       5,
		RetryDelay:       200 * time.Millisecond,
		BatchSize:        100,
	}
}

// Store is what the relay needs from the outbox table
type Store interface {
	FetchUnsent(ctx context.Context, limit int) ([]events.Event, error)
	FetchByID(ctx context.Context, id uuid.UUID) (*events.Event, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	CountPending(ctx context.Context) (int, error)
}

// Notifier delivers LISTEN notifications. A nil notification means the
// connection was re-established and notifications may have been missed.
type Notifier interface {
	Notify() <-chan *pq.Notification
	Ping() error
	Close() error
}

// PGNotifier listens on a Postgres channel with pq.Listener
type PGNotifier struct {
	l *pq.Listener
}

func NewPGNotifier(dsn, channel string) (*PGNotifier, error) {
	l := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Error().Err(err).Msg("listener event")
		}
	})
	if err := l.Listen(channel); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}
	log.Info().Str("channel", channel).Msg("listening for notifications")
	return &PGNotifier{l: l}, nil
}

func (n *PGNotifier) Notify() <-chan *pq.Notification { return n.l.Notify }
func (n *PGNotifier) Ping() error                     { return n.l.Ping() }
func (n *PGNotifier) Close() error                    { return n.l.Close() }

// Relay moves outbox rows to the broker. It wakes on notifications and
// sweeps for missed rows on a fallback interval.
type Relay struct {
	store     Store
	notifier  Notifier
	publisher events.Publisher
	clock     clockwork.Clock
	metrics   *Metrics
	cfg       RelayConfig

	mu          sync.Mutex
	running     bool
	processed   uint64
	failed      uint64
	lastEventAt time.Time
}

// NewRelay creates a relay. metrics may be nil.
func NewRelay(store Store, notifier Notifier, publisher events.Publisher, clock clockwork.Clock, metrics *Metrics, cfg RelayConfig) *Relay {
	def := DefaultRelayConfig()
	if cfg.FallbackInterval <= 0 {
		cfg.FallbackInterval = def.FallbackInterval
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Relay{
		store:     store,
		notifier:  notifier,
		publisher: publisher,
		clock:     clock,
		metrics:   metrics,
		cfg:       cfg,
	}
}

// Run relays events until ctx is cancelled. Rows left unsent by a previous
// run are swept first.
func (r *Relay) Run(ctx context.Context) error {
	r.setRunning(true)
	defer r.setRunning(false)

	log.Info().
		Dur("ping_interval", r.cfg.PingInterval).
		Dur("fallback_interval", r.cfg.FallbackInterval).
		Msg("outbox relay started")

	r.sweep(ctx)

	pingTicker := r.clock.NewTicker(r.cfg.PingInterval)
	fallbackTicker := r.clock.NewTicker(r.cfg.FallbackInterval)
	defer pingTicker.Stop()
	defer fallbackTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("outbox relay shutting down")
			return r.notifier.Close()
		case note := <-r.notifier.Notify():
			if note == nil {
				log.Warn().Msg("listener reconnected, sweeping outbox")
				r.sweep(ctx)
				continue
			}
			if err := r.handleNotification(ctx, note.Extra); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("failed to handle notification")
			}
		case <-fallbackTicker.Chan():
			r.sweep(ctx)
		case <-pingTicker.Chan():
			if err := r.notifier.Ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping listener")
			}
		}
	}
}

// handleNotification relays the row named by a notification payload
func (r *Relay) handleNotification(ctx context.Context, extra string) error {
	id, err := uuid.Parse(extra)
	if err != nil {
		return fmt.Errorf("invalid event ID in notification: %w", err)
	}

	ev, err := r.store.FetchByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		log.Debug().Str("event_id", id.String()).Msg("outbox event already sent")
		return nil
	}
	if err != nil {
		return err
	}
	return r.relay(ctx, *ev)
}

// sweep relays every unsent row, one batch at a time
func (r *Relay) sweep(ctx context.Context) {
	pending, err := r.store.CountPending(ctx)
	if err == nil {
		r.metrics.setPending(pending)
	}

	unsent, err := r.store.FetchUnsent(ctx, r.cfg.BatchSize)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Msg("failed to fetch unsent outbox events")
		}
		return
	}
	for _, ev := range unsent {
		if err := r.relay(ctx, ev); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Str("event_id", ev.ID.String()).Msg("failed to relay event")
		}
	}
}

func (r *Relay) relay(ctx context.Context, ev events.Event) error {
	start := r.clock.Now()
	if err := r.publishWithRetry(ctx, ev); err != nil {
		r.record(ev, false, r.clock.Since(start))
		return err
	}
	if err := r.store.MarkSent(ctx, ev.ID, r.clock.Now()); err != nil {
		r.record(ev, false, r.clock.Since(start))
		return err
	}
	r.record(ev, true, r.clock.Since(start))
	log.Debug().Str("event_id", ev.ID.String()).Str("event_type", string(ev.Type)).Msg("relayed outbox event")
	return nil
}

// publishWithRetry publishes ev, waiting RetryDelay*attempt between tries
func (r *Relay) publishWithRetry(ctx context.Context, ev events.Event) error {
	var lastErr error
	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-r.clock.After(r.cfg.RetryDelay * time.Duration(attempt)):
			}
		}

		if err := r.publisher.Publish(ctx, ev); err != nil {
			lastErr = err
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("event_id", ev.ID.String()).
				Msg("failed to publish, retrying")
			continue
		}
		if attempt > 0 {
			log.Info().Int("attempt", attempt+1).Str("event_id", ev.ID.String()).Msg("publish succeeded after retry")
		}
		return nil
	}
	return fmt.Errorf("publish failed after %d attempts: %w", r.cfg.MaxRetries+1, lastErr)
}

func (r *Relay) record(ev events.Event, ok bool, d time.Duration) {
	r.metrics.eventRelayed(string(ev.Type), ok, d)
	r.mu.Lock()
	defer r.mu.Unlock()
	if ok {
		r.processed++
		r.lastEventAt = r.clock.Now()
	} else {
		r.failed++
	}
}

func (r *Relay) setRunning(v bool) {
	r.mu.Lock()
	r.running = v
	r.mu.Unlock()
}

// RelayStats is a point-in-time view of relay progress
type RelayStats struct {
	Running     bool
	Processed   uint64
	Failed      uint64
	LastEventAt time.Time
}

func (r *Relay) Stats() RelayStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RelayStats{
		Running:     r.running,
		Processed:   r.processed,
		Failed:      r.failed,
		LastEventAt: r.lastEventAt,
	}
}
