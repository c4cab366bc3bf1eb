package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// MonitorRepository defines what the monitor needs from the database
type MonitorRepository interface {
	DatabaseStats(ctx context.Context, slowQuery time.Duration, errorsSince, now time.Time) (*Sample, error)
	SaveAlert(ctx context.Context, alert FiredAlert) (*FiredAlert, error)
	RecentAlerts(ctx context.Context, limit int) ([]FiredAlert, error)
}

// APIStats reports request latency and error rate over a trailing window
type APIStats interface {
	APIStats(window time.Duration) (float64, float64)
}

// MonitorOptions configures a Monitor. Zero values take defaults.
type MonitorOptions struct {
	Interval   time.Duration
	WindowSize int
	SlowQuery  time.Duration
	Rules      []Rule
}

// Monitor samples the database and API on an interval, keeps rolling
// averages over the last WindowSize samples, and fires alert rules.
type Monitor struct {
	repo    MonitorRepository
	api     APIStats
	clock   clockwork.Clock
	metrics *Metrics
	opts    MonitorOptions

	mu        sync.RWMutex
	samples   *ring[Sample]
	lastFired map[string]time.Time
	health    Health
}

// NewMonitor creates a monitor. metrics may be nil.
func NewMonitor(repo MonitorRepository, api APIStats, clock clockwork.Clock, metrics *Metrics, opts MonitorOptions) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.WindowSize <= 0 {
		opts.WindowSize = 10
	}
	if opts.SlowQuery <= 0 {
		opts.SlowQuery = time.Second
	}
	if opts.Rules == nil {
		opts.Rules = DefaultRules(Thresholds{MaxConnections: 80, APILatencyMs: 1000, ErrorsPerHour: 50})
	}
	return &Monitor{
		repo:      repo,
		api:       api,
		clock:     clock,
		metrics:   metrics,
		opts:      opts,
		samples:   newRing[Sample](opts.WindowSize),
		lastFired: map[string]time.Time{},
		health:    Health{Status: HealthHealthy, Breaching: []string{}},
	}
}

// Run samples immediately and then every interval until ctx is cancelled
func (m *Monitor) Run(ctx context.Context) {
	log.Info().Dur("interval", m.opts.Interval).Int("window", m.opts.WindowSize).Msg("production monitor started")
	m.tickAndLog(ctx)

	ticker := m.clock.NewTicker(m.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("production monitor stopped")
			return
		case <-ticker.Chan():
			m.tickAndLog(ctx)
		}
	}
}

func (m *Monitor) tickAndLog(ctx context.Context) {
	if err := m.Tick(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("monitor tick failed")
	}
}

// Tick takes one sample, evaluates every rule against the rolling averages,
// persists the alerts that fire and updates health.
func (m *Monitor) Tick(ctx context.Context) error {
	now := m.clock.Now()

	sample, err := m.repo.DatabaseStats(ctx, m.opts.SlowQuery, now.Add(-time.Hour), now)
	if err != nil {
		m.setHealth(Health{Status: HealthUnhealthy, CheckedAt: now, Breaching: []string{}, Error: "database unavailable"})
		return err
	}
	sample.At = now
	if m.api != nil {
		sample.APILatencyMs, sample.APIErrorRate = m.api.APIStats(alertWindow)
	}

	m.mu.Lock()
	m.samples.push(*sample)
	avg := averages(m.samples.all())
	m.mu.Unlock()
	m.metrics.setAverages(avg)

	status := HealthHealthy
	breaching := []string{}
	for _, rule := range m.opts.Rules {
		v := avg[string(rule.Metric)]
		if !rule.breached(v) {
			continue
		}
		breaching = append(breaching, rule.Name)
		status = worse(status, rule.Severity)
		if m.cooling(rule, now) {
			continue
		}
		m.fire(ctx, rule, v, now)
	}

	m.setHealth(Health{Status: status, CheckedAt: now, Breaching: breaching})
	return nil
}

func (m *Monitor) cooling(rule Rule, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.lastFired[rule.Name]
	if ok && now.Sub(last) < rule.Cooldown {
		return true
	}
	m.lastFired[rule.Name] = now
	return false
}

func (m *Monitor) fire(ctx context.Context, rule Rule, v float64, now time.Time) {
	alert := FiredAlert{
		Rule:      rule.Name,
		Component: rule.component(),
		Severity:  rule.Severity,
		Message:   rule.message(v),
		Value:     round2(v),
		Threshold: rule.Threshold,
		FiredAt:   now,
	}
	m.metrics.alertRaised(alert.Component, alert.Severity)
	log.Warn().
		Str("rule", rule.Name).
		Str("severity", string(rule.Severity)).
		Float64("value", alert.Value).
		Float64("threshold", rule.Threshold).
		Msg("monitor alert fired")

	if _, err := m.repo.SaveAlert(ctx, alert); err != nil {
		log.Error().Err(err).Str("rule", rule.Name).Msg("failed to persist monitor alert")
	}
}

func (m *Monitor) setHealth(h Health) {
	m.mu.Lock()
	m.health = h
	m.mu.Unlock()
	m.metrics.setHealth(h.Status)
}

// Health returns the verdict of the latest tick
func (m *Monitor) Health() Health {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h := m.health
	h.Breaching = append([]string{}, h.Breaching...)
	return h
}

// Dashboard returns the current sample, rolling averages, rules and the
// most recent persisted alerts.
func (m *Monitor) Dashboard(ctx context.Context) (*Dashboard, error) {
	alerts, err := m.repo.RecentAlerts(ctx, dashboardAlerts)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	samples := m.samples.all()
	m.mu.RUnlock()

	d := &Dashboard{
		Health:       m.Health(),
		Averages:     averages(samples),
		Samples:      len(samples),
		Rules:        m.opts.Rules,
		RecentAlerts: alerts,
	}
	if len(samples) > 0 {
		cur := samples[len(samples)-1]
		d.Current = &cur
	}
	return d, nil
}

// averages returns the mean of each metric over samples
func averages(samples []Sample) map[string]float64 {
	out := make(map[string]float64, len(allMetrics))
	for _, metric := range allMetrics {
		var sum float64
		for _, s := range samples {
			sum += s.value(metric)
		}
		var avg float64
		if len(samples) > 0 {
			avg = sum / float64(len(samples))
		}
		out[string(metric)] = avg
	}
	return out
}

// worse folds a breaching rule's severity into the health status. Critical
// breaches make the service unhealthy; anything else degrades it.
func worse(cur HealthStatus, sev Level) HealthStatus {
	if cur == HealthUnhealthy || sev == LevelCritical {
		return HealthUnhealthy
	}
	return HealthDegraded
}
