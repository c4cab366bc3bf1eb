package monitoring

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/rs/zerolog/log"
)

// Collector keeps the most recent request samples in memory and raises
// alerts on memory pressure and error rate.
type Collector struct {
	clock   clockwork.Clock
	metrics *Metrics
	started time.Time

	mu            sync.Mutex
	requests      *ring[point]
	responseTimes *ring[point]
	errors        *ring[point]
	alerts        *ring[Alert]

	memory    func() MemoryStats
	webSocket func() WebSocketStats
}

// NewCollector creates a collector. metrics may be nil.
func NewCollector(clock clockwork.Clock, metrics *Metrics) *Collector {
	return &Collector{
		clock:         clock,
		metrics:       metrics,
		started:       clock.Now(),
		requests:      newRing[point](maxPoints),
		responseTimes: newRing[point](maxPoints),
		errors:        newRing[point](maxPoints),
		alerts:        newRing[Alert](maxAlerts),
		memory:        runtimeMemory,
	}
}

// SetWebSocketStats sets the source of realtime hub figures
func (c *Collector) SetWebSocketStats(fn func() WebSocketStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.webSocket = fn
}

// RecordRequest stores one finished request. Responses with a 5xx status
// count as errors.
func (c *Collector) RecordRequest(method, route string, status int, d time.Duration) {
	now := c.clock.Now()
	ms := float64(d) / float64(time.Millisecond)

	c.mu.Lock()
	c.requests.push(point{at: now, value: 1})
	c.responseTimes.push(point{at: now, value: ms})
	if status >= 500 {
		c.errors.push(point{at: now, value: 1})
	}
	c.mu.Unlock()

	c.metrics.observeRequest(method, route, status, d)
}

// APIStats returns the average response time in milliseconds and the error
// rate as a fraction over the trailing window.
func (c *Collector) APIStats(window time.Duration) (float64, float64) {
	cutoff := c.clock.Now().Add(-window)
	c.mu.Lock()
	defer c.mu.Unlock()

	times := since(c.responseTimes.all(), cutoff)
	requests := len(since(c.requests.all(), cutoff))
	errs := len(since(c.errors.all(), cutoff))

	var avg float64
	if len(times) > 0 {
		var sum float64
		for _, p := range times {
			sum += p.value
		}
		avg = sum / float64(len(times))
	}
	var rate float64
	if requests > 0 {
		rate = float64(errs) / float64(requests)
	}
	return avg, rate
}

// CheckAlerts raises alerts for heap usage above 80% and 90%, and for an
// error rate above 5% and 10% over the last five minutes.
func (c *Collector) CheckAlerts() {
	now := c.clock.Now()

	mem := c.memory()
	if mem.Total > 0 {
		usage := float64(mem.Used) / float64(mem.Total) * 100
		switch {
		case usage > 90:
			c.addAlert(Alert{Level: LevelCritical, Message: "High memory usage detected", Component: "system", Value: round2(usage), Threshold: 90, Timestamp: now})
		case usage > 80:
			c.addAlert(Alert{Level: LevelWarning, Message: "Elevated memory usage", Component: "system", Value: round2(usage), Threshold: 80, Timestamp: now})
		}
	}

	_, rate := c.APIStats(alertWindow)
	pct := rate * 100
	switch {
	case pct > 10:
		c.addAlert(Alert{Level: LevelError, Message: "High error rate detected", Component: "api", Value: round2(pct), Threshold: 10, Timestamp: now})
	case pct > 5:
		c.addAlert(Alert{Level: LevelWarning, Message: "Elevated error rate", Component: "api", Value: round2(pct), Threshold: 5, Timestamp: now})
	}
}

func (c *Collector) addAlert(a Alert) {
	c.mu.Lock()
	c.alerts.push(a)
	c.mu.Unlock()

	c.metrics.alertRaised(a.Component, a.Level)
	log.Warn().
		Str("level", string(a.Level)).
		Str("component", a.Component).
		Float64("value", a.Value).
		Float64("threshold", a.Threshold).
		Msg(a.Message)
}

// Run checks alerts every interval until ctx is cancelled
func (c *Collector) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := c.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			c.CheckAlerts()
		}
	}
}

// Snapshot summarizes the samples recorded within rng, such as 15m, 1h or 1d.
// An empty rng means one hour.
func (c *Collector) Snapshot(rng string) (*MetricsReport, error) {
	if rng == "" {
		rng = defaultRange
	}
	window, err := ParseRange(rng)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	cutoff := now.Add(-window)

	c.mu.Lock()
	requests := len(since(c.requests.all(), cutoff))
	failed := len(since(c.errors.all(), cutoff))
	recent := since(c.responseTimes.all(), cutoff)
	alerts := c.alerts.last(alertsShown)
	wsFn := c.webSocket
	c.mu.Unlock()

	times := make([]float64, len(recent))
	var sum float64
	for i, p := range recent {
		times[i] = p.value
		sum += p.value
	}
	sort.Float64s(times)
	var avg float64
	if len(times) > 0 {
		avg = sum / float64(len(times))
	}

	var ws WebSocketStats
	if wsFn != nil {
		ws = wsFn()
	}

	mem := c.memory()
	var usage float64
	if mem.Total > 0 {
		usage = round2(float64(mem.Used) / float64(mem.Total) * 100)
	}
	var free uint64
	if mem.Total > mem.Used {
		free = mem.Total - mem.Used
	}

	return &MetricsReport{
		Timestamp: now,
		Interval:  rng,
		Service: ServiceInfo{
			Name:      serviceName,
			Uptime:    now.Sub(c.started).Seconds(),
			StartTime: c.started,
		},
		Requests: RequestMetrics{
			Total:               requests,
			Successful:          requests - failed,
			Failed:              failed,
			Rate:                round2(float64(requests) / window.Seconds()),
			AverageResponseTime: round2(avg),
			Percentiles:         percentiles(times),
		},
		WebSocket: ws,
		System: SystemMetrics{
			Memory:     MemoryMetrics{Used: mem.Used, Free: free, Total: mem.Total, Usage: usage},
			Goroutines: runtime.NumGoroutine(),
		},
		Alerts: alerts,
	}, nil
}

// ParseRange parses a positive count of minutes, hours or days such as 15m,
// 1h or 1d.
func ParseRange(rng string) (time.Duration, error) {
	invalid := apperr.Field("range", fmt.Sprintf("must look like 15m, 1h or 1d, got %q", rng))
	if len(rng) < 2 {
		return 0, invalid
	}
	n, err := strconv.Atoi(rng[:len(rng)-1])
	if err != nil || n <= 0 {
		return 0, invalid
	}
	var unit time.Duration
	switch rng[len(rng)-1] {
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	default:
		return 0, invalid
	}
	return time.Duration(n) * unit, nil
}

// percentiles picks values from sorted with the ceiling-index method
func percentiles(sorted []float64) Percentiles {
	if len(sorted) == 0 {
		return Percentiles{}
	}
	at := func(p float64) float64 {
		i := int(math.Ceil(p/100*float64(len(sorted)))) - 1
		i = max(0, min(i, len(sorted)-1))
		return round2(sorted[i])
	}
	return Percentiles{P50: at(50), P90: at(90), P95: at(95), P99: at(99)}
}

func since(points []point, cutoff time.Time) []point {
	i := sort.Search(len(points), func(i int) bool { return !points[i].at.Before(cutoff) })
	return points[i:]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func runtimeMemory() MemoryStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return MemoryStats{Used: ms.HeapAlloc, Total: ms.HeapSys}
}
