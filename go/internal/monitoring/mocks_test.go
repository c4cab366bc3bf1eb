package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/mcdev12/gridiron/go/internal/monitoring/db"
	"github.com/stretchr/testify/mock"
)

// fakeRepo returns queued samples and keeps saved alerts in memory
type fakeRepo struct {
	mu      sync.Mutex
	samples []Sample
	err     error
	saved   []FiredAlert
	calls   int
}

func (f *fakeRepo) DatabaseStats(ctx context.Context, slowQuery time.Duration, errorsSince, now time.Time) (*Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var s Sample
	if len(f.samples) > 0 {
		s = f.samples[0]
		if len(f.samples) > 1 {
			f.samples = f.samples[1:]
		}
	}
	return &s, nil
}

func (f *fakeRepo) SaveAlert(ctx context.Context, alert FiredAlert) (*FiredAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	alert.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, alert)
	return &alert, nil
}

func (f *fakeRepo) RecentAlerts(ctx context.Context, limit int) ([]FiredAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []FiredAlert{}
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.saved[i])
	}
	return out, nil
}

func (f *fakeRepo) tickCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fixedAPI struct {
	latency, errorRate float64
}

func (f fixedAPI) APIStats(time.Duration) (float64, float64) {
	return f.latency, f.errorRate
}

// mockQuerier stubs Querier methods for repository tests
type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) GetDatabaseStats(ctx context.Context, arg db.GetDatabaseStatsParams) (db.DatabaseStats, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.DatabaseStats), args.Error(1)
}

func (m *mockQuerier) CreateAlert(ctx context.Context, arg db.CreateAlertParams) (db.MonitoringAlert, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.MonitoringAlert), args.Error(1)
}

func (m *mockQuerier) ListRecentAlerts(ctx context.Context, limit int32) ([]db.MonitoringAlert, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]db.MonitoringAlert), args.Error(1)
}

func (m *mockQuerier) CreateErrorLog(ctx context.Context, arg db.CreateErrorLogParams) error {
	return m.Called(ctx, arg).Error(0)
}

type recordingErrorLog struct {
	mu      sync.Mutex
	entries []string
}

func (r *recordingErrorLog) LogError(ctx context.Context, component, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, component+": "+message)
	return nil
}
