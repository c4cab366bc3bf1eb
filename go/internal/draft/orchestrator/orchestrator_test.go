package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu    sync.Mutex
	calls []uuid.UUID
	ch    chan uuid.UUID
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan uuid.UUID, 16)}
}

func (r *recorder) HandlePickTimeout(ctx context.Context, draftID uuid.UUID) error {
	r.mu.Lock()
	r.calls = append(r.calls, draftID)
	r.mu.Unlock()
	r.ch <- draftID
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func start(t *testing.T, o *Orchestrator, h TimeoutHandler) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = o.Run(ctx, h)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func waitFor(t *testing.T, ch <-chan uuid.UUID) uuid.UUID {
	t.Helper()
	select {
	case id := <-ch:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pick timeout")
		return uuid.Nil
	}
}

func TestScheduleFiresAtDeadline(t *testing.T) {
	clock := clockwork.NewFakeClock()
	o := New(clock, 2)
	rec := newRecorder()
	start(t, o, rec)

	draftID := uuid.New()
	o.Schedule(draftID, clock.Now().Add(90*time.Second))
	assert.Equal(t, 1, o.Pending())

	clock.Advance(89 * time.Second)
	assert.Equal(t, 0, rec.count())

	clock.Advance(time.Second)
	assert.Equal(t, draftID, waitFor(t, rec.ch))
	assert.Equal(t, 0, o.Pending())
}

func TestCancelStopsTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	o := New(clock, 1)
	rec := newRecorder()
	start(t, o, rec)

	draftID := uuid.New()
	o.Schedule(draftID, clock.Now().Add(30*time.Second))
	o.Cancel(draftID)
	clock.Advance(time.Minute)

	select {
	case <-rec.ch:
		t.Fatal("cancelled timer fired")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 0, o.Pending())
}

func TestRescheduleReplacesTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	o := New(clock, 1)
	rec := newRecorder()
	start(t, o, rec)

	draftID := uuid.New()
	o.Schedule(draftID, clock.Now().Add(30*time.Second))
	o.Schedule(draftID, clock.Now().Add(60*time.Second))
	assert.Equal(t, 1, o.Pending())

	clock.Advance(30 * time.Second)
	select {
	case <-rec.ch:
		t.Fatal("replaced timer fired")
	case <-time.After(50 * time.Millisecond):
	}

	clock.Advance(30 * time.Second)
	waitFor(t, rec.ch)
	assert.Equal(t, 1, rec.count())
}

func TestPastDeadlineFiresImmediately(t *testing.T) {
	clock := clockwork.NewFakeClock()
	o := New(clock, 1)
	rec := newRecorder()
	start(t, o, rec)

	draftID := uuid.New()
	o.Schedule(draftID, clock.Now().Add(-time.Minute))
	clock.Advance(0)
	assert.Equal(t, draftID, waitFor(t, rec.ch))
}

func TestIndependentDrafts(t *testing.T) {
	clock := clockwork.NewFakeClock()
	o := New(clock, 4)
	rec := newRecorder()
	start(t, o, rec)

	a, b := uuid.New(), uuid.New()
	o.Schedule(a, clock.Now().Add(10*time.Second))
	o.Schedule(b, clock.Now().Add(20*time.Second))

	clock.Advance(10 * time.Second)
	require.Equal(t, a, waitFor(t, rec.ch))
	clock.Advance(10 * time.Second)
	require.Equal(t, b, waitFor(t, rec.ch))
}

func TestRunStopsTimersOnShutdown(t *testing.T) {
	clock := clockwork.NewFakeClock()
	o := New(clock, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = o.Run(ctx, TimeoutHandlerFunc(func(context.Context, uuid.UUID) error { return nil }))
	}()

	o.Schedule(uuid.New(), clock.Now().Add(time.Hour))
	cancel()
	<-done
	assert.Equal(t, 0, o.Pending())
}

type flakyHandler struct {
	mu       sync.Mutex
	failures int
	calls    int
	ch       chan struct{}
}

func (f *flakyHandler) HandlePickTimeout(ctx context.Context, draftID uuid.UUID) error {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()
	f.ch <- struct{}{}
	if fail {
		return errors.New("connection reset")
	}
	return nil
}

func (f *flakyHandler) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func waitCall(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pick timeout")
	}
}

func TestFailedTimeoutIsRetriedWithBackoff(t *testing.T) {
	clock := clockwork.NewFakeClock()
	o := New(clock, 1)
	h := &flakyHandler{failures: 2, ch: make(chan struct{}, 8)}
	start(t, o, h)

	draftID := uuid.New()
	o.Schedule(draftID, clock.Now().Add(30*time.Second))
	clock.Advance(31 * time.Second)
	waitCall(t, h.ch)

	require.Eventually(t, func() bool { return o.Pending() == 1 }, 2*time.Second, 5*time.Millisecond)
	clock.Advance(retryBase)
	waitCall(t, h.ch)

	require.Eventually(t, func() bool { return o.Pending() == 1 }, 2*time.Second, 5*time.Millisecond)
	clock.Advance(retryBase)
	select {
	case <-h.ch:
		t.Fatal("second retry fired before its doubled delay")
	case <-time.After(50 * time.Millisecond):
	}
	clock.Advance(retryBase)
	waitCall(t, h.ch)

	assert.Equal(t, 3, h.count())
	require.Eventually(t, func() bool {
		o.mu.Lock()
		defer o.mu.Unlock()
		return len(o.attempts) == 0
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, o.Pending())
}

func TestRetryBackoffIsCapped(t *testing.T) {
	clock := clockwork.NewFakeClock()
	o := New(clock, 1)
	rec := newRecorder()
	start(t, o, rec)

	draftID := uuid.New()
	o.mu.Lock()
	o.attempts[draftID] = 80
	o.mu.Unlock()
	o.retry(draftID)

	clock.Advance(retryMax - time.Second)
	select {
	case <-rec.ch:
		t.Fatal("retry fired before the capped delay")
	case <-time.After(50 * time.Millisecond):
	}
	clock.Advance(time.Second)
	assert.Equal(t, draftID, waitFor(t, rec.ch))
}

func TestRescheduleSkipsRetry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	o := New(clock, 1)
	draftID := uuid.New()

	o.Schedule(draftID, clock.Now().Add(time.Hour))
	o.retry(draftID)

	o.mu.Lock()
	assert.Zero(t, o.attempts[draftID])
	o.mu.Unlock()
	o.Cancel(draftID)
}
