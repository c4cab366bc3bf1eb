package waivers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingProcessor struct {
	calls atomic.Int32
}

func (c *countingProcessor) ProcessDue(ctx context.Context) error {
	c.calls.Add(1)
	return nil
}

func TestSchedulerTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	proc := &countingProcessor{}
	s := NewScheduler(proc, clock, 5*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(5 * time.Minute)
	assert.Eventually(t, func() bool { return proc.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	clock.Advance(4 * time.Minute)
	assert.Never(t, func() bool { return proc.calls.Load() > 1 }, 50*time.Millisecond, 5*time.Millisecond)

	clock.Advance(time.Minute)
	assert.Eventually(t, func() bool { return proc.calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestSchedulerDefaultInterval(t *testing.T) {
	s := NewScheduler(&countingProcessor{}, clockwork.NewFakeClock(), 0)
	assert.Equal(t, time.Minute, s.interval)
}
