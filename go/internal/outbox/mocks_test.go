package outbox

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/events"
	"github.com/mcdev12/gridiron/go/internal/outbox/db"
	"github.com/stretchr/testify/mock"
)

// memStore is an in-memory outbox table
type memStore struct {
	mu       sync.Mutex
	order    []uuid.UUID
	rows     map[uuid.UUID]events.Event
	sent     map[uuid.UUID]time.Time
	countErr error
}

func newMemStore(evs ...events.Event) *memStore {
	s := &memStore{rows: map[uuid.UUID]events.Event{}, sent: map[uuid.UUID]time.Time{}}
	for _, ev := range evs {
		s.add(ev)
	}
	return s
}

func (s *memStore) add(ev events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, ev.ID)
	s.rows[ev.ID] = ev
}

func (s *memStore) FetchUnsent(_ context.Context, limit int) ([]events.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []events.Event
	for _, id := range s.order {
		if _, done := s.sent[id]; done {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, s.rows[id])
	}
	return out, nil
}

func (s *memStore) FetchByID(_ context.Context, id uuid.UUID) (*events.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.rows[id]
	if _, done := s.sent[id]; !ok || done {
		return nil, apperr.ErrNotFound
	}
	return &ev, nil
}

func (s *memStore) MarkSent(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[id] = at
	return nil
}

func (s *memStore) CountPending(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.rows) - len(s.sent), nil
}

func (s *memStore) isSent(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sent[id]
	return ok
}

// flakyPublisher fails the first failures calls and records the rest
type flakyPublisher struct {
	mu        sync.Mutex
	failures  int
	attempts  int
	published []events.Event
}

var errBrokerDown = errors.New("broker down")

func (p *flakyPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attempts++
	if p.failures > 0 {
		p.failures--
		return errBrokerDown
	}
	p.published = append(p.published, ev)
	return nil
}

func (p *flakyPublisher) sentIDs() []uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]uuid.UUID, len(p.published))
	for i, ev := range p.published {
		ids[i] = ev.ID
	}
	return ids
}

func (p *flakyPublisher) attemptCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts
}

type chanNotifier struct {
	ch chan *pq.Notification
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{ch: make(chan *pq.Notification, 4)}
}

func (n *chanNotifier) Notify() <-chan *pq.Notification { return n.ch }
func (n *chanNotifier) Ping() error                     { return nil }
func (n *chanNotifier) Close() error                    { return nil }

// mockQuerier stubs Querier methods for repository tests
type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) InsertOutboxEvent(ctx context.Context, arg db.InsertOutboxEventParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockQuerier) FetchUnsentOutbox(ctx context.Context, limit int32) ([]db.EventOutbox, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]db.EventOutbox), args.Error(1)
}

func (m *mockQuerier) FetchOutboxByID(ctx context.Context, id uuid.UUID) (db.EventOutbox, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.EventOutbox), args.Error(1)
}

func (m *mockQuerier) MarkOutboxSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	return m.Called(ctx, id, sentAt).Error(0)
}

func (m *mockQuerier) CountPendingOutbox(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
