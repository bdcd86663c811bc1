package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryOutbox struct {
	mu        sync.Mutex
	entries   []*OutboxEntry
	published map[uuid.UUID]time.Time
	listErr   error
}

func newMemoryOutbox(entries ...*OutboxEntry) *memoryOutbox {
	return &memoryOutbox{entries: entries, published: make(map[uuid.UUID]time.Time)}
}

func (m *memoryOutbox) ListPending(_ context.Context, limit int) ([]*OutboxEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var pending []*OutboxEntry
	for _, e := range m.entries {
		if _, done := m.published[e.ID]; done {
			continue
		}
		pending = append(pending, e)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (m *memoryOutbox) MarkPublished(_ context.Context, ids []uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range ids {
		m.published[v] = at
	}
	return nil
}

type stubPublisher struct {
	mu      sync.Mutex
	batches [][]*OutboxEntry
	err     error
}

func (p *stubPublisher) Publish(_ context.Context, entries []*OutboxEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.batches = append(p.batches, entries)
	return nil
}

func (p *stubPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.batches {
		n += len(b)
	}
	return n
}

func entries(t *testing.T, n int) []*OutboxEntry {
	t.Helper()
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	out := make([]*OutboxEntry, n)
	for i := range out {
		e, err := NewOutboxEntry(EventDonationRecorded, AggregateDonor, "7", map[string]int{"seq": i}, now)
		require.NoError(t, err)
		out[i] = e
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRelayDrain(t *testing.T) {
	t.Run("publishes in batches until empty", func(t *testing.T) {
		store := newMemoryOutbox(entries(t, 5)...)
		publisher := &stubPublisher{}
		relay := NewRelay(store, publisher, WithBatchSize(2), WithRelayLogger(quietLogger()))

		n, err := relay.Drain(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 5, n)
		require.Len(t, publisher.batches, 3)
		assert.Len(t, publisher.batches[0], 2)
		assert.Len(t, publisher.batches[2], 1)
		assert.Len(t, store.published, 5)
	})

	t.Run("empty outbox publishes nothing", func(t *testing.T) {
		publisher := &stubPublisher{}
		n, err := NewRelay(newMemoryOutbox(), publisher).Drain(context.Background())

		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, publisher.batches)
	})

	t.Run("publish failure leaves entries pending", func(t *testing.T) {
		store := newMemoryOutbox(entries(t, 3)...)
		publisher := &stubPublisher{err: errors.New("broker down")}

		n, err := NewRelay(store, publisher).Drain(context.Background())

		require.Error(t, err)
		assert.Zero(t, n)
		assert.Empty(t, store.published)

		publisher.err = nil
		n, err = NewRelay(store, publisher).Drain(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		store := newMemoryOutbox()
		store.listErr = errors.New("db gone")

		_, err := NewRelay(store, &stubPublisher{}).Drain(context.Background())

		assert.ErrorContains(t, err, "db gone")
	})
}

func TestRelayRun(t *testing.T) {
	store := newMemoryOutbox(entries(t, 2)...)
	publisher := &stubPublisher{}
	relay := NewRelay(store, publisher, WithPollInterval(5*time.Millisecond), WithRelayLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	require.Eventually(t, func() bool { return publisher.count() == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestOutboxEntry(t *testing.T) {
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	e, err := NewOutboxEntry(EventReceiverCancelled, AggregateReceiver, "12", map[string]string{"status": "cancelled"}, now)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, "receiver:12", e.Key())
	assert.JSONEq(t, `{"status":"cancelled"}`, string(e.Payload))
	assert.Nil(t, e.PublishedAt)

	_, err = NewOutboxEntry(EventReceiverCancelled, AggregateReceiver, "12", make(chan int), now)
	assert.Error(t, err)
}
