package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	defaultPollInterval = time.Second
	defaultBatchSize    = 100
)

// OutboxStore is the relay's view of the outbox table.
type OutboxStore interface {
	ListPending(ctx context.Context, limit int) ([]*OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// Relay drains the outbox into a Publisher. Delivery is at-least-once: a crash
// between Publish and MarkPublished re-sends the batch.
type Relay struct {
	store     OutboxStore
	publisher Publisher
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

type RelayOption func(*Relay)

func WithPollInterval(d time.Duration) RelayOption {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) RelayOption {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithRelayLogger(logger *slog.Logger) RelayOption {
	return func(r *Relay) {
		r.logger = logger
	}
}

func NewRelay(store OutboxStore, publisher Publisher, opts ...RelayOption) *Relay {
	r := &Relay{
		store:     store,
		publisher: publisher,
		logger:    slog.Default(),
		interval:  defaultPollInterval,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run polls until ctx is cancelled. Batch failures are logged and retried on
// the next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.Drain(ctx); err != nil && ctx.Err() == nil {
				r.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
			}
		}
	}
}

// Drain publishes pending entries until the outbox is empty and returns how
// many were published.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	published := 0
	for {
		entries, err := r.store.ListPending(ctx, r.batchSize)
		if err != nil {
			return published, err
		}
		if len(entries) == 0 {
			return published, nil
		}
		if err := r.publisher.Publish(ctx, entries); err != nil {
			return published, err
		}
		ids := make([]uuid.UUID, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		if err := r.store.MarkPublished(ctx, ids, time.Now().UTC()); err != nil {
			return published, err
		}
		published += len(entries)
		if len(entries) < r.batchSize {
			return published, nil
		}
	}
}
