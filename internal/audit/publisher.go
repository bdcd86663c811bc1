package audit

import (
	"context"
	"log/slog"
)

// Publisher delivers outbox entries to the event stream. Implementations must
// return an error unless every entry was accepted; the relay retries the batch.
type Publisher interface {
	Publish(ctx context.Context, entries []*OutboxEntry) error
}

// LogPublisher writes entries to the structured log. Used when no brokers are
// configured so the outbox still drains.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, entries []*OutboxEntry) error {
	for _, e := range entries {
		p.logger.InfoContext(ctx, string(e.EventType),
			"log_type", "audit",
			"event_id", e.ID.String(),
			"aggregate", e.Key(),
			"payload", string(e.Payload),
		)
	}
	return nil
}
