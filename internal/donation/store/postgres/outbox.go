package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"donorlink/internal/audit"
	txcontext "donorlink/pkg/platform/tx"
)

// OutboxStore persists audit.OutboxEntry rows. Append joins the caller's
// transaction; the relay reads and marks outside of it.
type OutboxStore struct {
	db *sql.DB
}

func NewOutboxStore(db *sql.DB) *OutboxStore {
	return &OutboxStore{db: db}
}

func (s *OutboxStore) Append(ctx context.Context, entry *audit.OutboxEntry) error {
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID.String(),
		entry.AggregateType,
		entry.AggregateID,
		string(entry.EventType),
		string(entry.Payload),
		entry.CreatedAt.UTC(),
	)
	if err != nil {
		return classify(err, "insert outbox entry")
	}
	return nil
}

// ListPending returns unpublished entries oldest first.
func (s *OutboxStore) ListPending(ctx context.Context, limit int) ([]*audit.OutboxEntry, error) {
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at, seq
		LIMIT $1`, limit)
	if err != nil {
		return nil, classify(err, "list pending outbox")
	}
	defer rows.Close()

	var entries []*audit.OutboxEntry
	for rows.Next() {
		var (
			e         audit.OutboxEntry
			rawID     string
			eventType string
		)
		if err := rows.Scan(&rawID, &e.AggregateType, &e.AggregateID, &eventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		parsed, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse outbox id %q: %w", rawID, err)
		}
		e.ID = parsed
		e.EventType = audit.EventType(eventType)
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox: %w", err)
	}
	return entries, nil
}

func (s *OutboxStore) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, v := range ids {
		raw[i] = v.String()
	}
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE outbox SET published_at = $1 WHERE id = ANY($2::uuid[])`, at.UTC(), pq.Array(raw))
	if err != nil {
		return classify(err, "mark outbox published")
	}
	return nil
}
