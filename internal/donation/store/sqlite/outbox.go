package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

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
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID.String(),
		entry.AggregateType,
		entry.AggregateID,
		string(entry.EventType),
		entry.Payload,
		toMillis(entry.CreatedAt),
	)
	if err != nil {
		return classify(err, "insert outbox entry")
	}
	return nil
}

func (s *OutboxStore) ListPending(ctx context.Context, limit int) ([]*audit.OutboxEntry, error) {
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at, rowid
		LIMIT ?`, limit)
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
			createdAt int64
		)
		if err := rows.Scan(&rawID, &e.AggregateType, &e.AggregateID, &eventType, &e.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		parsed, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse outbox id %q: %w", rawID, err)
		}
		e.ID = parsed
		e.EventType = audit.EventType(eventType)
		e.CreatedAt = fromMillis(createdAt)
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
	args := make([]any, 0, len(ids)+1)
	args = append(args, toMillis(at))
	for _, v := range ids {
		args = append(args, v.String())
	}
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE outbox SET published_at = ? WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return classify(err, "mark outbox published")
	}
	return nil
}
