package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType names a domain event written to the outbox.
type EventType string

const (
	EventDonationRecorded    EventType = "donation_recorded"
	EventAssignmentConfirmed EventType = "assignment_confirmed"
	EventAssignmentCancelled EventType = "assignment_cancelled"
	EventReceiverUpdated     EventType = "receiver_updated"
	EventReceiverCancelled   EventType = "receiver_cancelled"
)

// Aggregate types used as the outbox partition key prefix.
const (
	AggregateDonor      = "donor"
	AggregateReceiver   = "receiver"
	AggregateAssignment = "assignment"
)

// OutboxEntry is one event persisted in the same transaction as the state it
// describes. The relay publishes pending entries and stamps PublishedAt.
type OutboxEntry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     EventType
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// Key is the partition key for the event stream. Events for one aggregate
// keep their relative order.
func (e *OutboxEntry) Key() string {
	return e.AggregateType + ":" + e.AggregateID
}

// NewOutboxEntry marshals payload as JSON into a fresh entry.
func NewOutboxEntry(eventType EventType, aggregateType, aggregateID string, payload any, now time.Time) (*OutboxEntry, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &OutboxEntry{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       body,
		CreatedAt:     now,
	}, nil
}
