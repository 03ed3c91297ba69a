package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	AggregateType() string
	OccurredAt() time.Time
}

// BaseEvent carries the envelope shared by every domain event. The fields are
// exported so that embedding structs serialise the envelope alongside their
// own payload.
type BaseEvent struct {
	ID         string    `json:"event_id"`
	Type       string    `json:"event_type"`
	SourceID   string    `json:"aggregate_id"`
	SourceType string    `json:"aggregate_type"`
	Timestamp  time.Time `json:"occurred_at"`
}

// NewBaseEvent creates a BaseEvent with a generated ID, stamped at occurredAt.
// A zero occurredAt falls back to the current UTC time.
func NewBaseEvent(eventType, aggregateID, aggregateType string, occurredAt time.Time) BaseEvent {
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	return BaseEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		SourceID:   aggregateID,
		SourceType: aggregateType,
		Timestamp:  occurredAt.UTC(),
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.SourceID }
func (e BaseEvent) AggregateType() string { return e.SourceType }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
