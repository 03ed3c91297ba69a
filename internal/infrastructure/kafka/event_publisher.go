package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/purchase-approval/internal/domain/event"
	"github.com/bibbank/purchase-approval/pkg/events"
	pkgkafka "github.com/bibbank/purchase-approval/pkg/kafka"
)

// Message headers set on every published event.
const (
	HeaderEventType     = "event_type"
	HeaderEventID       = "event_id"
	HeaderAggregateType = "aggregate_type"
)

// MessageProducer is satisfied by *pkgkafka.Producer.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// EventPublisher implements port.EventPublisher by writing events to Kafka,
// keyed by aggregate ID so that one application's events stay ordered.
type EventPublisher struct {
	producer MessageProducer
	topic    string
	logger   *slog.Logger
}

// NewEventPublisher creates a publisher targeting the given producer and topic.
func NewEventPublisher(producer MessageProducer, topic string, logger *slog.Logger) *EventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish serialises and sends domain events in one batch.
func (p *EventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	entries := make([]events.OutboxEntry, 0, len(evts))
	for _, evt := range evts {
		entry, err := events.NewOutboxEntry(evt)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	return p.PublishEntries(ctx, entries...)
}

// PublishEntries sends already-serialised events, as read back from the outbox.
func (p *EventPublisher) PublishEntries(ctx context.Context, entries ...events.OutboxEntry) error {
	if len(entries) == 0 {
		return nil
	}

	msgs := make([]pkgkafka.Message, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, pkgkafka.Message{
			Key:   []byte(e.AggregateID),
			Value: e.Payload,
			Headers: map[string]string{
				HeaderEventType:     e.EventType,
				HeaderEventID:       e.ID,
				HeaderAggregateType: e.AggregateType,
			},
		})
	}

	if err := p.producer.Publish(ctx, p.topic, msgs...); err != nil {
		return fmt.Errorf("publish %d events: %w", len(msgs), err)
	}

	for _, e := range entries {
		p.logger.DebugContext(ctx, "published domain event",
			"event_type", e.EventType,
			"event_id", e.ID,
			"aggregate_id", e.AggregateID,
			"topic", p.topic,
		)
	}
	return nil
}
