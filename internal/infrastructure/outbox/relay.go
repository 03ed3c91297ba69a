// Package outbox delivers domain events that were written to the outbox table
// but not confirmed as published to the broker.
package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/purchase-approval/internal/domain/event"
	"github.com/bibbank/purchase-approval/internal/domain/port"
	"github.com/bibbank/purchase-approval/pkg/events"
)

// Store is satisfied by the Postgres outbox repository.
type Store interface {
	Pending(ctx context.Context, cutoff time.Time, limit int) ([]events.OutboxEntry, error)
	MarkPublished(ctx context.Context, at time.Time, ids ...string) error
}

// EntryPublisher sends already-serialised outbox entries.
type EntryPublisher interface {
	PublishEntries(ctx context.Context, entries ...events.OutboxEntry) error
}

// RelayConfig controls how far behind the relay trails direct publishing.
type RelayConfig struct {
	Grace     time.Duration
	BatchSize int
}

// Relay republishes outbox entries older than the grace period that are still
// unpublished, oldest first.
type Relay struct {
	store  Store
	sink   EntryPublisher
	cfg    RelayConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewRelay(store Store, sink EntryPublisher, cfg RelayConfig, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Relay{
		store:  store,
		sink:   sink,
		cfg:    cfg,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Run drains pending entries batch by batch and returns how many were published.
func (r *Relay) Run(ctx context.Context) (int, error) {
	cutoff := r.now().Add(-r.cfg.Grace)
	total := 0

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		batch, err := r.store.Pending(ctx, cutoff, r.cfg.BatchSize)
		if err != nil {
			return total, fmt.Errorf("load pending outbox: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		if err := r.sink.PublishEntries(ctx, batch...); err != nil {
			return total, fmt.Errorf("relay outbox batch: %w", err)
		}
		if err := r.store.MarkPublished(ctx, r.now(), entryIDs(batch)...); err != nil {
			return total, fmt.Errorf("mark relayed entries: %w", err)
		}
		total += len(batch)

		if len(batch) < r.cfg.BatchSize {
			break
		}
	}

	if total > 0 {
		r.logger.InfoContext(ctx, "relayed outbox entries", "count", total)
	}
	return total, nil
}

func entryIDs(entries []events.OutboxEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// TrackingPublisher marks events as published in the outbox after the wrapped
// publisher succeeds, so the relay does not send them a second time.
type TrackingPublisher struct {
	next   port.EventPublisher
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewTrackingPublisher(next port.EventPublisher, store Store, logger *slog.Logger) *TrackingPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackingPublisher{
		next:   next,
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Publish forwards to the wrapped publisher. A failure to mark the outbox is
// logged only: the relay will deliver those events again.
func (p *TrackingPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if err := p.next.Publish(ctx, evts...); err != nil {
		return err
	}

	ids := make([]string, len(evts))
	for i, evt := range evts {
		ids[i] = evt.EventID()
	}
	if err := p.store.MarkPublished(ctx, p.now(), ids...); err != nil {
		p.logger.WarnContext(ctx, "failed to mark outbox entries published",
			"event_count", len(ids),
			"error", err,
		)
	}
	return nil
}
