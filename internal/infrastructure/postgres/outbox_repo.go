package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bibbank/purchase-approval/pkg/events"
	pkgpostgres "github.com/bibbank/purchase-approval/pkg/postgres"
)

// OutboxRepo reads and acknowledges rows written by PurchaseApplicationRepo.Save.
type OutboxRepo struct {
	db pkgpostgres.Querier
}

func NewOutboxRepo(db pkgpostgres.Querier) *OutboxRepo {
	return &OutboxRepo{db: db}
}

// Pending returns up to limit unpublished entries created before cutoff, oldest first.
func (r *OutboxRepo) Pending(ctx context.Context, cutoff time.Time, limit int) ([]events.OutboxEntry, error) {
	const query = `
		SELECT id, aggregate_id, aggregate_type, event_type, payload, created_at
		FROM outbox
		WHERE published_at IS NULL AND created_at < $1
		ORDER BY created_at
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending outbox: %w", err)
	}
	defer rows.Close()

	var result []events.OutboxEntry
	for rows.Next() {
		var e events.OutboxEntry
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// MarkPublished stamps the given entries as delivered. Unknown IDs are ignored.
func (r *OutboxRepo) MarkPublished(ctx context.Context, at time.Time, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	const update = `
		UPDATE outbox SET published_at = $1
		WHERE id = ANY($2::uuid[]) AND published_at IS NULL
	`
	if _, err := r.db.Exec(ctx, update, at, ids); err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}
