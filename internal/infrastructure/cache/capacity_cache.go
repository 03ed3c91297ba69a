package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/bibbank/purchase-approval/internal/domain/port"
)

const capacityKeyPrefix = "purchase:capacity:"

// CachedCapacityLookup serves capacity factors from a Store and falls back to
// the wrapped lookup on a miss. Cache failures degrade to the wrapped lookup;
// lookup errors, including unknown customers, are never cached.
type CachedCapacityLookup struct {
	next   port.CapacityLookup
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedCapacityLookup(next port.CapacityLookup, store Store, ttl time.Duration, logger *slog.Logger) *CachedCapacityLookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedCapacityLookup{next: next, store: store, ttl: ttl, logger: logger}
}

func (c *CachedCapacityLookup) CapacityFactor(ctx context.Context, personalID string) (int, error) {
	key := capacityKeyPrefix + personalID

	raw, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.WarnContext(ctx, "capacity cache read failed", "error", err)
	case ok:
		if factor, convErr := strconv.Atoi(raw); convErr == nil {
			return factor, nil
		}
		c.logger.WarnContext(ctx, "discarding malformed capacity cache entry", "value", raw)
	}

	factor, err := c.next.CapacityFactor(ctx, personalID)
	if err != nil {
		return 0, err
	}

	if err := c.store.Set(ctx, key, strconv.Itoa(factor), c.ttl); err != nil {
		c.logger.WarnContext(ctx, "capacity cache write failed", "error", err)
	}
	return factor, nil
}

// Invalidate drops the cached factor for a customer so the next lookup reads
// the source again.
func (c *CachedCapacityLookup) Invalidate(ctx context.Context, personalID string) error {
	return c.store.Delete(ctx, capacityKeyPrefix+personalID)
}
