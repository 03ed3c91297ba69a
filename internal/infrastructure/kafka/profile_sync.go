package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	pkgkafka "github.com/bibbank/purchase-approval/pkg/kafka"
)

// ProfileStore persists capacity factors received from upstream.
type ProfileStore interface {
	Upsert(ctx context.Context, personalID string, factor int, updatedAt time.Time) error
}

// CapacityInvalidator drops cached capacity factors after an update.
type CapacityInvalidator interface {
	Invalidate(ctx context.Context, personalID string) error
}

// ProfileUpdate is the message published by the customer profile system.
type ProfileUpdate struct {
	PersonalID     string    `json:"personal_id"`
	CapacityFactor *int      `json:"capacity_factor"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewProfileSyncHandler returns a consumer handler that upserts financial
// profiles and, when cache is non-nil, drops the customer's cached factor.
// Malformed messages are logged and acknowledged. Store and cache failures are
// returned so the consumer retries the record before committing it; the upsert
// is idempotent for a repeated update.
func NewProfileSyncHandler(store ProfileStore, cache CapacityInvalidator, logger *slog.Logger) pkgkafka.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, msg pkgkafka.Message) error {
		var upd ProfileUpdate
		if err := json.Unmarshal(msg.Value, &upd); err != nil {
			logger.WarnContext(ctx, "skipping malformed profile update", "key", string(msg.Key), "error", err)
			return nil
		}
		if err := upd.validate(); err != nil {
			logger.WarnContext(ctx, "skipping invalid profile update", "personal_id", upd.PersonalID, "error", err)
			return nil
		}
		if upd.UpdatedAt.IsZero() {
			upd.UpdatedAt = time.Now().UTC()
		}

		if err := store.Upsert(ctx, upd.PersonalID, *upd.CapacityFactor, upd.UpdatedAt); err != nil {
			return fmt.Errorf("sync profile %s: %w", upd.PersonalID, err)
		}
		if cache != nil {
			if err := cache.Invalidate(ctx, upd.PersonalID); err != nil {
				return fmt.Errorf("invalidate cached capacity %s: %w", upd.PersonalID, err)
			}
		}
		logger.InfoContext(ctx, "financial profile updated",
			"personal_id", upd.PersonalID,
			"capacity_factor", *upd.CapacityFactor,
		)
		return nil
	}
}

func (u ProfileUpdate) validate() error {
	switch {
	case u.PersonalID == "":
		return errors.New("personal_id is required")
	case u.CapacityFactor == nil:
		return errors.New("capacity_factor is required")
	}
	return nil
}
