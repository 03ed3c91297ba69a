package adapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/bibbank/purchase-approval/internal/domain/port"
)

// RetryConfig bounds the retries of a capacity lookup.
type RetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryConfig returns the production retry policy.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
	}
}

// RetryingLookup retries transient failures of the wrapped lookup with
// exponential backoff. Unknown customers and context errors are never retried.
type RetryingLookup struct {
	next   port.CapacityLookup
	cfg    RetryConfig
	logger *slog.Logger
}

func NewRetryingLookup(next port.CapacityLookup, cfg RetryConfig, logger *slog.Logger) *RetryingLookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryingLookup{next: next, cfg: cfg, logger: logger}
}

func (l *RetryingLookup) CapacityFactor(ctx context.Context, personalID string) (int, error) {
	op := func() (int, error) {
		factor, err := l.next.CapacityFactor(ctx, personalID)
		if err == nil {
			return factor, nil
		}
		if errors.Is(err, port.ErrUnknownCustomer) ||
			errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return 0, backoff.Permanent(err)
		}
		return 0, err
	}

	notify := func(err error, wait time.Duration) {
		l.logger.WarnContext(ctx, "capacity lookup failed, retrying",
			"error", err,
			"backoff", wait,
		)
	}

	return backoff.RetryNotifyWithData(op, l.policy(ctx), notify)
}

func (l *RetryingLookup) policy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = l.cfg.InitialInterval
	exp.MaxInterval = l.cfg.MaxInterval
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, l.cfg.MaxRetries), ctx)
}
