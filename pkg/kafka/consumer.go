package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes one record. A non-nil error is retried; return nil to
// acknowledge records that can never succeed.
type Handler func(ctx context.Context, msg Message) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// RetryPolicy bounds the wait between handler attempts.
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy backs off from 200ms to 30s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{InitialInterval: 200 * time.Millisecond, MaxInterval: 30 * time.Second}
}

// Consumer reads one topic as part of a consumer group and commits each
// record only after its handler succeeds. A failing record blocks its
// partition until it succeeds or the consumer stops.
type Consumer struct {
	reader  messageReader
	topic   string
	group   string
	handler Handler
	retry   RetryPolicy
	logger  *slog.Logger
}

func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dialer, err := cfg.dialer()
	if err != nil {
		return nil, err
	}

	rc := kafkago.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       topic,
		GroupID:     cfg.ConsumerGroup,
		StartOffset: kafkago.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10 << 20,
	}
	if dialer != nil {
		rc.Dialer = dialer
	}

	return &Consumer{
		reader:  kafkago.NewReader(rc),
		topic:   topic,
		group:   cfg.ConsumerGroup,
		handler: handler,
		retry:   DefaultRetryPolicy(),
		logger:  logger.With("topic", topic, "group", cfg.ConsumerGroup),
	}, nil
}

// Start consumes until ctx is cancelled, which is not an error.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer starting")

	for {
		rec, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopped")
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		if err := c.handle(ctx, rec); err != nil {
			// Only cancellation ends a retry loop; leave the record for redelivery.
			c.logger.Info("consumer stopped with record unacknowledged", "offset", rec.Offset)
			return nil
		}

		if err := c.reader.CommitMessages(ctx, rec); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error("commit failed", "partition", rec.Partition, "offset", rec.Offset, "error", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, rec kafkago.Message) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retry.InitialInterval
	b.MaxInterval = c.retry.MaxInterval
	b.MaxElapsedTime = 0

	msg := fromRecord(rec)
	op := func() error { return c.handler(ctx, msg) }
	notify := func(err error, wait time.Duration) {
		c.logger.Error("handler failed, retrying",
			"partition", rec.Partition,
			"offset", rec.Offset,
			"retry_in", wait,
			"error", err,
		)
	}
	return backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
}

func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}
