package recorder

import (
	"context"
	"time"

	"github.com/bibbank/purchase-approval/internal/domain/port"
)

// NoopRecorder is used when no journal path is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Record(context.Context, port.DecisionRecord) error { return nil }
func (n *NoopRecorder) Prune(context.Context, time.Time) (int64, error)   { return 0, nil }
func (n *NoopRecorder) Close() error                                      { return nil }
