package port

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/purchase-approval/internal/domain/event"
	"github.com/bibbank/purchase-approval/internal/domain/model"
)

var (
	// ErrUnknownCustomer is returned by a CapacityLookup when no financial
	// profile exists for the identifier.
	ErrUnknownCustomer = errors.New("financial profile not found")

	// ErrApplicationNotFound is returned by the repository for a missing ID.
	ErrApplicationNotFound = errors.New("purchase application not found")
)

// CapacityLookup resolves a customer identifier to its capacity factor.
// A factor of -1 marks the customer as ineligible.
type CapacityLookup interface {
	CapacityFactor(ctx context.Context, personalID string) (int, error)
}

// PurchaseApplicationRepository defines persistence operations for the
// PurchaseApplication aggregate.
type PurchaseApplicationRepository interface {
	Save(ctx context.Context, app model.PurchaseApplication) error
	FindByID(ctx context.Context, id string) (model.PurchaseApplication, error)
	FindByPersonalID(ctx context.Context, personalID string) ([]model.PurchaseApplication, error)
}

// EventPublisher publishes domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// DecisionRecord is one row of the local decision journal. CapacityFactor is
// only meaningful when LookupSkipped is false.
type DecisionRecord struct {
	ApplicationID   string
	PersonalID      string
	CapacityFactor  int
	LookupSkipped   bool
	RequestedAmount decimal.Decimal
	RequestedPeriod int
	Status          string
	ApprovedAmount  decimal.Decimal
	ApprovedPeriod  int
	DecidedAt       time.Time
}

// DecisionRecorder journals every decision for audit. Implementations must be
// safe for concurrent use.
type DecisionRecorder interface {
	Record(ctx context.Context, rec DecisionRecord) error
	// Prune deletes records decided before the cutoff and returns how many were removed.
	Prune(ctx context.Context, before time.Time) (int64, error)
	Close() error
}
