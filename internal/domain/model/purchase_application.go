package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/purchase-approval/internal/domain/event"
	"github.com/bibbank/purchase-approval/internal/domain/valueobject"
	"github.com/bibbank/purchase-approval/pkg/money"
)

// ---------------------------------------------------------------------------
// PurchaseApplication aggregate root
// ---------------------------------------------------------------------------

// PurchaseApplication is an immutable aggregate. Every transition returns a new copy.
type PurchaseApplication struct {
	id              string
	personalID      string
	requestedAmount money.Money
	periodMonths    int
	status          valueobject.ApplicationStatus
	approvedAmount  money.Money
	approvedPeriod  int
	version         int
	createdAt       time.Time
	updatedAt       time.Time
	domainEvents    []event.DomainEvent
}

// NewPurchaseApplication creates a PENDING application and raises PurchaseApplicationSubmitted.
func NewPurchaseApplication(
	personalID string,
	requestedAmount money.Money,
	periodMonths int,
	now time.Time,
) (PurchaseApplication, error) {
	if personalID == "" {
		return PurchaseApplication{}, errors.New("personal ID is required")
	}
	if requestedAmount.Currency().IsZero() {
		return PurchaseApplication{}, errors.New("currency is required")
	}
	if requestedAmount.Amount().IsNegative() {
		return PurchaseApplication{}, errors.New("requested amount must not be negative")
	}
	if periodMonths <= 0 {
		return PurchaseApplication{}, errors.New("period months must be positive")
	}

	id := uuid.New().String()
	app := PurchaseApplication{
		id:              id,
		personalID:      personalID,
		requestedAmount: requestedAmount,
		periodMonths:    periodMonths,
		status:          valueobject.ApplicationStatusPending,
		approvedAmount:  money.Zero(requestedAmount.Currency()),
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}
	app.domainEvents = append(app.domainEvents, event.NewPurchaseApplicationSubmitted(
		id, personalID, requestedAmount.Amount(), requestedAmount.Currency().Code(), periodMonths, now,
	))
	return app, nil
}

// ReconstructPurchaseApplication rebuilds an aggregate from persistence without side-effects.
func ReconstructPurchaseApplication(
	id, personalID string,
	requestedAmount money.Money,
	periodMonths int,
	status valueobject.ApplicationStatus,
	approvedAmount money.Money,
	approvedPeriod int,
	version int,
	createdAt, updatedAt time.Time,
) PurchaseApplication {
	return PurchaseApplication{
		id:              id,
		personalID:      personalID,
		requestedAmount: requestedAmount,
		periodMonths:    periodMonths,
		status:          status,
		approvedAmount:  approvedAmount,
		approvedPeriod:  approvedPeriod,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// ApplyDecision settles a PENDING application with the engine's decision.
func (a PurchaseApplication) ApplyDecision(d Decision, now time.Time) (PurchaseApplication, error) {
	if d.IsApproved() {
		return a.Approve(d.ApprovedAmount(), d.Period(), now)
	}
	return a.Deny(now)
}

// Approve transitions PENDING -> APPROVED with the amount (in the application's
// currency) and period that were found approvable.
func (a PurchaseApplication) Approve(amount decimal.Decimal, period int, now time.Time) (PurchaseApplication, error) {
	if !a.status.Equal(valueobject.ApplicationStatusPending) {
		return a, valueobject.ErrInvalidStatusTransition
	}
	approved := money.New(amount, a.requestedAmount.Currency())
	if !approved.IsPositive() || period <= 0 {
		return a, errors.New("approval requires a positive amount and period")
	}

	next := a
	next.status = valueobject.ApplicationStatusApproved
	next.approvedAmount = approved
	next.approvedPeriod = period
	next.version = a.version + 1
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewPurchaseApplicationApproved(
		a.id, a.personalID, approved.Amount(), approved.Currency().Code(), period, now,
	))
	return next, nil
}

// Deny transitions PENDING -> DENIED. The approved amount stays zero.
func (a PurchaseApplication) Deny(now time.Time) (PurchaseApplication, error) {
	if !a.status.Equal(valueobject.ApplicationStatusPending) {
		return a, valueobject.ErrInvalidStatusTransition
	}
	next := a
	next.status = valueobject.ApplicationStatusDenied
	next.approvedAmount = money.Zero(a.requestedAmount.Currency())
	next.approvedPeriod = 0
	next.version = a.version + 1
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewPurchaseApplicationDenied(a.id, a.personalID, now))
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (a PurchaseApplication) ID() string                            { return a.id }
func (a PurchaseApplication) PersonalID() string                    { return a.personalID }
func (a PurchaseApplication) RequestedAmount() money.Money          { return a.requestedAmount }
func (a PurchaseApplication) PeriodMonths() int                     { return a.periodMonths }
func (a PurchaseApplication) Status() valueobject.ApplicationStatus { return a.status }
func (a PurchaseApplication) ApprovedAmount() money.Money           { return a.approvedAmount }
func (a PurchaseApplication) ApprovedPeriod() int                   { return a.approvedPeriod }
func (a PurchaseApplication) Version() int                          { return a.version }
func (a PurchaseApplication) CreatedAt() time.Time                  { return a.createdAt }
func (a PurchaseApplication) UpdatedAt() time.Time                  { return a.updatedAt }
func (a PurchaseApplication) DomainEvents() []event.DomainEvent     { return a.domainEvents }

// ClearEvents returns a copy with an empty event list (call after publishing).
func (a PurchaseApplication) ClearEvents() PurchaseApplication {
	next := a
	next.domainEvents = nil
	return next
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src), len(src)+1)
	copy(dst, src)
	return dst
}
