package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/purchase-approval/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const aggregateType = "PurchaseApplication"

const (
	TypeSubmitted = "purchase.application.submitted"
	TypeApproved  = "purchase.application.approved"
	TypeDenied    = "purchase.application.denied"
)

// PurchaseApplicationSubmitted is raised when a new application enters the system.
type PurchaseApplicationSubmitted struct {
	events.BaseEvent
	PersonalID      string          `json:"personal_id"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	Currency        string          `json:"currency"`
	PeriodMonths    int             `json:"period_months"`
}

func NewPurchaseApplicationSubmitted(
	applicationID, personalID string,
	amount decimal.Decimal, currency string,
	periodMonths int, now time.Time,
) PurchaseApplicationSubmitted {
	return PurchaseApplicationSubmitted{
		BaseEvent:       events.NewBaseEvent(TypeSubmitted, applicationID, aggregateType, now),
		PersonalID:      personalID,
		RequestedAmount: amount,
		Currency:        currency,
		PeriodMonths:    periodMonths,
	}
}

// PurchaseApplicationApproved carries the amount and period the customer was approved for,
// which may differ from what was requested.
type PurchaseApplicationApproved struct {
	events.BaseEvent
	PersonalID     string          `json:"personal_id"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	Currency       string          `json:"currency"`
	PeriodMonths   int             `json:"period_months"`
}

func NewPurchaseApplicationApproved(
	applicationID, personalID string,
	amount decimal.Decimal, currency string,
	periodMonths int, now time.Time,
) PurchaseApplicationApproved {
	return PurchaseApplicationApproved{
		BaseEvent:      events.NewBaseEvent(TypeApproved, applicationID, aggregateType, now),
		PersonalID:     personalID,
		ApprovedAmount: amount,
		Currency:       currency,
		PeriodMonths:   periodMonths,
	}
}

// PurchaseApplicationDenied is raised when no approvable amount exists.
type PurchaseApplicationDenied struct {
	events.BaseEvent
	PersonalID string `json:"personal_id"`
}

func NewPurchaseApplicationDenied(applicationID, personalID string, now time.Time) PurchaseApplicationDenied {
	return PurchaseApplicationDenied{
		BaseEvent:  events.NewBaseEvent(TypeDenied, applicationID, aggregateType, now),
		PersonalID: personalID,
	}
}
