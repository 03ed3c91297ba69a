package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/purchase-approval/internal/domain/valueobject"
)

// Decision is the outcome of an approval search. The zero value is not a valid
// decision; use Approve or Deny.
type Decision struct {
	status valueobject.DecisionStatus
	amount decimal.Decimal
	period int
}

// Approve builds an approved decision for amount over period months.
func Approve(amount decimal.Decimal, period int) Decision {
	return Decision{
		status: valueobject.DecisionStatusApproved,
		amount: amount,
		period: period,
	}
}

// Deny builds a denied decision. Its amount is always zero.
func Deny() Decision {
	return Decision{
		status: valueobject.DecisionStatusDenied,
		amount: decimal.Zero,
	}
}

func (d Decision) Status() valueobject.DecisionStatus { return d.status }
func (d Decision) IsApproved() bool                   { return d.status.Equal(valueobject.DecisionStatusApproved) }

// ApprovedAmount returns the approved amount, zero when denied.
func (d Decision) ApprovedAmount() decimal.Decimal { return d.amount }

// Period returns the repayment period the approval was found at, zero when denied.
func (d Decision) Period() int { return d.period }

// Equal compares two decisions by value.
func (d Decision) Equal(other Decision) bool {
	return d.status.Equal(other.status) && d.amount.Equal(other.amount) && d.period == other.period
}
