package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidBounds is returned by NewBounds for unusable limits.
var ErrInvalidBounds = errors.New("invalid purchase bounds")

// ErrAmountOutOfRange is returned for amounts an application cannot record.
var ErrAmountOutOfRange = errors.New("amount out of range")

// AmountScale is the number of fractional digits an amount may carry.
const AmountScale = 4

// amountLimit is the exclusive upper limit on the magnitude of an amount.
var amountLimit = decimal.New(1, 15)

// CheckAmount reports whether d fits the recorded amount range: at most
// AmountScale fractional digits and a magnitude below 10^15.
func CheckAmount(d decimal.Decimal) error {
	if d.Exponent() < -AmountScale && !d.Equal(d.Truncate(AmountScale)) {
		return fmt.Errorf("%w: %s has more than %d decimal places", ErrAmountOutOfRange, d, AmountScale)
	}
	if d.Abs().GreaterThanOrEqual(amountLimit) {
		return fmt.Errorf("%w: %s is not below %s", ErrAmountOutOfRange, d, amountLimit)
	}
	return nil
}

// Bounds is the immutable amount/period envelope a decision is searched within.
type Bounds struct {
	minAmount decimal.Decimal
	maxAmount decimal.Decimal
	minPeriod int
	maxPeriod int
}

// NewBounds validates and creates a Bounds value.
func NewBounds(minAmount, maxAmount decimal.Decimal, minPeriod, maxPeriod int) (Bounds, error) {
	if !minAmount.IsPositive() {
		return Bounds{}, fmt.Errorf("%w: min amount must be positive, got %s", ErrInvalidBounds, minAmount)
	}
	for _, amount := range []decimal.Decimal{minAmount, maxAmount} {
		if err := CheckAmount(amount); err != nil {
			return Bounds{}, fmt.Errorf("%w: %w", ErrInvalidBounds, err)
		}
	}
	if minAmount.GreaterThan(maxAmount) {
		return Bounds{}, fmt.Errorf("%w: min amount %s exceeds max amount %s", ErrInvalidBounds, minAmount, maxAmount)
	}
	if minPeriod <= 0 {
		return Bounds{}, fmt.Errorf("%w: min period must be positive, got %d", ErrInvalidBounds, minPeriod)
	}
	if minPeriod > maxPeriod {
		return Bounds{}, fmt.Errorf("%w: min period %d exceeds max period %d", ErrInvalidBounds, minPeriod, maxPeriod)
	}
	return Bounds{
		minAmount: minAmount,
		maxAmount: maxAmount,
		minPeriod: minPeriod,
		maxPeriod: maxPeriod,
	}, nil
}

// MustBounds creates Bounds and panics on error. Intended for tests and
// package-level defaults only.
func MustBounds(minAmount, maxAmount decimal.Decimal, minPeriod, maxPeriod int) Bounds {
	b, err := NewBounds(minAmount, maxAmount, minPeriod, maxPeriod)
	if err != nil {
		panic(err)
	}
	return b
}

// DefaultBounds returns the stock envelope: 200–5000, 6–24 months.
func DefaultBounds() Bounds {
	return MustBounds(decimal.NewFromInt(200), decimal.NewFromInt(5000), 6, 24)
}

func (b Bounds) MinAmount() decimal.Decimal { return b.minAmount }
func (b Bounds) MaxAmount() decimal.Decimal { return b.maxAmount }
func (b Bounds) MinPeriod() int             { return b.minPeriod }
func (b Bounds) MaxPeriod() int             { return b.maxPeriod }

// String renders the bounds for logs.
func (b Bounds) String() string {
	return fmt.Sprintf("amount[%s..%s] period[%d..%d]", b.minAmount, b.maxAmount, b.minPeriod, b.maxPeriod)
}
