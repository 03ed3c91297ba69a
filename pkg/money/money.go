// Package money pairs decimal amounts with ISO 4217 currency codes.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is a three-letter ISO 4217 code. The zero value is "no currency".
type Currency struct {
	code string
}

// EUR is the currency purchase financing is offered in.
var EUR = Currency{code: "EUR"}

// NewCurrency accepts exactly three ASCII uppercase letters.
func NewCurrency(code string) (Currency, error) {
	if len(code) != 3 {
		return Currency{}, fmt.Errorf("currency code %q: want 3 letters", code)
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return Currency{}, fmt.Errorf("currency code %q: want uppercase letters", code)
		}
	}
	return Currency{code: code}, nil
}

func (c Currency) Code() string   { return c.code }
func (c Currency) String() string { return c.code }
func (c Currency) IsZero() bool   { return c.code == "" }

// Money is an immutable amount in one currency.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

func New(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount, currency: currency}
}

// Zero is the zero amount in currency.
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }
func (m Money) IsPositive() bool        { return m.amount.IsPositive() }
func (m Money) IsZero() bool            { return m.amount.IsZero() }

// Equal compares by value, so 1100 and 1100.00 EUR are equal.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders "1100.00 EUR".
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + m.currency.code
}
