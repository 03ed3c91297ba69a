package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/bibbank/purchase-approval/internal/domain/model"
)

// ---------------------------------------------------------------------------
// ApprovalEngine – domain service searching for the largest approvable amount
// ---------------------------------------------------------------------------

// IneligibleCapacityFactor marks a customer who may never be approved.
const IneligibleCapacityFactor = -1

const (
	amountStep = 100
	scoreScale = 10
)

var approvalThreshold = decimal.NewFromInt(1)

// ErrInvalidScoreInput is returned when a score is requested for a non-positive amount.
// It signals a broken search, never a customer outcome.
var ErrInvalidScoreInput = errors.New("approval score requires a positive amount")

// candidate is one scored (amount, period) pair visited by the search.
type candidate struct {
	amount decimal.Decimal
	period int
	score  decimal.Decimal
}

func (c candidate) approvable() bool {
	return c.score.GreaterThanOrEqual(approvalThreshold)
}

// ApprovalEngine decides how much a customer can be approved for. It holds no
// mutable state and may be shared between goroutines.
type ApprovalEngine struct {
	bounds model.Bounds
	logger *slog.Logger
}

// NewApprovalEngine returns an engine searching within bounds. A nil logger
// falls back to slog.Default().
func NewApprovalEngine(bounds model.Bounds, logger *slog.Logger) *ApprovalEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApprovalEngine{bounds: bounds, logger: logger}
}

// Bounds returns the envelope the engine searches within.
func (e *ApprovalEngine) Bounds() model.Bounds { return e.bounds }

// MeetsMinimum reports whether amount passes the minimum-amount gate. Callers
// use it to avoid a capacity lookup for requests that are denied anyway.
func (e *ApprovalEngine) MeetsMinimum(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(e.bounds.MinAmount())
}

// Decide runs the three-phase search:
//
//	A: keep min(requested, max) and extend the period up to maxPeriod
//	B: if A failed, step the amount down by 100 while it stays >= minAmount
//	C: if the approval covers the request, step it up by 100 at the found period
//
// Denials are returned as a Decision; an error only signals an internal failure.
func (e *ApprovalEngine) Decide(capacityFactor int, requestedAmount decimal.Decimal, initialPeriod int) (model.Decision, error) {
	if !e.MeetsMinimum(requestedAmount) {
		e.logger.Info("final decision", "status", "DENIED", "reason", "below_minimum",
			"requested_amount", requestedAmount.String())
		return model.Deny(), nil
	}
	if capacityFactor == IneligibleCapacityFactor {
		e.logger.Info("final decision", "status", "DENIED", "reason", "ineligible")
		return model.Deny(), nil
	}

	s := &search{
		bounds:   e.bounds,
		logger:   e.logger,
		capacity: decimal.NewFromInt(int64(capacityFactor)),
	}
	e.logger.Debug("approval search started",
		"capacity_factor", capacityFactor,
		"requested_amount", requestedAmount.String(),
		"period", initialPeriod,
	)

	start := decimal.Min(requestedAmount, e.bounds.MaxAmount())

	found, ok, err := s.phaseExtendPeriod(start, initialPeriod)
	if err != nil {
		return model.Decision{}, err
	}
	if !ok {
		found, ok, err = s.phaseReduceAmount(start, initialPeriod)
		if err != nil {
			return model.Decision{}, err
		}
	}
	if !ok {
		e.logger.Info("final decision", "status", "DENIED", "attempts", s.attempts)
		return model.Deny(), nil
	}

	if found.amount.GreaterThanOrEqual(requestedAmount) {
		found, err = s.phaseIncreaseAmount(found)
		if err != nil {
			return model.Decision{}, err
		}
	}

	e.logger.Info("final decision",
		"status", "APPROVED",
		"approved_amount", found.amount.String(),
		"period", found.period,
		"attempts", s.attempts,
	)
	return model.Approve(found.amount, found.period), nil
}

// search holds the per-call state of one Decide invocation.
type search struct {
	bounds   model.Bounds
	logger   *slog.Logger
	capacity decimal.Decimal
	attempts int
}

// score computes round_half_up(capacity / amount, 10) * period.
func (s *search) score(amount decimal.Decimal, period int) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: got %s", ErrInvalidScoreInput, amount)
	}
	return s.capacity.DivRound(amount, scoreScale).Mul(decimal.NewFromInt(int64(period))), nil
}

func (s *search) try(amount decimal.Decimal, period int) (candidate, error) {
	sc, err := s.score(amount, period)
	if err != nil {
		return candidate{}, err
	}
	s.attempts++
	c := candidate{amount: amount, period: period, score: sc}
	s.logger.Debug("trying candidate",
		"amount", amount.String(),
		"period", period,
		"score", sc.String(),
		"approved", c.approvable(),
	)
	return c, nil
}

// phaseExtendPeriod returns the first approvable period for amount, scanning
// fromPeriod..maxPeriod.
func (s *search) phaseExtendPeriod(amount decimal.Decimal, fromPeriod int) (candidate, bool, error) {
	for period := fromPeriod; period <= s.bounds.MaxPeriod(); period++ {
		c, err := s.try(amount, period)
		if err != nil {
			return candidate{}, false, err
		}
		if c.approvable() {
			return c, true, nil
		}
	}
	return candidate{}, false, nil
}

// phaseReduceAmount re-runs the period scan from amount downwards in steps of
// 100 until an approval is found or the amount drops below minAmount.
func (s *search) phaseReduceAmount(amount decimal.Decimal, fromPeriod int) (candidate, bool, error) {
	step := decimal.NewFromInt(amountStep)
	for current := amount; current.GreaterThanOrEqual(s.bounds.MinAmount()); current = current.Sub(step) {
		c, ok, err := s.phaseExtendPeriod(current, fromPeriod)
		if err != nil {
			return candidate{}, false, err
		}
		if ok {
			return c, true, nil
		}
		s.logger.Debug("not approved, reducing amount", "amount", current.Sub(step).String())
	}
	return candidate{}, false, nil
}

// phaseIncreaseAmount grows an approval in steps of 100 at its period while the
// next amount stays within maxAmount and remains approvable.
func (s *search) phaseIncreaseAmount(approved candidate) (candidate, error) {
	step := decimal.NewFromInt(amountStep)
	for {
		next := approved.amount.Add(step)
		if next.GreaterThan(s.bounds.MaxAmount()) {
			return approved, nil
		}
		c, err := s.try(next, approved.period)
		if err != nil {
			return candidate{}, err
		}
		if !c.approvable() {
			return approved, nil
		}
		approved = c
	}
}
