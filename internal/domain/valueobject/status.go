package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// DecisionStatus – immutable value object
// ---------------------------------------------------------------------------

// DecisionStatus is the outcome tag of an approval decision.
type DecisionStatus struct {
	value string
}

const (
	decisionStatusApproved = "APPROVED"
	decisionStatusDenied   = "DENIED"
)

var (
	DecisionStatusApproved = DecisionStatus{value: decisionStatusApproved}
	DecisionStatusDenied   = DecisionStatus{value: decisionStatusDenied}
)

var validDecisionStatuses = map[string]DecisionStatus{
	decisionStatusApproved: DecisionStatusApproved,
	decisionStatusDenied:   DecisionStatusDenied,
}

// NewDecisionStatus creates a DecisionStatus from a raw string.
func NewDecisionStatus(s string) (DecisionStatus, error) {
	v, ok := validDecisionStatuses[s]
	if !ok {
		return DecisionStatus{}, fmt.Errorf("invalid decision status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s DecisionStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s DecisionStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s DecisionStatus) Equal(other DecisionStatus) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// ApplicationStatus – immutable value object
// ---------------------------------------------------------------------------

// ApplicationStatus represents the lifecycle stage of a purchase application.
type ApplicationStatus struct {
	value string
}

const (
	appStatusPending  = "PENDING"
	appStatusApproved = "APPROVED"
	appStatusDenied   = "DENIED"
)

var (
	ApplicationStatusPending  = ApplicationStatus{value: appStatusPending}
	ApplicationStatusApproved = ApplicationStatus{value: appStatusApproved}
	ApplicationStatusDenied   = ApplicationStatus{value: appStatusDenied}
)

var validApplicationStatuses = map[string]ApplicationStatus{
	appStatusPending:  ApplicationStatusPending,
	appStatusApproved: ApplicationStatusApproved,
	appStatusDenied:   ApplicationStatusDenied,
}

// NewApplicationStatus creates an ApplicationStatus from a raw string.
func NewApplicationStatus(s string) (ApplicationStatus, error) {
	v, ok := validApplicationStatuses[s]
	if !ok {
		return ApplicationStatus{}, fmt.Errorf("invalid application status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s ApplicationStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s ApplicationStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s ApplicationStatus) Equal(other ApplicationStatus) bool { return s.value == other.value }

// IsTerminal reports whether no further transitions are allowed.
func (s ApplicationStatus) IsTerminal() bool {
	return s.value == appStatusApproved || s.value == appStatusDenied
}

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
