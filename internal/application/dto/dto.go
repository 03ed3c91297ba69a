package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// ApplyForPurchaseRequest carries one purchase financing request.
type ApplyForPurchaseRequest struct {
	PersonalID          string          `json:"personalId"`
	RequestedAmount     decimal.Decimal `json:"requestedAmount"`
	PaymentPeriodMonths int             `json:"paymentPeriodMonths"`
}

// GetApplicationRequest identifies a purchase application to retrieve.
type GetApplicationRequest struct {
	ApplicationID string `json:"applicationId"`
}

// ListCustomerApplicationsRequest selects the applications of one customer.
type ListCustomerApplicationsRequest struct {
	PersonalID string `json:"personalId"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// PurchaseDecisionResponse is the outcome returned to the applicant.
type PurchaseDecisionResponse struct {
	ApplicationID        string          `json:"applicationId"`
	Status               string          `json:"status"`
	Approved             bool            `json:"approved"`
	ApprovedAmount       decimal.Decimal `json:"approvedAmount"`
	ApprovedPeriodMonths int             `json:"approvedPeriodMonths"`
}

// PurchaseApplicationResponse is the external representation of a stored application.
type PurchaseApplicationResponse struct {
	ID                   string          `json:"id"`
	PersonalID           string          `json:"personalId"`
	RequestedAmount      decimal.Decimal `json:"requestedAmount"`
	Currency             string          `json:"currency"`
	PaymentPeriodMonths  int             `json:"paymentPeriodMonths"`
	Status               string          `json:"status"`
	ApprovedAmount       decimal.Decimal `json:"approvedAmount"`
	ApprovedPeriodMonths int             `json:"approvedPeriodMonths,omitempty"`
	Version              int             `json:"version"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// ListCustomerApplicationsResponse wraps a customer's applications, newest first.
type ListCustomerApplicationsResponse struct {
	Applications []PurchaseApplicationResponse `json:"applications"`
}
