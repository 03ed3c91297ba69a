package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/purchase-approval/internal/application/dto"
	"github.com/bibbank/purchase-approval/internal/application/usecase"
	"github.com/bibbank/purchase-approval/internal/domain/port"
)

// ---------------------------------------------------------------------------
// Wire messages
// ---------------------------------------------------------------------------

// ApplyForPurchaseRequest carries the amount as a decimal string.
type ApplyForPurchaseRequest struct {
	PersonalID          string `json:"personal_id"`
	RequestedAmount     string `json:"requested_amount"`
	PaymentPeriodMonths int32  `json:"payment_period_months"`
}

type PurchaseDecision struct {
	ApplicationID        string `json:"application_id"`
	Status               string `json:"status"`
	Approved             bool   `json:"approved"`
	ApprovedAmount       string `json:"approved_amount"`
	ApprovedPeriodMonths int32  `json:"approved_period_months"`
}

type GetApplicationRequest struct {
	ApplicationID string `json:"application_id"`
}

type PurchaseApplication struct {
	ID                   string `json:"id"`
	PersonalID           string `json:"personal_id"`
	RequestedAmount      string `json:"requested_amount"`
	Currency             string `json:"currency"`
	PaymentPeriodMonths  int32  `json:"payment_period_months"`
	Status               string `json:"status"`
	ApprovedAmount       string `json:"approved_amount"`
	ApprovedPeriodMonths int32  `json:"approved_period_months"`
	Version              int32  `json:"version"`
	CreatedAt            string `json:"created_at"`
	UpdatedAt            string `json:"updated_at"`
}

type ListCustomerApplicationsRequest struct {
	PersonalID string `json:"personal_id"`
}

type ListCustomerApplicationsResponse struct {
	Applications []*PurchaseApplication `json:"applications"`
}

// ---------------------------------------------------------------------------
// Handler
// ---------------------------------------------------------------------------

// Use case contracts consumed by the handler.
type (
	PurchaseApplier interface {
		Execute(ctx context.Context, req dto.ApplyForPurchaseRequest) (dto.PurchaseDecisionResponse, error)
	}
	ApplicationGetter interface {
		Execute(ctx context.Context, req dto.GetApplicationRequest) (dto.PurchaseApplicationResponse, error)
	}
	ApplicationLister interface {
		Execute(ctx context.Context, req dto.ListCustomerApplicationsRequest) (dto.ListCustomerApplicationsResponse, error)
	}
)

// PurchaseHandler implements PurchaseApprovalServiceServer.
type PurchaseHandler struct {
	UnimplementedPurchaseApprovalServiceServer
	apply  PurchaseApplier
	get    ApplicationGetter
	list   ApplicationLister
	logger *slog.Logger
}

func NewPurchaseHandler(apply PurchaseApplier, get ApplicationGetter, list ApplicationLister, logger *slog.Logger) *PurchaseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PurchaseHandler{apply: apply, get: get, list: list, logger: logger}
}

func (h *PurchaseHandler) ApplyForPurchase(ctx context.Context, req *ApplyForPurchaseRequest) (*PurchaseDecision, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	amount, err := decimal.NewFromString(req.RequestedAmount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid requested_amount %q", req.RequestedAmount)
	}

	resp, err := h.apply.Execute(ctx, dto.ApplyForPurchaseRequest{
		PersonalID:          req.PersonalID,
		RequestedAmount:     amount,
		PaymentPeriodMonths: int(req.PaymentPeriodMonths),
	})
	if err != nil {
		return nil, h.toStatus(ctx, "ApplyForPurchase", err)
	}

	return &PurchaseDecision{
		ApplicationID:        resp.ApplicationID,
		Status:               resp.Status,
		Approved:             resp.Approved,
		ApprovedAmount:       resp.ApprovedAmount.String(),
		ApprovedPeriodMonths: int32(resp.ApprovedPeriodMonths),
	}, nil
}

func (h *PurchaseHandler) GetApplication(ctx context.Context, req *GetApplicationRequest) (*PurchaseApplication, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	resp, err := h.get.Execute(ctx, dto.GetApplicationRequest{ApplicationID: req.ApplicationID})
	if err != nil {
		return nil, h.toStatus(ctx, "GetApplication", err)
	}
	return toProtoApplication(resp), nil
}

func (h *PurchaseHandler) ListCustomerApplications(ctx context.Context, req *ListCustomerApplicationsRequest) (*ListCustomerApplicationsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	resp, err := h.list.Execute(ctx, dto.ListCustomerApplicationsRequest{PersonalID: req.PersonalID})
	if err != nil {
		return nil, h.toStatus(ctx, "ListCustomerApplications", err)
	}

	out := &ListCustomerApplicationsResponse{
		Applications: make([]*PurchaseApplication, 0, len(resp.Applications)),
	}
	for _, app := range resp.Applications {
		out.Applications = append(out.Applications, toProtoApplication(app))
	}
	return out, nil
}

func (h *PurchaseHandler) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrUnknownCustomer):
		return status.Error(codes.NotFound, port.ErrUnknownCustomer.Error())
	case errors.Is(err, port.ErrApplicationNotFound):
		return status.Error(codes.NotFound, port.ErrApplicationNotFound.Error())
	default:
		h.logger.ErrorContext(ctx, "rpc failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func toProtoApplication(a dto.PurchaseApplicationResponse) *PurchaseApplication {
	return &PurchaseApplication{
		ID:                   a.ID,
		PersonalID:           a.PersonalID,
		RequestedAmount:      a.RequestedAmount.String(),
		Currency:             a.Currency,
		PaymentPeriodMonths:  int32(a.PaymentPeriodMonths),
		Status:               a.Status,
		ApprovedAmount:       a.ApprovedAmount.String(),
		ApprovedPeriodMonths: int32(a.ApprovedPeriodMonths),
		Version:              int32(a.Version),
		CreatedAt:            a.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:            a.UpdatedAt.Format(time.RFC3339Nano),
	}
}
