package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bibbank/purchase-approval/internal/application/dto"
	"github.com/bibbank/purchase-approval/internal/application/usecase"
	"github.com/bibbank/purchase-approval/internal/domain/port"
)

const maxBodyBytes = 1 << 20

// Use case contracts consumed by the handlers.
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

// PurchaseHandler serves the purchase approval API over HTTP/JSON.
type PurchaseHandler struct {
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

// RegisterRoutes attaches the purchase API to mux.
func (h *PurchaseHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/purchase/apply", h.applyForPurchase)
	mux.HandleFunc("GET /api/purchase/applications/{id}", h.getApplication)
	mux.HandleFunc("GET /api/purchase/customers/{personalId}/applications", h.listCustomerApplications)
}

func (h *PurchaseHandler) applyForPurchase(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyForPurchaseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	resp, err := h.apply.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PurchaseHandler) getApplication(w http.ResponseWriter, r *http.Request) {
	resp, err := h.get.Execute(r.Context(), dto.GetApplicationRequest{ApplicationID: r.PathValue("id")})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PurchaseHandler) listCustomerApplications(w http.ResponseWriter, r *http.Request) {
	resp, err := h.list.Execute(r.Context(), dto.ListCustomerApplicationsRequest{PersonalID: r.PathValue("personalId")})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps use case errors to status codes. Internal details are logged,
// not returned.
func (h *PurchaseHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, port.ErrUnknownCustomer):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: port.ErrUnknownCustomer.Error()})
	case errors.Is(err, port.ErrApplicationNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: port.ErrApplicationNotFound.Error()})
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}
