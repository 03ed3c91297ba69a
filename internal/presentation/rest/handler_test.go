package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/purchase-approval/internal/application/dto"
	"github.com/bibbank/purchase-approval/internal/application/usecase"
	"github.com/bibbank/purchase-approval/internal/domain/port"
)

type mockApplier struct {
	executeFunc func(ctx context.Context, req dto.ApplyForPurchaseRequest) (dto.PurchaseDecisionResponse, error)
}

func (m *mockApplier) Execute(ctx context.Context, req dto.ApplyForPurchaseRequest) (dto.PurchaseDecisionResponse, error) {
	return m.executeFunc(ctx, req)
}

type mockGetter struct {
	executeFunc func(ctx context.Context, req dto.GetApplicationRequest) (dto.PurchaseApplicationResponse, error)
}

func (m *mockGetter) Execute(ctx context.Context, req dto.GetApplicationRequest) (dto.PurchaseApplicationResponse, error) {
	return m.executeFunc(ctx, req)
}

type mockLister struct {
	executeFunc func(ctx context.Context, req dto.ListCustomerApplicationsRequest) (dto.ListCustomerApplicationsResponse, error)
}

func (m *mockLister) Execute(ctx context.Context, req dto.ListCustomerApplicationsRequest) (dto.ListCustomerApplicationsResponse, error) {
	return m.executeFunc(ctx, req)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMux(apply *mockApplier, get *mockGetter, list *mockLister) *http.ServeMux {
	if apply == nil {
		apply = &mockApplier{}
	}
	if get == nil {
		get = &mockGetter{}
	}
	if list == nil {
		list = &mockLister{}
	}
	mux := http.NewServeMux()
	NewPurchaseHandler(apply, get, list, discardLogger()).RegisterRoutes(mux)
	return mux
}

func serve(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestApplyForPurchase(t *testing.T) {
	t.Run("approved decision", func(t *testing.T) {
		var got dto.ApplyForPurchaseRequest
		apply := &mockApplier{executeFunc: func(_ context.Context, req dto.ApplyForPurchaseRequest) (dto.PurchaseDecisionResponse, error) {
			got = req
			return dto.PurchaseDecisionResponse{
				ApplicationID:        "app-1",
				Status:               "APPROVED",
				Approved:             true,
				ApprovedAmount:       decimal.NewFromInt(1100),
				ApprovedPeriodMonths: 12,
			}, nil
		}}
		mux := newTestMux(apply, nil, nil)

		rec := serve(mux, http.MethodPost, "/api/purchase/apply",
			`{"personalId":"12345678912","requestedAmount":1000,"paymentPeriodMonths":12}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "12345678912", got.PersonalID)
		assert.True(t, got.RequestedAmount.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, 12, got.PaymentPeriodMonths)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "APPROVED", body["status"])
		assert.Equal(t, true, body["approved"])
		assert.Equal(t, "1100", body["approvedAmount"])
		assert.Equal(t, float64(12), body["approvedPeriodMonths"])
		assert.Equal(t, "app-1", body["applicationId"])
	})

	t.Run("amount as string keeps precision", func(t *testing.T) {
		var got dto.ApplyForPurchaseRequest
		apply := &mockApplier{executeFunc: func(_ context.Context, req dto.ApplyForPurchaseRequest) (dto.PurchaseDecisionResponse, error) {
			got = req
			return dto.PurchaseDecisionResponse{Status: "DENIED"}, nil
		}}

		rec := serve(newTestMux(apply, nil, nil), http.MethodPost, "/api/purchase/apply",
			`{"personalId":"12345678999","requestedAmount":"1050.50","paymentPeriodMonths":12}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "1050.5", got.RequestedAmount.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := serve(newTestMux(nil, nil, nil), http.MethodPost, "/api/purchase/apply", `{"personalId":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	errorCases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid request", fmt.Errorf("%w: personal ID is required", usecase.ErrInvalidRequest), http.StatusBadRequest},
		{"unknown customer", fmt.Errorf("lookup capacity: %w", port.ErrUnknownCustomer), http.StatusNotFound},
		{"infrastructure failure", errors.New("save application: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			apply := &mockApplier{executeFunc: func(context.Context, dto.ApplyForPurchaseRequest) (dto.PurchaseDecisionResponse, error) {
				return dto.PurchaseDecisionResponse{}, tc.err
			}}

			rec := serve(newTestMux(apply, nil, nil), http.MethodPost, "/api/purchase/apply",
				`{"personalId":"1","requestedAmount":500,"paymentPeriodMonths":12}`)

			assert.Equal(t, tc.code, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.NotContains(t, body.Error, "connection refused")
		})
	}

	t.Run("wrong method", func(t *testing.T) {
		rec := serve(newTestMux(nil, nil, nil), http.MethodGet, "/api/purchase/apply", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestGetApplication(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	get := &mockGetter{executeFunc: func(_ context.Context, req dto.GetApplicationRequest) (dto.PurchaseApplicationResponse, error) {
		if req.ApplicationID != "app-1" {
			return dto.PurchaseApplicationResponse{}, fmt.Errorf("find application: %w", port.ErrApplicationNotFound)
		}
		return dto.PurchaseApplicationResponse{ID: "app-1", Status: "DENIED", CreatedAt: created}, nil
	}}
	mux := newTestMux(nil, get, nil)

	rec := serve(mux, http.MethodGet, "/api/purchase/applications/app-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body dto.PurchaseApplicationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "app-1", body.ID)
	assert.True(t, body.CreatedAt.Equal(created))

	rec = serve(mux, http.MethodGet, "/api/purchase/applications/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCustomerApplications(t *testing.T) {
	var got string
	list := &mockLister{executeFunc: func(_ context.Context, req dto.ListCustomerApplicationsRequest) (dto.ListCustomerApplicationsResponse, error) {
		got = req.PersonalID
		return dto.ListCustomerApplicationsResponse{Applications: []dto.PurchaseApplicationResponse{}}, nil
	}}

	rec := serve(newTestMux(nil, nil, list), http.MethodGet, "/api/purchase/customers/12345678912/applications", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12345678912", got)
	assert.JSONEq(t, `{"applications":[]}`, rec.Body.String())
}
