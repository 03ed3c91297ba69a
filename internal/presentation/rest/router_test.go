package rest

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/bibbank/purchase-approval/internal/application/dto"
	"github.com/bibbank/purchase-approval/internal/domain/port"
)

func TestNewRouter_Tracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	get := &mockGetter{executeFunc: func(context.Context, dto.GetApplicationRequest) (dto.PurchaseApplicationResponse, error) {
		return dto.PurchaseApplicationResponse{}, port.ErrApplicationNotFound
	}}
	router := NewRouter(RouterConfig{
		Purchase:       NewPurchaseHandler(&mockApplier{}, get, &mockLister{}, discardLogger()),
		Health:         NewHealthHandler("purchase-approval", nil, discardLogger()),
		Logger:         discardLogger(),
		TracerProvider: tp,
	})

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/healthz", "").Code)
	assert.Empty(t, exporter.GetSpans(), "health checks are not traced")

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/purchase/applications/missing", "").Code)
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "purchase-approval.http", spans[0].Name)
}
