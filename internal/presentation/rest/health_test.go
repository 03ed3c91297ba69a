package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	mux := http.NewServeMux()
	NewHealthHandler("purchase-approval", nil, discardLogger()).RegisterRoutes(mux)

	rec := serve(mux, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "purchase-approval", body["service"])
}

func TestReadyz(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		mux := http.NewServeMux()
		NewHealthHandler("purchase-approval", map[string]ReadinessCheck{
			"postgres": func(context.Context) error { return nil },
		}, discardLogger()).RegisterRoutes(mux)

		rec := serve(mux, http.MethodGet, "/readyz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("failing check", func(t *testing.T) {
		mux := http.NewServeMux()
		NewHealthHandler("purchase-approval", map[string]ReadinessCheck{
			"postgres": func(context.Context) error { return errors.New("connection refused") },
			"journal":  func(context.Context) error { return nil },
		}, discardLogger()).RegisterRoutes(mux)

		rec := serve(mux, http.MethodGet, "/readyz", "")

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body struct {
			Status string            `json:"status"`
			Failed map[string]string `json:"failed"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unavailable", body.Status)
		assert.Equal(t, map[string]string{"postgres": "connection refused"}, body.Failed)
	})
}
