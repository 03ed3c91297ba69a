package rest

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

// RouterConfig collects what the HTTP listener serves. Metrics and Limiter are optional.
type RouterConfig struct {
	Purchase *PurchaseHandler
	Health   *HealthHandler
	Metrics  http.Handler
	Limiter  *RateLimiter
	Logger   *slog.Logger
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// NewRouter builds the service mux wrapped in tracing, logging and rate
// limiting. Health checks and scrapes are not traced.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	cfg.Purchase.RegisterRoutes(mux)
	cfg.Health.RegisterRoutes(mux)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	var h http.Handler = mux
	if cfg.Limiter != nil {
		h = RateLimitMiddleware(cfg.Limiter)(h)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h = LoggingMiddleware(logger)(h)

	opts := []otelhttp.Option{
		otelhttp.WithFilter(func(r *http.Request) bool {
			switch r.URL.Path {
			case "/healthz", "/readyz", "/metrics":
				return false
			}
			return true
		}),
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}
	return otelhttp.NewHandler(h, "purchase-approval.http", opts...)
}
