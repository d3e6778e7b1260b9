package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ebuitra10/SmartOrderAIProject/pkg/health"
	"github.com/ebuitra10/SmartOrderAIProject/pkg/middleware"
	"github.com/ebuitra10/SmartOrderAIProject/services/fulfillment/internal/service"
)

// NewRouter creates a chi router with all fulfillment service routes registered.
func NewRouter(
	fulfillmentService *service.FulfillmentService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("fulfillment"))
	r.Use(middleware.Tracing("fulfillment"))
	r.Use(middleware.TrustForwardedIdentity())
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	// Fulfillment API endpoints
	fulfillmentHandler := NewFulfillmentHandler(fulfillmentService, logger)

	r.Route("/api/fulfillment", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", fulfillmentHandler.ListLineItems)
		r.Post("/orders/{orderID}", fulfillmentHandler.FulfillOrder)
		r.Get("/orders/{orderID}", fulfillmentHandler.GetLineItems)
		r.Delete("/orders/{orderID}", fulfillmentHandler.DeleteLineItems)
	})

	return r
}
