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
	"github.com/ebuitra10/SmartOrderAIProject/services/inventory/internal/service"
)

// NewRouter creates a chi router with all inventory service routes registered.
func NewRouter(
	inventoryService *service.InventoryService,
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
	r.Use(middleware.PrometheusMetrics("inventory"))
	r.Use(middleware.Tracing("inventory"))
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

	// Inventory API endpoints
	inventoryHandler := NewInventoryHandler(inventoryService, logger)

	r.Route("/api/inventory", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", inventoryHandler.ListInventory)
		r.Put("/", inventoryHandler.UpsertInventory)
		r.Get("/{productCode}", inventoryHandler.GetInventory)
		r.Get("/{productCode}/unit-price", inventoryHandler.GetUnitPrice)
		r.Post("/{productCode}/decrement", inventoryHandler.DecrementStock)
		r.Delete("/{productCode}", inventoryHandler.DeleteInventory)
	})

	return r
}
