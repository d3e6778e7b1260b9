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
	"github.com/ebuitra10/SmartOrderAIProject/services/product/internal/cache"
	"github.com/ebuitra10/SmartOrderAIProject/services/product/internal/service"
)

// NewRouter creates a chi router with all product service routes registered.
func NewRouter(
	productService *service.ProductService,
	responseCache *cache.ResponseCache,
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
	r.Use(middleware.PrometheusMetrics("product"))
	r.Use(middleware.Tracing("product"))
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

	// Product API endpoints
	productHandler := NewProductHandler(productService, logger)

	r.Route("/api/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		// Catalog reads are public and safe to cache at the edge for a
		// short window; the Redis cache handles server-side reuse.
		r.Use(middleware.CacheControl(60))
		r.Use(Cache(responseCache, logger))

		r.Post("/", productHandler.CreateProduct)
		r.Get("/", productHandler.ListProducts)
		r.Get("/code/{productCode}", productHandler.GetProductByCode)
		r.Get("/{id}", productHandler.GetProduct)
		r.Put("/{id}", productHandler.UpdateProduct)
		r.Delete("/{id}", productHandler.DeleteProduct)
	})

	return r
}
