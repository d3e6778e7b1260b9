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
	"github.com/ebuitra10/SmartOrderAIProject/services/role/internal/service"
)

// NewRouter creates a chi router with all role service routes registered.
func NewRouter(
	roleService *service.RoleService,
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
	r.Use(middleware.PrometheusMetrics("role"))
	r.Use(middleware.Tracing("role"))
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

	// Role API endpoints
	roleHandler := NewRoleHandler(roleService, logger)

	r.Route("/api/roles", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", roleHandler.CreateRole)
		r.Get("/", roleHandler.ListRoles)
		r.Get("/{id}", roleHandler.GetRole)
		r.Put("/{id}", roleHandler.UpdateRole)
		r.Delete("/{id}", roleHandler.DeleteRole)
	})

	return r
}
