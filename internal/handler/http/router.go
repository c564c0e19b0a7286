package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopmesh/storefront/internal/cart"
	"github.com/shopmesh/storefront/internal/catalog"
	"github.com/shopmesh/storefront/internal/order"
	"github.com/shopmesh/storefront/internal/query"
	"github.com/shopmesh/storefront/internal/store"
	"github.com/shopmesh/storefront/pkg/health"
	"github.com/shopmesh/storefront/pkg/middleware"
)

// RouterDeps bundles everything the storefront router serves.
type RouterDeps struct {
	Codec         *query.Codec
	Sessions      *store.Manager
	Orchestrator  *catalog.Orchestrator
	Mutator       *cart.Mutator
	Resolver      *order.Resolver
	HealthHandler *health.Handler
	Logger        *slog.Logger
	CORSOrigins   []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	if len(deps.CORSOrigins) > 0 {
		corsCfg.AllowedOrigins = deps.CORSOrigins
	}

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORS(corsCfg))

	// Health check endpoints
	r.Get("/health/live", deps.HealthHandler.LivenessHandler())
	r.Get("/health/ready", deps.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(deps.Codec, deps.Sessions, deps.Orchestrator, deps.Logger)
	cartHandler := NewCartHandler(deps.Mutator, deps.Sessions, deps.Logger)
	orderHandler := NewOrderHandler(deps.Resolver, deps.Sessions, deps.Logger)

	r.Route("/api/v1/storefront", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Get("/categories/{category}/products", catalogHandler.ListProducts)

		r.Post("/filters/toggle", catalogHandler.ToggleFilter)
		r.Post("/filters/set", catalogHandler.SetFilter)

		r.Get("/cart", cartHandler.GetCart)
		r.Patch("/cart/items/{itemId}", cartHandler.ChangeQuantity)
		r.Delete("/cart/items/{itemId}", cartHandler.RemoveItem)

		r.Get("/orders/summary", orderHandler.GetSummary)
	})

	return r
}
