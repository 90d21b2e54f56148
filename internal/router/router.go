package router

import (
	"net/http"

	"webshop/internal/config"
	"webshop/internal/handler"
	"webshop/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	benchmarkHandler *handler.BenchmarkHandler,
	cfg *config.Config,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, logger))

		api.Route("/products", func(products chi.Router) {
			products.Get("/", productHandler.List)
			products.Get("/featured", productHandler.Featured)
			products.Get("/search", productHandler.Search)
			products.Get("/categories", productHandler.Categories)
			products.Get("/{id}", productHandler.GetByID)
		})

		api.Route("/orders", func(orders chi.Router) {
			orders.Post("/", orderHandler.Create)
			// Must come before /{id} so chi does not treat "tracking" as an ID.
			orders.Get("/tracking/{trackingNumber}", orderHandler.GetByTrackingNumber)
			orders.Get("/{id}", orderHandler.GetByID)
			orders.Get("/{id}/tracking", orderHandler.GetTracking)
			orders.Patch("/{id}/status", orderHandler.UpdateStatus)
		})

		api.Route("/benchmark", func(bench chi.Router) {
			bench.Use(middleware.RateLimit(
				cfg.RateLimit.BenchmarkRequestsPerSecond,
				cfg.RateLimit.BenchmarkBurst,
				logger,
			))
			bench.Post("/", benchmarkHandler.Record)
			bench.Get("/", benchmarkHandler.List)
			bench.Get("/stats", benchmarkHandler.Stats)
		})
	})

	// Static product images
	fs := http.FileServer(http.Dir(cfg.Assets.ImageDir))
	r.Handle("/images/*", http.StripPrefix("/images/", fs))

	return r
}
