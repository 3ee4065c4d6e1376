package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kelly-developers/agriecommerce/internal/session"
	"github.com/kelly-developers/agriecommerce/pkg/health"
	"github.com/kelly-developers/agriecommerce/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	sessions *session.Manager,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware. No chi Timeout here: checkout requests legally
	// outlive any sane per-request deadline while payment polls run.
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health and metrics endpoints.
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	cartHandler := NewCartHandler(sessions, logger)
	checkoutHandler := NewCheckoutHandler(sessions, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionID)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productID}", cartHandler.UpdateQuantity)
			r.Delete("/items/{productID}", cartHandler.RemoveItem)
		})

		r.Route("/session", func(r chi.Router) {
			r.Post("/login", checkoutHandler.Login)
			r.Post("/logout", checkoutHandler.Logout)
		})

		r.Post("/checkout", checkoutHandler.PlaceOrder)
	})

	return r
}
