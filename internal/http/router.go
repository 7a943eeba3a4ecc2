package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robertarktes/campus-reservations/internal/idempotency"
	"github.com/robertarktes/campus-reservations/internal/observability"
	"github.com/robertarktes/campus-reservations/internal/rateLimit"
)

// RouterOptions carries the optional redis-backed layers. A nil RateLimiter
// leaves requests unthrottled.
type RouterOptions struct {
	RateLimiter *rateLimit.RateLimiter
	PerMinute   int
	Idempotency *idempotency.Idempotency
}

func SetupRouter(h *Handlers, logger observability.Logger, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(AdminModeMiddleware)
	if opts.RateLimiter != nil {
		r.Use(RateLimitMiddleware(opts.RateLimiter, opts.PerMinute))
	}
	r.Use(IdempotencyMiddleware(opts.Idempotency, logger))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/{kind}", func(r chi.Router) {
			r.Get("/items", h.ListItems)
			r.Post("/items", h.AddEquipment)
			r.Get("/items/{id}", h.GetItem)
			r.Get("/categories", h.Categories)
			r.Get("/cart", h.DomainCart)
			r.Post("/cart", h.AddToCart)
			r.Delete("/cart", h.ClearDomainCart)
			r.Delete("/cart/{id}", h.RemoveFromCart)
			r.Post("/approvals", h.Submit)
		})

		r.Get("/cart", h.Cart)
		r.Delete("/cart", h.ClearCart)
		r.Post("/checkout", h.Checkout)
		r.Get("/approvals", h.PendingApprovals)
		r.Post("/approvals/{id}/approve", h.Approve)
		r.Post("/approvals/{id}/reject", h.Reject)
		r.Get("/notifications", h.Notifications)
		r.Get("/reservations", h.Reservations)
		r.Get("/users", h.ActiveLoans)
		r.Get("/audit", h.Audit)
		r.Get("/healthz", h.Healthz)
		r.Get("/readyz", h.Readyz)
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
