package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires the flat (method, path) route table. Both the
// not-found and method-not-allowed fallbacks answer with
// "Endpoint not found" so any pair outside the table behaves the same.
func NewRouter(h *Handler, users *UserHandler, books *BookHandler, health *HealthHandler, metricsHandler *MetricsHandler, mws ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	for _, mw := range mws {
		r.Use(mw)
	}

	r.Get("/users", users.List)
	r.Get("/user", users.Get)
	r.Post("/user", users.Create)
	r.Put("/user", users.Update)
	r.Delete("/user", users.Delete)

	r.Get("/books", books.List)
	r.Get("/book", books.Get)
	r.Post("/book", books.Create)
	r.Put("/book", books.Update)
	r.Delete("/book", books.Delete)

	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
