/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the browser client

METHOD HANDLING:
  chi answers 405 for verbs not registered on a matched route, which
  is the contract every write endpoint relies on.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", h.ListSessions)
			r.Post("/", h.CreateSession)
			r.Delete("/", h.DeleteSessions)
		})

		r.Route("/counts", func(r chi.Router) {
			r.Get("/", h.ListCounts)
			r.Patch("/", h.PatchCount)
		})
		r.Post("/counts-seed", h.SeedCounts)

		r.Route("/destructions", func(r chi.Router) {
			r.Get("/", h.ListDestructions)
			r.Post("/", h.AddDestruction)
			r.Delete("/", h.RemoveDestruction)
		})

		r.Route("/mapping", func(r chi.Router) {
			r.Get("/", h.GetMapping)
			r.Put("/", h.PutMapping)
			r.Post("/detect", h.DetectMapping)
		})

		r.Post("/scan", h.Scan)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/counts.csv", h.CountsReport)
			r.Get("/destructions.csv", h.DestructionsReport)
		})

		r.Get("/admin-wipe", h.AdminWipe)
	})

	return r
}
