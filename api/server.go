/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Recoverer:  Panic recovery (500 instead of crash)
  2. RequestID:  Unique ID per request for tracing
  3. CORS:       Cross-origin requests for local tooling

SECURITY NOTE:
  No authentication middleware. The seeding API is a development and
  staging tool; do not expose it publicly.

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

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/seed-runs", func(r chi.Router) {
			r.Post("/", h.CreateSeedRun)
			r.Get("/", h.ListSeedRuns)
			r.Get("/{id}", h.GetSeedRun)
			r.Delete("/{id}", h.PurgeSeedRun)
		})

		// Read-only inspection of what a run produced.
		r.Get("/employees", h.ListEmployees)
		r.Get("/appointments", h.ListAppointments)
	})

	return r
}
