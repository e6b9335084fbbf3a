/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/presets/*     Built-in calendar presets
  /api/calendars/*   Stored calendar management
  /api/calendar      Active calendar
  /api/*             Engine operations (parse, resolve, shift, ...)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

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
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Preset routes
		r.Route("/presets", func(r chi.Router) {
			r.Get("/", h.ListPresets)
			r.Post("/{id}/activate", h.ActivatePreset)
		})

		// Stored calendar routes
		r.Route("/calendars", func(r chi.Router) {
			r.Get("/", h.ListCalendars)
			r.Post("/", h.CreateCalendar)
			r.Get("/{id}", h.GetCalendar)
			r.Post("/{id}/activate", h.ActivateCalendar)
		})

		// Active calendar
		r.Get("/calendar", h.GetActiveCalendar)

		// Engine operations
		r.Post("/parse", h.Parse)
		r.Get("/resolve", h.Resolve)
		r.Post("/shift", h.Shift)
		r.Post("/distance", h.Distance)
		r.Post("/sequence", h.Sequence)
		r.Post("/format", h.Format)
		r.Post("/years", h.Years)
		r.Get("/current", h.Current)
	})

	return r
}
