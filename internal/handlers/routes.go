package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/api/health", h.handleHealth)
	r.Get("/api/championships", h.handleListChampionships)
	r.Get("/api/championships/{id}/classifications", h.handleListClassifications)
	r.Get("/api/classifications/{id}/standings", h.handleClassificationStandings)

	return r
}
