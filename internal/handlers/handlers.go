package handlers

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/emerald-arrow/wikipedia-tools/internal/logger"
	"github.com/emerald-arrow/wikipedia-tools/internal/models"
	"github.com/emerald-arrow/wikipedia-tools/internal/repository"
	"github.com/emerald-arrow/wikipedia-tools/internal/services"
)

// Catalog is the read-only slice of the repository the API serves from.
type Catalog interface {
	ListChampionships(ctx context.Context) ([]models.Championship, error)
	ListClassifications(ctx context.Context, championshipID int) ([]models.Classification, error)
}

// Pinger reports database liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Catalog   Catalog
	Standings services.StandingsServicer
	DB        Pinger
	Log       logger.Logger
}

// New creates a new Handlers instance with all dependencies
func New(catalog Catalog, standings services.StandingsServicer, db Pinger, log logger.Logger) *Handlers {
	return &Handlers{
		Catalog:   catalog,
		Standings: standings,
		DB:        db,
		Log:       log,
	}
}

// handleHealth reports process and database liveness
func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK
	if err := h.DB.Ping(r.Context()); err != nil {
		h.Log.Error("health check failed", "error", err)
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}

// handleListChampionships returns every championship
func (h *Handlers) handleListChampionships(w http.ResponseWriter, r *http.Request) {
	championships, err := h.Catalog.ListChampionships(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	if championships == nil {
		championships = []models.Championship{}
	}
	respondOK(w, championships)
}

// handleListClassifications returns a championship's active classifications
func (h *Handlers) handleListClassifications(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	classifications, err := h.Catalog.ListClassifications(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if classifications == nil {
		classifications = []models.Classification{}
	}
	respondOK(w, classifications)
}

// handleClassificationStandings returns the ranked table of one classification
func (h *Handlers) handleClassificationStandings(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	standings, err := h.Standings.Standings(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			h.respondError(w, NotFound("classification not found"))
			return
		}
		h.respondError(w, err)
		return
	}
	respondOK(w, standings)
}
