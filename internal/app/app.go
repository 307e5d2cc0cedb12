// Package app wires the repository, services and HTTP handlers together.
package app

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emerald-arrow/wikipedia-tools/internal/handlers"
	"github.com/emerald-arrow/wikipedia-tools/internal/logger"
	"github.com/emerald-arrow/wikipedia-tools/internal/repository"
	"github.com/emerald-arrow/wikipedia-tools/internal/services"
	"github.com/emerald-arrow/wikipedia-tools/pkg/alkamel"
)

// App holds all application dependencies
type App struct {
	log       logger.Logger
	repo      *repository.Repository
	importer  *services.ImportService
	standings *services.StandingsService
	handlers  *handlers.Handlers
}

// New creates and initializes a new application instance
func New(log logger.Logger, dbPath string) (*App, error) {
	repo, err := repository.New(dbPath)
	if err != nil {
		return nil, err
	}

	scoring := services.NewScoringService(log)
	importer := services.NewImportService(log, repo, scoring, alkamel.NewReader())
	standings := services.NewStandingsService(log, repo)
	h := handlers.New(repo, standings, repo, log)

	return &App{
		log:       log,
		repo:      repo,
		importer:  importer,
		standings: standings,
		handlers:  h,
	}, nil
}

// Import runs one results import against the database.
func (a *App) Import(ctx context.Context, req services.ImportRequest, src io.Reader) (*services.ImportSummary, error) {
	return a.importer.ImportResults(ctx, req, src)
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Run starts the HTTP server
func (a *App) Run(addr string) error {
	a.log.Info("server starting", "addr", addr)
	return http.ListenAndServe(addr, a.Router())
}

// Close releases app resources
func (a *App) Close() error {
	return a.repo.Close()
}
