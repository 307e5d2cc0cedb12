package services

import (
	"context"
	"io"

	"github.com/emerald-arrow/wikipedia-tools/internal/models"
)

// ImportServicer defines the interface for results import operations
type ImportServicer interface {
	ImportResults(ctx context.Context, req ImportRequest, src io.Reader) (*ImportSummary, error)
}

// StandingsServicer defines the interface for standings operations
type StandingsServicer interface {
	Standings(ctx context.Context, classificationID int) (*Standings, error)
	EntityResults(ctx context.Context, classificationID, entityID int) ([]models.RoundResult, error)
}

// Ensure concrete types implement interfaces
var (
	_ ImportServicer    = (*ImportService)(nil)
	_ StandingsServicer = (*StandingsService)(nil)
)
