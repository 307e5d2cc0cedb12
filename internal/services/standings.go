package services

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/emerald-arrow/wikipedia-tools/internal/errors"
	"github.com/emerald-arrow/wikipedia-tools/internal/logger"
	"github.com/emerald-arrow/wikipedia-tools/internal/models"
	"github.com/emerald-arrow/wikipedia-tools/internal/repository"
)

// StandingsRepository defines the repository methods needed by StandingsService
type StandingsRepository interface {
	ClassificationByID(ctx context.Context, id int) (*models.Classification, error)
	RacesHeld(ctx context.Context, classificationID int) (int, error)
	ClassificationStandings(ctx context.Context, classificationID int) ([]repository.StandingRow, error)
	EntityRoundResults(ctx context.Context, entityID, classificationID int) ([]models.RoundResult, error)
	DriverByID(ctx context.Context, id int) (*models.Driver, error)
	TeamByID(ctx context.Context, id int) (*models.Team, error)
	ManufacturerByID(ctx context.Context, id int) (*models.Manufacturer, error)
}

// StandingsService assembles classification tables from stored scores.
type StandingsService struct {
	log  logger.Logger
	repo StandingsRepository
}

// NewStandingsService creates a new StandingsService
func NewStandingsService(log logger.Logger, repo StandingsRepository) *StandingsService {
	return &StandingsService{log: log, repo: repo}
}

// Standing is one ranked entry of a classification table.
type Standing struct {
	Position int                  `json:"position"`
	EntityID int                  `json:"entity_id"`
	Name     string               `json:"name"`
	Points   float64              `json:"points"`
	Results  []models.RoundResult `json:"results"`
}

// Standings is a complete classification table.
type Standings struct {
	Classification models.Classification `json:"classification"`
	RacesHeld      int                   `json:"races_held"`
	Entries        []Standing            `json:"entries"`
}

// Standings builds the ranked table of one classification. Entries share a
// position only when both their points total and their round-by-round
// results are identical; a higher single result breaks a points tie.
func (s *StandingsService) Standings(ctx context.Context, classificationID int) (*Standings, error) {
	classification, err := s.repo.ClassificationByID(ctx, classificationID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundf("classification %d not found", classificationID)
		}
		return nil, fmt.Errorf("loading classification: %w", err)
	}

	racesHeld, err := s.repo.RacesHeld(ctx, classificationID)
	if err != nil {
		return nil, fmt.Errorf("counting races held: %w", err)
	}

	rows, err := s.repo.ClassificationStandings(ctx, classificationID)
	if err != nil {
		return nil, fmt.Errorf("loading standings: %w", err)
	}

	entries := make([]Standing, 0, len(rows))
	for _, row := range rows {
		name, err := s.entityName(ctx, classification.Kind, row.EntityID)
		if err != nil {
			return nil, err
		}
		results, err := s.EntityResults(ctx, classificationID, row.EntityID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Standing{
			EntityID: row.EntityID,
			Name:     name,
			Points:   row.Points,
			Results:  results,
		})
	}

	rankEntries(entries)

	return &Standings{
		Classification: *classification,
		RacesHeld:      racesHeld,
		Entries:        entries,
	}, nil
}

// EntityResults returns one entity's stored results in round order. A
// qualifying result immediately followed by another result of the same
// round collapses into that result: its points fold in as a pole bonus and
// the surviving cell is rendered bold.
func (s *StandingsService) EntityResults(ctx context.Context, classificationID, entityID int) ([]models.RoundResult, error) {
	raw, err := s.repo.EntityRoundResults(ctx, entityID, classificationID)
	if err != nil {
		return nil, fmt.Errorf("loading round results: %w", err)
	}
	return mergePoleBonus(raw), nil
}

// mergePoleBonus folds qualifying rows into the race row of the same round.
func mergePoleBonus(results []models.RoundResult) []models.RoundResult {
	merged := make([]models.RoundResult, 0, len(results))
	for _, r := range results {
		if n := len(merged); n > 0 {
			prev := merged[n-1]
			if prev.IsQualifying() && prev.RoundNumber == r.RoundNumber && !r.IsQualifying() {
				r.Points += prev.Points
				r.Style.Bold = true
				merged[n-1] = r
				continue
			}
		}
		merged = append(merged, r)
	}
	return merged
}

// rankEntries assigns table positions to entries already sorted by points.
func rankEntries(entries []Standing) {
	for i := range entries {
		if i > 0 && sameStanding(entries[i], entries[i-1]) {
			entries[i].Position = entries[i-1].Position
			continue
		}
		entries[i].Position = i + 1
	}
}

// sameStanding reports whether two entries are inseparable: equal points and
// identical results round for round.
func sameStanding(a, b Standing) bool {
	if a.Points != b.Points || len(a.Results) != len(b.Results) {
		return false
	}
	for i := range a.Results {
		if a.Results[i].RoundNumber != b.Results[i].RoundNumber ||
			a.Results[i].Session != b.Results[i].Session ||
			a.Results[i].Place != b.Results[i].Place {
			return false
		}
	}
	return true
}

func (s *StandingsService) entityName(ctx context.Context, kind models.ClassificationKind, entityID int) (string, error) {
	switch kind {
	case models.KindDrivers:
		driver, err := s.repo.DriverByID(ctx, entityID)
		if err != nil {
			return "", fmt.Errorf("looking up driver %d: %w", entityID, err)
		}
		return driver.Codename, nil
	case models.KindTeams:
		team, err := s.repo.TeamByID(ctx, entityID)
		if err != nil {
			return "", fmt.Errorf("looking up team %d: %w", entityID, err)
		}
		return team.Codename, nil
	case models.KindManufacturers:
		manufacturer, err := s.repo.ManufacturerByID(ctx, entityID)
		if err != nil {
			return "", fmt.Errorf("looking up manufacturer %d: %w", entityID, err)
		}
		return manufacturer.Codename, nil
	}
	return "", errors.Internalf("unknown classification kind %q", kind)
}
