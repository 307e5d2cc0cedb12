package services

import (
	"context"
	"strings"

	"github.com/emerald-arrow/wikipedia-tools/internal/logger"
	"github.com/emerald-arrow/wikipedia-tools/internal/models"
)

// EligibilityRepository defines the repository methods needed by EligibilityResolver
type EligibilityRepository interface {
	IsIneligible(ctx context.Context, classificationID, entityID int) (bool, error)
}

// EligibilityResolver decides which classifications a result row may score
// in. A category string from the results file ("LMP2", "GTE Am") selects
// every classification whose name contains it, and the classification's
// kind then dictates which entity of the row must pass the per-
// classification exclusion list.
type EligibilityResolver struct {
	log             logger.Logger
	repo            EligibilityRepository
	classifications []models.Classification
	loweredNames    []string
}

// NewEligibilityResolver builds a resolver over one scoring run's
// classification catalog. The lowercased name index is computed once here
// so the per-row matching below is a plain substring check.
func NewEligibilityResolver(log logger.Logger, repo EligibilityRepository, classifications []models.Classification) *EligibilityResolver {
	lowered := make([]string, len(classifications))
	for i, cl := range classifications {
		lowered[i] = strings.ToLower(cl.Name)
	}
	return &EligibilityResolver{
		log:             log,
		repo:            repo,
		classifications: classifications,
		loweredNames:    lowered,
	}
}

// Resolve matches a row's category against the catalog and returns the
// classification slots the row may score in, at most one per kind. Absence
// of a match is a normal outcome, not an error.
//
// DRIVERS classifications require every driver of the row to pass the
// exclusion check; a row with no resolved drivers is not eligible at all.
// MANUFACTURERS classifications additionally require a resolved
// manufacturer. TEAMS and MANUFACTURERS eligibility is decided by the team.
func (r *EligibilityResolver) Resolve(ctx context.Context, category string, teamID int, driverIDs []int, manufacturerID *int) (models.EligibleClassifications, error) {
	var eligible models.EligibleClassifications
	needle := strings.ToLower(category)

	for i := range r.classifications {
		if !strings.Contains(r.loweredNames[i], needle) {
			continue
		}
		cl := &r.classifications[i]

		switch cl.Kind {
		case models.KindDrivers:
			ok, err := r.allDriversEligible(ctx, cl.ID, driverIDs)
			if err != nil {
				return models.EligibleClassifications{}, err
			}
			if ok {
				eligible.Driver.Classification = cl
			}
		case models.KindManufacturers:
			if manufacturerID == nil {
				continue
			}
			ineligible, err := r.repo.IsIneligible(ctx, cl.ID, teamID)
			if err != nil {
				return models.EligibleClassifications{}, err
			}
			if !ineligible {
				eligible.Manufacturer.Classification = cl
			}
		case models.KindTeams:
			ineligible, err := r.repo.IsIneligible(ctx, cl.ID, teamID)
			if err != nil {
				return models.EligibleClassifications{}, err
			}
			if !ineligible {
				eligible.Team.Classification = cl
			}
		}
	}

	return eligible, nil
}

// allDriversEligible requires a non-empty driver list where no driver is
// excluded. Rows without drivers must not silently score in a drivers'
// classification.
func (r *EligibilityResolver) allDriversEligible(ctx context.Context, classificationID int, driverIDs []int) (bool, error) {
	if len(driverIDs) == 0 {
		return false, nil
	}
	for _, id := range driverIDs {
		ineligible, err := r.repo.IsIneligible(ctx, classificationID, id)
		if err != nil {
			return false, err
		}
		if ineligible {
			return false, nil
		}
	}
	return true, nil
}
