package mock

import (
	"context"

	"github.com/emerald-arrow/wikipedia-tools/internal/models"
	"github.com/emerald-arrow/wikipedia-tools/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.ClassificationStandingsError = errors.New("database error")
//	svc := services.NewStandingsService(log, mockRepo)
//	_, err := svc.Standings(ctx, classificationID)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Championship Errors =====
	ListChampionshipsError error

	// ===== Classification Errors =====
	ListClassificationsError     error
	ClassificationsBySeasonError error
	ClassificationByIDError      error
	IsIneligibleError            error
	RacesHeldError               error

	// ===== Entity Errors =====
	DriverByCodenameError  error
	TeamEntryError         error
	ListManufacturersError error

	// ===== Styling Errors =====
	PointsScalesError             error
	ScoringSessionsError          error
	StyledPointsSystemError       error
	StyledNonscoringStatusesError error

	// ===== Score Errors =====
	HasRoundSessionError         error
	SaveSessionScoresError       error
	EntityRoundResultsError      error
	ClassificationStandingsError error
}

// NewRepository creates a mock repository wrapping a real one.
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{FullRepository: real}
}

func (m *Repository) ListChampionships(ctx context.Context) ([]models.Championship, error) {
	if m.ListChampionshipsError != nil {
		return nil, m.ListChampionshipsError
	}
	return m.FullRepository.ListChampionships(ctx)
}

func (m *Repository) ListClassifications(ctx context.Context, championshipID int) ([]models.Classification, error) {
	if m.ListClassificationsError != nil {
		return nil, m.ListClassificationsError
	}
	return m.FullRepository.ListClassifications(ctx, championshipID)
}

func (m *Repository) ClassificationsBySeason(ctx context.Context, championshipID int, season string) ([]models.Classification, error) {
	if m.ClassificationsBySeasonError != nil {
		return nil, m.ClassificationsBySeasonError
	}
	return m.FullRepository.ClassificationsBySeason(ctx, championshipID, season)
}

func (m *Repository) ClassificationByID(ctx context.Context, id int) (*models.Classification, error) {
	if m.ClassificationByIDError != nil {
		return nil, m.ClassificationByIDError
	}
	return m.FullRepository.ClassificationByID(ctx, id)
}

func (m *Repository) IsIneligible(ctx context.Context, classificationID, entityID int) (bool, error) {
	if m.IsIneligibleError != nil {
		return false, m.IsIneligibleError
	}
	return m.FullRepository.IsIneligible(ctx, classificationID, entityID)
}

func (m *Repository) RacesHeld(ctx context.Context, classificationID int) (int, error) {
	if m.RacesHeldError != nil {
		return 0, m.RacesHeldError
	}
	return m.FullRepository.RacesHeld(ctx, classificationID)
}

func (m *Repository) DriverByCodename(ctx context.Context, codename string) (*models.Driver, error) {
	if m.DriverByCodenameError != nil {
		return nil, m.DriverByCodenameError
	}
	return m.FullRepository.DriverByCodename(ctx, codename)
}

func (m *Repository) TeamEntry(ctx context.Context, codename string, championshipID int) (*models.TeamEntry, error) {
	if m.TeamEntryError != nil {
		return nil, m.TeamEntryError
	}
	return m.FullRepository.TeamEntry(ctx, codename, championshipID)
}

func (m *Repository) ListManufacturers(ctx context.Context) ([]models.Manufacturer, error) {
	if m.ListManufacturersError != nil {
		return nil, m.ListManufacturersError
	}
	return m.FullRepository.ListManufacturers(ctx)
}

func (m *Repository) PointsScales(ctx context.Context, championshipID int) ([]float64, error) {
	if m.PointsScalesError != nil {
		return nil, m.PointsScalesError
	}
	return m.FullRepository.PointsScales(ctx, championshipID)
}

func (m *Repository) ScoringSessions(ctx context.Context, championshipID int, scale float64) ([]models.Session, error) {
	if m.ScoringSessionsError != nil {
		return nil, m.ScoringSessionsError
	}
	return m.FullRepository.ScoringSessions(ctx, championshipID, scale)
}

func (m *Repository) StyledPointsSystem(ctx context.Context, championshipID int, scale float64, sessionID int) ([]models.StyledPosition, error) {
	if m.StyledPointsSystemError != nil {
		return nil, m.StyledPointsSystemError
	}
	return m.FullRepository.StyledPointsSystem(ctx, championshipID, scale, sessionID)
}

func (m *Repository) StyledNonscoringStatuses(ctx context.Context) ([]models.StyledStatus, error) {
	if m.StyledNonscoringStatusesError != nil {
		return nil, m.StyledNonscoringStatusesError
	}
	return m.FullRepository.StyledNonscoringStatuses(ctx)
}

func (m *Repository) HasRoundSession(ctx context.Context, classificationIDs []int, roundNumber, sessionID int) (bool, error) {
	if m.HasRoundSessionError != nil {
		return false, m.HasRoundSessionError
	}
	return m.FullRepository.HasRoundSession(ctx, classificationIDs, roundNumber, sessionID)
}

func (m *Repository) SaveSessionScores(ctx context.Context, classificationIDs []int, roundNumber, sessionID int, scores []models.Score, replace bool) error {
	if m.SaveSessionScoresError != nil {
		return m.SaveSessionScoresError
	}
	return m.FullRepository.SaveSessionScores(ctx, classificationIDs, roundNumber, sessionID, scores, replace)
}

func (m *Repository) EntityRoundResults(ctx context.Context, entityID, classificationID int) ([]models.RoundResult, error) {
	if m.EntityRoundResultsError != nil {
		return nil, m.EntityRoundResultsError
	}
	return m.FullRepository.EntityRoundResults(ctx, entityID, classificationID)
}

func (m *Repository) ClassificationStandings(ctx context.Context, classificationID int) ([]repository.StandingRow, error) {
	if m.ClassificationStandingsError != nil {
		return nil, m.ClassificationStandingsError
	}
	return m.FullRepository.ClassificationStandings(ctx, classificationID)
}
