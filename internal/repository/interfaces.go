package repository

import (
	"context"

	"github.com/emerald-arrow/wikipedia-tools/internal/models"
)

// ChampionshipRepository defines championship data operations
type ChampionshipRepository interface {
	ListChampionships(ctx context.Context) ([]models.Championship, error)
	CreateChampionship(ctx context.Context, name string) (int64, error)
}

// ClassificationRepository defines classification catalog operations
type ClassificationRepository interface {
	CreateClassification(ctx context.Context, cl models.Classification) (int64, error)
	ListClassifications(ctx context.Context, championshipID int) ([]models.Classification, error)
	ClassificationsBySeason(ctx context.Context, championshipID int, season string) ([]models.Classification, error)
	ClassificationByID(ctx context.Context, id int) (*models.Classification, error)
	IsIneligible(ctx context.Context, classificationID, entityID int) (bool, error)
	MarkIneligible(ctx context.Context, classificationID, entityID int) error
	RacesHeld(ctx context.Context, classificationID int) (int, error)
}

// EntityRepository defines driver, team and manufacturer directory operations
type EntityRepository interface {
	CreateDriver(ctx context.Context, d models.Driver) (int64, error)
	DriverByCodename(ctx context.Context, codename string) (*models.Driver, error)
	DriverByID(ctx context.Context, id int) (*models.Driver, error)
	CreateTeam(ctx context.Context, championshipID int, t models.Team, scoring bool) (int64, error)
	TeamEntry(ctx context.Context, codename string, championshipID int) (*models.TeamEntry, error)
	TeamByID(ctx context.Context, id int) (*models.Team, error)
	CreateManufacturer(ctx context.Context, m models.Manufacturer) (int64, error)
	ListManufacturers(ctx context.Context) ([]models.Manufacturer, error)
	ManufacturerByID(ctx context.Context, id int) (*models.Manufacturer, error)
	RefreshManufacturerTimestamps(ctx context.Context, ids []int) error
}

// StylingRepository defines points-system and result-styling operations
type StylingRepository interface {
	CreateResultStyle(ctx context.Context, status string, style models.Style) (int64, error)
	AddPointsSystemEntry(ctx context.Context, championshipID int, scale float64, sessionID, place int, points float64, styleID int) error
	PointsScales(ctx context.Context, championshipID int) ([]float64, error)
	ScoringSessions(ctx context.Context, championshipID int, scale float64) ([]models.Session, error)
	StyledPointsSystem(ctx context.Context, championshipID int, scale float64, sessionID int) ([]models.StyledPosition, error)
	StyledNonscoringStatuses(ctx context.Context) ([]models.StyledStatus, error)
	SessionByName(ctx context.Context, name string) (*models.Session, error)
}

// StandingRow is an entity's points total within one classification.
type StandingRow struct {
	EntityID int
	Points   float64
}

// ScoreRepository defines score persistence and retrieval operations
type ScoreRepository interface {
	HasRoundSession(ctx context.Context, classificationIDs []int, roundNumber, sessionID int) (bool, error)
	SaveSessionScores(ctx context.Context, classificationIDs []int, roundNumber, sessionID int, scores []models.Score, replace bool) error
	EntityRoundResults(ctx context.Context, entityID, classificationID int) ([]models.RoundResult, error)
	ClassificationStandings(ctx context.Context, classificationID int) ([]StandingRow, error)
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	ChampionshipRepository
	ClassificationRepository
	EntityRepository
	StylingRepository
	ScoreRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
