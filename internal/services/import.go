package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/emerald-arrow/wikipedia-tools/internal/errors"
	"github.com/emerald-arrow/wikipedia-tools/internal/logger"
	"github.com/emerald-arrow/wikipedia-tools/internal/models"
	"github.com/emerald-arrow/wikipedia-tools/internal/repository"
	"github.com/emerald-arrow/wikipedia-tools/pkg/alkamel"
)

// ImportRepository defines the repository methods needed by ImportService
type ImportRepository interface {
	ClassificationsBySeason(ctx context.Context, championshipID int, season string) ([]models.Classification, error)
	IsIneligible(ctx context.Context, classificationID, entityID int) (bool, error)
	PointsScales(ctx context.Context, championshipID int) ([]float64, error)
	ScoringSessions(ctx context.Context, championshipID int, scale float64) ([]models.Session, error)
	StyledPointsSystem(ctx context.Context, championshipID int, scale float64, sessionID int) ([]models.StyledPosition, error)
	StyledNonscoringStatuses(ctx context.Context) ([]models.StyledStatus, error)
	TeamEntry(ctx context.Context, codename string, championshipID int) (*models.TeamEntry, error)
	DriverByCodename(ctx context.Context, codename string) (*models.Driver, error)
	ListManufacturers(ctx context.Context) ([]models.Manufacturer, error)
	HasRoundSession(ctx context.Context, classificationIDs []int, roundNumber, sessionID int) (bool, error)
	SaveSessionScores(ctx context.Context, classificationIDs []int, roundNumber, sessionID int, scores []models.Score, replace bool) error
	RefreshManufacturerTimestamps(ctx context.Context, ids []int) error
}

// ImportService turns one session's results file into stored score records.
type ImportService struct {
	log     logger.Logger
	repo    ImportRepository
	scoring *ScoringService
	reader  alkamel.Reader
}

// NewImportService creates a new ImportService
func NewImportService(log logger.Logger, repo ImportRepository, scoring *ScoringService, reader alkamel.Reader) *ImportService {
	return &ImportService{log: log, repo: repo, scoring: scoring, reader: reader}
}

// ImportRequest identifies the session whose results are being imported.
type ImportRequest struct {
	ChampionshipID int
	Season         string
	RoundNumber    int
	// SessionName may be empty when exactly one session awards points.
	SessionName string
	// Scale may be zero when exactly one points scale is configured.
	Scale float64
	// HalfPoints applies the organizer's half-points decision; races only.
	HalfPoints bool
	// Replace confirms overwriting previously recorded scores of the same
	// round and session.
	Replace bool
}

// ImportSummary describes what one import did.
type ImportSummary struct {
	Session       models.Session `json:"session"`
	RowsProcessed int            `json:"rows_processed"`
	RowsSkipped   int            `json:"rows_skipped"`
	ScoresSaved   int            `json:"scores_saved"`
	Replaced      bool           `json:"replaced"`
}

// ImportResults runs the whole pipeline: loads the scoring configuration,
// reads and resolves the file, scores every row and stores the outcome in
// one transaction. Configuration gaps and unknown entities abort the run
// before anything is written.
func (s *ImportService) ImportResults(ctx context.Context, req ImportRequest, src io.Reader) (*ImportSummary, error) {
	if req.RoundNumber <= 0 {
		return nil, errors.Validation("round number must be greater than 0")
	}

	classifications, err := s.repo.ClassificationsBySeason(ctx, req.ChampionshipID, req.Season)
	if err != nil {
		return nil, fmt.Errorf("loading classifications: %w", err)
	}
	if len(classifications) == 0 {
		return nil, ErrNoClassifications
	}

	caps, err := manufacturerCaps(classifications)
	if err != nil {
		return nil, err
	}

	scale, err := s.resolveScale(ctx, req)
	if err != nil {
		return nil, err
	}

	session, err := s.resolveSession(ctx, req, scale)
	if err != nil {
		return nil, err
	}

	if req.HalfPoints && !session.IsRace() {
		return nil, errors.Validation("half points apply to race sessions only")
	}
	awarded := models.FullPoints
	if req.HalfPoints {
		awarded = models.HalfPoints
	}

	nonscoringStyles, err := s.repo.StyledNonscoringStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading status styles: %w", err)
	}
	if len(nonscoringStyles) == 0 && session.IsRace() {
		return nil, ErrNoStatusStyles
	}

	scoringStyles, err := s.repo.StyledPointsSystem(ctx, req.ChampionshipID, scale, session.ID)
	if err != nil {
		return nil, fmt.Errorf("loading points system: %w", err)
	}
	if len(scoringStyles) == 0 {
		return nil, ErrNoResultStyles
	}

	var manufacturers []models.Manufacturer
	if len(caps) > 0 {
		manufacturers, err = s.repo.ListManufacturers(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading manufacturers: %w", err)
		}
		if len(manufacturers) == 0 {
			return nil, ErrNoManufacturers
		}
	}

	classificationIDs := make([]int, len(classifications))
	for i, cl := range classifications {
		classificationIDs[i] = cl.ID
	}

	// A round/session conflict in any of the championship's classifications
	// blocks the run; the same set is cleared when replacing.
	exists, err := s.repo.HasRoundSession(ctx, classificationIDs, req.RoundNumber, session.ID)
	if err != nil {
		return nil, fmt.Errorf("checking existing scores: %w", err)
	}
	if exists && !req.Replace {
		return nil, ErrScoresExist
	}

	entries, err := s.reader.ReadResults(src)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrValidation, "reading results file")
	}

	rows, skipped, err := s.resolveRows(ctx, entries, req.ChampionshipID, classifications, manufacturers)
	if err != nil {
		return nil, err
	}

	budgets := NewManufacturerBudgets(manufacturers, caps)
	s.scoring.Score(rows, classifications, scoringStyles, nonscoringStyles, *session, budgets, awarded)

	scores := collectScores(rows, req.RoundNumber, session.ID)

	if err := s.repo.SaveSessionScores(ctx, classificationIDs, req.RoundNumber, session.ID, scores, exists); err != nil {
		return nil, fmt.Errorf("saving scores: %w", err)
	}

	if err := s.repo.RefreshManufacturerTimestamps(ctx, seenManufacturers(rows)); err != nil {
		return nil, fmt.Errorf("refreshing manufacturer timestamps: %w", err)
	}

	s.log.Info("imported session results",
		"championship", req.ChampionshipID,
		"season", req.Season,
		"round", req.RoundNumber,
		"session", session.Name,
		"rows", len(rows),
		"scores", len(scores),
		"replaced", exists)

	return &ImportSummary{
		Session:       *session,
		RowsProcessed: len(rows),
		RowsSkipped:   skipped,
		ScoresSaved:   len(scores),
		Replaced:      exists,
	}, nil
}

// manufacturerCaps parses the scoring-car cap of every manufacturers'
// classification. A missing cap is a configuration error.
func manufacturerCaps(classifications []models.Classification) (map[string]models.ScoringCap, error) {
	caps := make(map[string]models.ScoringCap)
	for _, cl := range classifications {
		if cl.Kind != models.KindManufacturers {
			continue
		}
		if cl.ScoringCars == "" {
			return nil, errors.Configurationf("%s: no scoring car cap configured", cl.Name)
		}
		parsed, err := models.ParseScoringCap(cl.ScoringCars)
		if err != nil {
			return nil, errors.Configurationf("%s: %v", cl.Name, err)
		}
		caps[cl.Name] = parsed
	}
	return caps, nil
}

func (s *ImportService) resolveScale(ctx context.Context, req ImportRequest) (float64, error) {
	scales, err := s.repo.PointsScales(ctx, req.ChampionshipID)
	if err != nil {
		return 0, fmt.Errorf("loading points scales: %w", err)
	}
	if len(scales) == 0 {
		return 0, ErrNoPointsScales
	}
	if req.Scale == 0 {
		if len(scales) > 1 {
			return 0, errors.Validationf("championship has %d points scales, one must be chosen", len(scales))
		}
		return scales[0], nil
	}
	for _, scale := range scales {
		if scale == req.Scale {
			return scale, nil
		}
	}
	return 0, errors.Validationf("points scale %v is not configured for this championship", req.Scale)
}

func (s *ImportService) resolveSession(ctx context.Context, req ImportRequest, scale float64) (*models.Session, error) {
	sessions, err := s.repo.ScoringSessions(ctx, req.ChampionshipID, scale)
	if err != nil {
		return nil, fmt.Errorf("loading scoring sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil, ErrNoScoringSessions
	}
	if req.SessionName == "" {
		if len(sessions) > 1 {
			return nil, errors.Validationf("%d sessions award points, one must be chosen", len(sessions))
		}
		return &sessions[0], nil
	}
	for i := range sessions {
		if strings.EqualFold(sessions[i].Name, req.SessionName) {
			return &sessions[i], nil
		}
	}
	return nil, errors.Validationf("session %q does not award points under this scale", req.SessionName)
}

// resolveRows maps file entries onto directory entities and decides
// eligibility. Unknown teams and drivers are collected and reported
// together; any of them rejects the whole file. Rows of non-scoring (guest)
// team entries are skipped silently.
func (s *ImportService) resolveRows(
	ctx context.Context,
	entries []alkamel.Entry,
	championshipID int,
	classifications []models.Classification,
	manufacturers []models.Manufacturer,
) ([]*models.ResultRow, int, error) {
	resolver := NewEligibilityResolver(s.log, s.repo, classifications)
	missing := &MissingEntitiesError{}
	skipped := 0

	var rows []*models.ResultRow
	for _, entry := range entries {
		codename := entry.TeamCodename()

		teamEntry, err := s.repo.TeamEntry(ctx, codename, championshipID)
		if stderrors.Is(err, repository.ErrNotFound) {
			missing.Teams = append(missing.Teams, codename)
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("looking up team %q: %w", codename, err)
		}
		if !teamEntry.Scoring {
			skipped++
			continue
		}

		var drivers []models.Driver
		for _, name := range entry.Drivers {
			driver, err := s.repo.DriverByCodename(ctx, name)
			if stderrors.Is(err, repository.ErrNotFound) {
				missing.Drivers = append(missing.Drivers, name)
				continue
			}
			if err != nil {
				return nil, 0, fmt.Errorf("looking up driver %q: %w", name, err)
			}
			drivers = append(drivers, *driver)
		}

		manufacturer := matchManufacturer(manufacturers, entry.Vehicle)

		driverIDs := make([]int, len(drivers))
		for i, d := range drivers {
			driverIDs[i] = d.ID
		}
		var manufacturerID *int
		if manufacturer != nil {
			manufacturerID = &manufacturer.ID
		}

		eligible, err := resolver.Resolve(ctx, entry.Class, teamEntry.Team.ID, driverIDs, manufacturerID)
		if err != nil {
			return nil, 0, fmt.Errorf("resolving eligibility for %q: %w", codename, err)
		}

		// The manufacturer reference is only kept when the row actually
		// scores in a manufacturers' classification.
		if eligible.Manufacturer.Classification == nil {
			manufacturer = nil
		}

		rows = append(rows, &models.ResultRow{
			Drivers:      drivers,
			Team:         teamEntry.Team,
			Manufacturer: manufacturer,
			Status:       entry.Status,
			Eligible:     eligible,
		})
	}

	if missing.Any() {
		return nil, 0, missing
	}
	return rows, skipped, nil
}

// matchManufacturer finds the manufacturer whose codename appears in the
// vehicle name.
func matchManufacturer(manufacturers []models.Manufacturer, vehicle string) *models.Manufacturer {
	lowered := strings.ToLower(vehicle)
	for i := range manufacturers {
		if strings.Contains(lowered, strings.ToLower(manufacturers[i].Codename)) {
			m := manufacturers[i]
			return &m
		}
	}
	return nil
}

// collectScores flattens the annotated rows into persistable score records.
// Driver scores come first; the team slot is persisted only when a driver
// slot was, which keeps qualifying results out of teams' classifications
// whose drivers score no qualifying points.
func collectScores(rows []*models.ResultRow, roundNumber, sessionID int) []models.Score {
	var scores []models.Score
	for _, row := range rows {
		driversAdded := false

		if slot := row.Eligible.Driver; slot.Classification != nil && slot.Assigned() {
			for _, driver := range row.Drivers {
				scores = append(scores, models.Score{
					ClassificationID: slot.Classification.ID,
					RoundNumber:      roundNumber,
					SessionID:        sessionID,
					EntityID:         driver.ID,
					Place:            slot.Position,
					Points:           slot.Points,
					StyleID:          *slot.StyleID,
				})
				driversAdded = true
			}
		}

		if slot := row.Eligible.Manufacturer; slot.Classification != nil && slot.Assigned() && row.Manufacturer != nil {
			scores = append(scores, models.Score{
				ClassificationID: slot.Classification.ID,
				RoundNumber:      roundNumber,
				SessionID:        sessionID,
				EntityID:         row.Manufacturer.ID,
				Place:            slot.Position,
				Points:           slot.Points,
				StyleID:          *slot.StyleID,
			})
		}

		if slot := row.Eligible.Team; slot.Classification != nil && slot.Assigned() && driversAdded {
			scores = append(scores, models.Score{
				ClassificationID: slot.Classification.ID,
				RoundNumber:      roundNumber,
				SessionID:        sessionID,
				EntityID:         row.Team.ID,
				Place:            slot.Position,
				Points:           slot.Points,
				StyleID:          *slot.StyleID,
			})
		}
	}
	return scores
}

// seenManufacturers returns the distinct manufacturer ids of the rows.
func seenManufacturers(rows []*models.ResultRow) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, row := range rows {
		if row.Manufacturer != nil && !seen[row.Manufacturer.ID] {
			seen[row.Manufacturer.ID] = true
			ids = append(ids, row.Manufacturer.ID)
		}
	}
	return ids
}
