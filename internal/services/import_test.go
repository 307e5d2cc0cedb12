package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/emerald-arrow/wikipedia-tools/internal/errors"
	"github.com/emerald-arrow/wikipedia-tools/internal/logger"
	"github.com/emerald-arrow/wikipedia-tools/internal/models"
	"github.com/emerald-arrow/wikipedia-tools/internal/repository"
	"github.com/emerald-arrow/wikipedia-tools/internal/services"
	"github.com/emerald-arrow/wikipedia-tools/internal/testutil"
	"github.com/emerald-arrow/wikipedia-tools/pkg/alkamel"
)

// importFixture is a championship seeded with classifications, a points
// system and a small entity directory, enough to run whole imports against
// a real database.
type importFixture struct {
	repo *repository.Repository

	championshipID int
	driversClassID int
	teamsClassID   int
	makesClassID   int
	raceSessionID  int
	qualiSessionID int
	driverOneID    int
	driverTwoID    int
	driverThreeID  int
	teamSevenID    int
	teamEightID    int
	toyotaID       int
	porscheID      int
}

func setupImportFixture(t *testing.T) *importFixture {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	f := &importFixture{repo: repo}

	f.championshipID = testutil.SeedChampionship(t, repo, "FIA WEC")
	f.raceSessionID = testutil.SessionID(t, repo, models.SessionRace)
	f.qualiSessionID = testutil.SessionID(t, repo, models.SessionQualifying)

	f.driversClassID = testutil.SeedClassification(t, repo, models.Classification{
		Name: "LMP2 Drivers", ChampionshipID: f.championshipID, Season: "2024", Kind: models.KindDrivers, SeasonRounds: 8,
	})
	f.teamsClassID = testutil.SeedClassification(t, repo, models.Classification{
		Name: "LMP2 Teams", ChampionshipID: f.championshipID, Season: "2024", Kind: models.KindTeams, SeasonRounds: 8,
	})
	f.makesClassID = testutil.SeedClassification(t, repo, models.Classification{
		Name: "Hypercar Manufacturers", ChampionshipID: f.championshipID, Season: "2024", Kind: models.KindManufacturers, SeasonRounds: 8, ScoringCars: "1",
	})

	scoringStyle := testutil.SeedStyle(t, repo, "Classified, scoring", models.Style{Background: "DFFFDF"})
	poleStyle := testutil.SeedStyle(t, repo, "PP", models.Style{Background: "DFFFDF", Bold: true})
	testutil.SeedStyle(t, repo, models.StatusClassifiedNonscoring, models.Style{Background: "CFCFFF"})
	testutil.SeedStyle(t, repo, models.StatusNotClassified, models.Style{Background: "CFCFFF"})
	testutil.SeedStyle(t, repo, models.StatusRetired, models.Style{Background: "EFCFFF"})
	testutil.SeedStyle(t, repo, models.StatusDisqualified, models.Style{Background: "000000", Text: "FFFFFF"})

	for place, points := range map[int]float64{1: 25, 2: 18, 3: 15} {
		testutil.SeedPointsEntry(t, repo, f.championshipID, 1, f.raceSessionID, place, points, scoringStyle)
	}
	testutil.SeedPointsEntry(t, repo, f.championshipID, 1, f.qualiSessionID, 1, 1, poleStyle)

	f.driverOneID = testutil.SeedDriver(t, repo, "Robert Kubica")
	f.driverTwoID = testutil.SeedDriver(t, repo, "Louis Deletraz")
	f.driverThreeID = testutil.SeedDriver(t, repo, "Mirko Bortolotti")
	f.teamSevenID = testutil.SeedTeam(t, repo, f.championshipID, "#7 Team Seven", true)
	f.teamEightID = testutil.SeedTeam(t, repo, f.championshipID, "#8 Team Eight", true)
	testutil.SeedTeam(t, repo, f.championshipID, "#99 Guest Entry", false)
	f.toyotaID = testutil.SeedManufacturer(t, repo, "Toyota")
	f.porscheID = testutil.SeedManufacturer(t, repo, "Porsche")
	testutil.SeedTeam(t, repo, f.championshipID, "#17 Toyota One", true)
	testutil.SeedTeam(t, repo, f.championshipID, "#18 Toyota Two", true)
	testutil.SeedTeam(t, repo, f.championshipID, "#19 Porsche One", true)

	return f
}

func (f *importFixture) service(entries []alkamel.Entry) *services.ImportService {
	log := logger.New()
	reader := alkamel.NewMockReader(alkamel.WithEntries(entries))
	return services.NewImportService(log, f.repo, services.NewScoringService(log), reader)
}

func raceRequest(f *importFixture, round int) services.ImportRequest {
	return services.ImportRequest{
		ChampionshipID: f.championshipID,
		Season:         "2024",
		RoundNumber:    round,
		SessionName:    models.SessionRace,
	}
}

// TestImportResults_SavesScores tests a clean race import end to end
func TestImportResults_SavesScores(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()

	svc := f.service([]alkamel.Entry{
		{CarNumber: "7", Team: "Team Seven", Class: "LMP2", Status: models.StatusClassified, Vehicle: "Oreca 07", Drivers: []string{"Robert Kubica", "Louis Deletraz"}},
		{CarNumber: "8", Team: "Team Eight", Class: "LMP2", Status: models.StatusRetired, Vehicle: "Oreca 07", Drivers: []string{"Mirko Bortolotti"}},
	})

	summary, err := svc.ImportResults(ctx, raceRequest(f, 1), strings.NewReader(""))
	if err != nil {
		t.Fatalf("ImportResults failed: %v", err)
	}
	if summary.RowsProcessed != 2 {
		t.Errorf("expected 2 rows processed, got %d", summary.RowsProcessed)
	}
	// Two driver scores, a team score and the retired crew's scores.
	if summary.ScoresSaved != 5 {
		t.Errorf("expected 5 scores saved, got %d", summary.ScoresSaved)
	}

	results, err := f.repo.EntityRoundResults(ctx, f.driverOneID, f.driversClassID)
	if err != nil {
		t.Fatalf("EntityRoundResults failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result for the winning driver, got %d", len(results))
	}
	if results[0].Place != "1" || results[0].Points != 25 {
		t.Errorf("expected place 1 with 25 points, got place %q with %v", results[0].Place, results[0].Points)
	}

	teamStandings, err := f.repo.ClassificationStandings(ctx, f.teamsClassID)
	if err != nil {
		t.Fatalf("ClassificationStandings failed: %v", err)
	}
	if len(teamStandings) != 2 {
		t.Fatalf("expected 2 teams in the standings, got %d", len(teamStandings))
	}
	if teamStandings[0].EntityID != f.teamSevenID || teamStandings[0].Points != 25 {
		t.Errorf("expected team #7 to lead with 25 points, got %+v", teamStandings[0])
	}

	retired, err := f.repo.EntityRoundResults(ctx, f.teamEightID, f.teamsClassID)
	if err != nil {
		t.Fatalf("EntityRoundResults failed: %v", err)
	}
	if len(retired) != 1 || retired[0].Place != models.StatusRetired {
		t.Errorf("expected a %q result for team #8, got %+v", models.StatusRetired, retired)
	}
}

// TestImportResults_RejectsUnknownEntities tests whole-file rejection with
// every missing team and driver reported together
func TestImportResults_RejectsUnknownEntities(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()

	svc := f.service([]alkamel.Entry{
		{CarNumber: "7", Team: "Team Seven", Class: "LMP2", Status: models.StatusClassified, Vehicle: "Oreca 07", Drivers: []string{"Robert Kubica", "Unknown Rookie"}},
		{CarNumber: "44", Team: "Nowhere Racing", Class: "LMP2", Status: models.StatusClassified, Vehicle: "Oreca 07", Drivers: []string{"Robert Kubica"}},
	})

	_, err := svc.ImportResults(ctx, raceRequest(f, 1), strings.NewReader(""))
	var missing *services.MissingEntitiesError
	if !errors.As(err, &missing) {
		t.Fatalf("expected a MissingEntitiesError, got %v", err)
	}
	if len(missing.Teams) != 1 || missing.Teams[0] != "#44 Nowhere Racing" {
		t.Errorf("expected the unknown team to be reported, got %v", missing.Teams)
	}
	if len(missing.Drivers) != 1 || missing.Drivers[0] != "Unknown Rookie" {
		t.Errorf("expected the unknown driver to be reported, got %v", missing.Drivers)
	}

	exists, err := f.repo.HasRoundSession(ctx, []int{f.driversClassID}, 1, f.raceSessionID)
	if err != nil {
		t.Fatalf("HasRoundSession failed: %v", err)
	}
	if exists {
		t.Error("expected a rejected file to persist nothing")
	}
}

// TestImportResults_ConflictWithoutReplace tests that a second import of the
// same round and session is refused
func TestImportResults_ConflictWithoutReplace(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()

	entries := []alkamel.Entry{
		{CarNumber: "7", Team: "Team Seven", Class: "LMP2", Status: models.StatusClassified, Vehicle: "Oreca 07", Drivers: []string{"Robert Kubica"}},
	}

	if _, err := f.service(entries).ImportResults(ctx, raceRequest(f, 1), strings.NewReader("")); err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	_, err := f.service(entries).ImportResults(ctx, raceRequest(f, 1), strings.NewReader(""))
	if !errors.Is(err, services.ErrScoresExist) {
		t.Fatalf("expected ErrScoresExist, got %v", err)
	}
	if apperrors.KindOf(err) != apperrors.ErrConflict {
		t.Errorf("expected a conflict kind, got %v", apperrors.KindOf(err))
	}
}

// TestImportResults_ConflictAcrossClassifications tests that scores recorded
// under any of the championship's classifications block a re-import, not just
// the first one in listing order, and that replacing clears them
func TestImportResults_ConflictAcrossClassifications(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()

	// Record a leftover row directly under the teams' classification only.
	styleID := testutil.SeedStyle(t, f.repo, "P1", models.Style{Background: "FFFFBF"})
	if err := f.repo.SaveSessionScores(ctx, nil, 1, f.raceSessionID, []models.Score{{
		ClassificationID: f.teamsClassID,
		RoundNumber:      1,
		SessionID:        f.raceSessionID,
		EntityID:         f.teamEightID,
		Place:            "1",
		Points:           25,
		StyleID:          styleID,
	}}, false); err != nil {
		t.Fatalf("SaveSessionScores failed: %v", err)
	}

	entries := []alkamel.Entry{
		{CarNumber: "7", Team: "Team Seven", Class: "LMP2", Status: models.StatusClassified, Vehicle: "Oreca 07", Drivers: []string{"Robert Kubica"}},
	}

	_, err := f.service(entries).ImportResults(ctx, raceRequest(f, 1), strings.NewReader(""))
	if !errors.Is(err, services.ErrScoresExist) {
		t.Fatalf("expected ErrScoresExist, got %v", err)
	}

	req := raceRequest(f, 1)
	req.Replace = true
	if _, err := f.service(entries).ImportResults(ctx, req, strings.NewReader("")); err != nil {
		t.Fatalf("replacing import failed: %v", err)
	}

	standings, err := f.repo.ClassificationStandings(ctx, f.teamsClassID)
	if err != nil {
		t.Fatalf("ClassificationStandings failed: %v", err)
	}
	if len(standings) != 1 || standings[0].EntityID != f.teamSevenID || standings[0].Points != 25 {
		t.Errorf("expected the leftover team row to be replaced, got %+v", standings)
	}
}

// TestImportResults_ReplaceIsIdempotent tests that re-importing with replace
// leaves totals unchanged instead of doubling them
func TestImportResults_ReplaceIsIdempotent(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()

	entries := []alkamel.Entry{
		{CarNumber: "7", Team: "Team Seven", Class: "LMP2", Status: models.StatusClassified, Vehicle: "Oreca 07", Drivers: []string{"Robert Kubica"}},
	}

	if _, err := f.service(entries).ImportResults(ctx, raceRequest(f, 1), strings.NewReader("")); err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	req := raceRequest(f, 1)
	req.Replace = true
	summary, err := f.service(entries).ImportResults(ctx, req, strings.NewReader(""))
	if err != nil {
		t.Fatalf("replacing import failed: %v", err)
	}
	if !summary.Replaced {
		t.Error("expected the summary to report a replacement")
	}

	standings, err := f.repo.ClassificationStandings(ctx, f.driversClassID)
	if err != nil {
		t.Fatalf("ClassificationStandings failed: %v", err)
	}
	if len(standings) != 1 || standings[0].Points != 25 {
		t.Errorf("expected a single 25-point entry after replacement, got %+v", standings)
	}
}

// TestImportResults_SkipsGuestEntries tests that non-scoring team entries
// are dropped without failing the file
func TestImportResults_SkipsGuestEntries(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()

	svc := f.service([]alkamel.Entry{
		{CarNumber: "99", Team: "Guest Entry", Class: "LMP2", Status: models.StatusClassified, Vehicle: "Oreca 07", Drivers: []string{"Robert Kubica"}},
		{CarNumber: "7", Team: "Team Seven", Class: "LMP2", Status: models.StatusClassified, Vehicle: "Oreca 07", Drivers: []string{"Louis Deletraz"}},
	})

	summary, err := svc.ImportResults(ctx, raceRequest(f, 1), strings.NewReader(""))
	if err != nil {
		t.Fatalf("ImportResults failed: %v", err)
	}
	if summary.RowsSkipped != 1 {
		t.Errorf("expected 1 skipped row, got %d", summary.RowsSkipped)
	}

	results, err := f.repo.EntityRoundResults(ctx, f.driverTwoID, f.driversClassID)
	if err != nil {
		t.Fatalf("EntityRoundResults failed: %v", err)
	}
	// The guest car does not consume a position either.
	if len(results) != 1 || results[0].Place != "1" {
		t.Errorf("expected the scoring car to take position 1, got %+v", results)
	}
}

// TestImportResults_HalfPointsOutsideRace tests the half-points guard
func TestImportResults_HalfPointsOutsideRace(t *testing.T) {
	f := setupImportFixture(t)

	req := raceRequest(f, 1)
	req.SessionName = models.SessionQualifying
	req.HalfPoints = true

	_, err := f.service(nil).ImportResults(context.Background(), req, strings.NewReader(""))
	if apperrors.KindOf(err) != apperrors.ErrValidation {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

// TestImportResults_ManufacturerCap tests that a manufacturer scores only
// its best cars while later cars still push positions down
func TestImportResults_ManufacturerCap(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()

	svc := f.service([]alkamel.Entry{
		{CarNumber: "17", Team: "Toyota One", Class: "Hypercar", Status: models.StatusClassified, Vehicle: "Toyota GR010", Drivers: []string{"Robert Kubica"}},
		{CarNumber: "18", Team: "Toyota Two", Class: "Hypercar", Status: models.StatusClassified, Vehicle: "Toyota GR010", Drivers: []string{"Robert Kubica"}},
		{CarNumber: "19", Team: "Porsche One", Class: "Hypercar", Status: models.StatusClassified, Vehicle: "Porsche 963", Drivers: []string{"Louis Deletraz"}},
	})

	if _, err := svc.ImportResults(ctx, raceRequest(f, 1), strings.NewReader("")); err != nil {
		t.Fatalf("ImportResults failed: %v", err)
	}

	standings, err := f.repo.ClassificationStandings(ctx, f.makesClassID)
	if err != nil {
		t.Fatalf("ClassificationStandings failed: %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("expected 2 manufacturers in the standings, got %d", len(standings))
	}
	if standings[0].EntityID != f.toyotaID || standings[0].Points != 25 {
		t.Errorf("expected Toyota on 25 points, got %+v", standings[0])
	}
	// Porsche finished third on the road because the second Toyota still
	// consumed a position.
	if standings[1].EntityID != f.porscheID || standings[1].Points != 15 {
		t.Errorf("expected Porsche on 15 points, got %+v", standings[1])
	}
}

// TestImportResults_QualifyingScoresPoleOnly tests that qualifying awards
// only the bonus positions and drags no team scores along
func TestImportResults_QualifyingScoresPoleOnly(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()

	svc := f.service([]alkamel.Entry{
		{CarNumber: "7", Team: "Team Seven", Class: "LMP2", Status: models.StatusClassified, Vehicle: "Oreca 07", Drivers: []string{"Robert Kubica"}},
		{CarNumber: "8", Team: "Team Eight", Class: "LMP2", Status: models.StatusClassified, Vehicle: "Oreca 07", Drivers: []string{"Louis Deletraz"}},
	})

	req := raceRequest(f, 1)
	req.SessionName = models.SessionQualifying

	summary, err := svc.ImportResults(ctx, req, strings.NewReader(""))
	if err != nil {
		t.Fatalf("ImportResults failed: %v", err)
	}
	// Pole sitter's driver and team rows only.
	if summary.ScoresSaved != 2 {
		t.Errorf("expected 2 scores saved, got %d", summary.ScoresSaved)
	}

	pole, err := f.repo.EntityRoundResults(ctx, f.driverOneID, f.driversClassID)
	if err != nil {
		t.Fatalf("EntityRoundResults failed: %v", err)
	}
	if len(pole) != 1 || pole[0].Points != 1 {
		t.Errorf("expected a 1-point pole bonus, got %+v", pole)
	}

	second, err := f.repo.EntityRoundResults(ctx, f.driverTwoID, f.driversClassID)
	if err != nil {
		t.Fatalf("EntityRoundResults failed: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("expected no record for the second qualifier, got %+v", second)
	}
}

// TestImportResults_NoClassifications tests the missing-season guard
func TestImportResults_NoClassifications(t *testing.T) {
	f := setupImportFixture(t)

	req := raceRequest(f, 1)
	req.Season = "1999"

	_, err := f.service(nil).ImportResults(context.Background(), req, strings.NewReader(""))
	if !errors.Is(err, services.ErrNoClassifications) {
		t.Fatalf("expected ErrNoClassifications, got %v", err)
	}
}

// TestImportResults_ReaderFailure tests that a malformed file surfaces as a
// validation error
func TestImportResults_ReaderFailure(t *testing.T) {
	f := setupImportFixture(t)

	log := logger.New()
	reader := alkamel.NewMockReader(alkamel.WithError(errors.New("missing required column STATUS")))
	svc := services.NewImportService(log, f.repo, services.NewScoringService(log), reader)

	_, err := svc.ImportResults(context.Background(), raceRequest(f, 1), strings.NewReader(""))
	if apperrors.KindOf(err) != apperrors.ErrValidation {
		t.Fatalf("expected a validation error, got %v", err)
	}
}
