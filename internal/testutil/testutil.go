package testutil

import (
	"context"
	"testing"

	"github.com/emerald-arrow/wikipedia-tools/internal/models"
	"github.com/emerald-arrow/wikipedia-tools/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// SeedChampionship inserts a championship and returns its id.
func SeedChampionship(t *testing.T, repo *repository.Repository, name string) int {
	t.Helper()
	id, err := repo.CreateChampionship(context.Background(), name)
	if err != nil {
		t.Fatalf("failed to seed championship %q: %v", name, err)
	}
	return int(id)
}

// SeedClassification inserts a classification and returns its id.
func SeedClassification(t *testing.T, repo *repository.Repository, cl models.Classification) int {
	t.Helper()
	id, err := repo.CreateClassification(context.Background(), cl)
	if err != nil {
		t.Fatalf("failed to seed classification %q: %v", cl.Name, err)
	}
	return int(id)
}

// SeedDriver inserts a driver and returns its entity id.
func SeedDriver(t *testing.T, repo *repository.Repository, codename string) int {
	t.Helper()
	id, err := repo.CreateDriver(context.Background(), models.Driver{Codename: codename})
	if err != nil {
		t.Fatalf("failed to seed driver %q: %v", codename, err)
	}
	return int(id)
}

// SeedTeam inserts a team entry and returns its entity id.
func SeedTeam(t *testing.T, repo *repository.Repository, championshipID int, codename string, scoring bool) int {
	t.Helper()
	id, err := repo.CreateTeam(context.Background(), championshipID, models.Team{Codename: codename}, scoring)
	if err != nil {
		t.Fatalf("failed to seed team %q: %v", codename, err)
	}
	return int(id)
}

// SeedManufacturer inserts a manufacturer and returns its entity id.
func SeedManufacturer(t *testing.T, repo *repository.Repository, codename string) int {
	t.Helper()
	id, err := repo.CreateManufacturer(context.Background(), models.Manufacturer{Codename: codename})
	if err != nil {
		t.Fatalf("failed to seed manufacturer %q: %v", codename, err)
	}
	return int(id)
}

// SeedStyle inserts a result styling row and returns its id.
func SeedStyle(t *testing.T, repo *repository.Repository, status string, style models.Style) int {
	t.Helper()
	id, err := repo.CreateResultStyle(context.Background(), status, style)
	if err != nil {
		t.Fatalf("failed to seed style %q: %v", status, err)
	}
	return int(id)
}

// SeedPointsEntry inserts one position of a points system.
func SeedPointsEntry(t *testing.T, repo *repository.Repository, championshipID int, scale float64, sessionID, place int, points float64, styleID int) {
	t.Helper()
	if err := repo.AddPointsSystemEntry(context.Background(), championshipID, scale, sessionID, place, points, styleID); err != nil {
		t.Fatalf("failed to seed points entry place %d: %v", place, err)
	}
}

// SessionID looks up a seeded session by name.
func SessionID(t *testing.T, repo *repository.Repository, name string) int {
	t.Helper()
	s, err := repo.SessionByName(context.Background(), name)
	if err != nil {
		t.Fatalf("failed to look up session %q: %v", name, err)
	}
	return s.ID
}
