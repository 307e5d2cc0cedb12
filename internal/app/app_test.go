package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/emerald-arrow/wikipedia-tools/internal/app"
	"github.com/emerald-arrow/wikipedia-tools/internal/logger"
	"github.com/emerald-arrow/wikipedia-tools/internal/services"
)

// TestNew_WiresWorkingRouter tests that a fresh app serves the health endpoint
func TestNew_WiresWorkingRouter(t *testing.T) {
	a, err := app.New(logger.New(), ":memory:")
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	defer a.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

// TestImport_EmptyDatabase tests that importing without configuration fails cleanly
func TestImport_EmptyDatabase(t *testing.T) {
	a, err := app.New(logger.New(), ":memory:")
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	defer a.Close()

	_, err = a.Import(context.Background(), services.ImportRequest{
		ChampionshipID: 1,
		Season:         "2024",
		RoundNumber:    1,
	}, strings.NewReader(""))
	if !errors.Is(err, services.ErrNoClassifications) {
		t.Fatalf("expected ErrNoClassifications, got %v", err)
	}
}
