package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/quill/internal/adapters/sqlite"
	"github.com/example/quill/internal/ports/secondary"
)

func TestPatternReportRepository_GateLifecycle(t *testing.T) {
	testDB := setupTestDB(t)
	seedProfile(t, testDB, "writer", "")
	repo := sqlite.NewPatternReportRepository(testDB)
	ctx := context.Background()

	has, err := repo.HasUnacknowledged(ctx, "writer")
	if err != nil {
		t.Fatalf("HasUnacknowledged failed: %v", err)
	}
	if has {
		t.Fatal("expected no unacknowledged reports")
	}

	err = repo.Create(ctx, &secondary.PatternReportRecord{
		ID:          "report-001",
		ProfileID:   "writer",
		PatternType: "emotional_avoidance",
		Summary:     "three weeks of weather poems after a hard month",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	has, err = repo.HasUnacknowledged(ctx, "writer")
	if err != nil {
		t.Fatalf("HasUnacknowledged failed: %v", err)
	}
	if !has {
		t.Fatal("expected an unacknowledged report")
	}

	reports, err := repo.ListUnacknowledged(ctx, "writer")
	if err != nil {
		t.Fatalf("ListUnacknowledged failed: %v", err)
	}
	if len(reports) != 1 || reports[0].PatternType != "emotional_avoidance" {
		t.Fatalf("unexpected reports: %+v", reports)
	}

	if err := repo.Acknowledge(ctx, "report-001"); err != nil {
		t.Fatalf("Acknowledge failed: %v", err)
	}

	has, err = repo.HasUnacknowledged(ctx, "writer")
	if err != nil {
		t.Fatalf("HasUnacknowledged failed: %v", err)
	}
	if has {
		t.Fatal("expected gate to clear after acknowledgement")
	}
}

func TestPatternReportRepository_AcknowledgeNotFound(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewPatternReportRepository(testDB)

	if err := repo.Acknowledge(context.Background(), "report-999"); err == nil {
		t.Fatal("expected error for unknown report")
	}
}
