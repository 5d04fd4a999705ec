package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/quill/internal/adapters/sqlite"
	"github.com/example/quill/internal/ports/secondary"
)

func TestPoemRepository_CreateAndGet(t *testing.T) {
	testDB := setupTestDB(t)
	seedProfile(t, testDB, "writer", "")
	seedContract(t, testDB, "CONTRACT-001", "writer", time.Time{})
	repo := sqlite.NewPoemRepository(testDB)
	ctx := context.Background()

	record := &secondary.PoemRecord{
		ID:             "poem-001",
		ProfileID:      "writer",
		ContractID:     "CONTRACT-001",
		WeekNumber:     1,
		Content:        "rust on the gate\nsalt in the bread",
		LineCount:      14,
		ConstraintType: "concrete_imagery",
		Status:         secondary.PoemStatusSubmitted,
		SelfAssessment: `{"lazy_where":"the closing couplet"}`,
		Violations:     `[]`,
		ArchivePath:    "/archive/CONTRACT-001/Week_01/final/poem.txt",
	}

	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "poem-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ConstraintType != "concrete_imagery" {
		t.Errorf("ConstraintType = %q", got.ConstraintType)
	}
	if got.SelfAssessment == "" {
		t.Error("SelfAssessment not persisted")
	}
	if !got.PublishedAt.IsZero() {
		t.Errorf("PublishedAt = %v, want zero", got.PublishedAt)
	}
}

func TestPoemRepository_OneSubmittedPoemPerWeek(t *testing.T) {
	testDB := setupTestDB(t)
	seedProfile(t, testDB, "writer", "")
	seedContract(t, testDB, "CONTRACT-001", "writer", time.Time{})
	seedPoem(t, testDB, "poem-001", "writer", "CONTRACT-001", 1)
	repo := sqlite.NewPoemRepository(testDB)
	ctx := context.Background()

	// A second submitted poem for the same week violates the partial
	// unique index.
	err := repo.Create(ctx, &secondary.PoemRecord{
		ID:             "poem-002",
		ProfileID:      "writer",
		ContractID:     "CONTRACT-001",
		WeekNumber:     1,
		Content:        "again",
		LineCount:      14,
		ConstraintType: "concrete_imagery",
		Status:         secondary.PoemStatusSubmitted,
	})
	if err == nil {
		t.Fatal("expected unique constraint violation for second submitted poem in week 1")
	}

	// Drafts for the same week are fine.
	err = repo.Create(ctx, &secondary.PoemRecord{
		ID:             "poem-003",
		ProfileID:      "writer",
		ContractID:     "CONTRACT-001",
		WeekNumber:     1,
		Content:        "sketch",
		LineCount:      3,
		ConstraintType: "concrete_imagery",
		Status:         secondary.PoemStatusDraft,
	})
	if err != nil {
		t.Fatalf("draft for submitted week should be allowed: %v", err)
	}
}

func TestPoemRepository_GetSubmittedByWeek(t *testing.T) {
	testDB := setupTestDB(t)
	seedProfile(t, testDB, "writer", "")
	seedContract(t, testDB, "CONTRACT-001", "writer", time.Time{})
	repo := sqlite.NewPoemRepository(testDB)
	ctx := context.Background()

	got, err := repo.GetSubmittedByWeek(ctx, "CONTRACT-001", 1)
	if err != nil {
		t.Fatalf("GetSubmittedByWeek failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for empty week, got %v", got)
	}

	seedPoem(t, testDB, "poem-001", "writer", "CONTRACT-001", 1)

	got, err = repo.GetSubmittedByWeek(ctx, "CONTRACT-001", 1)
	if err != nil {
		t.Fatalf("GetSubmittedByWeek failed: %v", err)
	}
	if got == nil || got.ID != "poem-001" {
		t.Fatalf("expected poem-001, got %v", got)
	}
}

func TestPoemRepository_LastMonthlyRelease(t *testing.T) {
	testDB := setupTestDB(t)
	seedProfile(t, testDB, "writer", "")
	seedContract(t, testDB, "CONTRACT-001", "writer", time.Time{})
	seedPoem(t, testDB, "poem-001", "writer", "CONTRACT-001", 1)
	repo := sqlite.NewPoemRepository(testDB)
	ctx := context.Background()

	last, err := repo.LastMonthlyRelease(ctx, "writer")
	if err != nil {
		t.Fatalf("LastMonthlyRelease failed: %v", err)
	}
	if !last.IsZero() {
		t.Fatalf("expected zero time, got %v", last)
	}

	record, err := repo.GetByID(ctx, "poem-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	record.Status = secondary.PoemStatusPublished
	record.IsMonthlyRelease = true
	record.Platform = "medium"
	record.PublicURL = "https://medium.com/@writer/first"
	record.PublishedAt = time.Date(2026, 3, 30, 12, 0, 0, 0, time.UTC)
	if err := repo.Update(ctx, record); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	last, err = repo.LastMonthlyRelease(ctx, "writer")
	if err != nil {
		t.Fatalf("LastMonthlyRelease failed: %v", err)
	}
	if last.IsZero() {
		t.Fatal("expected publication time, got zero")
	}
	if last.UTC().Month() != time.March {
		t.Errorf("month = %v, want March", last.UTC().Month())
	}
}
