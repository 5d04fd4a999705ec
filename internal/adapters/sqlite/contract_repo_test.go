package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/quill/internal/adapters/sqlite"
	"github.com/example/quill/internal/ports/secondary"
)

func TestContractRepository_CreateAndGet(t *testing.T) {
	testDB := setupTestDB(t)
	seedProfile(t, testDB, "writer", "")
	repo := sqlite.NewContractRepository(testDB)
	ctx := context.Background()

	start := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	record := &secondary.ContractRecord{
		ID:           "CONTRACT-001",
		ProfileID:    "writer",
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 70),
		Status:       "active",
		TotalWeeks:   10,
		MissedWeeks:  []int{},
		Timezone:     "America/New_York",
		ArchiveLabel: "CONTRACT-001",
	}

	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "CONTRACT-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ProfileID != "writer" {
		t.Errorf("ProfileID = %q, want writer", got.ProfileID)
	}
	if got.Status != "active" {
		t.Errorf("Status = %q, want active", got.Status)
	}
	if got.TotalWeeks != 10 {
		t.Errorf("TotalWeeks = %d, want 10", got.TotalWeeks)
	}
	if !got.LastSubmission.IsZero() {
		t.Errorf("LastSubmission = %v, want zero", got.LastSubmission)
	}
	if len(got.MissedWeeks) != 0 {
		t.Errorf("MissedWeeks = %v, want empty", got.MissedWeeks)
	}
}

func TestContractRepository_CreateRequiresID(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewContractRepository(testDB)

	err := repo.Create(context.Background(), &secondary.ContractRecord{Status: "active"})
	if err == nil {
		t.Fatal("expected error for missing ID")
	}
}

func TestContractRepository_GetActiveByProfile(t *testing.T) {
	testDB := setupTestDB(t)
	seedProfile(t, testDB, "writer", "")
	repo := sqlite.NewContractRepository(testDB)
	ctx := context.Background()

	// No contracts yet: nil, no error.
	got, err := repo.GetActiveByProfile(ctx, "writer")
	if err != nil {
		t.Fatalf("GetActiveByProfile failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil contract, got %v", got)
	}

	seedContract(t, testDB, "CONTRACT-001", "writer", time.Time{})

	got, err = repo.GetActiveByProfile(ctx, "writer")
	if err != nil {
		t.Fatalf("GetActiveByProfile failed: %v", err)
	}
	if got == nil || got.ID != "CONTRACT-001" {
		t.Fatalf("expected CONTRACT-001, got %v", got)
	}
}

func TestContractRepository_ListActive(t *testing.T) {
	testDB := setupTestDB(t)
	seedProfile(t, testDB, "writer", "")
	seedProfile(t, testDB, "other", "Other Writer")
	repo := sqlite.NewContractRepository(testDB)
	ctx := context.Background()

	seedContract(t, testDB, "CONTRACT-001", "writer", time.Time{})
	seedContract(t, testDB, "CONTRACT-002", "other", time.Time{})

	actives, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(actives) != 2 {
		t.Fatalf("expected 2 active contracts, got %d", len(actives))
	}

	record, err := repo.GetByID(ctx, "CONTRACT-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	record.Status = "abandoned"
	if err := repo.Update(ctx, record); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	actives, err = repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(actives) != 1 || actives[0].ID != "CONTRACT-002" {
		t.Fatalf("expected only CONTRACT-002 active, got %v", actives)
	}
}

func TestContractRepository_UpdatePersistsCountersAndMissedWeeks(t *testing.T) {
	testDB := setupTestDB(t)
	seedProfile(t, testDB, "writer", "")
	seedContract(t, testDB, "CONTRACT-001", "writer", time.Time{})
	repo := sqlite.NewContractRepository(testDB)
	ctx := context.Background()

	record, err := repo.GetByID(ctx, "CONTRACT-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	record.PoemsSubmitted = 3
	record.PoemsMissed = 2
	record.MissedWeeks = []int{2, 4}
	record.LastSubmission = time.Date(2026, 3, 12, 19, 0, 0, 0, time.UTC)

	if err := repo.Update(ctx, record); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "CONTRACT-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.PoemsSubmitted != 3 || got.PoemsMissed != 2 {
		t.Errorf("counters = %d/%d, want 3/2", got.PoemsSubmitted, got.PoemsMissed)
	}
	if len(got.MissedWeeks) != 2 || got.MissedWeeks[0] != 2 || got.MissedWeeks[1] != 4 {
		t.Errorf("MissedWeeks = %v, want [2 4]", got.MissedWeeks)
	}
	if got.LastSubmission.IsZero() {
		t.Error("LastSubmission not persisted")
	}
}

func TestContractRepository_UpdateNotFound(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewContractRepository(testDB)

	err := repo.Update(context.Background(), &secondary.ContractRecord{ID: "CONTRACT-999", Status: "active"})
	if err == nil {
		t.Fatal("expected error for unknown contract")
	}
}

func TestContractRepository_GetNextID(t *testing.T) {
	testDB := setupTestDB(t)
	seedProfile(t, testDB, "writer", "")
	repo := sqlite.NewContractRepository(testDB)
	ctx := context.Background()

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "CONTRACT-001" {
		t.Errorf("GetNextID = %q, want CONTRACT-001", id)
	}

	seedContract(t, testDB, "CONTRACT-007", "writer", time.Time{})

	id, err = repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "CONTRACT-008" {
		t.Errorf("GetNextID = %q, want CONTRACT-008", id)
	}
}
