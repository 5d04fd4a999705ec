// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the single point where the database schema is loaded for
// tests. All test setup uses db.GetSchemaSQL() so tests run against the
// authoritative schema, preventing drift between test and production.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/quill/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedProfile inserts a test profile and returns its ID.
func seedProfile(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	if id == "" {
		id = "writer"
	}
	if name == "" {
		name = "Test Writer"
	}
	_, err := db.Exec("INSERT INTO profiles (id, name, timezone) VALUES (?, ?, 'UTC')", id, name)
	if err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}
	return id
}

// seedContract inserts a test contract and returns its ID.
func seedContract(t *testing.T, db *sql.DB, id, profileID string, start time.Time) string {
	t.Helper()
	if id == "" {
		id = "CONTRACT-001"
	}
	if profileID == "" {
		profileID = "writer"
	}
	if start.IsZero() {
		start = time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	}
	end := start.AddDate(0, 0, 70)
	_, err := db.Exec(
		"INSERT INTO contracts (id, profile_id, start_date, end_date, status, archive_label) VALUES (?, ?, ?, ?, 'active', ?)",
		id, profileID, start, end, id,
	)
	if err != nil {
		t.Fatalf("failed to seed contract: %v", err)
	}
	return id
}

// seedPoem inserts a submitted test poem and returns its ID.
func seedPoem(t *testing.T, db *sql.DB, id, profileID, contractID string, week int) string {
	t.Helper()
	if id == "" {
		id = "poem-001"
	}
	if profileID == "" {
		profileID = "writer"
	}
	if contractID == "" {
		contractID = "CONTRACT-001"
	}
	_, err := db.Exec(
		"INSERT INTO poems (id, profile_id, contract_id, week_number, content, line_count, constraint_type, status) VALUES (?, ?, ?, ?, 'stone on stone', 14, 'concrete_imagery', 'submitted')",
		id, profileID, contractID, week,
	)
	if err != nil {
		t.Fatalf("failed to seed poem: %v", err)
	}
	return id
}
