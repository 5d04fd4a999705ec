// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	corecontract "github.com/example/quill/internal/core/contract"
	"github.com/example/quill/internal/ports/secondary"
)

// ContractRepository implements secondary.ContractRepository with SQLite.
type ContractRepository struct {
	db *sql.DB
}

// NewContractRepository creates a new SQLite contract repository.
func NewContractRepository(db *sql.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// Create persists a new contract.
// The record must have ID and Status pre-populated by the service layer.
func (r *ContractRepository) Create(ctx context.Context, contract *secondary.ContractRecord) error {
	if contract.ID == "" {
		return fmt.Errorf("contract ID must be pre-populated by service layer")
	}
	if contract.Status == "" {
		return fmt.Errorf("contract Status must be pre-populated by service layer")
	}

	missed, err := json.Marshal(contract.MissedWeeks)
	if err != nil {
		return fmt.Errorf("failed to encode missed weeks: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO contracts (id, profile_id, start_date, end_date, status, total_weeks,
			poems_submitted, poems_missed, monthly_releases, monthly_releases_missed,
			missed_weeks, last_submission, timezone, archive_label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		contract.ID, contract.ProfileID, contract.StartDate, contract.EndDate,
		contract.Status, contract.TotalWeeks,
		contract.PoemsSubmitted, contract.PoemsMissed,
		contract.MonthlyReleases, contract.MonthlyReleasesMissed,
		string(missed), nullTime(contract.LastSubmission),
		contract.Timezone, contract.ArchiveLabel,
	)
	if err != nil {
		return fmt.Errorf("failed to create contract: %w", err)
	}

	return nil
}

const contractColumns = `id, profile_id, start_date, end_date, status, total_weeks,
	poems_submitted, poems_missed, monthly_releases, monthly_releases_missed,
	missed_weeks, last_submission, timezone, archive_label, created_at, updated_at`

// GetByID retrieves a contract by its ID.
func (r *ContractRepository) GetByID(ctx context.Context, id string) (*secondary.ContractRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+contractColumns+" FROM contracts WHERE id = ?", id)

	record, err := scanContract(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("contract %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	return record, nil
}

// GetActiveByProfile returns the profile's active contract, or nil when the
// profile has none.
func (r *ContractRepository) GetActiveByProfile(ctx context.Context, profileID string) (*secondary.ContractRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+contractColumns+" FROM contracts WHERE profile_id = ? AND status = 'active'",
		profileID)

	record, err := scanContract(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active contract: %w", err)
	}

	return record, nil
}

// ListActive retrieves all active contracts.
func (r *ContractRepository) ListActive(ctx context.Context) ([]*secondary.ContractRecord, error) {
	return r.List(ctx, secondary.ContractFilters{Status: string(corecontract.StatusActive)})
}

// List retrieves contracts matching the given filters.
func (r *ContractRepository) List(ctx context.Context, filters secondary.ContractFilters) ([]*secondary.ContractRecord, error) {
	query := "SELECT " + contractColumns + " FROM contracts"
	where := ""
	args := []any{}

	if filters.ProfileID != "" {
		where = " WHERE profile_id = ?"
		args = append(args, filters.ProfileID)
	}
	if filters.Status != "" {
		if where == "" {
			where = " WHERE status = ?"
		} else {
			where += " AND status = ?"
		}
		args = append(args, filters.Status)
	}

	query += where + " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []*secondary.ContractRecord
	for rows.Next() {
		record, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, record)
	}

	return contracts, nil
}

// Update rewrites a contract's mutable fields.
func (r *ContractRepository) Update(ctx context.Context, contract *secondary.ContractRecord) error {
	missed, err := json.Marshal(contract.MissedWeeks)
	if err != nil {
		return fmt.Errorf("failed to encode missed weeks: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE contracts SET status = ?, poems_submitted = ?, poems_missed = ?,
			monthly_releases = ?, monthly_releases_missed = ?, missed_weeks = ?,
			last_submission = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		contract.Status, contract.PoemsSubmitted, contract.PoemsMissed,
		contract.MonthlyReleases, contract.MonthlyReleasesMissed, string(missed),
		nullTime(contract.LastSubmission), contract.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contract: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("contract %s not found", contract.ID)
	}

	return nil
}

// GetNextID returns the next available contract ID.
// Uses core function for ID format to keep business logic in the functional core.
func (r *ContractRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 10) AS INTEGER)), 0) FROM contracts",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next contract ID: %w", err)
	}

	return corecontract.GenerateContractID(maxID), nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanContract(s scanner) (*secondary.ContractRecord, error) {
	var (
		missed         string
		lastSubmission sql.NullTime
		createdAt      time.Time
		updatedAt      time.Time
	)

	record := &secondary.ContractRecord{}
	err := s.Scan(&record.ID, &record.ProfileID, &record.StartDate, &record.EndDate,
		&record.Status, &record.TotalWeeks,
		&record.PoemsSubmitted, &record.PoemsMissed,
		&record.MonthlyReleases, &record.MonthlyReleasesMissed,
		&missed, &lastSubmission, &record.Timezone, &record.ArchiveLabel,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(missed), &record.MissedWeeks); err != nil {
		return nil, fmt.Errorf("failed to decode missed weeks: %w", err)
	}
	if lastSubmission.Valid {
		record.LastSubmission = lastSubmission.Time
	}
	record.CreatedAt = createdAt
	record.UpdatedAt = updatedAt

	return record, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// Ensure ContractRepository implements the interface
var _ secondary.ContractRepository = (*ContractRepository)(nil)
