package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/quill/internal/ports/secondary"
)

// CycleRepository implements secondary.CycleRepository with SQLite.
type CycleRepository struct {
	db *sql.DB
}

// NewCycleRepository creates a new SQLite constraint cycle repository.
func NewCycleRepository(db *sql.DB) *CycleRepository {
	return &CycleRepository{db: db}
}

// CreateBatch persists the full set of cycles for a new contract in one
// transaction.
func (r *CycleRepository) CreateBatch(ctx context.Context, cycles []*secondary.CycleRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, cycle := range cycles {
		if cycle.ID == "" {
			return fmt.Errorf("cycle ID must be pre-populated by service layer")
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO constraint_cycles (id, contract_id, week_number, constraint_type, status) VALUES (?, ?, ?, ?, ?)",
			cycle.ID, cycle.ContractID, cycle.WeekNumber, cycle.ConstraintType, cycle.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to create cycle for week %d: %w", cycle.WeekNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cycles: %w", err)
	}

	return nil
}

// GetByWeek retrieves the cycle for a contract week.
func (r *CycleRepository) GetByWeek(ctx context.Context, contractID string, week int) (*secondary.CycleRecord, error) {
	var completedAt sql.NullTime

	record := &secondary.CycleRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, contract_id, week_number, constraint_type, status, completed_at FROM constraint_cycles WHERE contract_id = ? AND week_number = ?",
		contractID, week,
	).Scan(&record.ID, &record.ContractID, &record.WeekNumber, &record.ConstraintType, &record.Status, &completedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("cycle for contract %s week %d not found", contractID, week)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cycle: %w", err)
	}

	if completedAt.Valid {
		record.CompletedAt = completedAt.Time
	}

	return record, nil
}

// ListByContract retrieves all cycles for a contract in week order.
func (r *CycleRepository) ListByContract(ctx context.Context, contractID string) ([]*secondary.CycleRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, contract_id, week_number, constraint_type, status, completed_at FROM constraint_cycles WHERE contract_id = ? ORDER BY week_number",
		contractID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cycles: %w", err)
	}
	defer rows.Close()

	var cycles []*secondary.CycleRecord
	for rows.Next() {
		var completedAt sql.NullTime

		record := &secondary.CycleRecord{}
		err := rows.Scan(&record.ID, &record.ContractID, &record.WeekNumber, &record.ConstraintType, &record.Status, &completedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cycle: %w", err)
		}

		if completedAt.Valid {
			record.CompletedAt = completedAt.Time
		}

		cycles = append(cycles, record)
	}

	return cycles, nil
}

// MarkCompleted marks a cycle completed at the given time.
func (r *CycleRepository) MarkCompleted(ctx context.Context, contractID string, week int, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE constraint_cycles SET status = ?, completed_at = ? WHERE contract_id = ? AND week_number = ?",
		secondary.CycleStatusCompleted, at, contractID, week,
	)
	if err != nil {
		return fmt.Errorf("failed to complete cycle: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("cycle for contract %s week %d not found", contractID, week)
	}

	return nil
}

// Ensure CycleRepository implements the interface
var _ secondary.CycleRepository = (*CycleRepository)(nil)
