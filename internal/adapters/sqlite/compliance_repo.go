package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/quill/internal/ports/secondary"
)

// ComplianceRepository implements secondary.ComplianceRepository with SQLite.
type ComplianceRepository struct {
	db *sql.DB
}

// NewComplianceRepository creates a new SQLite compliance log repository.
func NewComplianceRepository(db *sql.DB) *ComplianceRepository {
	return &ComplianceRepository{db: db}
}

// CreateBatch persists the full set of logs for a new contract in one
// transaction.
func (r *ComplianceRepository) CreateBatch(ctx context.Context, logs []*secondary.ComplianceRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, log := range logs {
		if log.ID == "" {
			return fmt.Errorf("compliance log ID must be pre-populated by service layer")
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO compliance_logs (id, contract_id, week_number, status, deadline_at) VALUES (?, ?, ?, ?, ?)",
			log.ID, log.ContractID, log.WeekNumber, log.Status, log.DeadlineAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create compliance log for week %d: %w", log.WeekNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit compliance logs: %w", err)
	}

	return nil
}

const complianceColumns = `id, contract_id, week_number, status, on_time, revision_done,
	reflection_done, constraint_followed, penalty_triggered, deadline_at, submitted_at`

// GetByWeek retrieves the log for a contract week.
func (r *ComplianceRepository) GetByWeek(ctx context.Context, contractID string, week int) (*secondary.ComplianceRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+complianceColumns+" FROM compliance_logs WHERE contract_id = ? AND week_number = ?",
		contractID, week)

	record, err := scanCompliance(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("compliance log for contract %s week %d not found", contractID, week)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get compliance log: %w", err)
	}

	return record, nil
}

// ListByContract retrieves all logs for a contract in week order.
func (r *ComplianceRepository) ListByContract(ctx context.Context, contractID string) ([]*secondary.ComplianceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+complianceColumns+" FROM compliance_logs WHERE contract_id = ? ORDER BY week_number",
		contractID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list compliance logs: %w", err)
	}
	defer rows.Close()

	var logs []*secondary.ComplianceRecord
	for rows.Next() {
		record, err := scanCompliance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan compliance log: %w", err)
		}
		logs = append(logs, record)
	}

	return logs, nil
}

// Update rewrites a log's mutable fields.
func (r *ComplianceRepository) Update(ctx context.Context, log *secondary.ComplianceRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE compliance_logs SET status = ?, on_time = ?, revision_done = ?,
			reflection_done = ?, constraint_followed = ?, penalty_triggered = ?,
			submitted_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		log.Status, log.OnTime, log.RevisionDone,
		log.ReflectionDone, log.ConstraintFollowed, log.PenaltyTriggered,
		nullTime(log.SubmittedAt), log.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update compliance log: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("compliance log %s not found", log.ID)
	}

	return nil
}

func scanCompliance(s scanner) (*secondary.ComplianceRecord, error) {
	var submittedAt sql.NullTime

	record := &secondary.ComplianceRecord{}
	err := s.Scan(&record.ID, &record.ContractID, &record.WeekNumber, &record.Status,
		&record.OnTime, &record.RevisionDone, &record.ReflectionDone,
		&record.ConstraintFollowed, &record.PenaltyTriggered,
		&record.DeadlineAt, &submittedAt)
	if err != nil {
		return nil, err
	}

	if submittedAt.Valid {
		record.SubmittedAt = submittedAt.Time
	}

	return record, nil
}

// Ensure ComplianceRepository implements the interface
var _ secondary.ComplianceRepository = (*ComplianceRepository)(nil)
