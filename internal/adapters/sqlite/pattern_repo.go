package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/quill/internal/ports/secondary"
)

// PatternReportRepository implements secondary.PatternReportRepository with
// SQLite. It also satisfies secondary.PatternGate, since the gate question
// is answerable from the same table.
type PatternReportRepository struct {
	db *sql.DB
}

// NewPatternReportRepository creates a new SQLite pattern report repository.
func NewPatternReportRepository(db *sql.DB) *PatternReportRepository {
	return &PatternReportRepository{db: db}
}

// Create persists a new pattern report.
func (r *PatternReportRepository) Create(ctx context.Context, report *secondary.PatternReportRecord) error {
	if report.ID == "" {
		return fmt.Errorf("report ID must be pre-populated by service layer")
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO pattern_reports (id, profile_id, pattern_type, summary, acknowledged) VALUES (?, ?, ?, ?, ?)",
		report.ID, report.ProfileID, report.PatternType,
		nullString(report.Summary), report.Acknowledged,
	)
	if err != nil {
		return fmt.Errorf("failed to create pattern report: %w", err)
	}

	return nil
}

// ListUnacknowledged retrieves a profile's unacknowledged reports.
func (r *PatternReportRepository) ListUnacknowledged(ctx context.Context, profileID string) ([]*secondary.PatternReportRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, profile_id, pattern_type, summary, acknowledged, created_at FROM pattern_reports WHERE profile_id = ? AND acknowledged = 0 ORDER BY created_at DESC",
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pattern reports: %w", err)
	}
	defer rows.Close()

	var reports []*secondary.PatternReportRecord
	for rows.Next() {
		var (
			summary   sql.NullString
			createdAt time.Time
		)

		record := &secondary.PatternReportRecord{}
		err := rows.Scan(&record.ID, &record.ProfileID, &record.PatternType, &summary, &record.Acknowledged, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pattern report: %w", err)
		}

		record.Summary = summary.String
		record.CreatedAt = createdAt

		reports = append(reports, record)
	}

	return reports, nil
}

// Acknowledge marks a report acknowledged.
func (r *PatternReportRepository) Acknowledge(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE pattern_reports SET acknowledged = 1, acknowledged_at = CURRENT_TIMESTAMP WHERE id = ?",
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to acknowledge pattern report: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("pattern report %s not found", id)
	}

	return nil
}

// HasUnacknowledged reports whether the profile has pattern reports awaiting
// acknowledgement.
func (r *PatternReportRepository) HasUnacknowledged(ctx context.Context, profileID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pattern_reports WHERE profile_id = ? AND acknowledged = 0",
		profileID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count pattern reports: %w", err)
	}

	return count > 0, nil
}

// Ensure PatternReportRepository implements both interfaces
var (
	_ secondary.PatternReportRepository = (*PatternReportRepository)(nil)
	_ secondary.PatternGate             = (*PatternReportRepository)(nil)
)
