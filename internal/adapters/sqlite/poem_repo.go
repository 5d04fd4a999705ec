package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/quill/internal/ports/secondary"
)

// PoemRepository implements secondary.PoemRepository with SQLite.
type PoemRepository struct {
	db *sql.DB
}

// NewPoemRepository creates a new SQLite poem repository.
func NewPoemRepository(db *sql.DB) *PoemRepository {
	return &PoemRepository{db: db}
}

// Create persists a new poem.
// The record must have ID and Status pre-populated by the service layer.
func (r *PoemRepository) Create(ctx context.Context, poem *secondary.PoemRecord) error {
	if poem.ID == "" {
		return fmt.Errorf("poem ID must be pre-populated by service layer")
	}
	if poem.Status == "" {
		return fmt.Errorf("poem Status must be pre-populated by service layer")
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO poems (id, profile_id, contract_id, week_number, content, line_count,
			constraint_type, status, revision_count, self_assessment, violations,
			archive_path, is_monthly_release, platform, public_url, recording_path, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		poem.ID, poem.ProfileID, poem.ContractID, poem.WeekNumber, poem.Content, poem.LineCount,
		poem.ConstraintType, poem.Status, poem.RevisionCount,
		nullString(poem.SelfAssessment), nullString(poem.Violations),
		nullString(poem.ArchivePath), poem.IsMonthlyRelease,
		nullString(poem.Platform), nullString(poem.PublicURL), nullString(poem.RecordingPath),
		nullTime(poem.PublishedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create poem: %w", err)
	}

	return nil
}

const poemColumns = `id, profile_id, contract_id, week_number, content, line_count,
	constraint_type, status, revision_count, self_assessment, violations,
	archive_path, is_monthly_release, platform, public_url, recording_path,
	published_at, created_at`

// GetByID retrieves a poem by its ID.
func (r *PoemRepository) GetByID(ctx context.Context, id string) (*secondary.PoemRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+poemColumns+" FROM poems WHERE id = ?", id)

	record, err := scanPoem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("poem %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poem: %w", err)
	}

	return record, nil
}

// GetSubmittedByWeek returns the non-draft poem for a contract week, or nil
// when the week has none.
func (r *PoemRepository) GetSubmittedByWeek(ctx context.Context, contractID string, week int) (*secondary.PoemRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+poemColumns+" FROM poems WHERE contract_id = ? AND week_number = ? AND status != 'draft'",
		contractID, week)

	record, err := scanPoem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submitted poem: %w", err)
	}

	return record, nil
}

// ListByContract retrieves all poems for a contract in week order.
func (r *PoemRepository) ListByContract(ctx context.Context, contractID string) ([]*secondary.PoemRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+poemColumns+" FROM poems WHERE contract_id = ? ORDER BY week_number, created_at",
		contractID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list poems: %w", err)
	}
	defer rows.Close()

	var poems []*secondary.PoemRecord
	for rows.Next() {
		record, err := scanPoem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poem: %w", err)
		}
		poems = append(poems, record)
	}

	return poems, nil
}

// Update rewrites a poem's mutable fields.
func (r *PoemRepository) Update(ctx context.Context, poem *secondary.PoemRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE poems SET content = ?, line_count = ?, status = ?, revision_count = ?,
			self_assessment = ?, violations = ?, archive_path = ?,
			is_monthly_release = ?, platform = ?, public_url = ?, recording_path = ?,
			published_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		poem.Content, poem.LineCount, poem.Status, poem.RevisionCount,
		nullString(poem.SelfAssessment), nullString(poem.Violations), nullString(poem.ArchivePath),
		poem.IsMonthlyRelease, nullString(poem.Platform), nullString(poem.PublicURL),
		nullString(poem.RecordingPath), nullTime(poem.PublishedAt), poem.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update poem: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("poem %s not found", poem.ID)
	}

	return nil
}

// LastMonthlyRelease returns the publication time of the profile's most
// recent monthly release, or the zero time when none exists.
func (r *PoemRepository) LastMonthlyRelease(ctx context.Context, profileID string) (time.Time, error) {
	// Selecting the column directly keeps its DATETIME decltype, which an
	// aggregate like MAX would strip and break time scanning.
	var published sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT published_at FROM poems
		WHERE profile_id = ? AND is_monthly_release = 1
		ORDER BY published_at DESC LIMIT 1`,
		profileID,
	).Scan(&published)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last monthly release: %w", err)
	}

	if !published.Valid {
		return time.Time{}, nil
	}
	return published.Time, nil
}

func scanPoem(s scanner) (*secondary.PoemRecord, error) {
	var (
		assessment  sql.NullString
		violations  sql.NullString
		archivePath sql.NullString
		platform    sql.NullString
		publicURL   sql.NullString
		recording   sql.NullString
		publishedAt sql.NullTime
		createdAt   time.Time
	)

	record := &secondary.PoemRecord{}
	err := s.Scan(&record.ID, &record.ProfileID, &record.ContractID, &record.WeekNumber,
		&record.Content, &record.LineCount, &record.ConstraintType, &record.Status,
		&record.RevisionCount, &assessment, &violations, &archivePath,
		&record.IsMonthlyRelease, &platform, &publicURL, &recording,
		&publishedAt, &createdAt)
	if err != nil {
		return nil, err
	}

	record.SelfAssessment = assessment.String
	record.Violations = violations.String
	record.ArchivePath = archivePath.String
	record.Platform = platform.String
	record.PublicURL = publicURL.String
	record.RecordingPath = recording.String
	if publishedAt.Valid {
		record.PublishedAt = publishedAt.Time
	}
	record.CreatedAt = createdAt

	return record, nil
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

// Ensure PoemRepository implements the interface
var _ secondary.PoemRepository = (*PoemRepository)(nil)
