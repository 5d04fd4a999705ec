package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/quill/internal/ports/secondary"
)

// RevisionRepository implements secondary.RevisionRepository with SQLite.
// Revisions are append-only.
type RevisionRepository struct {
	db *sql.DB
}

// NewRevisionRepository creates a new SQLite poem revision repository.
func NewRevisionRepository(db *sql.DB) *RevisionRepository {
	return &RevisionRepository{db: db}
}

// Create appends a revision. The UNIQUE(poem_id, version_number) constraint
// rejects duplicate versions.
func (r *RevisionRepository) Create(ctx context.Context, revision *secondary.RevisionRecord) error {
	if revision.ID == "" {
		return fmt.Errorf("revision ID must be pre-populated by service layer")
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO poem_revisions (id, poem_id, version_number, content, changes_note) VALUES (?, ?, ?, ?, ?)",
		revision.ID, revision.PoemID, revision.VersionNumber, revision.Content,
		nullString(revision.ChangesNote),
	)
	if err != nil {
		return fmt.Errorf("failed to create revision: %w", err)
	}

	return nil
}

// ListByPoem retrieves a poem's revisions in version order.
func (r *RevisionRepository) ListByPoem(ctx context.Context, poemID string) ([]*secondary.RevisionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, poem_id, version_number, content, changes_note, created_at FROM poem_revisions WHERE poem_id = ? ORDER BY version_number",
		poemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []*secondary.RevisionRecord
	for rows.Next() {
		var (
			note      sql.NullString
			createdAt time.Time
		)

		record := &secondary.RevisionRecord{}
		err := rows.Scan(&record.ID, &record.PoemID, &record.VersionNumber, &record.Content, &note, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}

		record.ChangesNote = note.String
		record.CreatedAt = createdAt

		revisions = append(revisions, record)
	}

	return revisions, nil
}

// Ensure RevisionRepository implements the interface
var _ secondary.RevisionRepository = (*RevisionRepository)(nil)
