package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/quill/internal/ports/secondary"
)

// ProfileRepository implements secondary.ProfileRepository with SQLite.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new SQLite profile repository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create persists a new profile.
func (r *ProfileRepository) Create(ctx context.Context, profile *secondary.ProfileRecord) error {
	if profile.ID == "" {
		return fmt.Errorf("profile ID must be pre-populated by service layer")
	}

	var platform sql.NullString
	if profile.DeclaredPlatform != "" {
		platform = sql.NullString{String: profile.DeclaredPlatform, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO profiles (id, name, timezone, declared_platform) VALUES (?, ?, ?, ?)",
		profile.ID, profile.Name, profile.Timezone, platform,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*secondary.ProfileRecord, error) {
	var (
		platform  sql.NullString
		createdAt time.Time
	)

	record := &secondary.ProfileRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, timezone, declared_platform, created_at FROM profiles WHERE id = ?",
		id,
	).Scan(&record.ID, &record.Name, &record.Timezone, &platform, &createdAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	record.DeclaredPlatform = platform.String
	record.CreatedAt = createdAt

	return record, nil
}

// SetDeclaredPlatform locks the profile's publishing platform.
func (r *ProfileRepository) SetDeclaredPlatform(ctx context.Context, id, platform string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE profiles SET declared_platform = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		platform, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set declared platform: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("profile %s not found", id)
	}

	return nil
}

// Ensure ProfileRepository implements the interface
var _ secondary.ProfileRepository = (*ProfileRepository)(nil)
