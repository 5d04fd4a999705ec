package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/quill/internal/ctxutil"
	"github.com/example/quill/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter against the audit_log
// table. The actor is taken from context when present.
type LogWriterAdapter struct {
	db *sql.DB
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(db *sql.DB) *LogWriterAdapter {
	return &LogWriterAdapter{db: db}
}

// LogCreate logs a create operation for an entity.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, entityType, entityID string) error {
	return w.writeLog(ctx, entityType, entityID, "create", "", "", "")
}

// LogUpdate logs an update operation for an entity field.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	return w.writeLog(ctx, entityType, entityID, "update", fieldName, oldValue, newValue)
}

func (w *LogWriterAdapter) writeLog(ctx context.Context, entityType, entityID, action, fieldName, oldValue, newValue string) error {
	actor := ctxutil.ActorFromContext(ctx)

	_, err := w.db.ExecContext(ctx,
		"INSERT INTO audit_log (actor, entity_type, entity_id, action, field_name, old_value, new_value) VALUES (?, ?, ?, ?, ?, ?, ?)",
		nullString(actor), entityType, entityID, action,
		nullString(fieldName), nullString(oldValue), nullString(newValue),
	)
	if err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}

	return nil
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
