package primary

import (
	"context"

	"github.com/example/quill/internal/core/notify"
)

// NotificationService computes the current alert set for a profile.
type NotificationService interface {
	// PendingAlerts returns the alerts that apply right now. Recomputed
	// from state on every call; repeated calls give repeated alerts.
	PendingAlerts(ctx context.Context, profileID string) ([]notify.Alert, error)
}

// PatternService surfaces and acknowledges detected writing patterns.
type PatternService interface {
	// ListUnacknowledged lists the reports currently blocking submission,
	// newest first.
	ListUnacknowledged(ctx context.Context, profileID string) ([]PatternReport, error)

	// Acknowledge marks a report as seen, clearing the submission gate.
	Acknowledge(ctx context.Context, reportID string) error
}

// PatternReport is the primary-port view of a detected pattern.
type PatternReport struct {
	ID           string
	ProfileID    string
	PatternType  string
	Summary      string
	Acknowledged bool
}
