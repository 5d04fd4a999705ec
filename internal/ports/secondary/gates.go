package secondary

import "context"

// PatternGate is the cross-cutting gate from the pattern-tracking
// collaborator. The engine only asks the boolean question; how reports are
// produced is not its concern.
type PatternGate interface {
	// HasUnacknowledged reports whether the profile has pattern reports
	// awaiting acknowledgement.
	HasUnacknowledged(ctx context.Context, profileID string) (bool, error)
}

// URLVerifier checks that a published URL is live. Implementations must fail
// closed: a timeout or transport error is "not verified", never "verified".
type URLVerifier interface {
	// Verify fetches the URL and returns nil only when it is reachable and
	// does not look like a not-found page.
	Verify(ctx context.Context, url string) error
}

// LogWriter defines the interface for writing audit log entries.
// Implementations extract the actor from context.
type LogWriter interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, entityType, entityID string) error

	// LogUpdate logs an update operation for an entity field.
	LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error
}
