// Package app contains the application services that orchestrate the
// functional core, repositories, and adapters.
package app

import (
	"errors"
	"fmt"
)

// GateBlockedError is returned when a guard refuses an operation. The Code
// is machine-readable so callers can branch without parsing messages.
type GateBlockedError struct {
	Code   string
	Reason string
}

func (e *GateBlockedError) Error() string {
	return e.Reason
}

// BlockCode extracts the guard code from an error, or empty string when the
// error is not a gate block.
func BlockCode(err error) string {
	var gate *GateBlockedError
	if errors.As(err, &gate) {
		return gate.Code
	}
	return ""
}

// NotFoundError wraps lookups of entities that do not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}
