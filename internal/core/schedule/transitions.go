package schedule

import "fmt"

// Status represents the state of a weekly compliance log.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInRecovery Status = "in_recovery"
	StatusCompleted  Status = "completed"
	StatusMissed     Status = "missed"
)

// IsTerminal reports whether a status can never change again.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusMissed
}

// InitialStatus returns the status for a freshly created compliance log.
func InitialStatus() Status {
	return StatusPending
}

// CanTransition reports whether a compliance log may move between two states.
// Terminal states never transition. "missed" is only reached after the
// recovery window closes; submissions always land on "completed".
func CanTransition(from, to Status) bool {
	if from.IsTerminal() {
		return false
	}
	switch from {
	case StatusPending:
		return to == StatusCompleted || to == StatusInRecovery || to == StatusMissed
	case StatusInRecovery:
		return to == StatusCompleted || to == StatusMissed
	}
	return false
}

// TransitionError describes a rejected state transition.
func TransitionError(from, to Status) error {
	return fmt.Errorf("compliance log cannot transition from %s to %s", from, to)
}
