package primary

import (
	"context"
	"time"
)

// ComplianceService tracks weekly compliance and runs the deadline sweep.
type ComplianceService interface {
	// GetComplianceLog returns the per-week compliance entries for a
	// contract, in week order.
	GetComplianceLog(ctx context.Context, contractID string) ([]ComplianceEntry, error)

	// Sweep evaluates every active contract against the current time,
	// marking missed weeks and opening recovery windows. Idempotent.
	Sweep(ctx context.Context) (*SweepReport, error)
}

// ComplianceEntry is one week's compliance record.
type ComplianceEntry struct {
	WeekNumber         int
	Status             string
	OnTime             bool
	RevisionDone       bool
	ReflectionDone     bool
	ConstraintFollowed bool
	PenaltyTriggered   bool
	DeadlineAt         time.Time
	SubmittedAt        time.Time
}

// SweepReport summarizes one sweep run.
type SweepReport struct {
	ContractsChecked int
	WeeksMissed      int
	RecoveriesOpened int
	Changes          []SweepChange
}

// SweepChange is one status change made by the sweep.
type SweepChange struct {
	ContractID string
	WeekNumber int
	NewStatus  string
}
