// Package primary defines the primary ports (driving adapters) for the
// engine. These are the service interfaces the CLI and any future transport
// call into.
package primary

import (
	"context"
	"time"
)

// ContractService manages the discipline contract lifecycle.
type ContractService interface {
	// CreateContract starts a new ten-week contract for a profile. Rejected
	// when the profile already has an active contract.
	CreateContract(ctx context.Context, req CreateContractRequest) (*CreateContractResponse, error)

	// GetContract retrieves a contract with its weekly cycles.
	GetContract(ctx context.Context, contractID string) (*Contract, error)

	// GetActiveContract returns the profile's active contract, or nil.
	GetActiveContract(ctx context.Context, profileID string) (*Contract, error)

	// ListContracts lists contracts, optionally filtered by status.
	ListContracts(ctx context.Context, filters ContractFilters) ([]*Contract, error)

	// AbandonContract abandons an active contract. One-way.
	AbandonContract(ctx context.Context, contractID string) error

	// FinalizeExpired finalizes every active contract whose end date has
	// passed: archives a final report and closes the contract. One-way.
	FinalizeExpired(ctx context.Context) ([]*FinalizationResult, error)
}

// CreateContractRequest carries the inputs for starting a contract.
type CreateContractRequest struct {
	ProfileID string
	Timezone  string    // IANA name; falls back to the profile timezone
	StartDate time.Time // zero means start today
}

// CreateContractResponse is the result of starting a contract.
type CreateContractResponse struct {
	ContractID string
	Contract   *Contract
}

// Contract is the primary-port view of a discipline contract.
type Contract struct {
	ID                    string
	ProfileID             string
	StartDate             time.Time
	EndDate               time.Time
	Status                string
	TotalWeeks            int
	PoemsSubmitted        int
	PoemsMissed           int
	MonthlyReleases       int
	MonthlyReleasesMissed int
	MissedWeeks           []int
	LastSubmission        time.Time
	Timezone              string
	ArchiveLabel          string
	Cycles                []ConstraintCycle
}

// ConstraintCycle is the primary-port view of one weekly constraint.
type ConstraintCycle struct {
	WeekNumber     int
	ConstraintType string
	Status         string
	CompletedAt    time.Time
}

// ContractFilters contains filter options for listing contracts.
type ContractFilters struct {
	ProfileID string
	Status    string
	Limit     int
}

// FinalizationResult describes one finalized contract.
type FinalizationResult struct {
	ContractID     string
	FinalStatus    string
	SubmissionRate float64
	OnTimeCount    int
	LateCount      int
	ReportPath     string
}

// ProfileService manages user profiles.
type ProfileService interface {
	// CreateProfile creates a profile.
	CreateProfile(ctx context.Context, req CreateProfileRequest) (*Profile, error)

	// GetProfile retrieves a profile by ID.
	GetProfile(ctx context.Context, profileID string) (*Profile, error)
}

// CreateProfileRequest carries the inputs for creating a profile.
type CreateProfileRequest struct {
	ID       string
	Name     string
	Timezone string
}

// Profile is the primary-port view of a user profile.
type Profile struct {
	ID               string
	Name             string
	Timezone         string
	DeclaredPlatform string
}
