// Package secondary defines the secondary ports (driven adapters) for the
// engine. These are the interfaces through which the application drives
// external systems.
package secondary

import (
	"context"
	"time"
)

// ProfileRepository defines the secondary port for user profile persistence.
type ProfileRepository interface {
	// Create persists a new profile.
	Create(ctx context.Context, profile *ProfileRecord) error

	// GetByID retrieves a profile by its ID.
	GetByID(ctx context.Context, id string) (*ProfileRecord, error)

	// SetDeclaredPlatform locks the profile's publishing platform.
	SetDeclaredPlatform(ctx context.Context, id, platform string) error
}

// ProfileRecord represents a user profile as stored in persistence.
type ProfileRecord struct {
	ID               string
	Name             string
	Timezone         string
	DeclaredPlatform string // empty until locked on first publish
	CreatedAt        time.Time
}

// ContractRepository defines the secondary port for contract persistence.
type ContractRepository interface {
	// Create persists a new contract.
	Create(ctx context.Context, contract *ContractRecord) error

	// GetByID retrieves a contract by its ID.
	GetByID(ctx context.Context, id string) (*ContractRecord, error)

	// GetActiveByProfile returns the profile's active contract, or nil when
	// the profile has none.
	GetActiveByProfile(ctx context.Context, profileID string) (*ContractRecord, error)

	// ListActive retrieves all active contracts.
	ListActive(ctx context.Context) ([]*ContractRecord, error)

	// List retrieves contracts matching the given filters.
	List(ctx context.Context, filters ContractFilters) ([]*ContractRecord, error)

	// Update rewrites a contract's mutable fields (status, counters,
	// missed weeks, last submission).
	Update(ctx context.Context, contract *ContractRecord) error

	// GetNextID returns the next available contract ID.
	GetNextID(ctx context.Context) (string, error)
}

// ContractRecord represents a discipline contract as stored in persistence.
type ContractRecord struct {
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
	LastSubmission        time.Time // zero when nothing submitted yet
	Timezone              string
	ArchiveLabel          string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ContractFilters contains filter options for querying contracts.
type ContractFilters struct {
	ProfileID string
	Status    string
	Limit     int
}

// CycleRepository defines the secondary port for constraint cycle persistence.
type CycleRepository interface {
	// CreateBatch persists the full set of cycles for a new contract.
	CreateBatch(ctx context.Context, cycles []*CycleRecord) error

	// GetByWeek retrieves the cycle for a contract week.
	GetByWeek(ctx context.Context, contractID string, week int) (*CycleRecord, error)

	// ListByContract retrieves all cycles for a contract in week order.
	ListByContract(ctx context.Context, contractID string) ([]*CycleRecord, error)

	// MarkCompleted marks a cycle completed at the given time.
	MarkCompleted(ctx context.Context, contractID string, week int, at time.Time) error
}

// CycleRecord represents a weekly constraint cycle as stored in persistence.
type CycleRecord struct {
	ID             string
	ContractID     string
	WeekNumber     int
	ConstraintType string
	Status         string
	CompletedAt    time.Time // zero until completed
}

// ComplianceRepository defines the secondary port for compliance log
// persistence.
type ComplianceRepository interface {
	// CreateBatch persists the full set of logs for a new contract.
	CreateBatch(ctx context.Context, logs []*ComplianceRecord) error

	// GetByWeek retrieves the log for a contract week.
	GetByWeek(ctx context.Context, contractID string, week int) (*ComplianceRecord, error)

	// ListByContract retrieves all logs for a contract in week order.
	ListByContract(ctx context.Context, contractID string) ([]*ComplianceRecord, error)

	// Update rewrites a log's mutable fields.
	Update(ctx context.Context, log *ComplianceRecord) error
}

// ComplianceRecord represents a weekly compliance log as stored in
// persistence. It is the sole source of truth for whether a week satisfied
// the contract.
type ComplianceRecord struct {
	ID                 string
	ContractID         string
	WeekNumber         int
	OnTime             bool
	RevisionDone       bool
	ReflectionDone     bool
	ConstraintFollowed bool
	PenaltyTriggered   bool
	Status             string
	DeadlineAt         time.Time
	SubmittedAt        time.Time // zero until submitted
}

// PoemRepository defines the secondary port for poem persistence.
type PoemRepository interface {
	// Create persists a new poem.
	Create(ctx context.Context, poem *PoemRecord) error

	// GetByID retrieves a poem by its ID.
	GetByID(ctx context.Context, id string) (*PoemRecord, error)

	// GetSubmittedByWeek returns the non-draft poem for a contract week, or
	// nil when the week has none.
	GetSubmittedByWeek(ctx context.Context, contractID string, week int) (*PoemRecord, error)

	// ListByContract retrieves all poems for a contract in week order.
	ListByContract(ctx context.Context, contractID string) ([]*PoemRecord, error)

	// Update rewrites a poem's mutable fields (status, revision count,
	// publication fields).
	Update(ctx context.Context, poem *PoemRecord) error

	// LastMonthlyRelease returns the publication time of the profile's most
	// recent monthly release, or the zero time when none exists.
	LastMonthlyRelease(ctx context.Context, profileID string) (time.Time, error)
}

// PoemRecord represents one poem submission as stored in persistence.
// SelfAssessment and Violations carry JSON documents.
type PoemRecord struct {
	ID               string
	ProfileID        string
	ContractID       string
	WeekNumber       int
	Content          string
	LineCount        int
	ConstraintType   string
	Status           string
	RevisionCount    int
	SelfAssessment   string
	Violations       string
	ArchivePath      string
	IsMonthlyRelease bool
	Platform         string
	PublicURL        string
	RecordingPath    string
	PublishedAt      time.Time // zero until published
	CreatedAt        time.Time
}

// Poem statuses.
const (
	PoemStatusDraft     = "draft"
	PoemStatusSubmitted = "submitted"
	PoemStatusPublished = "published"
)

// Cycle statuses.
const (
	CycleStatusPending   = "pending"
	CycleStatusCompleted = "completed"
)

// RevisionRepository defines the secondary port for poem revision history.
// Revisions are append-only; there is no update or delete.
type RevisionRepository interface {
	// Create appends a revision. Version numbers are strictly increasing
	// per poem starting at 1.
	Create(ctx context.Context, revision *RevisionRecord) error

	// ListByPoem retrieves a poem's revisions in version order.
	ListByPoem(ctx context.Context, poemID string) ([]*RevisionRecord, error)
}

// RevisionRecord represents one immutable poem revision.
type RevisionRecord struct {
	ID            string
	PoemID        string
	VersionNumber int
	Content       string
	ChangesNote   string
	CreatedAt     time.Time
}

// PatternReportRepository defines the secondary port for emotional-pattern
// reports. The engine only gates on acknowledgement; report creation belongs
// to the pattern-tracking collaborator.
type PatternReportRepository interface {
	// Create persists a new pattern report.
	Create(ctx context.Context, report *PatternReportRecord) error

	// ListUnacknowledged retrieves a profile's unacknowledged reports.
	ListUnacknowledged(ctx context.Context, profileID string) ([]*PatternReportRecord, error)

	// Acknowledge marks a report acknowledged.
	Acknowledge(ctx context.Context, id string) error
}

// PatternReportRecord represents one emotional-pattern report.
type PatternReportRecord struct {
	ID           string
	ProfileID    string
	PatternType  string
	Summary      string
	Acknowledged bool
	CreatedAt    time.Time
}
