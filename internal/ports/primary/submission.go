package primary

import (
	"context"
	"time"

	"github.com/example/quill/internal/core/constraint"
	"github.com/example/quill/internal/core/contract"
	"github.com/example/quill/internal/core/critique"
)

// SubmissionService handles the weekly poem pipeline.
type SubmissionService interface {
	// SubmitPoem runs the full submission pipeline for the current week.
	// A rejection (gate block, constraint violations) is reported on the
	// response, not as an error; errors are for infrastructure failures.
	SubmitPoem(ctx context.Context, req SubmitPoemRequest) (*SubmitPoemResponse, error)

	// SaveDraft archives a draft without submitting it.
	SaveDraft(ctx context.Context, req SaveDraftRequest) (*SaveDraftResponse, error)

	// SaveRevision records a numbered revision of a submitted poem.
	SaveRevision(ctx context.Context, req SaveRevisionRequest) (*SaveRevisionResponse, error)

	// SaveReflection writes the weekly reflection into the archive.
	SaveReflection(ctx context.Context, req SaveReflectionRequest) error

	// GetPoem retrieves a poem with its critique and violations.
	GetPoem(ctx context.Context, poemID string) (*Poem, error)

	// GetWeekPoem returns the submitted poem for a contract week, or nil.
	GetWeekPoem(ctx context.Context, contractID string, week int) (*Poem, error)
}

// SubmitPoemRequest carries a weekly submission.
type SubmitPoemRequest struct {
	ProfileID  string
	Content    string
	Assessment contract.SelfAssessment

	// VersionNumber marks which take of the poem is being submitted.
	// Zero or one archives a first draft alongside the final; greater
	// than one archives a revision with RevisionNotes appended.
	VersionNumber int
	RevisionNotes string
}

// SubmitPoemResponse is the result of a submission attempt.
type SubmitPoemResponse struct {
	Success     bool
	Message     string
	ReasonCode  string
	PoemID      string
	WeekNumber  int
	Constraint  string
	OnTime      bool
	Critique    *critique.Critique
	Violations  []constraint.Violation
	ArchivePath string
}

// SaveDraftRequest carries a draft to archive.
type SaveDraftRequest struct {
	ProfileID string
	Content   string
}

// SaveDraftResponse reports where a draft was archived.
type SaveDraftResponse struct {
	WeekNumber  int
	DraftNumber int
	ArchivePath string
}

// SaveRevisionRequest carries a revision of a submitted poem.
type SaveRevisionRequest struct {
	PoemID      string
	Content     string
	ChangesNote string
}

// SaveRevisionResponse reports a recorded revision.
type SaveRevisionResponse struct {
	VersionNumber int
	ArchivePath   string
}

// SaveReflectionRequest carries a weekly reflection.
type SaveReflectionRequest struct {
	ProfileID    string
	WeekNumber   int
	Content      string
	AllowReplace bool
}

// Poem is the primary-port view of a poem.
type Poem struct {
	ID               string
	ContractID       string
	WeekNumber       int
	Content          string
	LineCount        int
	ConstraintType   string
	Status           string
	RevisionCount    int
	SubmittedAt      time.Time
	OnTime           bool
	Critique         *critique.Critique
	Violations       []constraint.Violation
	Assessment       *contract.SelfAssessment
	ArchivePath      string
	IsMonthlyRelease bool
	Platform         string
	PublicURL        string
	PublishedAt      time.Time
}
