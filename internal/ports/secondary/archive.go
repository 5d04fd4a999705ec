package secondary

import (
	"context"
	"errors"
)

// ErrArtifactExists is returned by archive writes that would overwrite an
// existing artifact. The archive is write-once; callers surface this as a
// submission rejection, never retry it.
var ErrArtifactExists = errors.New("archive artifact already exists")

// ArchiveStore defines the secondary port for the immutable poem archive.
// Implementations guarantee write-once semantics per path: the existence
// check and the write are one atomic operation.
type ArchiveStore interface {
	// InitContract eagerly pre-creates all week folders and the contract
	// README. Safe to call once per contract label.
	InitContract(ctx context.Context, label string, totalWeeks int) error

	// SaveDraft writes drafts/Draft_vN.md for a week. Fails with
	// ErrArtifactExists if that draft version was already written.
	SaveDraft(ctx context.Context, label string, week, draftNumber int, content string) (string, error)

	// SaveRevision writes revisions/Draft_vN_revision.md with a revision
	// notes section appended. Write-once per version.
	SaveRevision(ctx context.Context, label string, week, revisionNumber int, content, changesNote string) (string, error)

	// SaveFinal writes final/Final.md for a week. Write-once.
	SaveFinal(ctx context.Context, label string, week int, content string) (string, error)

	// WriteReflectionTemplate writes the reflection placeholder for a week.
	// Idempotent: an existing reflection, template or user-written, is left
	// untouched.
	WriteReflectionTemplate(ctx context.Context, label string, week int) error

	// SaveReflection writes a user-authored reflection. It replaces a
	// template placeholder but fails with ErrArtifactExists when a
	// user-authored reflection already exists, unless allowReplace is set.
	SaveReflection(ctx context.Context, label string, week int, content string, allowReplace bool) (string, error)

	// HasReflection reports whether a user-authored reflection exists for a
	// week. A template-only placeholder does not count.
	HasReflection(ctx context.Context, label string, week int) (bool, error)

	// WriteFinalReport writes FINAL_REPORT.md at contract finalization.
	WriteFinalReport(ctx context.Context, label string, content string) (string, error)

	// WeekDir returns the archive directory for a contract week.
	WeekDir(label string, week int) string
}
