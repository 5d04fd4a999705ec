// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/quill/internal/ports/secondary"
)

// reflectionTemplateMarker distinguishes a generated reflection placeholder
// from a user-authored reflection. A file starting with this line is still
// "empty" as far as the reflection gate is concerned.
const reflectionTemplateMarker = "<!-- reflection template -->"

const reflectionTemplate = reflectionTemplateMarker + `
# Weekly Reflection

What did the constraint force you to find that you would not have found
without it? What did you dodge anyway?
`

// ArchiveGuard implements secondary.ArchiveStore on the local filesystem.
// Every artifact write uses O_CREATE|O_EXCL so existence check and write are
// a single atomic operation. Nothing in the archive is ever overwritten.
type ArchiveGuard struct {
	basePath string
}

// NewArchiveGuard creates a new filesystem archive.
// If basePath is empty, defaults to ~/.quill/archive.
func NewArchiveGuard(basePath string) (*ArchiveGuard, error) {
	if basePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		basePath = filepath.Join(home, ".quill", "archive")
	}

	return &ArchiveGuard{basePath: basePath}, nil
}

// InitContract eagerly pre-creates all week folders and the contract README.
func (a *ArchiveGuard) InitContract(ctx context.Context, label string, totalWeeks int) error {
	for week := 1; week <= totalWeeks; week++ {
		dir := a.WeekDir(label, week)
		for _, sub := range []string{"drafts", "revisions", "final", "reflection"} {
			if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
				return fmt.Errorf("failed to create week %d directory: %w", week, err)
			}
		}
	}

	readme := fmt.Sprintf("# %s\n\n%d weeks. One poem a week. The folders fill or they don't.\n", label, totalWeeks)
	readmePath := filepath.Join(a.contractDir(label), "README.md")
	if err := writeOnce(readmePath, readme); err != nil && !errors.Is(err, secondary.ErrArtifactExists) {
		return err
	}

	return nil
}

// SaveDraft writes drafts/Draft_vN.md for a week.
func (a *ArchiveGuard) SaveDraft(ctx context.Context, label string, week, draftNumber int, content string) (string, error) {
	path := filepath.Join(a.WeekDir(label, week), "drafts", fmt.Sprintf("Draft_v%d.md", draftNumber))
	if err := writeOnce(path, content); err != nil {
		return "", err
	}
	return path, nil
}

// SaveRevision writes revisions/Draft_vN_revision.md with the revision notes
// appended.
func (a *ArchiveGuard) SaveRevision(ctx context.Context, label string, week, revisionNumber int, content, changesNote string) (string, error) {
	body := content
	if changesNote != "" {
		body += "\n\n---\n\n## Revision Notes\n\n" + changesNote + "\n"
	}

	path := filepath.Join(a.WeekDir(label, week), "revisions", fmt.Sprintf("Draft_v%d_revision.md", revisionNumber))
	if err := writeOnce(path, body); err != nil {
		return "", err
	}
	return path, nil
}

// SaveFinal writes final/Final.md for a week.
func (a *ArchiveGuard) SaveFinal(ctx context.Context, label string, week int, content string) (string, error) {
	path := filepath.Join(a.WeekDir(label, week), "final", "Final.md")
	if err := writeOnce(path, content); err != nil {
		return "", err
	}
	return path, nil
}

// WriteReflectionTemplate writes the reflection placeholder for a week.
// Idempotent: an existing file, template or user-written, is left untouched.
func (a *ArchiveGuard) WriteReflectionTemplate(ctx context.Context, label string, week int) error {
	path := a.reflectionPath(label, week)
	err := writeOnce(path, reflectionTemplate)
	if errors.Is(err, secondary.ErrArtifactExists) {
		return nil
	}
	return err
}

// SaveReflection writes a user-authored reflection. It replaces a template
// placeholder; replacing a user-authored reflection needs allowReplace.
func (a *ArchiveGuard) SaveReflection(ctx context.Context, label string, week int, content string, allowReplace bool) (string, error) {
	path := a.reflectionPath(label, week)

	err := writeOnce(path, content)
	if err == nil {
		return path, nil
	}
	if !errors.Is(err, secondary.ErrArtifactExists) {
		return "", err
	}

	// Something is already there. A template placeholder may be replaced
	// freely; a user-authored reflection only with allowReplace.
	written, readErr := a.HasReflection(ctx, label, week)
	if readErr != nil {
		return "", readErr
	}
	if written && !allowReplace {
		return "", secondary.ErrArtifactExists
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to replace reflection: %w", err)
	}
	return path, nil
}

// HasReflection reports whether a user-authored reflection exists for a
// week. A template-only placeholder does not count.
func (a *ArchiveGuard) HasReflection(ctx context.Context, label string, week int) (bool, error) {
	data, err := os.ReadFile(a.reflectionPath(label, week))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read reflection: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return false, nil
	}
	return !strings.HasPrefix(text, reflectionTemplateMarker), nil
}

// WriteFinalReport writes FINAL_REPORT.md at contract finalization.
func (a *ArchiveGuard) WriteFinalReport(ctx context.Context, label string, content string) (string, error) {
	path := filepath.Join(a.contractDir(label), "FINAL_REPORT.md")
	if err := writeOnce(path, content); err != nil {
		return "", err
	}
	return path, nil
}

// WeekDir returns the archive directory for a contract week.
func (a *ArchiveGuard) WeekDir(label string, week int) string {
	return filepath.Join(a.contractDir(label), fmt.Sprintf("Week_%02d", week))
}

func (a *ArchiveGuard) contractDir(label string) string {
	return filepath.Join(a.basePath, label)
}

func (a *ArchiveGuard) reflectionPath(label string, week int) string {
	return filepath.Join(a.WeekDir(label, week), "reflection", "Reflection.md")
}

// writeOnce creates the file exclusively and writes content. Returns
// ErrArtifactExists when the path is already occupied.
func writeOnce(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if os.IsExist(err) {
		return fmt.Errorf("%w: %s", secondary.ErrArtifactExists, path)
	}
	if err != nil {
		return fmt.Errorf("failed to create artifact: %w", err)
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return f.Close()
}

// Ensure ArchiveGuard implements the interface
var _ secondary.ArchiveStore = (*ArchiveGuard)(nil)
