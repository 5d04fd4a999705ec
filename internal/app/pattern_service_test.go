package app

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/example/quill/internal/ports/secondary"
)

type mockPatternRepo struct {
	reports map[string]*secondary.PatternReportRecord
}

func newMockPatternRepo() *mockPatternRepo {
	return &mockPatternRepo{reports: make(map[string]*secondary.PatternReportRecord)}
}

func (m *mockPatternRepo) Create(ctx context.Context, report *secondary.PatternReportRecord) error {
	m.reports[report.ID] = report
	return nil
}

func (m *mockPatternRepo) ListUnacknowledged(ctx context.Context, profileID string) ([]*secondary.PatternReportRecord, error) {
	var result []*secondary.PatternReportRecord
	for _, r := range m.reports {
		if r.ProfileID == profileID && !r.Acknowledged {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockPatternRepo) Acknowledge(ctx context.Context, id string) error {
	r, ok := m.reports[id]
	if !ok {
		return errors.New("pattern report not found")
	}
	r.Acknowledged = true
	return nil
}

func TestPatternAcknowledgementLifecycle(t *testing.T) {
	repo := newMockPatternRepo()
	svc := NewPatternService(repo, &mockLogWriter{}, zap.NewNop())
	ctx := context.Background()

	repo.reports["rep-1"] = &secondary.PatternReportRecord{
		ID:          "rep-1",
		ProfileID:   "writer",
		PatternType: "avoidance",
		Summary:     "three straight weeks closing on the same image",
	}

	reports, err := svc.ListUnacknowledged(ctx, "writer")
	if err != nil {
		t.Fatalf("ListUnacknowledged failed: %v", err)
	}
	if len(reports) != 1 || reports[0].PatternType != "avoidance" {
		t.Fatalf("expected the avoidance report, got %v", reports)
	}

	if err := svc.Acknowledge(ctx, "rep-1"); err != nil {
		t.Fatalf("Acknowledge failed: %v", err)
	}

	reports, err = svc.ListUnacknowledged(ctx, "writer")
	if err != nil {
		t.Fatalf("ListUnacknowledged failed: %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("expected no reports after acknowledgement, got %v", reports)
	}

	if err := svc.Acknowledge(ctx, "missing"); err == nil {
		t.Error("expected acknowledging an unknown report to fail")
	}
}
