package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/ports/secondary"
)

// PatternServiceImpl implements the PatternService interface.
type PatternServiceImpl struct {
	patternRepo secondary.PatternReportRepository
	logWriter   secondary.LogWriter
	logger      *zap.Logger
}

// NewPatternService creates a new PatternService with injected dependencies.
func NewPatternService(patternRepo secondary.PatternReportRepository, logWriter secondary.LogWriter, logger *zap.Logger) *PatternServiceImpl {
	return &PatternServiceImpl{patternRepo: patternRepo, logWriter: logWriter, logger: logger}
}

// ListUnacknowledged lists the reports currently blocking submission.
func (s *PatternServiceImpl) ListUnacknowledged(ctx context.Context, profileID string) ([]primary.PatternReport, error) {
	records, err := s.patternRepo.ListUnacknowledged(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pattern reports: %w", err)
	}

	reports := make([]primary.PatternReport, len(records))
	for i, r := range records {
		reports[i] = primary.PatternReport{
			ID:           r.ID,
			ProfileID:    r.ProfileID,
			PatternType:  r.PatternType,
			Summary:      r.Summary,
			Acknowledged: r.Acknowledged,
		}
	}
	return reports, nil
}

// Acknowledge marks a report as seen, clearing the submission gate.
func (s *PatternServiceImpl) Acknowledge(ctx context.Context, reportID string) error {
	if err := s.patternRepo.Acknowledge(ctx, reportID); err != nil {
		return err
	}
	if err := s.logWriter.LogUpdate(ctx, "pattern_report", reportID, "acknowledged", "false", "true"); err != nil {
		s.logger.Warn("audit log write failed", zap.Error(err))
	}
	return nil
}

// Ensure PatternServiceImpl implements the interface
var _ primary.PatternService = (*PatternServiceImpl)(nil)
