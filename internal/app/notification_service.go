package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/quill/internal/core/notify"
	"github.com/example/quill/internal/core/penalty"
	"github.com/example/quill/internal/core/schedule"
	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/ports/secondary"
)

// NotificationServiceImpl implements the NotificationService interface.
// Alerts are recomputed from state on every call; nothing is stored.
type NotificationServiceImpl struct {
	contractRepo   secondary.ContractRepository
	complianceRepo secondary.ComplianceRepository
	poemRepo       secondary.PoemRepository
	clock          secondary.Clock
	logger         *zap.Logger
}

// NewNotificationService creates a new NotificationService with injected dependencies.
func NewNotificationService(
	contractRepo secondary.ContractRepository,
	complianceRepo secondary.ComplianceRepository,
	poemRepo secondary.PoemRepository,
	clock secondary.Clock,
	logger *zap.Logger,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		contractRepo:   contractRepo,
		complianceRepo: complianceRepo,
		poemRepo:       poemRepo,
		clock:          clock,
		logger:         logger,
	}
}

// PendingAlerts returns the alerts that apply right now.
func (s *NotificationServiceImpl) PendingAlerts(ctx context.Context, profileID string) ([]notify.Alert, error) {
	contract, err := s.contractRepo.GetActiveByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active contract: %w", err)
	}
	if contract == nil {
		return nil, nil
	}

	loc, err := time.LoadLocation(contract.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid contract timezone: %w", err)
	}
	now := s.clock.Now()

	logs, err := s.complianceRepo.ListByContract(ctx, contract.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list compliance logs: %w", err)
	}

	weeks := make([]notify.WeekState, 0, len(logs))
	recentlyMissed := 0
	for _, log := range logs {
		weeks = append(weeks, notify.WeekState{
			Week:     log.WeekNumber,
			Status:   schedule.Status(log.Status),
			Deadline: log.DeadlineAt,
		})
		// A miss is "recent" while its closed window is under a week old.
		if log.Status == string(schedule.StatusMissed) {
			closedAt := schedule.RecoveryEnd(log.DeadlineAt)
			if now.Sub(closedAt) < 7*24*time.Hour && log.WeekNumber > recentlyMissed {
				recentlyMissed = log.WeekNumber
			}
		}
	}

	minLines := penalty.MinimumLines(contract.StartDate, contract.MissedWeeks, now, loc)

	last, err := s.poemRepo.LastMonthlyRelease(ctx, profileID)
	if err != nil {
		return nil, err
	}

	return notify.Compute(notify.Input{
		ContractID:         contract.ID,
		Weeks:              weeks,
		MinimumLines:       minLines,
		EscalatedMinimum:   minLines == penalty.EscalatedMinimumLines,
		MonthlyReleaseDue:  penalty.MonthlyReleaseDue(last, now, loc),
		RecentlyMissedWeek: recentlyMissed,
		Now:                now,
	}), nil
}

// Ensure NotificationServiceImpl implements the interface
var _ primary.NotificationService = (*NotificationServiceImpl)(nil)
