package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/quill/internal/core/penalty"
	"github.com/example/quill/internal/core/schedule"
	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/ports/secondary"
)

// ComplianceServiceImpl implements the ComplianceService interface.
type ComplianceServiceImpl struct {
	contractRepo   secondary.ContractRepository
	complianceRepo secondary.ComplianceRepository
	poemRepo       secondary.PoemRepository
	logWriter      secondary.LogWriter
	clock          secondary.Clock
	logger         *zap.Logger
}

// NewComplianceService creates a new ComplianceService with injected dependencies.
func NewComplianceService(
	contractRepo secondary.ContractRepository,
	complianceRepo secondary.ComplianceRepository,
	poemRepo secondary.PoemRepository,
	logWriter secondary.LogWriter,
	clock secondary.Clock,
	logger *zap.Logger,
) *ComplianceServiceImpl {
	return &ComplianceServiceImpl{
		contractRepo:   contractRepo,
		complianceRepo: complianceRepo,
		poemRepo:       poemRepo,
		logWriter:      logWriter,
		clock:          clock,
		logger:         logger,
	}
}

// GetComplianceLog returns the per-week compliance entries for a contract.
func (s *ComplianceServiceImpl) GetComplianceLog(ctx context.Context, contractID string) ([]primary.ComplianceEntry, error) {
	records, err := s.complianceRepo.ListByContract(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to list compliance logs: %w", err)
	}

	entries := make([]primary.ComplianceEntry, len(records))
	for i, r := range records {
		entries[i] = primary.ComplianceEntry{
			WeekNumber:         r.WeekNumber,
			Status:             r.Status,
			OnTime:             r.OnTime,
			RevisionDone:       r.RevisionDone,
			ReflectionDone:     r.ReflectionDone,
			ConstraintFollowed: r.ConstraintFollowed,
			PenaltyTriggered:   r.PenaltyTriggered,
			DeadlineAt:         r.DeadlineAt,
			SubmittedAt:        r.SubmittedAt,
		}
	}
	return entries, nil
}

// Sweep evaluates every active contract against the current time.
// Running it twice in a row changes nothing the second time.
func (s *ComplianceServiceImpl) Sweep(ctx context.Context) (*primary.SweepReport, error) {
	actives, err := s.contractRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active contracts: %w", err)
	}

	now := s.clock.Now()
	report := &primary.SweepReport{ContractsChecked: len(actives)}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, contract := range actives {
		contract := contract
		g.Go(func() error {
			changes, missed, recoveries, err := s.sweepContract(gctx, contract, now)
			if err != nil {
				return err
			}
			mu.Lock()
			report.Changes = append(report.Changes, changes...)
			report.WeeksMissed += missed
			report.RecoveriesOpened += recoveries
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("sweep complete",
		zap.Int("contracts", report.ContractsChecked),
		zap.Int("weeks_missed", report.WeeksMissed),
		zap.Int("recoveries_opened", report.RecoveriesOpened))

	return report, nil
}

func (s *ComplianceServiceImpl) sweepContract(ctx context.Context, contract *secondary.ContractRecord, now time.Time) ([]primary.SweepChange, int, int, error) {
	loc, err := time.LoadLocation(contract.Timezone)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("invalid contract timezone: %w", err)
	}

	logs, err := s.complianceRepo.ListByContract(ctx, contract.ID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list compliance logs: %w", err)
	}

	// Build the planner snapshot
	snapshots := make([]schedule.LogSnapshot, 0, len(logs))
	byWeek := make(map[int]*secondary.ComplianceRecord, len(logs))
	for _, log := range logs {
		byWeek[log.WeekNumber] = log
		poem, err := s.poemRepo.GetSubmittedByWeek(ctx, contract.ID, log.WeekNumber)
		if err != nil {
			return nil, 0, 0, err
		}
		snapshots = append(snapshots, schedule.LogSnapshot{
			Week:     log.WeekNumber,
			Status:   schedule.Status(log.Status),
			Deadline: log.DeadlineAt,
			HasPoem:  poem != nil,
		})
	}

	actions := schedule.PlanSweep(schedule.SweepInput{
		TotalWeeks: contract.TotalWeeks,
		Logs:       snapshots,
		Now:        now,
	})

	var changes []primary.SweepChange
	missed, recoveries := 0, 0
	contractDirty := false

	for _, action := range actions {
		log := byWeek[action.Week]
		old := log.Status
		log.Status = string(action.NewStatus)

		if action.CountMiss {
			// The transition into missed is the single place miss
			// counters move.
			contract.PoemsMissed++
			contract.MissedWeeks = append(contract.MissedWeeks, action.Week)
			contractDirty = true
			missed++

			// Flag the log if this miss tips the month into the
			// doubled minimum.
			if penalty.MinimumLines(contract.StartDate, contract.MissedWeeks, now, loc) == penalty.EscalatedMinimumLines {
				log.PenaltyTriggered = true
			}
		}
		if action.NewStatus == schedule.StatusInRecovery {
			recoveries++
		}

		if err := s.complianceRepo.Update(ctx, log); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to update compliance log: %w", err)
		}
		if err := s.logWriter.LogUpdate(ctx, "compliance_log", log.ID, "status", old, log.Status); err != nil {
			s.logger.Warn("audit log write failed", zap.Error(err))
		}

		changes = append(changes, primary.SweepChange{
			ContractID: contract.ID,
			WeekNumber: action.Week,
			NewStatus:  log.Status,
		})
	}

	// Monthly releases are tallied as a derived count so the sweep stays
	// idempotent: completed months with no release, start to now.
	releasesMissed, err := s.countMissedReleaseMonths(ctx, contract, now, loc)
	if err != nil {
		return nil, 0, 0, err
	}
	if releasesMissed != contract.MonthlyReleasesMissed {
		contract.MonthlyReleasesMissed = releasesMissed
		contractDirty = true
	}

	if contractDirty {
		if err := s.contractRepo.Update(ctx, contract); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to update contract: %w", err)
		}
	}

	return changes, missed, recoveries, nil
}

// countMissedReleaseMonths counts the calendar months that ended between
// contract start and now without a published monthly release.
func (s *ComplianceServiceImpl) countMissedReleaseMonths(ctx context.Context, contract *secondary.ContractRecord, now time.Time, loc *time.Location) (int, error) {
	poems, err := s.poemRepo.ListByContract(ctx, contract.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to list poems: %w", err)
	}

	published := make(map[string]bool)
	for _, p := range poems {
		if p.IsMonthlyRelease && !p.PublishedAt.IsZero() {
			published[p.PublishedAt.In(loc).Format("2006-01")] = true
		}
	}

	missed := 0
	start := contract.StartDate.In(loc)
	end := contract.EndDate.In(loc)
	if now.In(loc).Before(end) {
		end = now.In(loc)
	}

	monthStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, loc)
	for {
		nextMonth := monthStart.AddDate(0, 1, 0)
		if !nextMonth.Before(end) {
			break // this month has not fully ended inside the window
		}
		if !published[monthStart.Format("2006-01")] {
			missed++
		}
		monthStart = nextMonth
	}

	return missed, nil
}

// Ensure ComplianceServiceImpl implements the interface
var _ primary.ComplianceService = (*ComplianceServiceImpl)(nil)
