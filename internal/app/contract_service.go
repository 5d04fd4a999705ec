package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/quill/internal/core/constraint"
	corecontract "github.com/example/quill/internal/core/contract"
	"github.com/example/quill/internal/core/schedule"
	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/ports/secondary"
)

// ContractServiceImpl implements the ContractService interface.
type ContractServiceImpl struct {
	contractRepo   secondary.ContractRepository
	profileRepo    secondary.ProfileRepository
	cycleRepo      secondary.CycleRepository
	complianceRepo secondary.ComplianceRepository
	poemRepo       secondary.PoemRepository
	archive        secondary.ArchiveStore
	logWriter      secondary.LogWriter
	clock          secondary.Clock
	logger         *zap.Logger
}

// NewContractService creates a new ContractService with injected dependencies.
func NewContractService(
	contractRepo secondary.ContractRepository,
	profileRepo secondary.ProfileRepository,
	cycleRepo secondary.CycleRepository,
	complianceRepo secondary.ComplianceRepository,
	poemRepo secondary.PoemRepository,
	archive secondary.ArchiveStore,
	logWriter secondary.LogWriter,
	clock secondary.Clock,
	logger *zap.Logger,
) *ContractServiceImpl {
	return &ContractServiceImpl{
		contractRepo:   contractRepo,
		profileRepo:    profileRepo,
		cycleRepo:      cycleRepo,
		complianceRepo: complianceRepo,
		poemRepo:       poemRepo,
		archive:        archive,
		logWriter:      logWriter,
		clock:          clock,
		logger:         logger,
	}
}

// CreateContract starts a new ten-week contract for a profile.
func (s *ContractServiceImpl) CreateContract(ctx context.Context, req primary.CreateContractRequest) (*primary.CreateContractResponse, error) {
	// 1. Resolve the profile
	profile, err := s.profileRepo.GetByID(ctx, req.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", err)
	}

	// 2. Guard: one active contract per profile
	active, err := s.contractRepo.GetActiveByProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active contract: %w", err)
	}
	activeID := ""
	if active != nil {
		activeID = active.ID
	}
	if result := corecontract.CanCreateContract(activeID); !result.Allowed {
		return nil, &GateBlockedError{Code: result.Code, Reason: result.Reason}
	}

	// 3. Resolve timezone (request overrides profile)
	tz := req.Timezone
	if tz == "" {
		tz = profile.Timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	// 4. Start date defaults to today at midnight in the contract timezone
	start := req.StartDate
	if start.IsZero() {
		now := s.clock.Now().In(loc)
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	}

	// 5. Generate ID using core business rule
	nextID, err := s.contractRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate contract ID: %w", err)
	}

	// 6. Create contract record with pre-populated ID and initial status
	record := &secondary.ContractRecord{
		ID:           nextID,
		ProfileID:    req.ProfileID,
		StartDate:    start,
		EndDate:      corecontract.EndDate(start),
		Status:       string(corecontract.InitialStatus()),
		TotalWeeks:   corecontract.TotalWeeks,
		MissedWeeks:  []int{},
		Timezone:     tz,
		ArchiveLabel: nextID,
	}
	if err := s.contractRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	// 7. Pre-create the weekly constraint cycles on the fixed rotation
	cycles := make([]*secondary.CycleRecord, 0, record.TotalWeeks)
	for week := 1; week <= record.TotalWeeks; week++ {
		cycles = append(cycles, &secondary.CycleRecord{
			ID:             uuid.NewString(),
			ContractID:     record.ID,
			WeekNumber:     week,
			ConstraintType: string(constraint.ForWeek(week)),
			Status:         secondary.CycleStatusPending,
		})
	}
	if err := s.cycleRepo.CreateBatch(ctx, cycles); err != nil {
		return nil, fmt.Errorf("failed to create constraint cycles: %w", err)
	}

	// 8. Pre-create the weekly compliance logs with their deadlines
	logs := make([]*secondary.ComplianceRecord, 0, record.TotalWeeks)
	for week := 1; week <= record.TotalWeeks; week++ {
		logs = append(logs, &secondary.ComplianceRecord{
			ID:         uuid.NewString(),
			ContractID: record.ID,
			WeekNumber: week,
			Status:     string(schedule.InitialStatus()),
			DeadlineAt: schedule.Deadline(start, week, loc),
		})
	}
	if err := s.complianceRepo.CreateBatch(ctx, logs); err != nil {
		return nil, fmt.Errorf("failed to create compliance logs: %w", err)
	}

	// 9. Initialize the archive tree up front
	if err := s.archive.InitContract(ctx, record.ArchiveLabel, record.TotalWeeks); err != nil {
		return nil, fmt.Errorf("failed to initialize archive: %w", err)
	}

	if err := s.logWriter.LogCreate(ctx, "contract", record.ID); err != nil {
		s.logger.Warn("audit log write failed", zap.Error(err))
	}
	s.logger.Info("contract created",
		zap.String("contract_id", record.ID),
		zap.String("profile_id", record.ProfileID),
		zap.Time("start_date", start))

	view, err := s.contractView(ctx, record)
	if err != nil {
		return nil, err
	}
	return &primary.CreateContractResponse{
		ContractID: record.ID,
		Contract:   view,
	}, nil
}

// GetContract retrieves a contract with its weekly cycles.
func (s *ContractServiceImpl) GetContract(ctx context.Context, contractID string) (*primary.Contract, error) {
	record, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("contract not found: %w", err)
	}
	return s.contractView(ctx, record)
}

// GetActiveContract returns the profile's active contract, or nil.
func (s *ContractServiceImpl) GetActiveContract(ctx context.Context, profileID string) (*primary.Contract, error) {
	record, err := s.contractRepo.GetActiveByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active contract: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	return s.contractView(ctx, record)
}

// ListContracts lists contracts, optionally filtered by status.
func (s *ContractServiceImpl) ListContracts(ctx context.Context, filters primary.ContractFilters) ([]*primary.Contract, error) {
	records, err := s.contractRepo.List(ctx, secondary.ContractFilters{
		ProfileID: filters.ProfileID,
		Status:    filters.Status,
		Limit:     filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	contracts := make([]*primary.Contract, len(records))
	for i, r := range records {
		contracts[i] = recordToContract(r, nil)
	}
	return contracts, nil
}

// AbandonContract abandons an active contract. One-way.
func (s *ContractServiceImpl) AbandonContract(ctx context.Context, contractID string) error {
	record, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return fmt.Errorf("contract not found: %w", err)
	}

	if result := corecontract.CanAbandon(corecontract.Status(record.Status)); !result.Allowed {
		return &GateBlockedError{Code: result.Code, Reason: result.Reason}
	}

	old := record.Status
	record.Status = string(corecontract.StatusAbandoned)
	if err := s.contractRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to abandon contract: %w", err)
	}

	if err := s.logWriter.LogUpdate(ctx, "contract", record.ID, "status", old, record.Status); err != nil {
		s.logger.Warn("audit log write failed", zap.Error(err))
	}
	s.logger.Info("contract abandoned", zap.String("contract_id", record.ID))
	return nil
}

// FinalizeExpired finalizes every active contract whose end date has passed.
func (s *ContractServiceImpl) FinalizeExpired(ctx context.Context) ([]*primary.FinalizationResult, error) {
	actives, err := s.contractRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active contracts: %w", err)
	}

	now := s.clock.Now()

	var mu sync.Mutex
	var results []*primary.FinalizationResult

	g, gctx := errgroup.WithContext(ctx)
	for _, record := range actives {
		if result := corecontract.CanFinalize(corecontract.Status(record.Status), now.After(record.EndDate)); !result.Allowed {
			continue
		}
		record := record
		g.Go(func() error {
			res, err := s.finalize(gctx, record)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// finalize closes one expired contract: computes the outcome, writes the
// final report, and sets the terminal status.
func (s *ContractServiceImpl) finalize(ctx context.Context, record *secondary.ContractRecord) (*primary.FinalizationResult, error) {
	logs, err := s.complianceRepo.ListByContract(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load compliance logs: %w", err)
	}

	onTime, late := 0, 0
	for _, log := range logs {
		if log.Status != string(schedule.StatusCompleted) {
			continue
		}
		if log.OnTime {
			onTime++
		} else {
			late++
		}
	}

	submitted := onTime + late
	rate := 0.0
	if record.TotalWeeks > 0 {
		rate = float64(submitted) / float64(record.TotalWeeks)
	}

	// More missed weeks than kept ones means the contract was violated,
	// not completed.
	finalStatus := corecontract.StatusCompleted
	if record.PoemsMissed > record.TotalWeeks/2 {
		finalStatus = corecontract.StatusViolated
	}

	totalViolations, err := s.countViolations(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	report := buildFinalReport(record, finalStatus, onTime, late, rate, totalViolations)
	reportPath, err := s.archive.WriteFinalReport(ctx, record.ArchiveLabel, report)
	if err != nil && !errors.Is(err, secondary.ErrArtifactExists) {
		return nil, fmt.Errorf("failed to write final report: %w", err)
	}

	old := record.Status
	record.Status = string(finalStatus)
	if err := s.contractRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to finalize contract: %w", err)
	}

	if err := s.logWriter.LogUpdate(ctx, "contract", record.ID, "status", old, record.Status); err != nil {
		s.logger.Warn("audit log write failed", zap.Error(err))
	}
	s.logger.Info("contract finalized",
		zap.String("contract_id", record.ID),
		zap.String("final_status", record.Status),
		zap.Float64("submission_rate", rate))

	return &primary.FinalizationResult{
		ContractID:     record.ID,
		FinalStatus:    record.Status,
		SubmissionRate: rate,
		OnTimeCount:    onTime,
		LateCount:      late,
		ReportPath:     reportPath,
	}, nil
}

// countViolations sums the recorded constraint violations across a
// contract's submitted poems.
func (s *ContractServiceImpl) countViolations(ctx context.Context, contractID string) (int, error) {
	poems, err := s.poemRepo.ListByContract(ctx, contractID)
	if err != nil {
		return 0, fmt.Errorf("failed to list poems: %w", err)
	}

	total := 0
	for _, p := range poems {
		if p.Status == secondary.PoemStatusDraft || p.Violations == "" {
			continue
		}
		var v []constraint.Violation
		if err := json.Unmarshal([]byte(p.Violations), &v); err == nil {
			total += len(v)
		}
	}
	return total, nil
}

func buildFinalReport(record *secondary.ContractRecord, finalStatus corecontract.Status, onTime, late int, rate float64, totalViolations int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Final Report: %s\n\n", record.ID)
	fmt.Fprintf(&b, "Status: %s\n", finalStatus)
	fmt.Fprintf(&b, "Period: %s to %s\n\n", record.StartDate.Format("2006-01-02"), record.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Poems submitted: %d of %d (%.0f%%)\n", onTime+late, record.TotalWeeks, rate*100)
	fmt.Fprintf(&b, "- On time: %d\n", onTime)
	fmt.Fprintf(&b, "- In recovery: %d\n", late)
	fmt.Fprintf(&b, "- Weeks missed: %d\n", record.PoemsMissed)
	fmt.Fprintf(&b, "- Constraint violations: %d\n", totalViolations)
	fmt.Fprintf(&b, "- Monthly releases: %d published, %d missed\n", record.MonthlyReleases, record.MonthlyReleasesMissed)
	if len(record.MissedWeeks) > 0 {
		fmt.Fprintf(&b, "\nMissed weeks: %v\n", record.MissedWeeks)
	}
	return b.String()
}

// contractView assembles the primary-port view with its cycles.
func (s *ContractServiceImpl) contractView(ctx context.Context, record *secondary.ContractRecord) (*primary.Contract, error) {
	cycles, err := s.cycleRepo.ListByContract(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cycles: %w", err)
	}
	return recordToContract(record, cycles), nil
}

func recordToContract(r *secondary.ContractRecord, cycles []*secondary.CycleRecord) *primary.Contract {
	c := &primary.Contract{
		ID:                    r.ID,
		ProfileID:             r.ProfileID,
		StartDate:             r.StartDate,
		EndDate:               r.EndDate,
		Status:                r.Status,
		TotalWeeks:            r.TotalWeeks,
		PoemsSubmitted:        r.PoemsSubmitted,
		PoemsMissed:           r.PoemsMissed,
		MonthlyReleases:       r.MonthlyReleases,
		MonthlyReleasesMissed: r.MonthlyReleasesMissed,
		MissedWeeks:           r.MissedWeeks,
		LastSubmission:        r.LastSubmission,
		Timezone:              r.Timezone,
		ArchiveLabel:          r.ArchiveLabel,
	}
	for _, cy := range cycles {
		c.Cycles = append(c.Cycles, primary.ConstraintCycle{
			WeekNumber:     cy.WeekNumber,
			ConstraintType: cy.ConstraintType,
			Status:         cy.Status,
			CompletedAt:    cy.CompletedAt,
		})
	}
	return c
}

// Ensure ContractServiceImpl implements the interface
var _ primary.ContractService = (*ContractServiceImpl)(nil)
