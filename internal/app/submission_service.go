package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/quill/internal/core/constraint"
	corecontract "github.com/example/quill/internal/core/contract"
	"github.com/example/quill/internal/core/critique"
	"github.com/example/quill/internal/core/penalty"
	"github.com/example/quill/internal/core/schedule"
	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/ports/secondary"
)

// SubmissionServiceImpl implements the SubmissionService interface.
type SubmissionServiceImpl struct {
	contractRepo   secondary.ContractRepository
	poemRepo       secondary.PoemRepository
	cycleRepo      secondary.CycleRepository
	complianceRepo secondary.ComplianceRepository
	revisionRepo   secondary.RevisionRepository
	patternGate    secondary.PatternGate
	archive        secondary.ArchiveStore
	logWriter      secondary.LogWriter
	clock          secondary.Clock
	logger         *zap.Logger

	// weekLocks serializes submissions per contract week so the gate check
	// and the archive write cannot interleave.
	mu        sync.Mutex
	weekLocks map[string]*sync.Mutex
}

// NewSubmissionService creates a new SubmissionService with injected dependencies.
func NewSubmissionService(
	contractRepo secondary.ContractRepository,
	poemRepo secondary.PoemRepository,
	cycleRepo secondary.CycleRepository,
	complianceRepo secondary.ComplianceRepository,
	revisionRepo secondary.RevisionRepository,
	patternGate secondary.PatternGate,
	archive secondary.ArchiveStore,
	logWriter secondary.LogWriter,
	clock secondary.Clock,
	logger *zap.Logger,
) *SubmissionServiceImpl {
	return &SubmissionServiceImpl{
		contractRepo:   contractRepo,
		poemRepo:       poemRepo,
		cycleRepo:      cycleRepo,
		complianceRepo: complianceRepo,
		revisionRepo:   revisionRepo,
		patternGate:    patternGate,
		archive:        archive,
		logWriter:      logWriter,
		clock:          clock,
		logger:         logger,
		weekLocks:      make(map[string]*sync.Mutex),
	}
}

func (s *SubmissionServiceImpl) lockWeek(contractID string, week int) func() {
	key := fmt.Sprintf("%s/%d", contractID, week)
	s.mu.Lock()
	lock, ok := s.weekLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.weekLocks[key] = lock
	}
	s.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}

// resolveTargetWeek returns the week a submission lands on: the earliest
// non-terminal week whose recovery window is still open, or the calendar
// week when no earlier week is recoverable.
func (s *SubmissionServiceImpl) resolveTargetWeek(ctx context.Context, contract *secondary.ContractRecord, now time.Time) (int, error) {
	current := schedule.CurrentWeek(contract.StartDate, now)

	logs, err := s.complianceRepo.ListByContract(ctx, contract.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to list compliance logs: %w", err)
	}
	for _, log := range logs {
		if log.WeekNumber >= current {
			break
		}
		if schedule.Status(log.Status).IsTerminal() {
			continue
		}
		if schedule.ClassifyTiming(now, log.DeadlineAt) != schedule.TimingMissed {
			return log.WeekNumber, nil
		}
	}
	return current, nil
}

func rejected(code, message string) *primary.SubmitPoemResponse {
	return &primary.SubmitPoemResponse{Success: false, ReasonCode: code, Message: message}
}

// SubmitPoem runs the full submission pipeline for the current week.
func (s *SubmissionServiceImpl) SubmitPoem(ctx context.Context, req primary.SubmitPoemRequest) (*primary.SubmitPoemResponse, error) {
	// 1. Resolve the active contract and its clock context
	contract, err := s.contractRepo.GetActiveByProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active contract: %w", err)
	}
	if contract == nil {
		return rejected(corecontract.ReasonNoActiveContract,
			"no active contract - start one with: quill contract init"), nil
	}

	loc, err := time.LoadLocation(contract.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid contract timezone: %w", err)
	}
	now := s.clock.Now()

	// 2. Determine the target contract week. The calendar rolls to week
	// N+1 at midnight of day 7 while week N's recovery window stays open
	// until 20:00 that evening, so an earlier week with an open window
	// takes precedence over the calendar week.
	if schedule.CurrentWeek(contract.StartDate, now) == 0 {
		return rejected(corecontract.ReasonContractNotActive, "contract has not started yet"), nil
	}
	week, err := s.resolveTargetWeek(ctx, contract, now)
	if err != nil {
		return nil, err
	}
	if week > contract.TotalWeeks {
		return rejected(corecontract.ReasonContractNotActive,
			"contract period is over - run: quill contract finalize"), nil
	}

	// 3. Serialize per contract week
	unlock := s.lockWeek(contract.ID, week)
	defer unlock()

	// 4. Gather gate facts
	hasReflection := true
	if week > 1 {
		hasReflection, err = s.archive.HasReflection(ctx, contract.ArchiveLabel, week-1)
		if err != nil {
			return nil, fmt.Errorf("failed to check reflection: %w", err)
		}
	}

	hasUnacked, err := s.patternGate.HasUnacknowledged(ctx, req.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pattern reports: %w", err)
	}

	existing, err := s.poemRepo.GetSubmittedByWeek(ctx, contract.ID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing submission: %w", err)
	}

	// The minimum is month-relative and recomputed here every time; a
	// cached value would hold the penalty past its month.
	minLines := minimumLines(contract, now, loc)
	lineCount := corecontract.CountLines(req.Content)

	// 5. Run the prerequisite gates in order
	gate := corecontract.CanEnterSubmission(corecontract.SubmissionGateContext{
		HasActiveContract:        true,
		ContractID:               contract.ID,
		WeekNumber:               week,
		HasPreviousReflection:    hasReflection,
		HasUnacknowledgedReports: hasUnacked,
		LineCount:                lineCount,
		MinimumLines:             minLines,
		ExistingSubmission:       existing != nil,
	})
	if !gate.Allowed {
		return rejected(gate.Code, gate.Reason), nil
	}

	// 6. The self-assessment must be substantive
	if result := corecontract.ValidateSelfAssessment(req.Assessment); !result.Allowed {
		return rejected(result.Code, result.Reason), nil
	}

	// 7. Validate against this week's constraint
	cycle, err := s.cycleRepo.GetByWeek(ctx, contract.ID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get constraint cycle: %w", err)
	}
	violations := constraint.Validate(req.Content, constraint.Type(cycle.ConstraintType))
	if constraint.HasCriticalViolations(violations) {
		resp := rejected(corecontract.ReasonConstraintViolations,
			fmt.Sprintf("poem violates the week %d constraint (%s)", week, cycle.ConstraintType))
		resp.WeekNumber = week
		resp.Constraint = cycle.ConstraintType
		resp.Violations = violations
		return resp, nil
	}

	// 8. Classify timing against the deadline
	log, err := s.complianceRepo.GetByWeek(ctx, contract.ID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get compliance log: %w", err)
	}
	if schedule.Status(log.Status).IsTerminal() {
		return rejected(corecontract.ReasonAlreadySubmitted,
			fmt.Sprintf("week %d is already %s", week, log.Status)), nil
	}
	timing := schedule.ClassifyTiming(now, log.DeadlineAt)
	if timing == schedule.TimingMissed {
		return rejected(corecontract.ReasonContractNotActive,
			fmt.Sprintf("week %d recovery window closed %s", week,
				schedule.RecoveryEnd(log.DeadlineAt).In(loc).Format("Mon Jan 2 15:04"))), nil
	}

	// 9. Archive first. The write-once create is the point of no return:
	// if it fails nothing was recorded, if it succeeds the poem exists.
	archivePath, err := s.archive.SaveFinal(ctx, contract.ArchiveLabel, week, req.Content)
	if err != nil {
		if errors.Is(err, secondary.ErrArtifactExists) {
			return rejected(corecontract.ReasonAlreadySubmitted,
				fmt.Sprintf("week %d already has an archived poem", week)), nil
		}
		return nil, fmt.Errorf("failed to archive poem: %w", err)
	}

	// The working copy lands next to the final: version 1 as a draft,
	// later versions as a revision carrying the notes. A draft already
	// archived at that version is left as is.
	version := req.VersionNumber
	if version < 1 {
		version = 1
	}
	var workErr error
	if version == 1 {
		_, workErr = s.archive.SaveDraft(ctx, contract.ArchiveLabel, week, 1, req.Content)
	} else {
		_, workErr = s.archive.SaveRevision(ctx, contract.ArchiveLabel, week, version, req.Content, req.RevisionNotes)
	}
	if workErr != nil && !errors.Is(workErr, secondary.ErrArtifactExists) {
		s.logger.Warn("failed to archive working copy", zap.Error(workErr))
	}

	// 10. Persist the poem and roll the week forward
	assessmentJSON, err := json.Marshal(req.Assessment)
	if err != nil {
		return nil, fmt.Errorf("failed to encode assessment: %w", err)
	}
	violationsJSON, err := json.Marshal(violations)
	if err != nil {
		return nil, fmt.Errorf("failed to encode violations: %w", err)
	}

	poem := &secondary.PoemRecord{
		ID:             uuid.NewString(),
		ProfileID:      req.ProfileID,
		ContractID:     contract.ID,
		WeekNumber:     week,
		Content:        req.Content,
		LineCount:      lineCount,
		ConstraintType: cycle.ConstraintType,
		Status:         secondary.PoemStatusSubmitted,
		SelfAssessment: string(assessmentJSON),
		Violations:     string(violationsJSON),
		ArchivePath:    archivePath,
	}
	if err := s.poemRepo.Create(ctx, poem); err != nil {
		return nil, fmt.Errorf("failed to persist poem: %w", err)
	}

	oldStatus := log.Status
	log.Status = string(schedule.StatusCompleted)
	log.OnTime = timing == schedule.TimingOnTime
	log.ConstraintFollowed = len(violations) == 0
	log.SubmittedAt = now
	if err := s.complianceRepo.Update(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to update compliance log: %w", err)
	}

	if err := s.cycleRepo.MarkCompleted(ctx, contract.ID, week, now); err != nil {
		return nil, fmt.Errorf("failed to complete cycle: %w", err)
	}

	contract.PoemsSubmitted++
	contract.LastSubmission = now
	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, fmt.Errorf("failed to update contract: %w", err)
	}

	// The reflection for this week becomes the gate for the next one.
	if err := s.archive.WriteReflectionTemplate(ctx, contract.ArchiveLabel, week); err != nil {
		s.logger.Warn("failed to write reflection template", zap.Error(err))
	}

	if err := s.logWriter.LogCreate(ctx, "poem", poem.ID); err != nil {
		s.logger.Warn("audit log write failed", zap.Error(err))
	}
	if err := s.logWriter.LogUpdate(ctx, "compliance_log", log.ID, "status", oldStatus, log.Status); err != nil {
		s.logger.Warn("audit log write failed", zap.Error(err))
	}

	crit := critique.Analyze(req.Content)
	s.logger.Info("poem submitted",
		zap.String("contract_id", contract.ID),
		zap.Int("week", week),
		zap.Bool("on_time", log.OnTime),
		zap.Int("lines", lineCount))

	return &primary.SubmitPoemResponse{
		Success:     true,
		Message:     fmt.Sprintf("week %d poem accepted", week),
		PoemID:      poem.ID,
		WeekNumber:  week,
		Constraint:  cycle.ConstraintType,
		OnTime:      log.OnTime,
		Critique:    &crit,
		Violations:  violations,
		ArchivePath: archivePath,
	}, nil
}

// SaveDraft archives a draft without submitting it.
func (s *SubmissionServiceImpl) SaveDraft(ctx context.Context, req primary.SaveDraftRequest) (*primary.SaveDraftResponse, error) {
	contract, err := s.contractRepo.GetActiveByProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active contract: %w", err)
	}
	if contract == nil {
		return nil, &GateBlockedError{Code: corecontract.ReasonNoActiveContract, Reason: "no active contract"}
	}

	now := s.clock.Now()
	week := schedule.CurrentWeek(contract.StartDate, now)
	if week == 0 || week > contract.TotalWeeks {
		return nil, &GateBlockedError{Code: corecontract.ReasonContractNotActive, Reason: "no active contract week"}
	}

	unlock := s.lockWeek(contract.ID, week)
	defer unlock()

	// Draft numbers count up from the drafts already recorded for the week.
	poems, err := s.poemRepo.ListByContract(ctx, contract.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list poems: %w", err)
	}
	draftNumber := 1
	for _, p := range poems {
		if p.WeekNumber == week && p.Status == secondary.PoemStatusDraft {
			draftNumber++
		}
	}

	path, err := s.archive.SaveDraft(ctx, contract.ArchiveLabel, week, draftNumber, req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to archive draft: %w", err)
	}

	draft := &secondary.PoemRecord{
		ID:             uuid.NewString(),
		ProfileID:      req.ProfileID,
		ContractID:     contract.ID,
		WeekNumber:     week,
		Content:        req.Content,
		LineCount:      corecontract.CountLines(req.Content),
		ConstraintType: string(constraint.ForWeek(week)),
		Status:         secondary.PoemStatusDraft,
		ArchivePath:    path,
	}
	if err := s.poemRepo.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to persist draft: %w", err)
	}

	return &primary.SaveDraftResponse{
		WeekNumber:  week,
		DraftNumber: draftNumber,
		ArchivePath: path,
	}, nil
}

// SaveRevision records a numbered revision of a submitted poem.
func (s *SubmissionServiceImpl) SaveRevision(ctx context.Context, req primary.SaveRevisionRequest) (*primary.SaveRevisionResponse, error) {
	poem, err := s.poemRepo.GetByID(ctx, req.PoemID)
	if err != nil {
		return nil, fmt.Errorf("poem not found: %w", err)
	}
	if poem.Status == secondary.PoemStatusDraft {
		return nil, &GateBlockedError{Code: corecontract.ReasonNoActiveContract, Reason: "drafts are not revised, submit first"}
	}

	contract, err := s.contractRepo.GetByID(ctx, poem.ContractID)
	if err != nil {
		return nil, fmt.Errorf("contract not found: %w", err)
	}

	version := poem.RevisionCount + 1
	path, err := s.archive.SaveRevision(ctx, contract.ArchiveLabel, poem.WeekNumber, version, req.Content, req.ChangesNote)
	if err != nil {
		return nil, fmt.Errorf("failed to archive revision: %w", err)
	}

	revision := &secondary.RevisionRecord{
		ID:            uuid.NewString(),
		PoemID:        poem.ID,
		VersionNumber: version,
		Content:       req.Content,
		ChangesNote:   req.ChangesNote,
	}
	if err := s.revisionRepo.Create(ctx, revision); err != nil {
		return nil, fmt.Errorf("failed to persist revision: %w", err)
	}

	poem.RevisionCount = version
	if err := s.poemRepo.Update(ctx, poem); err != nil {
		return nil, fmt.Errorf("failed to update poem: %w", err)
	}

	log, err := s.complianceRepo.GetByWeek(ctx, poem.ContractID, poem.WeekNumber)
	if err == nil && !log.RevisionDone {
		log.RevisionDone = true
		if err := s.complianceRepo.Update(ctx, log); err != nil {
			return nil, fmt.Errorf("failed to update compliance log: %w", err)
		}
	}

	return &primary.SaveRevisionResponse{
		VersionNumber: version,
		ArchivePath:   path,
	}, nil
}

// SaveReflection writes the weekly reflection into the archive.
func (s *SubmissionServiceImpl) SaveReflection(ctx context.Context, req primary.SaveReflectionRequest) error {
	contract, err := s.contractRepo.GetActiveByProfile(ctx, req.ProfileID)
	if err != nil {
		return fmt.Errorf("failed to get active contract: %w", err)
	}
	if contract == nil {
		return &GateBlockedError{Code: corecontract.ReasonNoActiveContract, Reason: "no active contract"}
	}
	if req.WeekNumber < 1 || req.WeekNumber > contract.TotalWeeks {
		return fmt.Errorf("week %d is outside the contract", req.WeekNumber)
	}

	if _, err := s.archive.SaveReflection(ctx, contract.ArchiveLabel, req.WeekNumber, req.Content, req.AllowReplace); err != nil {
		if errors.Is(err, secondary.ErrArtifactExists) {
			return &GateBlockedError{Code: corecontract.ReasonAlreadySubmitted,
				Reason: fmt.Sprintf("week %d reflection already written - pass --replace to overwrite", req.WeekNumber)}
		}
		return fmt.Errorf("failed to save reflection: %w", err)
	}

	log, err := s.complianceRepo.GetByWeek(ctx, contract.ID, req.WeekNumber)
	if err == nil && !log.ReflectionDone {
		log.ReflectionDone = true
		if err := s.complianceRepo.Update(ctx, log); err != nil {
			return fmt.Errorf("failed to update compliance log: %w", err)
		}
	}

	return nil
}

// GetPoem retrieves a poem with its critique and violations.
func (s *SubmissionServiceImpl) GetPoem(ctx context.Context, poemID string) (*primary.Poem, error) {
	record, err := s.poemRepo.GetByID(ctx, poemID)
	if err != nil {
		return nil, fmt.Errorf("poem not found: %w", err)
	}
	return s.poemView(ctx, record)
}

// GetWeekPoem returns the submitted poem for a contract week, or nil.
func (s *SubmissionServiceImpl) GetWeekPoem(ctx context.Context, contractID string, week int) (*primary.Poem, error) {
	record, err := s.poemRepo.GetSubmittedByWeek(ctx, contractID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get poem: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	return s.poemView(ctx, record)
}

func (s *SubmissionServiceImpl) poemView(ctx context.Context, record *secondary.PoemRecord) (*primary.Poem, error) {
	poem := &primary.Poem{
		ID:               record.ID,
		ContractID:       record.ContractID,
		WeekNumber:       record.WeekNumber,
		Content:          record.Content,
		LineCount:        record.LineCount,
		ConstraintType:   record.ConstraintType,
		Status:           record.Status,
		RevisionCount:    record.RevisionCount,
		ArchivePath:      record.ArchivePath,
		IsMonthlyRelease: record.IsMonthlyRelease,
		Platform:         record.Platform,
		PublicURL:        record.PublicURL,
		PublishedAt:      record.PublishedAt,
	}

	if record.SelfAssessment != "" {
		var a corecontract.SelfAssessment
		if err := json.Unmarshal([]byte(record.SelfAssessment), &a); err == nil {
			poem.Assessment = &a
		}
	}
	if record.Violations != "" {
		var v []constraint.Violation
		if err := json.Unmarshal([]byte(record.Violations), &v); err == nil {
			poem.Violations = v
		}
	}

	if record.Status != secondary.PoemStatusDraft {
		crit := critique.Analyze(record.Content)
		poem.Critique = &crit

		// Timing facts live on the compliance log, not the poem.
		if log, err := s.complianceRepo.GetByWeek(ctx, record.ContractID, record.WeekNumber); err == nil {
			poem.OnTime = log.OnTime
			poem.SubmittedAt = log.SubmittedAt
		}
	}

	return poem, nil
}

// minimumLines computes the current minimum for a contract, penalty included.
func minimumLines(contract *secondary.ContractRecord, now time.Time, loc *time.Location) int {
	return penalty.MinimumLines(contract.StartDate, contract.MissedWeeks, now, loc)
}

// Ensure SubmissionServiceImpl implements the interface
var _ primary.SubmissionService = (*SubmissionServiceImpl)(nil)
