package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	corecontract "github.com/example/quill/internal/core/contract"
	"github.com/example/quill/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockContractRepo implements secondary.ContractRepository for testing.
type mockContractRepo struct {
	contracts map[string]*secondary.ContractRecord
}

func newMockContractRepo() *mockContractRepo {
	return &mockContractRepo{contracts: make(map[string]*secondary.ContractRecord)}
}

func (m *mockContractRepo) Create(ctx context.Context, record *secondary.ContractRecord) error {
	if record.ID == "" {
		return errors.New("missing contract ID")
	}
	m.contracts[record.ID] = record
	return nil
}

func (m *mockContractRepo) GetByID(ctx context.Context, id string) (*secondary.ContractRecord, error) {
	if c, ok := m.contracts[id]; ok {
		return c, nil
	}
	return nil, errors.New("contract not found")
}

func (m *mockContractRepo) GetActiveByProfile(ctx context.Context, profileID string) (*secondary.ContractRecord, error) {
	for _, c := range m.contracts {
		if c.ProfileID == profileID && c.Status == string(corecontract.StatusActive) {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockContractRepo) ListActive(ctx context.Context) ([]*secondary.ContractRecord, error) {
	var result []*secondary.ContractRecord
	for _, c := range m.contracts {
		if c.Status == string(corecontract.StatusActive) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockContractRepo) List(ctx context.Context, filters secondary.ContractFilters) ([]*secondary.ContractRecord, error) {
	var result []*secondary.ContractRecord
	for _, c := range m.contracts {
		if filters.ProfileID != "" && c.ProfileID != filters.ProfileID {
			continue
		}
		if filters.Status != "" && c.Status != filters.Status {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (m *mockContractRepo) Update(ctx context.Context, record *secondary.ContractRecord) error {
	if _, ok := m.contracts[record.ID]; !ok {
		return errors.New("contract not found")
	}
	m.contracts[record.ID] = record
	return nil
}

func (m *mockContractRepo) GetNextID(ctx context.Context) (string, error) {
	return corecontract.GenerateContractID(len(m.contracts)), nil
}

// mockProfileRepo implements secondary.ProfileRepository for testing.
type mockProfileRepo struct {
	profiles map[string]*secondary.ProfileRecord
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*secondary.ProfileRecord)}
}

func (m *mockProfileRepo) Create(ctx context.Context, record *secondary.ProfileRecord) error {
	m.profiles[record.ID] = record
	return nil
}

func (m *mockProfileRepo) GetByID(ctx context.Context, id string) (*secondary.ProfileRecord, error) {
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, errors.New("profile not found")
}

func (m *mockProfileRepo) SetDeclaredPlatform(ctx context.Context, id, platform string) error {
	p, ok := m.profiles[id]
	if !ok {
		return errors.New("profile not found")
	}
	p.DeclaredPlatform = platform
	return nil
}

// mockCycleRepo implements secondary.CycleRepository for testing.
type mockCycleRepo struct {
	cycles map[string][]*secondary.CycleRecord
}

func newMockCycleRepo() *mockCycleRepo {
	return &mockCycleRepo{cycles: make(map[string][]*secondary.CycleRecord)}
}

func (m *mockCycleRepo) CreateBatch(ctx context.Context, cycles []*secondary.CycleRecord) error {
	for _, c := range cycles {
		m.cycles[c.ContractID] = append(m.cycles[c.ContractID], c)
	}
	return nil
}

func (m *mockCycleRepo) GetByWeek(ctx context.Context, contractID string, week int) (*secondary.CycleRecord, error) {
	for _, c := range m.cycles[contractID] {
		if c.WeekNumber == week {
			return c, nil
		}
	}
	return nil, errors.New("cycle not found")
}

func (m *mockCycleRepo) ListByContract(ctx context.Context, contractID string) ([]*secondary.CycleRecord, error) {
	cycles := append([]*secondary.CycleRecord{}, m.cycles[contractID]...)
	sort.Slice(cycles, func(i, j int) bool { return cycles[i].WeekNumber < cycles[j].WeekNumber })
	return cycles, nil
}

func (m *mockCycleRepo) MarkCompleted(ctx context.Context, contractID string, week int, at time.Time) error {
	for _, c := range m.cycles[contractID] {
		if c.WeekNumber == week {
			c.Status = secondary.CycleStatusCompleted
			c.CompletedAt = at
			return nil
		}
	}
	return errors.New("cycle not found")
}

// mockComplianceRepo implements secondary.ComplianceRepository for testing.
type mockComplianceRepo struct {
	logs map[string][]*secondary.ComplianceRecord
}

func newMockComplianceRepo() *mockComplianceRepo {
	return &mockComplianceRepo{logs: make(map[string][]*secondary.ComplianceRecord)}
}

func (m *mockComplianceRepo) CreateBatch(ctx context.Context, logs []*secondary.ComplianceRecord) error {
	for _, l := range logs {
		m.logs[l.ContractID] = append(m.logs[l.ContractID], l)
	}
	return nil
}

func (m *mockComplianceRepo) GetByWeek(ctx context.Context, contractID string, week int) (*secondary.ComplianceRecord, error) {
	for _, l := range m.logs[contractID] {
		if l.WeekNumber == week {
			return l, nil
		}
	}
	return nil, errors.New("compliance log not found")
}

func (m *mockComplianceRepo) ListByContract(ctx context.Context, contractID string) ([]*secondary.ComplianceRecord, error) {
	logs := append([]*secondary.ComplianceRecord{}, m.logs[contractID]...)
	sort.Slice(logs, func(i, j int) bool { return logs[i].WeekNumber < logs[j].WeekNumber })
	return logs, nil
}

func (m *mockComplianceRepo) Update(ctx context.Context, log *secondary.ComplianceRecord) error {
	for i, l := range m.logs[log.ContractID] {
		if l.ID == log.ID {
			m.logs[log.ContractID][i] = log
			return nil
		}
	}
	return errors.New("compliance log not found")
}

// mockPoemRepo implements secondary.PoemRepository for testing.
type mockPoemRepo struct {
	poems map[string]*secondary.PoemRecord
}

func newMockPoemRepo() *mockPoemRepo {
	return &mockPoemRepo{poems: make(map[string]*secondary.PoemRecord)}
}

func (m *mockPoemRepo) Create(ctx context.Context, record *secondary.PoemRecord) error {
	if record.Status != secondary.PoemStatusDraft {
		for _, p := range m.poems {
			if p.ContractID == record.ContractID && p.WeekNumber == record.WeekNumber && p.Status != secondary.PoemStatusDraft {
				return errors.New("UNIQUE constraint failed")
			}
		}
	}
	m.poems[record.ID] = record
	return nil
}

func (m *mockPoemRepo) GetByID(ctx context.Context, id string) (*secondary.PoemRecord, error) {
	if p, ok := m.poems[id]; ok {
		return p, nil
	}
	return nil, errors.New("poem not found")
}

func (m *mockPoemRepo) GetSubmittedByWeek(ctx context.Context, contractID string, week int) (*secondary.PoemRecord, error) {
	for _, p := range m.poems {
		if p.ContractID == contractID && p.WeekNumber == week && p.Status != secondary.PoemStatusDraft {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPoemRepo) ListByContract(ctx context.Context, contractID string) ([]*secondary.PoemRecord, error) {
	var result []*secondary.PoemRecord
	for _, p := range m.poems {
		if p.ContractID == contractID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WeekNumber < result[j].WeekNumber })
	return result, nil
}

func (m *mockPoemRepo) Update(ctx context.Context, record *secondary.PoemRecord) error {
	if _, ok := m.poems[record.ID]; !ok {
		return errors.New("poem not found")
	}
	m.poems[record.ID] = record
	return nil
}

func (m *mockPoemRepo) LastMonthlyRelease(ctx context.Context, profileID string) (time.Time, error) {
	var last time.Time
	for _, p := range m.poems {
		if p.ProfileID == profileID && p.IsMonthlyRelease && p.PublishedAt.After(last) {
			last = p.PublishedAt
		}
	}
	return last, nil
}

// mockRevisionRepo implements secondary.RevisionRepository for testing.
type mockRevisionRepo struct {
	revisions map[string][]*secondary.RevisionRecord
}

func newMockRevisionRepo() *mockRevisionRepo {
	return &mockRevisionRepo{revisions: make(map[string][]*secondary.RevisionRecord)}
}

func (m *mockRevisionRepo) Create(ctx context.Context, record *secondary.RevisionRecord) error {
	for _, r := range m.revisions[record.PoemID] {
		if r.VersionNumber == record.VersionNumber {
			return errors.New("UNIQUE constraint failed")
		}
	}
	m.revisions[record.PoemID] = append(m.revisions[record.PoemID], record)
	return nil
}

func (m *mockRevisionRepo) ListByPoem(ctx context.Context, poemID string) ([]*secondary.RevisionRecord, error) {
	return m.revisions[poemID], nil
}

// mockPatternGate implements secondary.PatternGate for testing.
type mockPatternGate struct {
	unacked bool
}

func (m *mockPatternGate) HasUnacknowledged(ctx context.Context, profileID string) (bool, error) {
	return m.unacked, nil
}

// mockArchive implements secondary.ArchiveStore in memory with the same
// write-once semantics as the filesystem adapter.
type mockArchive struct {
	files       map[string]string
	reflections map[string]string // "~tmpl~" prefix marks a template
	inits       []string
}

const tmplPrefix = "~tmpl~"

func newMockArchive() *mockArchive {
	return &mockArchive{
		files:       make(map[string]string),
		reflections: make(map[string]string),
	}
}

func (m *mockArchive) InitContract(ctx context.Context, label string, totalWeeks int) error {
	m.inits = append(m.inits, label)
	return nil
}

func (m *mockArchive) saveOnce(path, content string) (string, error) {
	if _, ok := m.files[path]; ok {
		return "", fmt.Errorf("%w: %s", secondary.ErrArtifactExists, path)
	}
	m.files[path] = content
	return path, nil
}

func (m *mockArchive) SaveDraft(ctx context.Context, label string, week, draftNumber int, content string) (string, error) {
	return m.saveOnce(fmt.Sprintf("%s/Week_%02d/drafts/Draft_v%d.md", label, week, draftNumber), content)
}

func (m *mockArchive) SaveRevision(ctx context.Context, label string, week, revisionNumber int, content, changesNote string) (string, error) {
	return m.saveOnce(fmt.Sprintf("%s/Week_%02d/revisions/Draft_v%d_revision.md", label, week, revisionNumber), content)
}

func (m *mockArchive) SaveFinal(ctx context.Context, label string, week int, content string) (string, error) {
	return m.saveOnce(fmt.Sprintf("%s/Week_%02d/final/Final.md", label, week), content)
}

func (m *mockArchive) reflectionKey(label string, week int) string {
	return fmt.Sprintf("%s/%d", label, week)
}

func (m *mockArchive) WriteReflectionTemplate(ctx context.Context, label string, week int) error {
	key := m.reflectionKey(label, week)
	if _, ok := m.reflections[key]; !ok {
		m.reflections[key] = tmplPrefix
	}
	return nil
}

func (m *mockArchive) SaveReflection(ctx context.Context, label string, week int, content string, allowReplace bool) (string, error) {
	key := m.reflectionKey(label, week)
	existing, ok := m.reflections[key]
	if ok && existing != tmplPrefix && !allowReplace {
		return "", secondary.ErrArtifactExists
	}
	m.reflections[key] = content
	return key, nil
}

func (m *mockArchive) HasReflection(ctx context.Context, label string, week int) (bool, error) {
	content, ok := m.reflections[m.reflectionKey(label, week)]
	return ok && content != tmplPrefix, nil
}

func (m *mockArchive) WriteFinalReport(ctx context.Context, label string, content string) (string, error) {
	return m.saveOnce(label+"/FINAL_REPORT.md", content)
}

func (m *mockArchive) WeekDir(label string, week int) string {
	return fmt.Sprintf("%s/Week_%02d", label, week)
}

// mockVerifier implements secondary.URLVerifier for testing.
type mockVerifier struct {
	err   error
	calls []string
}

func (m *mockVerifier) Verify(ctx context.Context, url string) error {
	m.calls = append(m.calls, url)
	return m.err
}

// mockLogWriter implements secondary.LogWriter for testing.
type mockLogWriter struct {
	entries []string
}

func (m *mockLogWriter) LogCreate(ctx context.Context, entityType, entityID string) error {
	m.entries = append(m.entries, "create "+entityType)
	return nil
}

func (m *mockLogWriter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	m.entries = append(m.entries, "update "+entityType+"."+fieldName)
	return nil
}

// fixedClock implements secondary.Clock with a settable instant.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

// ============================================================================
// Test Environment
// ============================================================================

type testEnv struct {
	contracts  *mockContractRepo
	profiles   *mockProfileRepo
	cycles     *mockCycleRepo
	compliance *mockComplianceRepo
	poems      *mockPoemRepo
	revisions  *mockRevisionRepo
	gate       *mockPatternGate
	archive    *mockArchive
	verifier   *mockVerifier
	logWriter  *mockLogWriter
	clock      *fixedClock

	contractSvc   *ContractServiceImpl
	submissionSvc *SubmissionServiceImpl
	complianceSvc *ComplianceServiceImpl
	releaseSvc    *ReleaseServiceImpl
	notifySvc     *NotificationServiceImpl
}

var nyLoc = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// newTestEnv wires all services over mocks, with one profile in
// America/New_York and the clock at 2026-02-20 noon.
func newTestEnv() *testEnv {
	env := &testEnv{
		contracts:  newMockContractRepo(),
		profiles:   newMockProfileRepo(),
		cycles:     newMockCycleRepo(),
		compliance: newMockComplianceRepo(),
		poems:      newMockPoemRepo(),
		revisions:  newMockRevisionRepo(),
		gate:       &mockPatternGate{},
		archive:    newMockArchive(),
		verifier:   &mockVerifier{},
		logWriter:  &mockLogWriter{},
		clock:      &fixedClock{now: time.Date(2026, 2, 20, 12, 0, 0, 0, nyLoc)},
	}

	logger := zap.NewNop()
	env.profiles.profiles["writer"] = &secondary.ProfileRecord{
		ID:       "writer",
		Name:     "Test Writer",
		Timezone: "America/New_York",
	}

	env.contractSvc = NewContractService(env.contracts, env.profiles, env.cycles, env.compliance, env.poems, env.archive, env.logWriter, env.clock, logger)
	env.submissionSvc = NewSubmissionService(env.contracts, env.poems, env.cycles, env.compliance, env.revisions, env.gate, env.archive, env.logWriter, env.clock, logger)
	env.complianceSvc = NewComplianceService(env.contracts, env.compliance, env.poems, env.logWriter, env.clock, logger)
	env.releaseSvc = NewReleaseService(env.contracts, env.profiles, env.poems, env.verifier, env.logWriter, env.clock, logger)
	env.notifySvc = NewNotificationService(env.contracts, env.compliance, env.poems, env.clock, logger)

	return env
}
