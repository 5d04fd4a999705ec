// Package wire provides dependency injection for the quill application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"go.uber.org/zap"

	"github.com/example/quill/internal/adapters/filesystem"
	"github.com/example/quill/internal/adapters/sqlite"
	"github.com/example/quill/internal/adapters/webverify"
	"github.com/example/quill/internal/app"
	"github.com/example/quill/internal/config"
	"github.com/example/quill/internal/db"
	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/ports/secondary"
)

var (
	contractService     primary.ContractService
	profileService      primary.ProfileService
	submissionService   primary.SubmissionService
	complianceService   primary.ComplianceService
	releaseService      primary.ReleaseService
	notificationService primary.NotificationService
	patternService      primary.PatternService
	appConfig           *config.Config
	once                sync.Once
)

// ContractService returns the singleton ContractService instance.
func ContractService() primary.ContractService {
	once.Do(initServices)
	return contractService
}

// ProfileService returns the singleton ProfileService instance.
func ProfileService() primary.ProfileService {
	once.Do(initServices)
	return profileService
}

// SubmissionService returns the singleton SubmissionService instance.
func SubmissionService() primary.SubmissionService {
	once.Do(initServices)
	return submissionService
}

// ComplianceService returns the singleton ComplianceService instance.
func ComplianceService() primary.ComplianceService {
	once.Do(initServices)
	return complianceService
}

// ReleaseService returns the singleton ReleaseService instance.
func ReleaseService() primary.ReleaseService {
	once.Do(initServices)
	return releaseService
}

// NotificationService returns the singleton NotificationService instance.
func NotificationService() primary.NotificationService {
	once.Do(initServices)
	return notificationService
}

// PatternService returns the singleton PatternService instance.
func PatternService() primary.PatternService {
	once.Do(initServices)
	return patternService
}

// Config returns the loaded application configuration.
func Config() *config.Config {
	once.Do(initServices)
	return appConfig
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	appConfig = cfg

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	logger := buildLogger()

	// Repository adapters (secondary ports) over the shared connection
	contractRepo := sqlite.NewContractRepository(database)
	profileRepo := sqlite.NewProfileRepository(database)
	cycleRepo := sqlite.NewCycleRepository(database)
	complianceRepo := sqlite.NewComplianceRepository(database)
	poemRepo := sqlite.NewPoemRepository(database)
	revisionRepo := sqlite.NewRevisionRepository(database)
	patternRepo := sqlite.NewPatternReportRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(database)

	archive, err := filesystem.NewArchiveGuard(cfg.ArchiveRoot)
	if err != nil {
		log.Fatalf("failed to initialize archive: %v", err)
	}

	verifier := webverify.NewVerifier(cfg.VerifyTimeout)
	clock := secondary.SystemClock{}

	// Services (primary ports implementation)
	contractService = app.NewContractService(contractRepo, profileRepo, cycleRepo, complianceRepo, poemRepo, archive, logWriter, clock, logger)
	profileService = app.NewProfileService(profileRepo, logWriter, logger)
	submissionService = app.NewSubmissionService(contractRepo, poemRepo, cycleRepo, complianceRepo, revisionRepo, patternRepo, archive, logWriter, clock, logger)
	complianceService = app.NewComplianceService(contractRepo, complianceRepo, poemRepo, logWriter, clock, logger)
	releaseService = app.NewReleaseService(contractRepo, profileRepo, poemRepo, verifier, logWriter, clock, logger)
	notificationService = app.NewNotificationService(contractRepo, complianceRepo, poemRepo, clock, logger)
	patternService = app.NewPatternService(patternRepo, logWriter, logger)
}

// buildLogger returns a zap logger tuned for CLI use: warnings and above on
// stderr so command output stays clean.
func buildLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
