package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/quill/internal/core/penalty"
	"github.com/example/quill/internal/core/release"
	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/ports/secondary"
)

// ReleaseServiceImpl implements the ReleaseService interface.
type ReleaseServiceImpl struct {
	contractRepo secondary.ContractRepository
	profileRepo  secondary.ProfileRepository
	poemRepo     secondary.PoemRepository
	verifier     secondary.URLVerifier
	logWriter    secondary.LogWriter
	clock        secondary.Clock
	logger       *zap.Logger
}

// NewReleaseService creates a new ReleaseService with injected dependencies.
func NewReleaseService(
	contractRepo secondary.ContractRepository,
	profileRepo secondary.ProfileRepository,
	poemRepo secondary.PoemRepository,
	verifier secondary.URLVerifier,
	logWriter secondary.LogWriter,
	clock secondary.Clock,
	logger *zap.Logger,
) *ReleaseServiceImpl {
	return &ReleaseServiceImpl{
		contractRepo: contractRepo,
		profileRepo:  profileRepo,
		poemRepo:     poemRepo,
		verifier:     verifier,
		logWriter:    logWriter,
		clock:        clock,
		logger:       logger,
	}
}

// PublishRelease verifies and records a monthly public release.
func (s *ReleaseServiceImpl) PublishRelease(ctx context.Context, req primary.PublishRequest) (*primary.PublishResponse, error) {
	// 1. Fetch the poem and its surroundings
	poem, err := s.poemRepo.GetByID(ctx, req.PoemID)
	if err != nil {
		return nil, fmt.Errorf("poem not found: %w", err)
	}
	if poem.Status == secondary.PoemStatusDraft {
		return &primary.PublishResponse{
			Success:    false,
			ReasonCode: release.ReasonAlreadyPublished,
			Message:    "only submitted poems can be released",
		}, nil
	}
	if poem.Status == secondary.PoemStatusPublished {
		return &primary.PublishResponse{
			Success:    false,
			ReasonCode: release.ReasonAlreadyPublished,
			Message:    "this poem is already published",
		}, nil
	}

	contract, err := s.contractRepo.GetByID(ctx, poem.ContractID)
	if err != nil {
		return nil, fmt.Errorf("contract not found: %w", err)
	}
	profile, err := s.profileRepo.GetByID(ctx, poem.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", err)
	}
	loc, err := time.LoadLocation(contract.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid contract timezone: %w", err)
	}
	now := s.clock.Now()

	// 2. One release per calendar month
	last, err := s.poemRepo.LastMonthlyRelease(ctx, poem.ProfileID)
	if err != nil {
		return nil, err
	}
	alreadyThisMonth := false
	if !last.IsZero() {
		l, n := last.In(loc), now.In(loc)
		alreadyThisMonth = l.Year() == n.Year() && l.Month() == n.Month()
	}

	// 3. Static gates before any network traffic
	guard := release.CanPublish(release.PublishContext{
		Platform:         req.Platform,
		DeclaredPlatform: profile.DeclaredPlatform,
		PublicURL:        req.PublicURL,
		RecordingPath:    req.RecordingPath,
		AlreadyPublished: alreadyThisMonth,
	})
	if !guard.Allowed {
		return &primary.PublishResponse{
			Success:    false,
			ReasonCode: guard.Code,
			Message:    guard.Reason,
		}, nil
	}

	// 4. Live check. Fails closed: no reachable page, no release.
	if err := s.verifier.Verify(ctx, req.PublicURL); err != nil {
		s.logger.Warn("release URL failed verification",
			zap.String("url", req.PublicURL), zap.Error(err))
		return &primary.PublishResponse{
			Success:     false,
			ReasonCode:  release.ReasonURLNotVerified,
			Message:     fmt.Sprintf("URL could not be verified: %v", err),
			URLVerified: false,
		}, nil
	}

	// 5. First successful publish locks the platform for good
	if profile.DeclaredPlatform == "" {
		if err := s.profileRepo.SetDeclaredPlatform(ctx, profile.ID, req.Platform); err != nil {
			return nil, fmt.Errorf("failed to lock platform: %w", err)
		}
	}

	// 6. Record the release
	poem.Status = secondary.PoemStatusPublished
	poem.IsMonthlyRelease = true
	poem.Platform = req.Platform
	poem.PublicURL = req.PublicURL
	poem.RecordingPath = req.RecordingPath
	poem.PublishedAt = now
	if err := s.poemRepo.Update(ctx, poem); err != nil {
		return nil, fmt.Errorf("failed to update poem: %w", err)
	}

	contract.MonthlyReleases++
	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, fmt.Errorf("failed to update contract: %w", err)
	}

	if err := s.logWriter.LogUpdate(ctx, "poem", poem.ID, "status", secondary.PoemStatusSubmitted, poem.Status); err != nil {
		s.logger.Warn("audit log write failed", zap.Error(err))
	}
	s.logger.Info("monthly release published",
		zap.String("poem_id", poem.ID),
		zap.String("platform", req.Platform))

	return &primary.PublishResponse{
		Success:     true,
		Message:     fmt.Sprintf("published to %s", req.Platform),
		URLVerified: true,
		PublishedAt: now,
	}, nil
}

// ReleaseStatus reports where the profile stands against the monthly
// release obligation.
func (s *ReleaseServiceImpl) ReleaseStatus(ctx context.Context, profileID string) (*primary.ReleaseStatusResponse, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", err)
	}

	loc := time.UTC
	releaseCount, missedCount := 0, 0
	if contract, err := s.contractRepo.GetActiveByProfile(ctx, profileID); err != nil {
		return nil, err
	} else if contract != nil {
		if l, err := time.LoadLocation(contract.Timezone); err == nil {
			loc = l
		}
		releaseCount = contract.MonthlyReleases
		missedCount = contract.MonthlyReleasesMissed
	}

	last, err := s.poemRepo.LastMonthlyRelease(ctx, profileID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().In(loc)
	lastDay := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 1, -1)

	return &primary.ReleaseStatusResponse{
		LastPublished:  last,
		DueThisMonth:   penalty.MonthlyReleaseDue(last, now, loc),
		DaysRemaining:  lastDay.Day() - now.Day(),
		ReleaseCount:   releaseCount,
		MissedReleases: missedCount,
		LockedPlatform: profile.DeclaredPlatform,
	}, nil
}

// Ensure ReleaseServiceImpl implements the interface
var _ primary.ReleaseService = (*ReleaseServiceImpl)(nil)
