package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/ports/secondary"
)

// ProfileServiceImpl implements the ProfileService interface.
type ProfileServiceImpl struct {
	profileRepo secondary.ProfileRepository
	logWriter   secondary.LogWriter
	logger      *zap.Logger
}

// NewProfileService creates a new ProfileService with injected dependencies.
func NewProfileService(profileRepo secondary.ProfileRepository, logWriter secondary.LogWriter, logger *zap.Logger) *ProfileServiceImpl {
	return &ProfileServiceImpl{profileRepo: profileRepo, logWriter: logWriter, logger: logger}
}

// CreateProfile creates a profile.
func (s *ProfileServiceImpl) CreateProfile(ctx context.Context, req primary.CreateProfileRequest) (*primary.Profile, error) {
	if req.ID == "" {
		return nil, fmt.Errorf("profile ID is required")
	}
	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}

	record := &secondary.ProfileRecord{
		ID:       req.ID,
		Name:     req.Name,
		Timezone: tz,
	}
	if err := s.profileRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if err := s.logWriter.LogCreate(ctx, "profile", record.ID); err != nil {
		s.logger.Warn("audit log write failed", zap.Error(err))
	}

	return recordToProfile(record), nil
}

// GetProfile retrieves a profile by ID.
func (s *ProfileServiceImpl) GetProfile(ctx context.Context, profileID string) (*primary.Profile, error) {
	record, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", err)
	}
	return recordToProfile(record), nil
}

func recordToProfile(r *secondary.ProfileRecord) *primary.Profile {
	return &primary.Profile{
		ID:               r.ID,
		Name:             r.Name,
		Timezone:         r.Timezone,
		DeclaredPlatform: r.DeclaredPlatform,
	}
}

// Ensure ProfileServiceImpl implements the interface
var _ primary.ProfileService = (*ProfileServiceImpl)(nil)
