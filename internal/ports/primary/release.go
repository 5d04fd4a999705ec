package primary

import (
	"context"
	"time"
)

// ReleaseService handles the monthly public release obligation.
type ReleaseService interface {
	// PublishRelease verifies and records a monthly public release of a
	// submitted poem. Gate blocks and verification failures are reported
	// on the response.
	PublishRelease(ctx context.Context, req PublishRequest) (*PublishResponse, error)

	// ReleaseStatus reports where the profile stands against the monthly
	// release obligation.
	ReleaseStatus(ctx context.Context, profileID string) (*ReleaseStatusResponse, error)
}

// PublishRequest carries a monthly release for verification.
type PublishRequest struct {
	PoemID        string
	Platform      string
	PublicURL     string
	RecordingPath string
}

// PublishResponse is the result of a publish attempt.
type PublishResponse struct {
	Success     bool
	Message     string
	ReasonCode  string
	URLVerified bool
	PublishedAt time.Time
}

// ReleaseStatusResponse describes the monthly release position.
type ReleaseStatusResponse struct {
	LastPublished  time.Time
	DueThisMonth   bool
	DaysRemaining  int
	ReleaseCount   int
	MissedReleases int
	LockedPlatform string
}
