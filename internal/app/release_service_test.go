package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/quill/internal/core/release"
	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/ports/secondary"
)

// submitWeekOne starts a contract and submits the week 1 poem on time,
// returning the contract and poem IDs.
func submitWeekOne(t *testing.T, env *testEnv) (string, string) {
	t.Helper()
	contractID := startContract(t, env)
	env.clock.now = time.Date(2026, 2, 24, 12, 0, 0, 0, nyLoc)
	resp, err := env.submissionSvc.SubmitPoem(context.Background(), primary.SubmitPoemRequest{
		ProfileID: "writer", Content: concretePoem(14), Assessment: validAssessment(),
	})
	if err != nil || !resp.Success {
		t.Fatalf("submission failed: %v %+v", err, resp)
	}
	return contractID, resp.PoemID
}

func TestPublishRelease(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	contractID, poemID := submitWeekOne(t, env)

	resp, err := env.releaseSvc.PublishRelease(ctx, primary.PublishRequest{
		PoemID:        poemID,
		Platform:      "Medium",
		PublicURL:     "https://medium.com/@writer/week-one",
		RecordingPath: "/recordings/week1.mp3",
	})
	if err != nil {
		t.Fatalf("PublishRelease failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected publication, got %s: %s", resp.ReasonCode, resp.Message)
	}
	if !resp.URLVerified {
		t.Error("expected a verified URL")
	}
	if len(env.verifier.calls) != 1 || env.verifier.calls[0] != "https://medium.com/@writer/week-one" {
		t.Errorf("expected one verification call, got %v", env.verifier.calls)
	}

	poem := env.poems.poems[poemID]
	if poem.Status != secondary.PoemStatusPublished || !poem.IsMonthlyRelease {
		t.Errorf("expected a published monthly release, got %+v", poem)
	}
	if poem.Platform != "Medium" || poem.PublishedAt.IsZero() {
		t.Errorf("expected publication metadata on the poem, got %+v", poem)
	}
	if env.contracts.contracts[contractID].MonthlyReleases != 1 {
		t.Error("expected the release counter to advance")
	}

	// The first successful publish locks the platform.
	if got := env.profiles.profiles["writer"].DeclaredPlatform; got != "Medium" {
		t.Errorf("expected platform locked to Medium, got %q", got)
	}
}

func TestPublishReleaseRequiresRecording(t *testing.T) {
	env := newTestEnv()
	_, poemID := submitWeekOne(t, env)

	resp, err := env.releaseSvc.PublishRelease(context.Background(), primary.PublishRequest{
		PoemID:    poemID,
		Platform:  "Medium",
		PublicURL: "https://medium.com/@writer/week-one",
	})
	if err != nil {
		t.Fatalf("PublishRelease failed: %v", err)
	}
	if resp.Success || resp.ReasonCode != release.ReasonMissingRecording {
		t.Errorf("expected %s rejection, got %+v", release.ReasonMissingRecording, resp)
	}
	if len(env.verifier.calls) != 0 {
		t.Error("static gates must run before any network traffic")
	}
}

func TestPublishReleasePlatformMismatch(t *testing.T) {
	env := newTestEnv()
	_, poemID := submitWeekOne(t, env)

	resp, err := env.releaseSvc.PublishRelease(context.Background(), primary.PublishRequest{
		PoemID:        poemID,
		Platform:      "Medium",
		PublicURL:     "https://twitter.com/writer/status/1",
		RecordingPath: "/recordings/week1.mp3",
	})
	if err != nil {
		t.Fatalf("PublishRelease failed: %v", err)
	}
	if resp.Success || resp.ReasonCode != release.ReasonPlatformMismatch {
		t.Fatalf("expected %s rejection, got %+v", release.ReasonPlatformMismatch, resp)
	}
	if resp.Message != "URL does not match declared platform" {
		t.Errorf("unexpected message: %s", resp.Message)
	}
}

func TestPublishReleaseVerificationFailsClosed(t *testing.T) {
	env := newTestEnv()
	_, poemID := submitWeekOne(t, env)
	env.verifier.err = errors.New("connection refused")

	resp, err := env.releaseSvc.PublishRelease(context.Background(), primary.PublishRequest{
		PoemID:        poemID,
		Platform:      "Medium",
		PublicURL:     "https://medium.com/@writer/week-one",
		RecordingPath: "/recordings/week1.mp3",
	})
	if err != nil {
		t.Fatalf("PublishRelease failed: %v", err)
	}
	if resp.Success || resp.ReasonCode != release.ReasonURLNotVerified {
		t.Fatalf("expected %s rejection, got %+v", release.ReasonURLNotVerified, resp)
	}
	if resp.URLVerified {
		t.Error("a failed fetch must not verify the URL")
	}

	// Nothing was recorded: the poem stays submitted, the platform unlocked.
	if env.poems.poems[poemID].Status != secondary.PoemStatusSubmitted {
		t.Error("a failed verification must not publish the poem")
	}
	if env.profiles.profiles["writer"].DeclaredPlatform != "" {
		t.Error("a failed verification must not lock the platform")
	}
}

func TestPublishReleasePlatformLocked(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	contractID, poemID := submitWeekOne(t, env)

	if resp, err := env.releaseSvc.PublishRelease(ctx, primary.PublishRequest{
		PoemID:        poemID,
		Platform:      "Medium",
		PublicURL:     "https://medium.com/@writer/week-one",
		RecordingPath: "/recordings/week1.mp3",
	}); err != nil || !resp.Success {
		t.Fatalf("first publish failed: %v %+v", err, resp)
	}

	// A second submitted poem, next month.
	env.poems.poems["poem-2"] = &secondary.PoemRecord{
		ID:         "poem-2",
		ProfileID:  "writer",
		ContractID: contractID,
		WeekNumber: 3,
		Status:     secondary.PoemStatusSubmitted,
	}
	env.clock.now = time.Date(2026, 3, 30, 12, 0, 0, 0, nyLoc)

	resp, err := env.releaseSvc.PublishRelease(ctx, primary.PublishRequest{
		PoemID:        "poem-2",
		Platform:      "Substack",
		PublicURL:     "https://writer.substack.com/p/week-three",
		RecordingPath: "/recordings/week3.mp3",
	})
	if err != nil {
		t.Fatalf("PublishRelease failed: %v", err)
	}
	if resp.Success || resp.ReasonCode != release.ReasonPlatformLocked {
		t.Errorf("expected %s rejection, got %+v", release.ReasonPlatformLocked, resp)
	}
}

func TestPublishReleaseOncePerMonth(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	contractID, poemID := submitWeekOne(t, env)

	if resp, err := env.releaseSvc.PublishRelease(ctx, primary.PublishRequest{
		PoemID:        poemID,
		Platform:      "Medium",
		PublicURL:     "https://medium.com/@writer/week-one",
		RecordingPath: "/recordings/week1.mp3",
	}); err != nil || !resp.Success {
		t.Fatalf("first publish failed: %v %+v", err, resp)
	}

	env.poems.poems["poem-2"] = &secondary.PoemRecord{
		ID:         "poem-2",
		ProfileID:  "writer",
		ContractID: contractID,
		WeekNumber: 2,
		Status:     secondary.PoemStatusSubmitted,
	}

	resp, err := env.releaseSvc.PublishRelease(ctx, primary.PublishRequest{
		PoemID:        "poem-2",
		Platform:      "Medium",
		PublicURL:     "https://medium.com/@writer/week-two",
		RecordingPath: "/recordings/week2.mp3",
	})
	if err != nil {
		t.Fatalf("PublishRelease failed: %v", err)
	}
	if resp.Success || resp.ReasonCode != release.ReasonAlreadyPublished {
		t.Errorf("expected %s rejection, got %+v", release.ReasonAlreadyPublished, resp)
	}
}

func TestPublishReleaseRejectsDrafts(t *testing.T) {
	env := newTestEnv()
	contractID := startContract(t, env)

	env.poems.poems["draft-1"] = &secondary.PoemRecord{
		ID:         "draft-1",
		ProfileID:  "writer",
		ContractID: contractID,
		WeekNumber: 1,
		Status:     secondary.PoemStatusDraft,
	}

	resp, err := env.releaseSvc.PublishRelease(context.Background(), primary.PublishRequest{
		PoemID:        "draft-1",
		Platform:      "Medium",
		PublicURL:     "https://medium.com/@writer/draft",
		RecordingPath: "/recordings/draft.mp3",
	})
	if err != nil {
		t.Fatalf("PublishRelease failed: %v", err)
	}
	if resp.Success {
		t.Fatal("drafts must not be publishable")
	}
	if resp.Message != "only submitted poems can be released" {
		t.Errorf("unexpected message: %s", resp.Message)
	}
}

func TestReleaseStatus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, poemID := submitWeekOne(t, env)

	// Feb 27: next-to-last day of the month, nothing published yet.
	env.clock.now = time.Date(2026, 2, 27, 12, 0, 0, 0, nyLoc)
	status, err := env.releaseSvc.ReleaseStatus(ctx, "writer")
	if err != nil {
		t.Fatalf("ReleaseStatus failed: %v", err)
	}
	if !status.DueThisMonth {
		t.Error("expected the release to be due in the last two days of the month")
	}
	if status.DaysRemaining != 1 {
		t.Errorf("expected 1 day remaining, got %d", status.DaysRemaining)
	}
	if !status.LastPublished.IsZero() || status.ReleaseCount != 0 {
		t.Errorf("expected a clean slate, got %+v", status)
	}

	if resp, err := env.releaseSvc.PublishRelease(ctx, primary.PublishRequest{
		PoemID:        poemID,
		Platform:      "Medium",
		PublicURL:     "https://medium.com/@writer/week-one",
		RecordingPath: "/recordings/week1.mp3",
	}); err != nil || !resp.Success {
		t.Fatalf("publish failed: %v %+v", err, resp)
	}

	status, err = env.releaseSvc.ReleaseStatus(ctx, "writer")
	if err != nil {
		t.Fatalf("ReleaseStatus failed: %v", err)
	}
	if status.DueThisMonth {
		t.Error("a published release clears the obligation for the month")
	}
	if status.ReleaseCount != 1 || status.LastPublished.IsZero() {
		t.Errorf("expected one recorded release, got %+v", status)
	}
	if status.LockedPlatform != "Medium" {
		t.Errorf("expected locked platform Medium, got %q", status.LockedPlatform)
	}
}
