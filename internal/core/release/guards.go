// Package release contains the pure publication rules for monthly releases.
// This is part of the Functional Core - no I/O; the live URL fetch lives in
// the webverify adapter.
package release

import (
	"fmt"
	"net/url"
	"strings"
)

// Reason codes for publish rejections.
const (
	ReasonMissingRecording = "missing_recording"
	ReasonMissingURL       = "missing_url"
	ReasonInvalidURL       = "invalid_url"
	ReasonUnknownPlatform  = "unknown_platform"
	ReasonPlatformMismatch = "platform_mismatch"
	ReasonPlatformLocked   = "platform_locked"
	ReasonAlreadyPublished = "already_published"
	ReasonURLNotVerified   = "url_not_verified"
)

// platformDomains is the allowlist mapping a declared platform to the domains
// its public URLs must live on.
var platformDomains = map[string][]string{
	"Medium":     {"medium.com"},
	"Substack":   {"substack.com"},
	"YouTube":    {"youtube.com", "youtu.be"},
	"SoundCloud": {"soundcloud.com"},
	"Bandcamp":   {"bandcamp.com"},
	"Instagram":  {"instagram.com"},
}

// Platforms returns the supported platform names.
func Platforms() []string {
	names := make([]string, 0, len(platformDomains))
	for name := range platformDomains {
		names = append(names, name)
	}
	return names
}

// GuardResult represents the outcome of a publish guard evaluation.
type GuardResult struct {
	Allowed bool
	Code    string
	Reason  string
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

func blocked(code, reason string) GuardResult {
	return GuardResult{Allowed: false, Code: code, Reason: reason}
}

// PublishContext carries the pre-fetched facts for publish guards.
type PublishContext struct {
	Platform         string
	DeclaredPlatform string // empty until locked on first publish
	PublicURL        string
	RecordingPath    string
	AlreadyPublished bool // a release was already published this month
}

// CanPublish evaluates the publish prerequisites in order: artifacts present,
// platform consistent with the profile's declared platform, URL syntactically
// valid and on the platform's domain allowlist. The live reachability check
// runs after these gates.
func CanPublish(ctx PublishContext) GuardResult {
	if ctx.RecordingPath == "" {
		return blocked(ReasonMissingRecording, "monthly release requires a recording file")
	}
	if ctx.PublicURL == "" {
		return blocked(ReasonMissingURL, "monthly release requires a public URL")
	}
	if ctx.AlreadyPublished {
		return blocked(ReasonAlreadyPublished, "a monthly release was already published this month")
	}
	if ctx.DeclaredPlatform != "" && ctx.Platform != ctx.DeclaredPlatform {
		return blocked(ReasonPlatformLocked,
			fmt.Sprintf("platform is locked to %s - publishing to %s is not allowed", ctx.DeclaredPlatform, ctx.Platform))
	}

	domains, ok := platformDomains[ctx.Platform]
	if !ok {
		return blocked(ReasonUnknownPlatform, fmt.Sprintf("unknown platform %q", ctx.Platform))
	}

	parsed, err := url.Parse(ctx.PublicURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return blocked(ReasonInvalidURL, fmt.Sprintf("%q is not a valid http(s) URL", ctx.PublicURL))
	}

	host := strings.ToLower(parsed.Hostname())
	for _, domain := range domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return GuardResult{Allowed: true}
		}
	}
	return blocked(ReasonPlatformMismatch, "URL does not match declared platform")
}
