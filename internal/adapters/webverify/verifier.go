// Package webverify checks that published URLs are actually live.
package webverify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/quill/internal/ports/secondary"
)

// DefaultTimeout bounds the live check. A slow platform is treated the same
// as an unreachable one.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps how much of the page is read when looking for soft 404s.
const maxBodyBytes = 64 * 1024

// Platforms that return 200 for deleted content get caught by body sniffing.
var notFoundPhrases = []string{
	"page not found",
	"404 not found",
	"this post is unavailable",
	"content unavailable",
	"this page doesn't exist",
}

// Verifier implements secondary.URLVerifier over plain HTTP GET.
// It fails closed: any transport error, timeout, or non-200 status means
// the URL is not verified.
type Verifier struct {
	client *http.Client
}

// NewVerifier creates a verifier. A zero timeout means DefaultTimeout.
func NewVerifier(timeout time.Duration) *Verifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Verifier{
		client: &http.Client{Timeout: timeout},
	}
}

// Verify fetches the URL and returns nil only when it is reachable and does
// not look like a not-found page.
func (v *Verifier) Verify(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("URL unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("URL returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	lower := strings.ToLower(string(body))
	for _, phrase := range notFoundPhrases {
		if strings.Contains(lower, phrase) {
			return fmt.Errorf("URL looks like a not-found page (%q)", phrase)
		}
	}

	return nil
}

// Ensure Verifier implements the interface
var _ secondary.URLVerifier = (*Verifier)(nil)
