// Package httpclient performs the single, bounded HTTP call each live lookup is allowed.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
)

// UserAgent is the standard browser User-Agent string for all fetchers.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:146.0) Gecko/20100101 Firefox/146.0"

// DefaultTimeout bounds every live call when no client is supplied.
const DefaultTimeout = 10 * time.Second

// maxBodySize caps how much of a response is read.
const maxBodySize = 4 << 20

// New returns an http.Client with the given timeout (DefaultTimeout if zero).
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// HTTPError represents an HTTP error response.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// Is reports a 404 as profile.ErrProfileNotFound and every other status as
// profile.ErrUnavailable.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case profile.ErrProfileNotFound:
		return e.StatusCode == http.StatusNotFound
	case profile.ErrUnavailable:
		return e.StatusCode != http.StatusNotFound
	default:
		return false
	}
}

// Fetch executes req once and returns the body of a 200 response.
// Non-200 statuses are returned as *HTTPError; transport failures wrap profile.ErrUnavailable.
func Fetch(ctx context.Context, client *http.Client, req *http.Request, logger *slog.Logger) ([]byte, error) {
	resp, err := do(ctx, client, req, logger)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // intentional

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: req.URL.String()}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.URL, errors.Join(profile.ErrUnavailable, err))
	}
	return body, nil
}

// Probe issues a HEAD request and reports the status code.
// Only transport failures are returned as errors.
func Probe(ctx context.Context, client *http.Client, rawURL string, header http.Header, logger *slog.Logger) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := do(ctx, client, req, logger)
	if err != nil {
		return 0, err
	}
	resp.Body.Close() //nolint:errcheck,gosec // intentional
	return resp.StatusCode, nil
}

func do(ctx context.Context, client *http.Client, req *http.Request, logger *slog.Logger) (*http.Response, error) {
	if client == nil {
		client = New(0)
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		if logger != nil {
			logger.DebugContext(ctx, "HTTP request failed", "url", req.URL.String(), "error", err)
		}
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, errors.Join(profile.ErrUnavailable, err))
	}
	if logger != nil {
		logger.DebugContext(ctx, "HTTP response", "method", req.Method, "url", req.URL.String(),
			"status", resp.StatusCode, "elapsed", time.Since(start).Round(time.Millisecond))
	}
	return resp, nil
}
