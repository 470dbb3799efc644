// Package http provides HTTP-based implementations of the discovery
// engine's network interfaces: page fetching, redirect resolution,
// size-capped candidate download, and sitemap probing.
package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// userAgent identifies the crawler to manufacturer sites.
const userAgent = "manual-agent/1.0 (+appliance manual discovery)"

// Ensure Fetcher implements manualagent.Fetcher at compile time.
var _ manualagent.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using plain HTTP requests.
// It does not execute JavaScript; use rod.Fetcher for support portals that
// render their manual listings client-side.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", transportError(ctx, err, url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(ctx, err, url)
	}

	return string(body), nil
}

// transportError maps client-side failures to application error codes so the
// retry layer can tell transient failures from terminal ones: timeouts are
// ETIMEOUT, other transport errors EUNAVAILABLE. Context cancellation passes
// through untouched.
func transportError(ctx context.Context, err error, url string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return manualagent.Errorf(manualagent.ETIMEOUT, "request timed out for %s", url)
	}
	return manualagent.Errorf(manualagent.EUNAVAILABLE, "request failed for %s: %v", url, err)
}

// statusError maps a non-200 response. 429 and 5xx are transient and worth
// retrying; a missing document is ENOTFOUND; everything else is terminal.
func statusError(status int, url string) error {
	switch {
	case status == http.StatusTooManyRequests || status >= 500:
		return manualagent.Errorf(manualagent.EUNAVAILABLE, "HTTP %d for %s", status, url)
	case status == http.StatusNotFound:
		return manualagent.Errorf(manualagent.ENOTFOUND, "HTTP %d for %s", status, url)
	default:
		return manualagent.Errorf(manualagent.EINTERNAL, "HTTP %d for %s", status, url)
	}
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
