package manualagent

import "context"

// Fetcher retrieves HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered
// support portals.
type Fetcher interface {
	// Fetch retrieves the page at url and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases fetcher resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// Download holds the result of downloading a candidate document.
type Download struct {
	Body []byte

	// ContentType is the Content-Type header as reported by the server.
	// Informational only: verification trusts magic bytes, not headers.
	ContentType string

	// FinalURL is the URL after following redirects.
	FinalURL string
}

// Downloader retrieves candidate documents with a size cap and timeout.
type Downloader interface {
	Download(ctx context.Context, url string) (*Download, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
