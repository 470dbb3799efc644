package http

import (
	"context"
	"io"
	"net/http"
	"time"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

// DefaultMaxDownloadBytes caps how much of a candidate document is read.
// Appliance manuals run single-digit megabytes; 20 MiB covers the long tail.
const DefaultMaxDownloadBytes = 20 << 20

// DefaultDownloadTimeout bounds a single candidate download.
const DefaultDownloadTimeout = 30 * time.Second

// Ensure Downloader implements manualagent.Downloader at compile time.
var _ manualagent.Downloader = (*Downloader)(nil)

// Downloader retrieves candidate documents with a size cap and timeout.
type Downloader struct {
	client   *http.Client
	maxBytes int64
	timeout  time.Duration
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithMaxBytes sets the download size cap.
func WithMaxBytes(n int64) DownloaderOption {
	return func(d *Downloader) {
		d.maxBytes = n
	}
}

// WithDownloadTimeout sets the timeout for a single download.
func WithDownloadTimeout(t time.Duration) DownloaderOption {
	return func(d *Downloader) {
		d.timeout = t
	}
}

// NewDownloader creates a new Downloader.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		maxBytes: DefaultMaxDownloadBytes,
		timeout:  DefaultDownloadTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.client = &http.Client{
		Timeout: d.timeout,
	}

	return d
}

// Download retrieves the document at url, reading at most the configured
// byte cap. The reported Content-Type is informational; verification trusts
// magic bytes instead.
func (d *Downloader) Download(ctx context.Context, url string) (*manualagent.Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, transportError(ctx, err, url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes))
	if err != nil {
		return nil, transportError(ctx, err, url)
	}

	return &manualagent.Download{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}
