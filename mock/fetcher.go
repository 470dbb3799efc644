package mock

import (
	"context"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

var _ manualagent.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of manualagent.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ manualagent.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of manualagent.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string) (*manualagent.Download, error)
}

func (d *Downloader) Download(ctx context.Context, url string) (*manualagent.Download, error) {
	return d.DownloadFn(ctx, url)
}

var _ manualagent.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of manualagent.DomainLimiter.
// If WaitFn is nil, Wait returns immediately.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, domain)
}
