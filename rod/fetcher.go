// Package rod provides a Fetcher backed by headless Chrome for support
// portals that render their manual listings with JavaScript. The plain HTTP
// fetcher is the default; this one is opt-in via the CLI's --render flag.
package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

// Ensure Fetcher implements manualagent.Fetcher at compile time.
var _ manualagent.Fetcher = (*Fetcher)(nil)

// DefaultMaxPages is the number of pages fetched before the browser is
// recycled. Chrome accumulates memory under load and never returns to its
// baseline, so a long discovery batch needs periodic recycling.
const DefaultMaxPages = 75

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	mu           sync.Mutex
	browser      *rod.Browser
	launcher     *launcher.Launcher
	pageCount    int64
	maxPages     int64
	fetchTimeout time.Duration
	closed       atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMaxPages sets the page count at which the browser is recycled.
func WithMaxPages(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// WithFetchTimeout bounds each Fetch call. Zero means the context alone
// controls cancellation.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.fetchTimeout = d
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.launch(); err != nil {
		return nil, err
	}
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", manualagent.Errorf(manualagent.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.fetchTimeout)
		defer cancel()
	}

	page, err := f.acquireBrowser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", manualagent.Errorf(manualagent.EUNAVAILABLE, "opening browser page: %s", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", manualagent.Errorf(manualagent.EUNAVAILABLE, "navigating to %s: %s", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", manualagent.Errorf(manualagent.ETIMEOUT, "waiting for %s to load: %s", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", manualagent.Errorf(manualagent.EINTERNAL, "reading page html: %s", err)
	}

	atomic.AddInt64(&f.pageCount, 1)
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdown()
}

// acquireBrowser returns the current browser, recycling it when the page
// count reaches maxPages. If the replacement launch fails the old browser is
// kept; a degraded browser beats no browser mid-call.
func (f *Fetcher) acquireBrowser() *rod.Browser {
	f.mu.Lock()
	defer f.mu.Unlock()

	if atomic.LoadInt64(&f.pageCount) >= f.maxPages {
		oldBrowser := f.browser
		oldLauncher := f.launcher
		f.browser = nil
		f.launcher = nil

		if err := f.launch(); err != nil {
			f.browser = oldBrowser
			f.launcher = oldLauncher
			return f.browser
		}

		if oldBrowser != nil {
			_ = oldBrowser.Close()
		}
		if oldLauncher != nil {
			oldLauncher.Kill()
		}
		atomic.StoreInt64(&f.pageCount, 0)
	}

	return f.browser
}

// launch starts a new browser instance with stability flags.
func (f *Fetcher) launch() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = lnchr
	return nil
}

// shutdown closes the browser and kills the launcher. Must be called with mu
// held.
func (f *Fetcher) shutdown() error {
	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher = nil
	}
	return err
}
