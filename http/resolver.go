package http

import (
	"context"
	"net/http"
	"time"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

// DefaultResolveTimeout bounds a single redirect resolution.
const DefaultResolveTimeout = 10 * time.Second

// maxRedirects bounds the HEAD-follow chain. Grounding redirectors resolve
// in one or two hops; anything longer is suspect.
const maxRedirects = 10

// Ensure Resolver implements manualagent.LinkResolver at compile time.
var _ manualagent.LinkResolver = (*Resolver)(nil)

// Resolver unwraps opaque redirect URLs (e.g. grounding chunks from a
// grounded-search API) to their canonical destination via a bounded
// HEAD-follow, falling back to GET for servers that reject HEAD.
type Resolver struct {
	client  *http.Client
	timeout time.Duration
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolveTimeout sets the timeout for a single resolution.
func WithResolveTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// NewResolver creates a new Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		timeout: DefaultResolveTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.client = &http.Client{
		Timeout: r.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	return r
}

// Resolve follows redirects from url and returns the canonical destination.
// Resolution failure degrades to the original URL with
// ResolutionUnresolved; it never fails the pipeline.
func (r *Resolver) Resolve(ctx context.Context, url string) manualagent.ResolvedLink {
	unresolved := manualagent.ResolvedLink{
		CanonicalURL: url,
		OriginalURL:  url,
		Method:       manualagent.ResolutionUnresolved,
	}

	resp, err := r.do(ctx, http.MethodHead, url)
	if err != nil || resp.StatusCode >= 400 {
		if err == nil {
			resp.Body.Close()
		}
		// Some servers reject HEAD outright. Retry the chain with GET;
		// the body is discarded, only the final URL matters.
		if resp, err = r.do(ctx, http.MethodGet, url); err != nil {
			return unresolved
		}
	}
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		return unresolved
	}

	final := resp.Request.URL.String()
	method := manualagent.ResolutionDirect
	if final != url {
		method = manualagent.ResolutionRedirect
	}

	return manualagent.ResolvedLink{
		CanonicalURL: final,
		OriginalURL:  url,
		Method:       method,
	}
}

func (r *Resolver) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	return r.client.Do(req)
}
