package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
	"github.com/robeeeeeet/manual-agent-sub002/bloom"
	"golang.org/x/sync/errgroup"
)

var _ manualagent.Discoverer = (*Engine)(nil)

// Engine-wide bounds. One discovery call must finish inside its budget even
// against a slow manufacturer site, so every stage is capped.
const (
	defaultDiscoveryTimeout = 90 * time.Second

	maxResolveConcurrency = 3
	maxVerifyPerPass      = 5
	maxExploreSeeds       = 3
	maxSitemapDomains     = 2

	visitedExpectedURLs      = 10000
	visitedFalsePositiveRate = 0.01
)

// Engine runs the staged discovery protocol: direct PDF search, sitemap
// probe of known manufacturer domains, then a classifier-guided page crawl.
// Each stage stops the call as soon as a candidate verifies; later stages
// exist only to rescue products the earlier ones miss.
type Engine struct {
	Search   manualagent.SearchService
	Resolver manualagent.LinkResolver
	Domains  manualagent.DomainService
	Sitemaps manualagent.SitemapService
	Explorer *Explorer
	Verifier manualagent.Verifier

	// Timeout is the per-call budget applied when the caller's context has
	// no deadline of its own.
	Timeout time.Duration

	Logger LogFunc
}

// Discover locates and verifies the manual PDF for the requested product.
//
// The returned result is never opaque: Candidates carries everything
// collected across all stages, ranked, including candidates that failed
// verification and why. Quota exhaustion on the search backend aborts the
// call immediately with no further network activity.
func (e *Engine) Discover(ctx context.Context, req manualagent.DiscoveryRequest) (*manualagent.DiscoveryResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok {
		timeout := e.Timeout
		if timeout <= 0 {
			timeout = defaultDiscoveryTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	stored, domains := e.loadDomains(ctx, req)
	gate := NewGate(stored, req.KnownDomains)

	var all []*manualagent.Candidate

	// Stage 1: direct filetype:pdf search.
	candidates, err := e.searchStage(ctx, req, manualagent.StageDirect, domains)
	all = append(all, candidates...)
	if err != nil {
		return e.abort(err, all, req, gate)
	}
	if found := e.verifyPass(ctx, all, req, gate); found != nil {
		return e.succeed(ctx, found, manualagent.MethodDirectSearch, all, req, gate), nil
	}
	if ctx.Err() != nil {
		return e.abort(ctx.Err(), all, req, gate)
	}

	// Stage 1.5: sitemap probe of the most confident known domains.
	sitemapCandidates, seeds := e.sitemapStage(ctx, req, domains)
	all = append(all, sitemapCandidates...)
	if len(sitemapCandidates) > 0 {
		if found := e.verifyPass(ctx, all, req, gate); found != nil {
			return e.succeed(ctx, found, manualagent.MethodDirectSearch, all, req, gate), nil
		}
	}
	if ctx.Err() != nil {
		return e.abort(ctx.Err(), all, req, gate)
	}

	// Stage 2: page search feeding the classifier-guided crawl. PDF hits
	// from the page stage verify directly; HTML hits become crawl seeds.
	pageCandidates, err := e.searchStage(ctx, req, manualagent.StagePage, domains)
	for _, c := range pageCandidates {
		if HasPDFExtension(c.URL) {
			all = append(all, c)
		}
	}
	if err != nil {
		return e.abort(err, all, req, gate)
	}
	seeds = append(seeds, seedURLs(pageCandidates, gate)...)

	exploreCandidates, err := e.exploreStage(ctx, req, seeds)
	all = append(all, exploreCandidates...)
	if err != nil {
		return e.abort(err, all, req, gate)
	}
	if found := e.verifyPass(ctx, all, req, gate); found != nil {
		return e.succeed(ctx, found, manualagent.MethodPageCrawl, all, req, gate), nil
	}
	if ctx.Err() != nil {
		return e.abort(ctx.Err(), all, req, gate)
	}

	return &manualagent.DiscoveryResult{
		Success:    false,
		Reason:     manualagent.ReasonExhausted,
		Candidates: Rank(all, req.ModelNumber, gate),
	}, nil
}

// loadDomains merges the persisted domain cache with the request's known
// domains, most confident first. Cache failures degrade to the request's
// domains alone.
func (e *Engine) loadDomains(ctx context.Context, req manualagent.DiscoveryRequest) ([]*manualagent.ManufacturerDomain, []string) {
	var stored []*manualagent.ManufacturerDomain
	if e.Domains != nil {
		var err error
		stored, err = e.Domains.FindDomains(ctx, req.Manufacturer)
		if err != nil {
			e.logf("discover: domain cache lookup failed: %v", err)
		}
	}

	seen := make(map[string]bool)
	var domains []string
	for _, md := range stored {
		if !seen[md.Domain] {
			seen[md.Domain] = true
			domains = append(domains, md.Domain)
		}
	}
	for _, d := range req.KnownDomains {
		if !seen[d] {
			seen[d] = true
			domains = append(domains, d)
		}
	}
	return stored, domains
}

// searchStage runs the planned queries for one stage and resolves the hits
// into candidates. A quota error aborts immediately; transient query
// failures skip that query.
func (e *Engine) searchStage(ctx context.Context, req manualagent.DiscoveryRequest, stage manualagent.SearchStage, domains []string) ([]*manualagent.Candidate, error) {
	var candidates []*manualagent.Candidate
	for _, q := range PlanQueries(req, stage, domains) {
		if ctx.Err() != nil {
			return candidates, ctx.Err()
		}

		hits, err := WithRetry(ctx, q.String(), func(ctx context.Context) ([]manualagent.SearchHit, error) {
			return e.Search.Search(ctx, q)
		}, e.Logger)
		if err != nil {
			if manualagent.ErrorCode(err) == manualagent.EQUOTA {
				return candidates, err
			}
			if ctx.Err() != nil {
				return candidates, ctx.Err()
			}
			e.logf("discover: search %q failed: %v", q.String(), err)
			continue
		}

		candidates = append(candidates, e.resolveHits(ctx, hits)...)
	}
	return candidates, nil
}

// resolveHits canonicalizes search hit URLs concurrently, preserving hit
// order in the output. Resolution never fails a hit; unresolved URLs keep
// their original form with a ranking penalty.
func (e *Engine) resolveHits(ctx context.Context, hits []manualagent.SearchHit) []*manualagent.Candidate {
	resolved := make([]manualagent.ResolvedLink, len(hits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxResolveConcurrency)
	for i, hit := range hits {
		g.Go(func() error {
			resolved[i] = e.Resolver.Resolve(gctx, hit.URL)
			return nil
		})
	}
	_ = g.Wait()

	candidates := make([]*manualagent.Candidate, 0, len(hits))
	for i, hit := range hits {
		candidates = append(candidates, &manualagent.Candidate{
			URL:        resolved[i].CanonicalURL,
			Source:     manualagent.SourceSearch,
			Judgment:   manualagent.JudgmentPending,
			Title:      hit.Title,
			Snippet:    hit.Snippet,
			Unresolved: resolved[i].Method == manualagent.ResolutionUnresolved,
		})
	}
	return candidates
}

// sitemapStage probes the sitemaps of the most confident domains for
// model-matching URLs. Matching PDFs become candidates directly; matching
// HTML pages become crawl seeds. Probe failures are logged and skipped.
func (e *Engine) sitemapStage(ctx context.Context, req manualagent.DiscoveryRequest, domains []string) (candidates []*manualagent.Candidate, seeds []string) {
	if e.Sitemaps == nil {
		return nil, nil
	}

	filter := modelURLFilter(req.ModelNumber)
	for i, domain := range domains {
		if i >= maxSitemapDomains {
			break
		}
		if ctx.Err() != nil {
			return candidates, seeds
		}

		urls, err := e.Sitemaps.DiscoverURLs(ctx, "https://"+domain, filter)
		if err != nil {
			e.logf("discover: sitemap probe %s failed: %v", domain, err)
			continue
		}
		for _, u := range urls {
			if HasPDFExtension(u) {
				candidates = append(candidates, &manualagent.Candidate{
					URL:      u,
					Source:   manualagent.SourcePageExtract,
					Judgment: manualagent.JudgmentPending,
				})
			} else {
				seeds = append(seeds, u)
			}
		}
	}
	return candidates, seeds
}

// exploreStage runs the classifier-guided crawl over the top seed pages,
// sharing one visited set so overlapping seeds never refetch a page.
func (e *Engine) exploreStage(ctx context.Context, req manualagent.DiscoveryRequest, seeds []string) ([]*manualagent.Candidate, error) {
	if e.Explorer == nil || len(seeds) == 0 {
		return nil, nil
	}

	visited := bloom.NewVisited(visitedExpectedURLs, visitedFalsePositiveRate)
	var all []*manualagent.Candidate

	for i, seed := range seeds {
		if i >= maxExploreSeeds {
			break
		}
		if ctx.Err() != nil {
			return all, ctx.Err()
		}

		candidates, err := e.Explorer.Explore(ctx, seed, req, visited)
		all = append(all, candidates...)
		if err != nil {
			return all, err
		}
		for _, c := range candidates {
			if c.Judgment == manualagent.JudgmentYes {
				return all, nil
			}
		}
	}
	return all, nil
}

// verifyPass ranks everything collected so far and verifies the top active
// candidates in order. It returns the first candidate that verifies, or nil.
func (e *Engine) verifyPass(ctx context.Context, all []*manualagent.Candidate, req manualagent.DiscoveryRequest, gate *Gate) *manualagent.Candidate {
	active := Active(Rank(all, req.ModelNumber, gate))
	for i, c := range active {
		if i >= maxVerifyPerPass {
			break
		}
		if ctx.Err() != nil {
			return nil
		}
		if err := e.Verifier.Verify(ctx, c, req); err != nil {
			return nil
		}
		if c.Verified {
			return c
		}
	}
	return nil
}

// succeed builds the success result and feeds the verified domain back into
// the cache so future lookups for this manufacturer rank it first.
func (e *Engine) succeed(ctx context.Context, found *manualagent.Candidate, method manualagent.DiscoveryMethod, all []*manualagent.Candidate, req manualagent.DiscoveryRequest, gate *Gate) *manualagent.DiscoveryResult {
	if e.Domains != nil {
		if u, err := url.Parse(found.URL); err == nil && u.Hostname() != "" {
			if err := e.Domains.RecordSuccess(ctx, req.Manufacturer, RegistrableDomain(u.Hostname())); err != nil {
				e.logf("discover: record success failed: %v", err)
			}
		}
	}
	return &manualagent.DiscoveryResult{
		Success:    true,
		PDFURL:     found.URL,
		Method:     method,
		Candidates: Rank(all, req.ModelNumber, gate),
	}
}

// abort maps a fatal error to the failure result contract. Quota exhaustion
// and deadline expiry are reported outcomes, not call errors; anything else
// propagates.
func (e *Engine) abort(err error, all []*manualagent.Candidate, req manualagent.DiscoveryRequest, gate *Gate) (*manualagent.DiscoveryResult, error) {
	result := &manualagent.DiscoveryResult{
		Success:    false,
		Candidates: Rank(all, req.ModelNumber, gate),
	}
	switch {
	case manualagent.ErrorCode(err) == manualagent.EQUOTA:
		result.Reason = manualagent.ReasonQuotaExceeded
	case errors.Is(err, context.DeadlineExceeded):
		result.Reason = manualagent.ReasonDeadline
	default:
		return result, err
	}
	return result, nil
}

// seedURLs orders page-stage search results for crawling: trusted-domain
// pages first, PDFs excluded (those verify directly, they are not crawl
// seeds).
func seedURLs(candidates []*manualagent.Candidate, gate *Gate) []string {
	var trusted, rest []string
	for _, c := range candidates {
		if HasPDFExtension(c.URL) {
			continue
		}
		if gate.Trusted(c.URL) {
			trusted = append(trusted, c.URL)
		} else {
			rest = append(rest, c.URL)
		}
	}
	return append(trusted, rest...)
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger(format, args...)
	}
}

// modelURLFilter matches sitemap URLs mentioning the model in any spelling.
func modelURLFilter(model string) *manualagent.URLFilter {
	var includes []*regexp.Regexp
	for _, variant := range manualagent.ModelVariants(model) {
		re, err := regexp.Compile(fmt.Sprintf("(?i)%s", regexp.QuoteMeta(variant)))
		if err != nil {
			continue
		}
		includes = append(includes, re)
	}
	return &manualagent.URLFilter{Include: includes}
}
