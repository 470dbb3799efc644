package crawl

import (
	"context"
	"net/url"
	"sort"
	"time"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
	"github.com/robeeeeeet/manual-agent-sub002/bloom"
)

// Exploration bounds. Depth 3 covers the observed support-site shape
// (support top -> product page -> manual listing); deeper paths are almost
// always navigation loops. Top-K per tier keeps classifier prompts small and
// token cost flat regardless of page size.
const (
	defaultMaxDepth    = 3
	defaultTopKPerTier = 5
	maxOfferedLinks    = 20
	maxExcerptBytes    = 4000
)

// Explorer walks outward from a seed page, depth-first, asking the
// classifier at each page whether a manual PDF was found, which links to
// follow next, or neither.
//
// The walk is bounded three ways: a depth cap, a Bloom-filter visited set
// shared across all seeds of one discovery call, and a per-tier link cap.
// Classifier failures prune the current branch instead of failing the walk;
// only quota exhaustion and context cancellation abort it.
type Explorer struct {
	Fetcher     manualagent.Fetcher
	Extractor   manualagent.Extractor
	Converter   manualagent.Converter
	Links       manualagent.LinkExtractor
	Classifier  manualagent.LinkClassifier
	RateLimiter manualagent.DomainLimiter

	MaxDepth    int
	TopKPerTier int
	RetryDelays []time.Duration
	Logger      LogFunc
}

// Explore walks from seedURL looking for a manual PDF for the requested
// product. It returns every candidate collected along the way; a candidate
// with JudgmentYes means the classifier found the manual and the walk
// stopped there. The visited set persists across calls so multiple seeds
// never refetch the same page.
func (e *Explorer) Explore(ctx context.Context, seedURL string, req manualagent.DiscoveryRequest, visited *bloom.Visited) ([]*manualagent.Candidate, error) {
	var candidates []*manualagent.Candidate
	_, err := e.explore(ctx, seedURL, req, visited, 1, &candidates)
	return candidates, err
}

// explore processes one page at the given depth and recurses into the
// classifier's explore picks. It returns true when a manual was found, which
// stops sibling exploration up the stack.
func (e *Explorer) explore(ctx context.Context, pageURL string, req manualagent.DiscoveryRequest, visited *bloom.Visited, depth int, candidates *[]*manualagent.Candidate) (bool, error) {
	if depth > e.maxDepth() {
		return false, nil
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if visited.Seen(pageURL) {
		return false, nil
	}
	visited.Add(pageURL)

	u, err := url.Parse(pageURL)
	if err != nil {
		return false, nil
	}
	if e.RateLimiter != nil {
		if err := e.RateLimiter.Wait(ctx, u.Host); err != nil {
			return false, err
		}
	}

	html, err := WithRetryDelays(ctx, pageURL, func(ctx context.Context) (string, error) {
		return e.Fetcher.Fetch(ctx, pageURL)
	}, e.Logger, e.retryDelays())
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		e.logf("  explore: fetch %s failed: %v", pageURL, err)
		return false, nil
	}

	links, err := e.Links.ExtractLinks(html, pageURL, req.ModelNumber)
	if err != nil {
		e.logf("  explore: extract links %s failed: %v", pageURL, err)
		return false, nil
	}
	offered := SelectLinks(links, e.topKPerTier())

	// Model-tier PDF links are candidates in their own right, before the
	// classifier weighs in. They rank below classifier-confirmed finds.
	for _, l := range offered {
		if l.Tier >= manualagent.TierModel && HasPDFExtension(l.URL) {
			*candidates = append(*candidates, &manualagent.Candidate{
				URL:      l.URL,
				Source:   manualagent.SourcePageExtract,
				Judgment: manualagent.JudgmentPending,
				Title:    l.Text,
			})
		}
	}

	title, excerpt := e.excerpt(html)
	page := manualagent.PageContext{
		URL:          pageURL,
		Title:        title,
		Manufacturer: req.Manufacturer,
		Model:        req.ModelNumber,
		Excerpt:      excerpt,
		Links:        offered,
	}

	cls, err := e.Classifier.Classify(ctx, page)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if manualagent.ErrorCode(err) == manualagent.EQUOTA {
			return false, err
		}
		e.logf("  explore: classify %s failed: %v", pageURL, err)
		return false, nil
	}

	switch cls.Action {
	case manualagent.ActionFoundPDF:
		*candidates = append(*candidates, &manualagent.Candidate{
			URL:      cls.PDFURL,
			Source:   manualagent.SourceExplore,
			Judgment: manualagent.JudgmentYes,
		})
		return true, nil

	case manualagent.ActionExploreLinks:
		for _, next := range cls.ExploreURLs {
			found, err := e.explore(ctx, next, req, visited, depth+1, candidates)
			if err != nil {
				return false, err
			}
			if found {
				return true, nil
			}
		}
	}

	return false, nil
}

// excerpt builds a bounded markdown rendering of the page's main content.
// Extraction is best-effort: a page the extractor chokes on still gets
// classified, just from its links alone.
func (e *Explorer) excerpt(html string) (title, markdown string) {
	if e.Extractor == nil || e.Converter == nil {
		return "", ""
	}
	extracted, err := e.Extractor.Extract(html)
	if err != nil {
		return "", ""
	}
	markdown, err = e.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return extracted.Title, ""
	}
	if len(markdown) > maxExcerptBytes {
		markdown = markdown[:maxExcerptBytes]
	}
	return extracted.Title, markdown
}

// SelectLinks picks the top-K links per tier, highest tiers first, capped at
// maxOfferedLinks total. TierIgnore links never make the cut. Order within a
// tier follows document order, so selection is deterministic.
func SelectLinks(links []manualagent.DiscoveredLink, topK int) []manualagent.DiscoveredLink {
	byTier := make(map[manualagent.LinkTier][]manualagent.DiscoveredLink)
	var tiers []manualagent.LinkTier
	for _, l := range links {
		if l.Tier <= manualagent.TierIgnore {
			continue
		}
		if _, ok := byTier[l.Tier]; !ok {
			tiers = append(tiers, l.Tier)
		}
		byTier[l.Tier] = append(byTier[l.Tier], l)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] > tiers[j] })

	var out []manualagent.DiscoveredLink
	for _, t := range tiers {
		group := byTier[t]
		if len(group) > topK {
			group = group[:topK]
		}
		out = append(out, group...)
		if len(out) >= maxOfferedLinks {
			return out[:maxOfferedLinks]
		}
	}
	return out
}

func (e *Explorer) maxDepth() int {
	if e.MaxDepth > 0 {
		return e.MaxDepth
	}
	return defaultMaxDepth
}

func (e *Explorer) topKPerTier() int {
	if e.TopKPerTier > 0 {
		return e.TopKPerTier
	}
	return defaultTopKPerTier
}

func (e *Explorer) retryDelays() []time.Duration {
	if e.RetryDelays != nil {
		return e.RetryDelays
	}
	return DefaultRetryDelays()
}

func (e *Explorer) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger(format, args...)
	}
}
