package manualagent

import "context"

// LinkTier represents crawl priority for an extracted link
// (higher = more promising).
type LinkTier int

// Link tiers for crawl ordering. Model-matching links outrank bare .pdf
// links: a manual-listing page for the right model is worth more than an
// arbitrary PDF on the wrong page.
const (
	TierIgnore  LinkTier = 0
	TierOther   LinkTier = 10
	TierSupport LinkTier = 50
	TierPDF     LinkTier = 100
	TierModel   LinkTier = 110
)

// DiscoveredLink is an outgoing link extracted from a fetched page,
// annotated with its tier and anchor text.
type DiscoveredLink struct {
	URL  string
	Tier LinkTier
	Text string

	// Source labels where on the page the link came from ("anchor",
	// "sitemap").
	Source string
}

// ResolutionMethod describes how a URL was canonicalized.
type ResolutionMethod string

// Resolution outcomes. Unresolved links keep their original URL and carry a
// ranking penalty instead of failing the pipeline.
const (
	ResolutionDirect     ResolutionMethod = "direct"
	ResolutionRedirect   ResolutionMethod = "redirect"
	ResolutionUnresolved ResolutionMethod = "unresolved"
)

// ResolvedLink is the outcome of unwrapping an opaque or redirecting URL
// (e.g. a grounding chunk from a grounded-search API).
type ResolvedLink struct {
	CanonicalURL string
	OriginalURL  string
	Method       ResolutionMethod
}

// LinkResolver unwraps redirect URLs to canonical destination URLs via a
// bounded redirect-follow. Resolve never fails the pipeline: on error it
// returns the original URL with ResolutionUnresolved.
type LinkResolver interface {
	Resolve(ctx context.Context, url string) ResolvedLink
}

// LinkExtractor extracts tiered outgoing links from HTML.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns discovered links with tiers
	// assigned relative to the model identifier. The baseURL is used to
	// resolve relative URLs.
	ExtractLinks(html string, baseURL string, model string) ([]DiscoveredLink, error)
}
