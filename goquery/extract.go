// Package goquery extracts and tiers outgoing links from HTML pages using
// CSS selection. Tiering happens here, before any classifier call: the
// classifier only ever sees a pre-filtered, verifiable candidate set.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

// Ensure Extractor implements manualagent.LinkExtractor at compile time.
var _ manualagent.LinkExtractor = (*Extractor)(nil)

// supportKeywords mark links likely to lead toward a manual page. Japanese
// manufacturer sites label these 取扱説明書/サポート; English sites use
// manual/support/download.
var supportKeywords = []string{
	"manual", "support", "download", "instruction", "document",
	"取扱説明書", "説明書", "サポート", "ダウンロード", "マニュアル",
}

// Extractor extracts tiered links from HTML with goquery.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractLinks parses HTML and returns outgoing links tiered against the
// model identifier. Relative URLs are resolved against baseURL. Duplicates
// keep the highest tier; document order is preserved otherwise.
//
// Off-site links are kept only when they match the model or end in .pdf:
// manufacturers commonly serve manuals from separate download hosts, but
// unrelated off-site links are noise.
func (e *Extractor) ExtractLinks(html string, baseURL string, model string) ([]manualagent.DiscoveredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, manualagent.Errorf(manualagent.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, manualagent.Errorf(manualagent.EINVALID, "failed to parse HTML: %v", err)
	}

	// Track seen URLs with their index in the result slice for O(1) updates
	seen := make(map[string]int)
	var links []manualagent.DiscoveredLink

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}
		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}

		text := strings.TrimSpace(sel.Text())
		tier := tierFor(resolved, text, model)
		if tier == manualagent.TierIgnore {
			return
		}

		if !isSameHost(base, resolved) && tier < manualagent.TierPDF {
			return
		}

		link := manualagent.DiscoveredLink{
			URL:    resolved,
			Tier:   tier,
			Text:   text,
			Source: "anchor",
		}

		if idx, ok := seen[resolved]; ok {
			// Keep the highest tier seen for this URL
			if tier > links[idx].Tier {
				links[idx] = link
			}
		} else {
			seen[resolved] = len(links)
			links = append(links, link)
		}
	})

	return links, nil
}

// tierFor assigns a crawl tier to a link. Model-identifier matches outrank
// bare .pdf URLs, which outrank generic support navigation.
func tierFor(resolved, text, model string) manualagent.LinkTier {
	if manualagent.MatchesModel(resolved, model) || manualagent.MatchesModel(text, model) {
		return manualagent.TierModel
	}
	if hasPDFExtension(resolved) {
		return manualagent.TierPDF
	}
	lower := strings.ToLower(resolved + " " + text)
	for _, kw := range supportKeywords {
		if strings.Contains(lower, kw) {
			return manualagent.TierSupport
		}
	}
	return manualagent.TierOther
}

// hasPDFExtension checks the URL path (not query) for a .pdf suffix.
func hasPDFExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.HasSuffix(strings.ToLower(rawURL), ".pdf")
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed or if the resolved URL
// is self-referential (same as base URL after stripping fragment).
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = "" // Strip fragment for deduplication

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isSameHost checks if the resolved URL has the same host as the base URL.
// Exact host matching - subdomains are considered different hosts.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
