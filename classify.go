package manualagent

import "context"

// ClassifierAction is the tagged result variant a link classifier must
// return. Exactly one action applies; free-form responses are invalid and
// map to ActionNoMatch at the implementation boundary.
type ClassifierAction string

// Classifier actions.
const (
	ActionFoundPDF     ClassifierAction = "found_pdf"
	ActionExploreLinks ClassifierAction = "explore_links"
	ActionNoMatch      ClassifierAction = "no_match"
)

// Classification is the structured verdict for one crawled page.
type Classification struct {
	Action ClassifierAction

	// PDFURL is set when Action is ActionFoundPDF. It must be one of the
	// offered link URLs, never a URL the classifier invented.
	PDFURL string

	// ExploreURLs is set when Action is ActionExploreLinks, ordered most
	// promising first. Each must be one of the offered link URLs.
	ExploreURLs []string
}

// PageContext is the classifier input for one page: identifying details of
// the wanted product plus a pre-filtered, tiered link set. The classifier
// never sees the raw DOM; constraining it to choose among verifiable,
// already-extracted URLs is what makes its output trustworthy.
type PageContext struct {
	URL          string
	Title        string
	Manufacturer string
	Model        string

	// Excerpt is a bounded markdown rendering of the page's main content,
	// boilerplate removed.
	Excerpt string

	// Links is the top-K-per-tier subset of extracted links.
	Links []DiscoveredLink
}

// LinkClassifier decides, for one crawled page, whether a manual PDF was
// found, which links to explore next, or that the page is a dead end.
//
// Implementations must validate the response against the offered link set
// and map any malformed or out-of-set answer to ActionNoMatch rather than
// returning an error; a bad classifier response prunes one crawl branch, it
// never fails the discovery call.
type LinkClassifier interface {
	Classify(ctx context.Context, page PageContext) (Classification, error)
}

// ProductChecker confirms from a text excerpt whether a document describes
// the requested product. Used as an optional content check during
// verification.
type ProductChecker interface {
	ConfirmProduct(ctx context.Context, excerpt, manufacturer, model string) (bool, error)
}
