package manualagent

import "context"

// SearchStage identifies which phase of the discovery protocol issued a query.
type SearchStage string

// Discovery stages. Direct queries constrain results to PDF files; page
// queries run only when the direct stage produced no verified candidate.
const (
	StageDirect SearchStage = "direct"
	StagePage   SearchStage = "page"
)

// SearchQuery is a single keyword search attempt. Queries are ephemeral,
// created per discovery call by the planner.
type SearchQuery struct {
	// Text is the keyword portion, e.g. "日立 MRO-S7D 取扱説明書".
	Text string

	// Site restricts results to a domain via the site: operator. Empty
	// means unrestricted.
	Site string

	// FileTypePDF appends the filetype:pdf operator.
	FileTypePDF bool

	// Stage records which discovery stage produced this query.
	Stage SearchStage
}

// String renders the query with its search operators applied.
func (q SearchQuery) String() string {
	s := q.Text
	if q.FileTypePDF {
		s += " filetype:pdf"
	}
	if q.Site != "" {
		s += " site:" + q.Site
	}
	return s
}

// SearchHit is a single ranked result from the search backend.
type SearchHit struct {
	URL     string
	Title   string
	Snippet string

	// Query is the rendered query string that produced this hit.
	Query string
}

// SearchService wraps an external keyword search API.
//
// Implementations must return EQUOTA when the backend reports quota
// exhaustion; callers treat that as fatal to the whole discovery call.
// Transient backend failures should map to EUNAVAILABLE or ETIMEOUT so the
// caller can retry them.
type SearchService interface {
	Search(ctx context.Context, query SearchQuery) ([]SearchHit, error)
}
