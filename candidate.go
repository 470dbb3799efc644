package manualagent

// CandidateSource identifies how a candidate PDF URL was discovered.
type CandidateSource string

// Candidate sources, in decreasing order of prior reliability.
const (
	SourceSearch      CandidateSource = "google_search"
	SourceExplore     CandidateSource = "explore_link"
	SourcePageExtract CandidateSource = "page_extract"
)

// Judgment is the classification label attached to a candidate before and
// after evaluation.
type Judgment string

// Judgment labels. Pending is the default before any evaluation; yes
// short-circuits to immediate verification; no drops the candidate from the
// active list but keeps it in diagnostics.
const (
	JudgmentPending Judgment = "pending"
	JudgmentYes     Judgment = "yes"
	JudgmentMaybe   Judgment = "maybe"
	JudgmentNo      Judgment = "no"
)

// Candidate is a possible manual PDF collected during discovery. The ordered
// candidate set is the primary output artifact of a discovery call:
// unverifiable-but-plausible hits stay visible for support diagnosis.
type Candidate struct {
	URL      string          `json:"url"`
	Source   CandidateSource `json:"source"`
	Judgment Judgment        `json:"judgment"`
	Title    string          `json:"title,omitempty"`
	Snippet  string          `json:"snippet,omitempty"`

	// Verified is true only after a successful byte-level PDF signature
	// check on the downloaded content.
	Verified         bool   `json:"verified"`
	VerifyFailReason string `json:"verification_failed_reason,omitempty"`

	// ContentHash is the xxhash of the downloaded bytes, set during
	// verification. Useful for spotting duplicate manuals served from
	// multiple URLs.
	ContentHash string `json:"content_hash,omitempty"`

	// Unresolved marks a candidate whose redirect resolution failed and
	// whose URL is therefore the original opaque one. It carries a small
	// ranking penalty.
	Unresolved bool `json:"unresolved,omitempty"`

	// Priority is the ranking score computed by the candidate ranker.
	Priority int `json:"priority"`
}
