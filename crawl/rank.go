package crawl

import (
	"net/url"
	"sort"
	"strings"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

// Ranking weights form a strict hierarchy: a model-identifier match always
// outranks a bare .pdf extension, which outranks any domain-trust or
// source-weight difference. The gate score (≤ trustBoost+maxConfidenceBoost,
// ≥ aggregatorPenalty) and source weights (≤ 30) cannot cross levels.
const (
	modelMatchWeight = 4000
	pdfExtWeight     = 2000

	unresolvedPenalty = 25
)

var sourceWeights = map[manualagent.CandidateSource]int{
	manualagent.SourceSearch:      30,
	manualagent.SourceExplore:     20,
	manualagent.SourcePageExtract: 10,
}

// Rank deduplicates candidates by URL and stable-sorts them by priority:
// model-identifier match, then .pdf extension, then domain trust, then
// source weight. Ties keep original discovery order, so repeated runs over
// the same inputs produce identical orderings.
//
// The input slice is not modified; candidates are ranked in place via their
// Priority field and returned as a new slice.
func Rank(candidates []*manualagent.Candidate, model string, gate *Gate) []*manualagent.Candidate {
	seen := make(map[string]bool, len(candidates))
	ranked := make([]*manualagent.Candidate, 0, len(candidates))

	for _, c := range candidates {
		if c.URL == "" || seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		c.Priority = priorityFor(c, model, gate)
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority > ranked[j].Priority
	})

	return ranked
}

// Active filters a ranked list down to candidates still worth verifying:
// judgment "no" drops out (it stays in diagnostics), and already-failed
// verifications are not retried.
func Active(ranked []*manualagent.Candidate) []*manualagent.Candidate {
	var active []*manualagent.Candidate
	for _, c := range ranked {
		if c.Judgment == manualagent.JudgmentNo {
			continue
		}
		if c.VerifyFailReason != "" {
			continue
		}
		active = append(active, c)
	}
	return active
}

func priorityFor(c *manualagent.Candidate, model string, gate *Gate) int {
	score := 0
	if manualagent.MatchesModel(c.URL, model) || manualagent.MatchesModel(c.Title, model) {
		score += modelMatchWeight
	}
	if HasPDFExtension(c.URL) {
		score += pdfExtWeight
	}
	if gate != nil {
		score += gate.Score(c.URL)
	}
	score += sourceWeights[c.Source]
	if c.Unresolved {
		score -= unresolvedPenalty
	}
	return score
}

// HasPDFExtension checks the URL path (not query) for a .pdf suffix.
func HasPDFExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.HasSuffix(strings.ToLower(rawURL), ".pdf")
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}
