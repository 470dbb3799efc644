// Package crawl implements the manual discovery engine: query planning,
// staged search, bounded depth-first page exploration with LLM link
// classification, deterministic candidate ranking, and verification.
package crawl

import (
	"fmt"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

// Query planning limits. Each query costs daily search quota, so a single
// discovery call is capped regardless of how many domains are known.
const (
	maxQueriesPerStage = 6
	maxSiteQueries     = 3
)

// PlanQueries builds the ordered, bounded query list for one stage.
//
// Site-restricted queries against known manufacturer domains come first
// (highest precision), then the unrestricted query, then an unhyphenated
// model variant to catch manufacturers that list models without separators.
// Direct-stage queries carry the filetype:pdf operator; page-stage queries
// drop it to surface manual-listing pages instead.
func PlanQueries(req manualagent.DiscoveryRequest, stage manualagent.SearchStage, domains []string) []manualagent.SearchQuery {
	text := fmt.Sprintf("%s %s 取扱説明書", req.Manufacturer, req.ModelNumber)
	pdf := stage == manualagent.StageDirect

	var queries []manualagent.SearchQuery
	for i, d := range domains {
		if i >= maxSiteQueries {
			break
		}
		queries = append(queries, manualagent.SearchQuery{
			Text:        text,
			Site:        d,
			FileTypePDF: pdf,
			Stage:       stage,
		})
	}

	queries = append(queries, manualagent.SearchQuery{
		Text:        text,
		FileTypePDF: pdf,
		Stage:       stage,
	})

	if variants := manualagent.ModelVariants(req.ModelNumber); len(variants) > 1 {
		queries = append(queries, manualagent.SearchQuery{
			Text:        fmt.Sprintf("%s %s 取扱説明書", req.Manufacturer, variants[1]),
			FileTypePDF: pdf,
			Stage:       stage,
		})
	}

	if len(queries) > maxQueriesPerStage {
		queries = queries[:maxQueriesPerStage]
	}
	return queries
}
