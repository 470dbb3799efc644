// Package gemini implements LLM-backed link classification and product
// confirmation using Google Gemini with structured JSON output.
//
// The classifier never generates URLs. It is constrained by a response
// schema to pick among links the crawler already extracted and verified to
// exist; anything outside that set is discarded. Unconstrained URL
// generation is exactly the failure mode this engine exists to replace.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Classifier implements manualagent.LinkClassifier at compile time.
var _ manualagent.LinkClassifier = (*Classifier)(nil)

// Classifier implements manualagent.LinkClassifier using Google Gemini.
type Classifier struct {
	client *genai.Client
}

// NewClassifier creates a new Classifier.
func NewClassifier(client *genai.Client) *Classifier {
	return &Classifier{client: client}
}

// Classify decides whether one of the offered links is the manual PDF,
// which links to explore next, or that the page is a dead end.
//
// A malformed or out-of-set response maps to ActionNoMatch; only transport
// failures return an error.
func (c *Classifier) Classify(ctx context.Context, page manualagent.PageContext) (manualagent.Classification, error) {
	if len(page.Links) == 0 {
		return manualagent.Classification{Action: manualagent.ActionNoMatch}, nil
	}

	result, err := c.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildClassifyPrompt(page)}},
		}},
		BuildClassifyConfig(),
	)
	if err != nil {
		return manualagent.Classification{}, classifyError(ctx, err)
	}
	if result == nil {
		return manualagent.Classification{}, manualagent.Errorf(manualagent.EINTERNAL, "gemini returned nil result")
	}

	return ParseClassification(result.Text(), page.Links), nil
}

// classifyResponse mirrors the response schema.
type classifyResponse struct {
	Action      string   `json:"action"`
	PDFURL      string   `json:"pdf_url,omitempty"`
	ExploreURLs []string `json:"explore_urls,omitempty"`
}

// ParseClassification validates a raw classifier response against the
// offered link set. Invalid payloads map deterministically to ActionNoMatch,
// never to a crash: a bad response prunes one crawl branch.
func ParseClassification(raw string, offered []manualagent.DiscoveredLink) manualagent.Classification {
	noMatch := manualagent.Classification{Action: manualagent.ActionNoMatch}

	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var resp classifyResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return noMatch
	}

	offeredSet := make(map[string]bool, len(offered))
	for _, l := range offered {
		offeredSet[l.URL] = true
	}

	switch manualagent.ClassifierAction(resp.Action) {
	case manualagent.ActionFoundPDF:
		// The chosen URL must come from the offered set.
		if !offeredSet[resp.PDFURL] {
			return noMatch
		}
		return manualagent.Classification{
			Action: manualagent.ActionFoundPDF,
			PDFURL: resp.PDFURL,
		}

	case manualagent.ActionExploreLinks:
		var urls []string
		for _, u := range resp.ExploreURLs {
			if offeredSet[u] {
				urls = append(urls, u)
			}
		}
		if len(urls) == 0 {
			return noMatch
		}
		return manualagent.Classification{
			Action:      manualagent.ActionExploreLinks,
			ExploreURLs: urls,
		}

	case manualagent.ActionNoMatch:
		return noMatch

	default:
		return noMatch
	}
}

// BuildClassifyConfig returns the GenerateContentConfig for classification
// calls: deterministic temperature and a strict JSON response schema
// allowing exactly the three tagged actions.
func BuildClassifyConfig() *genai.GenerateContentConfig {
	temp := float32(0.0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You navigate manufacturer support sites to locate the official PDF user manual for a specific appliance model. You may only answer with URLs from the provided link list. If one of the links is the manual PDF itself, answer found_pdf. If some links likely lead to the manual, answer explore_links with those URLs ordered most promising first. Otherwise answer no_match.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"action": {
					Type: genai.TypeString,
					Enum: []string{"found_pdf", "explore_links", "no_match"},
				},
				"pdf_url": {Type: genai.TypeString},
				"explore_urls": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"action"},
		},
	}
}

// BuildClassifyPrompt builds the user prompt for one page: product identity,
// a bounded excerpt of the page content, and the tiered link list.
func BuildClassifyPrompt(page manualagent.PageContext) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<product>\n<manufacturer>%s</manufacturer>\n<model>%s</model>\n</product>\n", page.Manufacturer, page.Model)
	fmt.Fprintf(&sb, "<page url=%q title=%q>\n", page.URL, page.Title)
	if page.Excerpt != "" {
		fmt.Fprintf(&sb, "<excerpt>\n%s\n</excerpt>\n", page.Excerpt)
	}
	sb.WriteString("<links>\n")
	for i, l := range page.Links {
		fmt.Fprintf(&sb, "<link index=\"%d\" url=%q>%s</link>\n", i+1, l.URL, l.Text)
	}
	sb.WriteString("</links>\n</page>\n")
	sb.WriteString("Which action applies? Answer with the JSON schema only.")
	return sb.String()
}
