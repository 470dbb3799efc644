package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
	"google.golang.org/genai"
)

// Ensure Checker implements manualagent.ProductChecker at compile time.
var _ manualagent.ProductChecker = (*Checker)(nil)

// Checker confirms from a document excerpt whether it describes the
// requested product. Used as the optional content check during candidate
// verification.
type Checker struct {
	client *genai.Client
}

// NewChecker creates a new Checker.
func NewChecker(client *genai.Client) *Checker {
	return &Checker{client: client}
}

// ConfirmProduct asks whether the excerpt belongs to a manual for the given
// manufacturer and model. An unparseable response counts as not confirmed;
// only transport failures return an error.
func (c *Checker) ConfirmProduct(ctx context.Context, excerpt, manufacturer, modelNumber string) (bool, error) {
	if strings.TrimSpace(excerpt) == "" {
		return false, nil
	}

	result, err := c.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildCheckPrompt(excerpt, manufacturer, modelNumber)}},
		}},
		BuildCheckConfig(),
	)
	if err != nil {
		return false, classifyError(ctx, err)
	}
	if result == nil {
		return false, manualagent.Errorf(manualagent.EINTERNAL, "gemini returned nil result")
	}

	return ParseConfirmation(result.Text()), nil
}

// checkResponse mirrors the response schema.
type checkResponse struct {
	Match bool `json:"match"`
}

// ParseConfirmation parses a raw checker response. Malformed payloads count
// as not confirmed.
func ParseConfirmation(raw string) bool {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var resp checkResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return false
	}
	return resp.Match
}

// BuildCheckConfig returns the GenerateContentConfig for confirmation calls.
func BuildCheckConfig() *genai.GenerateContentConfig {
	temp := float32(0.0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You check whether a document excerpt belongs to the user manual of a specific appliance. Answer with the JSON schema only.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"match": {Type: genai.TypeBoolean},
			},
			Required: []string{"match"},
		},
	}
}

// BuildCheckPrompt builds the user prompt for one confirmation.
func BuildCheckPrompt(excerpt, manufacturer, modelNumber string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<product>\n<manufacturer>%s</manufacturer>\n<model>%s</model>\n</product>\n", manufacturer, modelNumber)
	fmt.Fprintf(&sb, "<excerpt>\n%s\n</excerpt>\n", excerpt)
	sb.WriteString("Does this excerpt come from the user manual for this product?")
	return sb.String()
}
