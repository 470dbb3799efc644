// Package trafilatura extracts main content from crawled support pages,
// removing boilerplate. The discovery engine converts the result to markdown
// and includes a bounded excerpt in classifier prompts.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	manualagent "github.com/robeeeeeet/manual-agent-sub002"
	"golang.org/x/net/html"
)

// Ensure Extractor implements manualagent.Extractor at compile time.
var _ manualagent.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content with boilerplate
// (nav, footer, sidebar, ads) removed.
func (e *Extractor) Extract(rawHTML string) (*manualagent.ExtractResult, error) {
	if rawHTML == "" {
		return nil, manualagent.Errorf(manualagent.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &manualagent.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
