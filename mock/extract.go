package mock

import (
	"context"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

var _ manualagent.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of manualagent.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, baseURL, model string) ([]manualagent.DiscoveredLink, error)
}

func (e *LinkExtractor) ExtractLinks(html, baseURL, model string) ([]manualagent.DiscoveredLink, error) {
	return e.ExtractLinksFn(html, baseURL, model)
}

var _ manualagent.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of manualagent.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*manualagent.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*manualagent.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ manualagent.Converter = (*Converter)(nil)

// Converter is a mock implementation of manualagent.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ manualagent.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of manualagent.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *manualagent.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *manualagent.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
