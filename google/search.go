// Package google implements keyword search against the Google Programmable
// Search (Custom Search JSON) API.
package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

// DefaultBaseURL is the Custom Search JSON API endpoint.
const DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// DefaultSearchTimeout bounds a single search call.
const DefaultSearchTimeout = 10 * time.Second

// maxResults caps results per query; the API allows at most 10 per page and
// one page is plenty for manual discovery.
const maxResults = 10

// Ensure SearchService implements manualagent.SearchService at compile time.
var _ manualagent.SearchService = (*SearchService)(nil)

// SearchService calls the Custom Search JSON API.
//
// Quota errors (HTTP 429, or 403 with a rate-limit reason) map to EQUOTA:
// the discovery engine treats those as fatal to the whole call. Server
// errors map to EUNAVAILABLE and are retried by the caller.
type SearchService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	cseID   string
}

// SearchOption configures a SearchService.
type SearchOption func(*SearchService)

// WithBaseURL overrides the API endpoint. Used in tests.
func WithBaseURL(u string) SearchOption {
	return func(s *SearchService) {
		s.baseURL = u
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) SearchOption {
	return func(s *SearchService) {
		s.client = c
	}
}

// NewSearchService creates a new SearchService with the given API key and
// search engine ID.
func NewSearchService(apiKey, cseID string, opts ...SearchOption) *SearchService {
	s := &SearchService{
		client:  &http.Client{Timeout: DefaultSearchTimeout},
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		cseID:   cseID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// searchResponse mirrors the API response fields we consume.
type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// apiError mirrors the API error envelope.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Search executes one keyword query and returns ranked hits.
func (s *SearchService) Search(ctx context.Context, query manualagent.SearchQuery) ([]manualagent.SearchHit, error) {
	rendered := query.String()

	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("cx", s.cseID)
	params.Set("q", rendered)
	params.Set("num", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, manualagent.Errorf(manualagent.EUNAVAILABLE, "search request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, manualagent.Errorf(manualagent.EUNAVAILABLE, "reading search response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyAPIError(resp.StatusCode, body)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, manualagent.Errorf(manualagent.EINTERNAL, "malformed search response: %v", err)
	}

	hits := make([]manualagent.SearchHit, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}
		hits = append(hits, manualagent.SearchHit{
			URL:     item.Link,
			Title:   item.Title,
			Snippet: item.Snippet,
			Query:   rendered,
		})
	}

	return hits, nil
}

// classifyAPIError maps API failures to application error codes by status
// and reason, never by matching free-text messages alone.
func classifyAPIError(status int, body []byte) error {
	var envelope apiError
	_ = json.Unmarshal(body, &envelope)
	reason := envelope.Error.Status

	switch {
	case status == http.StatusTooManyRequests:
		return manualagent.Errorf(manualagent.EQUOTA, "search quota exceeded")
	case status == http.StatusForbidden && strings.Contains(reason, "RESOURCE_EXHAUSTED"):
		return manualagent.Errorf(manualagent.EQUOTA, "search quota exceeded")
	case status >= 500:
		return manualagent.Errorf(manualagent.EUNAVAILABLE, "search backend error: HTTP %d", status)
	default:
		return manualagent.Errorf(manualagent.EINTERNAL, "search failed: HTTP %d %s", status, envelope.Error.Message)
	}
}
