package crawl_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
	"github.com/robeeeeeet/manual-agent-sub002/bloom"
	"github.com/robeeeeeet/manual-agent-sub002/crawl"
	"github.com/robeeeeeet/manual-agent-sub002/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExplorer() *crawl.Explorer {
	return &crawl.Explorer{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return "<html></html>", nil
			},
		},
		Links: &mock.LinkExtractor{
			ExtractLinksFn: func(_, _, _ string) ([]manualagent.DiscoveredLink, error) {
				return nil, nil
			},
		},
		RetryDelays: []time.Duration{0},
	}
}

func newVisited() *bloom.Visited {
	return bloom.NewVisited(1000, 0.01)
}

func TestExplorer_Explore(t *testing.T) {
	t.Parallel()

	req := manualagent.DiscoveryRequest{Manufacturer: "日立", ModelNumber: "MRO-S7D"}

	t.Run("classifier find becomes a confirmed candidate", func(t *testing.T) {
		t.Parallel()

		e := newTestExplorer()
		e.Links = &mock.LinkExtractor{
			ExtractLinksFn: func(_, _, _ string) ([]manualagent.DiscoveredLink, error) {
				return []manualagent.DiscoveredLink{
					{URL: "https://hitachi.co.jp/manual/mro-s7d_M.pdf", Tier: manualagent.TierPDF},
				}, nil
			},
		}
		e.Classifier = &mock.LinkClassifier{
			ClassifyFn: func(_ context.Context, page manualagent.PageContext) (manualagent.Classification, error) {
				require.Len(t, page.Links, 1)
				return manualagent.Classification{
					Action: manualagent.ActionFoundPDF,
					PDFURL: page.Links[0].URL,
				}, nil
			},
		}

		candidates, err := e.Explore(context.Background(), "https://hitachi.co.jp/support", req, newVisited())

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "https://hitachi.co.jp/manual/mro-s7d_M.pdf", candidates[0].URL)
		assert.Equal(t, manualagent.SourceExplore, candidates[0].Source)
		assert.Equal(t, manualagent.JudgmentYes, candidates[0].Judgment)
	})

	t.Run("depth cap bounds the walk", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		fetched := 0
		next := 0

		e := newTestExplorer()
		e.MaxDepth = 3
		e.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				mu.Lock()
				fetched++
				mu.Unlock()
				return "<html></html>", nil
			},
		}
		e.Links = &mock.LinkExtractor{
			ExtractLinksFn: func(_, _, _ string) ([]manualagent.DiscoveredLink, error) {
				mu.Lock()
				next++
				url := fmt.Sprintf("https://hitachi.co.jp/page/%d", next)
				mu.Unlock()
				return []manualagent.DiscoveredLink{{URL: url, Tier: manualagent.TierSupport}}, nil
			},
		}
		e.Classifier = &mock.LinkClassifier{
			ClassifyFn: func(_ context.Context, page manualagent.PageContext) (manualagent.Classification, error) {
				return manualagent.Classification{
					Action:      manualagent.ActionExploreLinks,
					ExploreURLs: []string{page.Links[0].URL},
				}, nil
			},
		}

		_, err := e.Explore(context.Background(), "https://hitachi.co.jp/support", req, newVisited())

		require.NoError(t, err)
		assert.Equal(t, 3, fetched)
	})

	t.Run("cyclic links terminate", func(t *testing.T) {
		t.Parallel()

		fetched := 0
		e := newTestExplorer()
		e.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				fetched++
				return "<html></html>", nil
			},
		}
		e.Links = &mock.LinkExtractor{
			ExtractLinksFn: func(_, _, _ string) ([]manualagent.DiscoveredLink, error) {
				return []manualagent.DiscoveredLink{
					{URL: "https://hitachi.co.jp/a", Tier: manualagent.TierSupport},
					{URL: "https://hitachi.co.jp/b", Tier: manualagent.TierSupport},
				}, nil
			},
		}
		e.Classifier = &mock.LinkClassifier{
			ClassifyFn: func(_ context.Context, _ manualagent.PageContext) (manualagent.Classification, error) {
				return manualagent.Classification{
					Action:      manualagent.ActionExploreLinks,
					ExploreURLs: []string{"https://hitachi.co.jp/a", "https://hitachi.co.jp/b"},
				}, nil
			},
		}

		_, err := e.Explore(context.Background(), "https://hitachi.co.jp/a", req, newVisited())

		require.NoError(t, err)
		// a (seed) and b; revisits are suppressed by the visited set.
		assert.Equal(t, 2, fetched)
	})

	t.Run("model tier pdf links become candidates before classification", func(t *testing.T) {
		t.Parallel()

		e := newTestExplorer()
		e.Links = &mock.LinkExtractor{
			ExtractLinksFn: func(_, _, _ string) ([]manualagent.DiscoveredLink, error) {
				return []manualagent.DiscoveredLink{
					{URL: "https://hitachi.co.jp/manual/mro-s7d_M.pdf", Tier: manualagent.TierModel, Text: "MRO-S7D 取扱説明書"},
					{URL: "https://hitachi.co.jp/manual/other.pdf", Tier: manualagent.TierPDF},
				}, nil
			},
		}
		e.Classifier = &mock.LinkClassifier{
			ClassifyFn: func(_ context.Context, _ manualagent.PageContext) (manualagent.Classification, error) {
				return manualagent.Classification{Action: manualagent.ActionNoMatch}, nil
			},
		}

		candidates, err := e.Explore(context.Background(), "https://hitachi.co.jp/support", req, newVisited())

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "https://hitachi.co.jp/manual/mro-s7d_M.pdf", candidates[0].URL)
		assert.Equal(t, manualagent.SourcePageExtract, candidates[0].Source)
		assert.Equal(t, manualagent.JudgmentPending, candidates[0].Judgment)
	})

	t.Run("classifier failure prunes the branch only", func(t *testing.T) {
		t.Parallel()

		e := newTestExplorer()
		e.Classifier = &mock.LinkClassifier{
			ClassifyFn: func(_ context.Context, _ manualagent.PageContext) (manualagent.Classification, error) {
				return manualagent.Classification{}, manualagent.Errorf(manualagent.EUNAVAILABLE, "model overloaded")
			},
		}

		candidates, err := e.Explore(context.Background(), "https://hitachi.co.jp/support", req, newVisited())

		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("quota exhaustion aborts the walk", func(t *testing.T) {
		t.Parallel()

		e := newTestExplorer()
		e.Classifier = &mock.LinkClassifier{
			ClassifyFn: func(_ context.Context, _ manualagent.PageContext) (manualagent.Classification, error) {
				return manualagent.Classification{}, manualagent.Errorf(manualagent.EQUOTA, "token quota exhausted")
			},
		}

		_, err := e.Explore(context.Background(), "https://hitachi.co.jp/support", req, newVisited())

		require.Error(t, err)
		assert.Equal(t, manualagent.EQUOTA, manualagent.ErrorCode(err))
	})

	t.Run("find stops sibling exploration", func(t *testing.T) {
		t.Parallel()

		var fetchedURLs []string
		e := newTestExplorer()
		e.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				fetchedURLs = append(fetchedURLs, url)
				return "<html></html>", nil
			},
		}
		e.Links = &mock.LinkExtractor{
			ExtractLinksFn: func(_, baseURL, _ string) ([]manualagent.DiscoveredLink, error) {
				if baseURL == "https://hitachi.co.jp/a" {
					return []manualagent.DiscoveredLink{
						{URL: "https://hitachi.co.jp/manual.pdf", Tier: manualagent.TierPDF},
					}, nil
				}
				return []manualagent.DiscoveredLink{
					{URL: "https://hitachi.co.jp/a", Tier: manualagent.TierSupport},
					{URL: "https://hitachi.co.jp/b", Tier: manualagent.TierSupport},
				}, nil
			},
		}
		e.Classifier = &mock.LinkClassifier{
			ClassifyFn: func(_ context.Context, page manualagent.PageContext) (manualagent.Classification, error) {
				if page.URL == "https://hitachi.co.jp/a" {
					return manualagent.Classification{
						Action: manualagent.ActionFoundPDF,
						PDFURL: "https://hitachi.co.jp/manual.pdf",
					}, nil
				}
				return manualagent.Classification{
					Action:      manualagent.ActionExploreLinks,
					ExploreURLs: []string{"https://hitachi.co.jp/a", "https://hitachi.co.jp/b"},
				}, nil
			},
		}

		candidates, err := e.Explore(context.Background(), "https://hitachi.co.jp/support", req, newVisited())

		require.NoError(t, err)
		require.NotEmpty(t, candidates)
		assert.NotContains(t, fetchedURLs, "https://hitachi.co.jp/b")
	})
}

func TestSelectLinks(t *testing.T) {
	t.Parallel()

	t.Run("caps links per tier keeping document order", func(t *testing.T) {
		t.Parallel()

		var links []manualagent.DiscoveredLink
		for i := 0; i < 10; i++ {
			links = append(links, manualagent.DiscoveredLink{
				URL:  fmt.Sprintf("https://example.com/support/%d", i),
				Tier: manualagent.TierSupport,
			})
		}

		selected := crawl.SelectLinks(links, 5)

		require.Len(t, selected, 5)
		assert.Equal(t, "https://example.com/support/0", selected[0].URL)
	})

	t.Run("higher tiers come first", func(t *testing.T) {
		t.Parallel()

		links := []manualagent.DiscoveredLink{
			{URL: "https://example.com/other", Tier: manualagent.TierOther},
			{URL: "https://example.com/manual.pdf", Tier: manualagent.TierPDF},
			{URL: "https://example.com/support", Tier: manualagent.TierSupport},
			{URL: "https://example.com/mro-s7d.pdf", Tier: manualagent.TierModel},
		}

		selected := crawl.SelectLinks(links, 5)

		require.Len(t, selected, 4)
		assert.Equal(t, manualagent.TierModel, selected[0].Tier)
		assert.Equal(t, manualagent.TierPDF, selected[1].Tier)
		assert.Equal(t, manualagent.TierSupport, selected[2].Tier)
		assert.Equal(t, manualagent.TierOther, selected[3].Tier)
	})

	t.Run("ignored links never surface", func(t *testing.T) {
		t.Parallel()

		links := []manualagent.DiscoveredLink{
			{URL: "mailto:info@example.com", Tier: manualagent.TierIgnore},
		}

		assert.Empty(t, crawl.SelectLinks(links, 5))
	})
}
