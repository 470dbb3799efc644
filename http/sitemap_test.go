package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
	mahttp "github.com/robeeeeeet/manual-agent-sub002/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("finds URLs via robots.txt directive", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		defer server.Close()

		mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "User-agent: *\nSitemap: %s/sitemap_products.xml\n", server.URL)
		})
		mux.HandleFunc("/sitemap_products.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%s/support/mro-s7d/</loc></url>
  <url><loc>%s/support/other/</loc></url>
</urlset>`, server.URL, server.URL)
		})

		svc := mahttp.NewSitemapService(nil)
		urls, err := svc.DiscoverURLs(context.Background(), server.URL, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{
			server.URL + "/support/mro-s7d/",
			server.URL + "/support/other/",
		}, urls)
	})

	t.Run("falls back to sitemap.xml and applies filter", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		defer server.Close()

		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%s/support/mro-s7d/</loc></url>
  <url><loc>%s/press/news/</loc></url>
</urlset>`, server.URL, server.URL)
		})

		svc := mahttp.NewSitemapService(nil)
		filter := &manualagent.URLFilter{
			Include: []*regexp.Regexp{regexp.MustCompile(`(?i)mro-?s7d`)},
		}
		urls, err := svc.DiscoverURLs(context.Background(), server.URL, filter)
		require.NoError(t, err)

		assert.Equal(t, []string{server.URL + "/support/mro-s7d/"}, urls)
	})

	t.Run("resolves sitemap index recursively", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		defer server.Close()

		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>%s/sitemap_support.xml</loc></sitemap>
</sitemapindex>`, server.URL)
		})
		mux.HandleFunc("/sitemap_support.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%s/support/manual-list/</loc></url>
</urlset>`, server.URL)
		})

		svc := mahttp.NewSitemapService(nil)
		urls, err := svc.DiscoverURLs(context.Background(), server.URL, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{server.URL + "/support/manual-list/"}, urls)
	})

	t.Run("returns empty slice when no sitemap exists", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		svc := mahttp.NewSitemapService(nil)
		urls, err := svc.DiscoverURLs(context.Background(), server.URL, nil)
		require.NoError(t, err)
		assert.Empty(t, urls)
	})
}
