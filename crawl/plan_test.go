package crawl_test

import (
	"testing"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
	"github.com/robeeeeeet/manual-agent-sub002/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanQueries(t *testing.T) {
	t.Parallel()

	req := manualagent.DiscoveryRequest{
		Manufacturer: "日立",
		ModelNumber:  "MRO-S7D",
	}

	t.Run("site queries come before unrestricted", func(t *testing.T) {
		t.Parallel()

		queries := crawl.PlanQueries(req, manualagent.StageDirect, []string{"kadenfan.hitachi.co.jp"})

		require.GreaterOrEqual(t, len(queries), 2)
		assert.Equal(t, "kadenfan.hitachi.co.jp", queries[0].Site)
		assert.Equal(t, "", queries[1].Site)
	})

	t.Run("direct stage carries filetype operator", func(t *testing.T) {
		t.Parallel()

		queries := crawl.PlanQueries(req, manualagent.StageDirect, nil)

		require.NotEmpty(t, queries)
		for _, q := range queries {
			assert.True(t, q.FileTypePDF)
			assert.Contains(t, q.String(), "filetype:pdf")
		}
	})

	t.Run("page stage drops filetype operator", func(t *testing.T) {
		t.Parallel()

		queries := crawl.PlanQueries(req, manualagent.StagePage, nil)

		require.NotEmpty(t, queries)
		for _, q := range queries {
			assert.False(t, q.FileTypePDF)
			assert.NotContains(t, q.String(), "filetype:pdf")
		}
	})

	t.Run("includes unhyphenated model variant", func(t *testing.T) {
		t.Parallel()

		queries := crawl.PlanQueries(req, manualagent.StageDirect, nil)

		var texts []string
		for _, q := range queries {
			texts = append(texts, q.Text)
		}
		assert.Contains(t, texts, "日立 MROS7D 取扱説明書")
	})

	t.Run("caps site queries", func(t *testing.T) {
		t.Parallel()

		domains := []string{"a.example", "b.example", "c.example", "d.example", "e.example"}
		queries := crawl.PlanQueries(req, manualagent.StageDirect, domains)

		siteCount := 0
		for _, q := range queries {
			if q.Site != "" {
				siteCount++
			}
		}
		assert.Equal(t, 3, siteCount)
		assert.LessOrEqual(t, len(queries), 6)
	})

	t.Run("model without hyphen yields no variant query", func(t *testing.T) {
		t.Parallel()

		plain := manualagent.DiscoveryRequest{Manufacturer: "Sharp", ModelNumber: "AXXS500"}
		queries := crawl.PlanQueries(plain, manualagent.StageDirect, nil)

		assert.Len(t, queries, 1)
	})
}
