package crawl_test

import (
	"context"
	"testing"
	"time"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
	"github.com/robeeeeeet/manual-agent-sub002/crawl"
	"github.com/robeeeeeet/manual-agent-sub002/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pdfBody(content string) []byte {
	return []byte("%PDF-1.7\n" + content)
}

func newTestVerifier(body []byte, contentType string) *crawl.Verifier {
	return &crawl.Verifier{
		Downloader: &mock.Downloader{
			DownloadFn: func(_ context.Context, url string) (*manualagent.Download, error) {
				return &manualagent.Download{
					Body:        body,
					ContentType: contentType,
					FinalURL:    url,
				}, nil
			},
		},
		RetryDelays: []time.Duration{0},
	}
}

func TestVerifier_Verify(t *testing.T) {
	t.Parallel()

	req := manualagent.DiscoveryRequest{Manufacturer: "日立", ModelNumber: "MRO-S7D"}

	t.Run("pdf bytes with model mention verify as yes", func(t *testing.T) {
		t.Parallel()

		v := newTestVerifier(pdfBody("Hitachi MRO-S7D operating instructions"), "application/pdf")
		c := &manualagent.Candidate{URL: "https://hitachi.co.jp/mro-s7d_M.pdf", Judgment: manualagent.JudgmentPending}

		require.NoError(t, v.Verify(context.Background(), c, req))

		assert.True(t, c.Verified)
		assert.Equal(t, manualagent.JudgmentYes, c.Judgment)
		assert.NotEmpty(t, c.ContentHash)
		assert.Empty(t, c.VerifyFailReason)
	})

	t.Run("magic bytes win over a wrong content type", func(t *testing.T) {
		t.Parallel()

		v := newTestVerifier(pdfBody("MROS7D"), "application/octet-stream")
		c := &manualagent.Candidate{URL: "https://hitachi.co.jp/a.pdf", Judgment: manualagent.JudgmentPending}

		require.NoError(t, v.Verify(context.Background(), c, req))

		assert.True(t, c.Verified)
	})

	t.Run("html with pdf content type fails as not_pdf", func(t *testing.T) {
		t.Parallel()

		v := newTestVerifier([]byte("<html><body>404 Not Found</body></html>"), "application/pdf")
		c := &manualagent.Candidate{URL: "https://hitachi.co.jp/a.pdf", Judgment: manualagent.JudgmentPending}

		require.NoError(t, v.Verify(context.Background(), c, req))

		assert.False(t, c.Verified)
		assert.Equal(t, manualagent.JudgmentNo, c.Judgment)
		assert.Equal(t, "not_pdf", c.VerifyFailReason)
	})

	t.Run("pdf without model mention stays maybe", func(t *testing.T) {
		t.Parallel()

		v := newTestVerifier(pdfBody("scanned document, no text layer"), "application/pdf")
		c := &manualagent.Candidate{URL: "https://hitachi.co.jp/a.pdf", Judgment: manualagent.JudgmentPending}

		require.NoError(t, v.Verify(context.Background(), c, req))

		assert.True(t, c.Verified)
		assert.Equal(t, manualagent.JudgmentMaybe, c.Judgment)
	})

	t.Run("model scan matches normalized spellings", func(t *testing.T) {
		t.Parallel()

		v := newTestVerifier(pdfBody("model MROS7D series"), "application/pdf")
		c := &manualagent.Candidate{URL: "https://hitachi.co.jp/a.pdf", Judgment: manualagent.JudgmentPending}

		require.NoError(t, v.Verify(context.Background(), c, req))

		assert.Equal(t, manualagent.JudgmentYes, c.Judgment)
	})

	t.Run("product checker veto downgrades the candidate", func(t *testing.T) {
		t.Parallel()

		v := newTestVerifier(pdfBody("Panasonic NA-F50 washing machine guide"), "application/pdf")
		v.Checker = &mock.ProductChecker{
			ConfirmProductFn: func(_ context.Context, _, _, _ string) (bool, error) {
				return false, nil
			},
		}
		c := &manualagent.Candidate{URL: "https://example.com/a.pdf", Judgment: manualagent.JudgmentPending}

		require.NoError(t, v.Verify(context.Background(), c, req))

		assert.False(t, c.Verified)
		assert.Equal(t, manualagent.JudgmentNo, c.Judgment)
		assert.Equal(t, "product_mismatch", c.VerifyFailReason)
	})

	t.Run("product checker confirmation upgrades to yes", func(t *testing.T) {
		t.Parallel()

		v := newTestVerifier(pdfBody("no literal model string here"), "application/pdf")
		v.Checker = &mock.ProductChecker{
			ConfirmProductFn: func(_ context.Context, _, _, _ string) (bool, error) {
				return true, nil
			},
		}
		c := &manualagent.Candidate{URL: "https://hitachi.co.jp/a.pdf", Judgment: manualagent.JudgmentPending}

		require.NoError(t, v.Verify(context.Background(), c, req))

		assert.True(t, c.Verified)
		assert.Equal(t, manualagent.JudgmentYes, c.Judgment)
	})

	t.Run("checker transport failure leaves candidate at maybe", func(t *testing.T) {
		t.Parallel()

		v := newTestVerifier(pdfBody("no model string"), "application/pdf")
		v.Checker = &mock.ProductChecker{
			ConfirmProductFn: func(_ context.Context, _, _, _ string) (bool, error) {
				return false, manualagent.Errorf(manualagent.EUNAVAILABLE, "model overloaded")
			},
		}
		c := &manualagent.Candidate{URL: "https://hitachi.co.jp/a.pdf", Judgment: manualagent.JudgmentPending}

		require.NoError(t, v.Verify(context.Background(), c, req))

		assert.True(t, c.Verified)
		assert.Equal(t, manualagent.JudgmentMaybe, c.Judgment)
	})

	t.Run("download failure is recorded not returned", func(t *testing.T) {
		t.Parallel()

		v := &crawl.Verifier{
			Downloader: &mock.Downloader{
				DownloadFn: func(_ context.Context, _ string) (*manualagent.Download, error) {
					return nil, manualagent.Errorf(manualagent.ENOTFOUND, "404")
				},
			},
			RetryDelays: []time.Duration{0},
		}
		c := &manualagent.Candidate{URL: "https://hitachi.co.jp/gone.pdf", Judgment: manualagent.JudgmentPending}

		require.NoError(t, v.Verify(context.Background(), c, req))

		assert.False(t, c.Verified)
		assert.Contains(t, c.VerifyFailReason, "download_failed")
	})

	t.Run("canceled context surfaces as error", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		v := &crawl.Verifier{
			Downloader: &mock.Downloader{
				DownloadFn: func(ctx context.Context, _ string) (*manualagent.Download, error) {
					return nil, ctx.Err()
				},
			},
			RetryDelays: []time.Duration{0},
		}
		c := &manualagent.Candidate{URL: "https://hitachi.co.jp/a.pdf"}

		assert.Error(t, v.Verify(ctx, c, req))
	})
}

func TestIsPDF(t *testing.T) {
	t.Parallel()

	assert.True(t, crawl.IsPDF([]byte("%PDF-1.4\n...")))
	assert.False(t, crawl.IsPDF([]byte("<html>")))
	assert.False(t, crawl.IsPDF([]byte("%PDF")))
	assert.False(t, crawl.IsPDF(nil))
}
