package crawl

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

var _ manualagent.Verifier = (*Verifier)(nil)

// pdfMagic is the PDF file signature. Verification trusts these bytes, never
// the Content-Type header: manufacturer CDNs routinely serve PDFs as
// application/octet-stream, and error pages as application/pdf.
var pdfMagic = []byte("%PDF-")

// Verification failure reasons recorded on candidates.
const (
	reasonNotPDF          = "not_pdf"
	reasonProductMismatch = "product_mismatch"
	reasonDownloadFailed  = "download_failed"
)

// modelScanLimit bounds how much of the document body the model scan reads.
// Model identifiers appear on the cover page, within the first fraction of
// the file.
const modelScanLimit = 1 << 20

// Verifier downloads a candidate and checks it byte-level: PDF signature
// first, then a scan for the model identifier, then an optional content
// check. Verification outcomes are recorded on the candidate; only context
// cancellation surfaces as an error.
type Verifier struct {
	Downloader  manualagent.Downloader
	Checker     manualagent.ProductChecker
	RateLimiter manualagent.DomainLimiter
	RetryDelays []time.Duration
	Logger      LogFunc
}

// Verify downloads the candidate URL and mutates the candidate with the
// outcome. A passing signature check sets Verified with JudgmentMaybe; a
// model-identifier hit in the document bytes upgrades to JudgmentYes; a
// ProductChecker veto downgrades to a recorded mismatch.
func (v *Verifier) Verify(ctx context.Context, c *manualagent.Candidate, req manualagent.DiscoveryRequest) error {
	if u, err := url.Parse(c.URL); err == nil && v.RateLimiter != nil {
		if err := v.RateLimiter.Wait(ctx, u.Host); err != nil {
			return err
		}
	}

	dl, err := WithRetryDelays(ctx, c.URL, func(ctx context.Context) (*manualagent.Download, error) {
		return v.Downloader.Download(ctx, c.URL)
	}, v.Logger, v.retryDelays())
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Verified = false
		c.VerifyFailReason = fmt.Sprintf("%s: %s", reasonDownloadFailed, manualagent.ErrorMessage(err))
		return nil
	}

	if !IsPDF(dl.Body) {
		c.Verified = false
		c.Judgment = manualagent.JudgmentNo
		c.VerifyFailReason = reasonNotPDF
		return nil
	}

	c.ContentHash = fmt.Sprintf("%x", xxhash.Sum64(dl.Body))
	c.Verified = true
	if c.Judgment == manualagent.JudgmentPending || c.Judgment == "" {
		c.Judgment = manualagent.JudgmentMaybe
	}

	if scanForModel(dl.Body, req.ModelNumber) {
		c.Judgment = manualagent.JudgmentYes
		return nil
	}

	// No model hit in the bytes. The optional content check gets the final
	// say; its transport failures leave the candidate at maybe.
	if v.Checker != nil {
		ok, err := v.Checker.ConfirmProduct(ctx, textExcerpt(dl.Body), req.Manufacturer, req.ModelNumber)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			v.logf("  verify: product check %s failed: %v", c.URL, err)
			return nil
		}
		if !ok {
			c.Verified = false
			c.Judgment = manualagent.JudgmentNo
			c.VerifyFailReason = reasonProductMismatch
		} else {
			c.Judgment = manualagent.JudgmentYes
		}
	}

	return nil
}

// IsPDF reports whether the bytes begin with the PDF signature.
func IsPDF(body []byte) bool {
	return bytes.HasPrefix(body, pdfMagic)
}

// scanForModel searches the leading document bytes for any normalized
// spelling of the model identifier. PDFs store cover-page text in a mix of
// encodings; a plain byte scan over the variants catches the common
// uncompressed cases and never false-positives.
func scanForModel(body []byte, model string) bool {
	if len(body) > modelScanLimit {
		body = body[:modelScanLimit]
	}
	lower := bytes.ToLower(body)
	for _, variant := range manualagent.ModelVariants(model) {
		if variant == "" {
			continue
		}
		if bytes.Contains(lower, bytes.ToLower([]byte(variant))) {
			return true
		}
	}
	return false
}

// textExcerpt pulls printable ASCII runs out of the leading document bytes,
// enough for a content check to recognize product names and model numbers.
func textExcerpt(body []byte) string {
	if len(body) > modelScanLimit {
		body = body[:modelScanLimit]
	}
	var buf bytes.Buffer
	start := -1
	for i := 0; i <= len(body); i++ {
		printable := i < len(body) && body[i] >= 0x20 && body[i] < 0x7f
		if printable {
			if start < 0 {
				start = i
			}
			continue
		}
		// Runs shorter than 4 bytes are binary noise, not text.
		if start >= 0 && i-start >= 4 {
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			buf.Write(body[start:i])
			if buf.Len() >= maxExcerptBytes {
				break
			}
		}
		start = -1
	}
	return buf.String()
}

func (v *Verifier) retryDelays() []time.Duration {
	if v.RetryDelays != nil {
		return v.RetryDelays
	}
	return DefaultRetryDelays()
}

func (v *Verifier) logf(format string, args ...any) {
	if v.Logger != nil {
		v.Logger(format, args...)
	}
}
