package manualagent

import "context"

// Verifier downloads a candidate and confirms it is genuinely a PDF for the
// requested product.
//
// Verify mutates the candidate in place: on success it sets Verified,
// Judgment and ContentHash; on failure it records VerifyFailReason and
// demotes the judgment without deleting the candidate. The returned error is
// non-nil only for infrastructure problems (context cancellation); a
// candidate failing verification is a recorded outcome, not an error.
type Verifier interface {
	Verify(ctx context.Context, c *Candidate, req DiscoveryRequest) error
}
