package mock

import (
	"context"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

var _ manualagent.Verifier = (*Verifier)(nil)

// Verifier is a mock implementation of manualagent.Verifier.
type Verifier struct {
	VerifyFn func(ctx context.Context, c *manualagent.Candidate, req manualagent.DiscoveryRequest) error
}

func (v *Verifier) Verify(ctx context.Context, c *manualagent.Candidate, req manualagent.DiscoveryRequest) error {
	return v.VerifyFn(ctx, c, req)
}
