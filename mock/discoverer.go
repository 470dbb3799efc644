package mock

import (
	"context"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

var _ manualagent.Discoverer = (*Discoverer)(nil)

// Discoverer is a mock implementation of manualagent.Discoverer.
type Discoverer struct {
	DiscoverFn func(ctx context.Context, req manualagent.DiscoveryRequest) (*manualagent.DiscoveryResult, error)
}

func (d *Discoverer) Discover(ctx context.Context, req manualagent.DiscoveryRequest) (*manualagent.DiscoveryResult, error) {
	return d.DiscoverFn(ctx, req)
}
