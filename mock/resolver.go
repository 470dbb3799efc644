package mock

import (
	"context"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

var _ manualagent.LinkResolver = (*LinkResolver)(nil)

// LinkResolver is a mock implementation of manualagent.LinkResolver.
// If ResolveFn is nil, URLs resolve to themselves directly.
type LinkResolver struct {
	ResolveFn func(ctx context.Context, url string) manualagent.ResolvedLink
}

func (r *LinkResolver) Resolve(ctx context.Context, url string) manualagent.ResolvedLink {
	if r.ResolveFn == nil {
		return manualagent.ResolvedLink{
			CanonicalURL: url,
			OriginalURL:  url,
			Method:       manualagent.ResolutionDirect,
		}
	}
	return r.ResolveFn(ctx, url)
}
