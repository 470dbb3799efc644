// Package mock provides hand-rolled mock implementations of the root
// package interfaces for use in tests.
package mock

import (
	"context"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

var _ manualagent.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of manualagent.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query manualagent.SearchQuery) ([]manualagent.SearchHit, error)
}

func (s *SearchService) Search(ctx context.Context, query manualagent.SearchQuery) ([]manualagent.SearchHit, error) {
	return s.SearchFn(ctx, query)
}
