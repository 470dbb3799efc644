// Package slog provides logging decorators for the root package interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

// Ensure LoggingSearchService implements manualagent.SearchService.
var _ manualagent.SearchService = (*LoggingSearchService)(nil)

// LoggingSearchService wraps a SearchService with logging. Every query costs
// daily quota, so the log is the audit trail for quota spend.
type LoggingSearchService struct {
	next   manualagent.SearchService
	logger *slog.Logger
}

// NewLoggingSearchService creates a new LoggingSearchService.
func NewLoggingSearchService(next manualagent.SearchService, logger *slog.Logger) *LoggingSearchService {
	return &LoggingSearchService{next: next, logger: logger}
}

// Search delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) Search(ctx context.Context, query manualagent.SearchQuery) (hits []manualagent.SearchHit, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", query.String(),
			"stage", string(query.Stage),
			"hits", len(hits),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query)
}
