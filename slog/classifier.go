package slog

import (
	"context"
	"log/slog"
	"time"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

// Ensure LoggingClassifier implements manualagent.LinkClassifier.
var _ manualagent.LinkClassifier = (*LoggingClassifier)(nil)

// LoggingClassifier wraps a LinkClassifier with logging.
type LoggingClassifier struct {
	next   manualagent.LinkClassifier
	logger *slog.Logger
}

// NewLoggingClassifier creates a new LoggingClassifier.
func NewLoggingClassifier(next manualagent.LinkClassifier, logger *slog.Logger) *LoggingClassifier {
	return &LoggingClassifier{next: next, logger: logger}
}

// Classify delegates to the wrapped classifier and logs the verdict.
func (c *LoggingClassifier) Classify(ctx context.Context, page manualagent.PageContext) (cls manualagent.Classification, err error) {
	defer func(begin time.Time) {
		c.logger.Info("classify",
			"url", page.URL,
			"links", len(page.Links),
			"action", string(cls.Action),
			"explore", len(cls.ExploreURLs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Classify(ctx, page)
}
