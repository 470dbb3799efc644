package slog

import (
	"context"
	"log/slog"
	"time"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

// Ensure LoggingVerifier implements manualagent.Verifier.
var _ manualagent.Verifier = (*LoggingVerifier)(nil)

// LoggingVerifier wraps a Verifier with logging.
type LoggingVerifier struct {
	next   manualagent.Verifier
	logger *slog.Logger
}

// NewLoggingVerifier creates a new LoggingVerifier.
func NewLoggingVerifier(next manualagent.Verifier, logger *slog.Logger) *LoggingVerifier {
	return &LoggingVerifier{next: next, logger: logger}
}

// Verify delegates to the wrapped verifier and logs the outcome.
func (v *LoggingVerifier) Verify(ctx context.Context, c *manualagent.Candidate, req manualagent.DiscoveryRequest) (err error) {
	defer func(begin time.Time) {
		v.logger.Info("verify",
			"url", c.URL,
			"verified", c.Verified,
			"judgment", string(c.Judgment),
			"fail_reason", c.VerifyFailReason,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return v.next.Verify(ctx, c, req)
}
