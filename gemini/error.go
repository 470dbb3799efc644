package gemini

import (
	"context"
	"errors"
	"net/http"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
	"google.golang.org/genai"
)

// classifyError maps genai failures to application error codes, by status
// code and reason rather than message text. Quota exhaustion must surface as
// EQUOTA: the discovery engine aborts the whole call on it instead of
// burning the remaining deadline on doomed requests.
func classifyError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
			return manualagent.Errorf(manualagent.EQUOTA, "gemini quota exceeded: %s", apiErr.Message)
		case apiErr.Code >= 500:
			return manualagent.Errorf(manualagent.EUNAVAILABLE, "gemini backend error: HTTP %d", apiErr.Code)
		default:
			return manualagent.Errorf(manualagent.EINTERNAL, "gemini call failed: %s", apiErr.Message)
		}
	}

	return manualagent.Errorf(manualagent.EUNAVAILABLE, "gemini request failed: %v", err)
}
