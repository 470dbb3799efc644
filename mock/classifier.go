package mock

import (
	"context"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

var _ manualagent.LinkClassifier = (*LinkClassifier)(nil)

// LinkClassifier is a mock implementation of manualagent.LinkClassifier.
type LinkClassifier struct {
	ClassifyFn func(ctx context.Context, page manualagent.PageContext) (manualagent.Classification, error)
}

func (c *LinkClassifier) Classify(ctx context.Context, page manualagent.PageContext) (manualagent.Classification, error) {
	return c.ClassifyFn(ctx, page)
}

var _ manualagent.ProductChecker = (*ProductChecker)(nil)

// ProductChecker is a mock implementation of manualagent.ProductChecker.
type ProductChecker struct {
	ConfirmProductFn func(ctx context.Context, excerpt, manufacturer, model string) (bool, error)
}

func (c *ProductChecker) ConfirmProduct(ctx context.Context, excerpt, manufacturer, model string) (bool, error) {
	return c.ConfirmProductFn(ctx, excerpt, manufacturer, model)
}
