package mock

import (
	"context"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

var _ manualagent.DomainService = (*DomainService)(nil)

// DomainService is a mock implementation of manualagent.DomainService.
type DomainService struct {
	FindDomainsFn   func(ctx context.Context, manufacturer string) ([]*manualagent.ManufacturerDomain, error)
	RecordSuccessFn func(ctx context.Context, manufacturer, domain string) error
}

func (s *DomainService) FindDomains(ctx context.Context, manufacturer string) ([]*manualagent.ManufacturerDomain, error) {
	return s.FindDomainsFn(ctx, manufacturer)
}

func (s *DomainService) RecordSuccess(ctx context.Context, manufacturer, domain string) error {
	return s.RecordSuccessFn(ctx, manufacturer, domain)
}
