package manualagent

import (
	"context"
	"time"
)

// ManufacturerDomain records that a domain served a verified manual for a
// manufacturer. It is the only persistent entity in the discovery engine and
// is shared across all discovery calls: one user's verified success improves
// ranking for every future lookup of that manufacturer.
type ManufacturerDomain struct {
	ID           string    `json:"id"`
	Manufacturer string    `json:"manufacturer"`
	Domain       string    `json:"domain"`
	Confidence   int       `json:"confidence"`
	LastVerified time.Time `json:"lastVerifiedAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate returns an error if the record contains invalid fields.
func (m *ManufacturerDomain) Validate() error {
	if m.Manufacturer == "" {
		return Errorf(EINVALID, "manufacturer required")
	}
	if m.Domain == "" {
		return Errorf(EINVALID, "domain required")
	}
	return nil
}

// DomainService persists the manufacturer domain cache.
//
// Confidence only increases: RecordSuccess increments on verified success
// and nothing ever decrements or deletes automatically. Concurrent discovery
// calls may upsert the same pair; the storage layer's native atomic upsert
// is sufficient (last-write-wins on the increment is acceptable).
type DomainService interface {
	// FindDomains returns all known domains for a manufacturer, most
	// confident first. Returns an empty slice (not an error) when the
	// manufacturer is unknown.
	FindDomains(ctx context.Context, manufacturer string) ([]*ManufacturerDomain, error)

	// RecordSuccess upserts a (manufacturer, domain) pair with an
	// incremented confidence after a verified success.
	RecordSuccess(ctx context.Context, manufacturer, domain string) error
}
