package manualagent

import "context"

// DiscoveryMethod records which stage of the protocol produced the verified
// result.
type DiscoveryMethod string

// Discovery methods.
const (
	MethodDirectSearch DiscoveryMethod = "direct_search"
	MethodPageCrawl    DiscoveryMethod = "page_crawl"
)

// Failure reasons reported in DiscoveryResult.Reason.
const (
	ReasonQuotaExceeded = "quota_exceeded"
	ReasonExhausted     = "exhausted"
	ReasonDeadline      = "deadline_exceeded"
)

// DiscoveryRequest identifies the appliance whose manual should be located.
// It arrives from the appliance-registration workflow.
type DiscoveryRequest struct {
	Manufacturer string   `json:"manufacturer"`
	ModelNumber  string   `json:"model_number"`
	Category     string   `json:"category"`
	KnownDomains []string `json:"known_domains,omitempty"`
}

// Validate returns an error if the request contains invalid fields.
func (r *DiscoveryRequest) Validate() error {
	if r.Manufacturer == "" {
		return Errorf(EINVALID, "manufacturer required")
	}
	if r.ModelNumber == "" {
		return Errorf(EINVALID, "model number required")
	}
	return nil
}

// DiscoveryResult is the return contract of a discovery call. Failure is
// never opaque: Candidates always carries everything collected so far, so
// support tooling can inspect what was considered and why it was rejected.
type DiscoveryResult struct {
	Success    bool            `json:"success"`
	PDFURL     string          `json:"pdf_url,omitempty"`
	Method     DiscoveryMethod `json:"method,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	Candidates []*Candidate    `json:"candidates"`
}

// Discoverer runs the full search-and-crawl protocol for one appliance.
type Discoverer interface {
	// Discover locates and verifies the manual PDF for the requested
	// product. It honors the context deadline: on expiry it returns the
	// best result available rather than an error.
	Discover(ctx context.Context, req DiscoveryRequest) (*DiscoveryResult, error)
}
