package crawl

import (
	"net/url"
	"strings"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
	"golang.org/x/net/publicsuffix"
)

// Gate scoring weights. Trusted domains must outrank any source-weight
// difference; aggregator penalties demote but never exclude, so a stale or
// incomplete cache cannot produce false negatives.
const (
	trustBoost         = 100
	maxConfidenceBoost = 20
	aggregatorPenalty  = -50
)

// aggregatorDomains are third-party manual mirrors. Their copies are often
// outdated or watermarked, so official domains should win ties.
var aggregatorDomains = map[string]bool{
	"manualslib.com":    true,
	"manualzz.com":      true,
	"manualsonline.com": true,
	"manuall.co.uk":     true,
	"manualpdf.jp":      true,
}

// Gate scores URLs against the learned manufacturer domain cache plus any
// caller-supplied known domains. A Gate is built per discovery call and is
// read-only afterwards.
type Gate struct {
	trusted map[string]int // registrable domain -> confidence
}

// NewGate creates a Gate from persisted manufacturer domains and the
// request's known domains. Known domains count as trusted with zero
// confidence until a verified success upgrades them.
func NewGate(stored []*manualagent.ManufacturerDomain, known []string) *Gate {
	g := &Gate{trusted: make(map[string]int)}
	for _, d := range known {
		if rd := RegistrableDomain(d); rd != "" {
			g.trusted[rd] = 0
		}
	}
	for _, md := range stored {
		rd := RegistrableDomain(md.Domain)
		if rd == "" {
			continue
		}
		if md.Confidence > g.trusted[rd] {
			g.trusted[rd] = md.Confidence
		}
	}
	return g
}

// Score returns the priority adjustment for a URL's domain: a boost for
// trusted manufacturer domains (growing with confidence, capped), a penalty
// for known aggregators, zero for everything else.
func (g *Gate) Score(rawURL string) int {
	rd := registrableDomainOfURL(rawURL)
	if rd == "" {
		return 0
	}
	if conf, ok := g.trusted[rd]; ok {
		boost := conf
		if boost > maxConfidenceBoost {
			boost = maxConfidenceBoost
		}
		return trustBoost + boost
	}
	if aggregatorDomains[rd] {
		return aggregatorPenalty
	}
	return 0
}

// Trusted reports whether the URL's registrable domain is a known
// manufacturer domain.
func (g *Gate) Trusted(rawURL string) bool {
	rd := registrableDomainOfURL(rawURL)
	if rd == "" {
		return false
	}
	_, ok := g.trusted[rd]
	return ok
}

// RegistrableDomain reduces a host to its eTLD+1 ("kadenfan.hitachi.co.jp"
// -> "hitachi.co.jp"). Falls back to the input when the public suffix list
// cannot resolve it (bare hosts, IPs).
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return ""
	}
	rd, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return rd
}

func registrableDomainOfURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return RegistrableDomain(u.Hostname())
}
