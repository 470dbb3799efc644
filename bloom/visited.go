// Package bloom provides the crawler's visited-URL set backed by a Bloom
// filter. False positives only cause a page to be skipped; false negatives
// are impossible, so the crawl's termination and depth bounds always hold.
package bloom

import (
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Visited tracks URLs a crawl has already processed or queued.
type Visited struct {
	f *bloom.BloomFilter
}

// NewVisited creates a visited set sized for n expected URLs with the given
// false positive rate.
func NewVisited(n uint, fpRate float64) *Visited {
	return &Visited{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add marks a URL as visited. Fragments are stripped first: URLs differing
// only by fragment are the same page.
func (v *Visited) Add(url string) {
	v.f.AddString(canonical(url))
}

// Seen returns true if the URL might have been visited.
func (v *Visited) Seen(url string) bool {
	return v.f.TestString(canonical(url))
}

// Count returns the approximate number of visited URLs.
func (v *Visited) Count() uint {
	return uint(v.f.ApproximatedSize())
}

func canonical(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		url = url[:idx]
	}
	return url
}
