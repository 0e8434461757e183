// Package bloom provides approximate distinct-reference counting using
// Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter tallies distinct resource references. False positives are
// possible, so counts are approximate; it must never guard correctness
// decisions such as the crawl registry gate.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected references with the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a reference.
func (f *Filter) Add(ref string) {
	f.f.AddString(ref)
}

// Test returns true if the reference has probably been recorded.
// False positives are possible; false negatives are not.
func (f *Filter) Test(ref string) bool {
	return f.f.TestString(ref)
}

// EstimatedCount returns the approximate number of distinct references
// recorded.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
