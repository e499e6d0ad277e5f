// Package sortedidx implements the sorted-array lookup strategy: an
// ascending copy of the population searched with classic binary search.
package sortedidx

import (
	"golang.org/x/exp/slices"

	"indexbench/index"
)

// Index holds an ascending-sorted copy of the population.
type Index struct {
	keys []int64
}

func New() *Index {
	return &Index{}
}

// Build replaces the index with a freshly sorted copy. O(N log N).
func (ix *Index) Build(population []int64) {
	ix.keys = slices.Clone(population)
	slices.Sort(ix.keys)
}

// Lookup binary-searches for key and returns the index of any matching
// element, or index.NotFound. With duplicates there is no guarantee of
// first or last occurrence.
func (ix *Index) Lookup(key int64) int {
	lo, hi := 0, len(ix.keys)-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		switch {
		case ix.keys[mid] == key:
			return mid
		case ix.keys[mid] < key:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return index.NotFound
}

// Keys exposes the sorted backing array. Callers must not modify it; the
// interpolation strategy scans it in place.
func (ix *Index) Keys() []int64 { return ix.keys }

// At returns the key at sorted rank i.
func (ix *Index) At(i int) int64 { return ix.keys[i] }

// Len returns the number of keys, duplicates included.
func (ix *Index) Len() int { return len(ix.keys) }
