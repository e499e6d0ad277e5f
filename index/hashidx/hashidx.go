// Package hashidx implements the hash-table lookup strategy: a map from key
// to its last-seen position in the population.
package hashidx

import "indexbench/index"

// Index maps each key to the position of its last occurrence. Duplicate
// keys overwrite earlier positions during Build.
type Index struct {
	pos map[int64]int
}

func New() *Index {
	return &Index{pos: map[int64]int{}}
}

// Build replaces the index contents with one entry per distinct key, in
// population iteration order. Expected O(1) per insert.
func (ix *Index) Build(population []int64) {
	m := make(map[int64]int, len(population))
	for i, k := range population {
		m[k] = i
	}
	ix.pos = m
}

// Lookup returns the stored position for key, or index.NotFound.
func (ix *Index) Lookup(key int64) int {
	if p, ok := ix.pos[key]; ok {
		return p
	}
	return index.NotFound
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int { return len(ix.pos) }
