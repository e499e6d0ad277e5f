// Package interpidx implements the CDF-guided interpolation ("trick")
// lookup strategy. It reuses a sorted-array index and the parameters of the
// distribution assumed to have generated the population: the CDF predicts a
// key's rank, and a local monotonic scan corrects the guess.
//
// When the empirical distribution matches the assumed CDF the guess lands
// near the true rank and correction is expected O(1); mismatched or
// heavy-tailed data degrades toward O(N). This is the precursor idea behind
// learned index structures.
package interpidx

import (
	"math"

	"indexbench/dist"
	"indexbench/index"
	"indexbench/index/sortedidx"
)

// Index couples a sorted array with the assumed generating distribution.
type Index struct {
	sorted *sortedidx.Index
	params dist.Params
}

// New returns an index that builds and owns its sorted array.
func New(params dist.Params) *Index {
	return &Index{sorted: sortedidx.New(), params: params}
}

// NewWithSorted reuses an already-built sorted index.
func NewWithSorted(sorted *sortedidx.Index, params dist.Params) *Index {
	return &Index{sorted: sorted, params: params}
}

// Build delegates to the underlying sorted index.
func (ix *Index) Build(population []int64) {
	ix.sorted.Build(population)
}

// Guess returns the predicted rank floor(N * cdf(key)). The result may be N
// for keys above the distribution's support; callers treat any value
// outside [0, N) as a miss.
func (ix *Index) Guess(key int64) int {
	return int(math.Floor(float64(ix.sorted.Len()) * ix.params.CDF(float64(key))))
}

// Lookup guesses a rank from the CDF and corrects it with a monotonic scan.
// Returns the index of any matching element, or index.NotFound.
func (ix *Index) Lookup(key int64) int {
	pos, _, ok := correct(ix.sorted.Keys(), ix.Guess(key), key)
	if !ok {
		return index.NotFound
	}
	return pos
}

// Correct resolves a rank guess against the sorted array. This is the
// canonical correction policy:
//
//   - a guess outside [0, len(sorted)) is an immediate miss;
//   - otherwise the scan moves one cell at a time toward the target and
//     stops on the first cell equal to it (hit), strictly past it
//     (overshoot, miss), or off either end of the array (miss).
//
// A historical variant of this algorithm instead recursed and treated a
// sign reversal between adjacent cells as proof of absence; on sorted input
// both policies agree on found/not-found, and the scan form is the one kept
// (see the package tests for the pinned divergence cases).
func Correct(sorted []int64, guess int, target int64) (int, bool) {
	pos, _, ok := correct(sorted, guess, target)
	return pos, ok
}

// correct additionally reports the number of cells visited, which the
// statistical tests use to bound correction cost.
func correct(sorted []int64, guess int, target int64) (pos, steps int, ok bool) {
	if guess < 0 || guess >= len(sorted) {
		return 0, 0, false
	}
	steps = 1
	if sorted[guess] == target {
		return guess, steps, true
	}
	step := 1
	if sorted[guess] > target {
		step = -1
	}
	for i := guess + step; i >= 0 && i < len(sorted); i += step {
		steps++
		switch {
		case sorted[i] == target:
			return i, steps, true
		case step > 0 && sorted[i] > target:
			return 0, steps, false
		case step < 0 && sorted[i] < target:
			return 0, steps, false
		}
	}
	return 0, steps, false
}
