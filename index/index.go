// Package index defines the contracts shared by the four key-lookup
// strategies under benchmark: hash table, sorted array with binary search,
// AVL tree, and CDF-guided interpolation ("trick") search.
package index

import "fmt"

// Strategy identifies one of the four lookup strategies.
type Strategy string

const (
	StrategyHashtable    Strategy = "hashtable"
	StrategyBinarySearch Strategy = "binarysearch"
	StrategyAVL          Strategy = "avl"
	StrategyTrick        Strategy = "trick"
)

// Strategies returns all strategies in their canonical benchmark order.
func Strategies() []Strategy {
	return []Strategy{StrategyHashtable, StrategyBinarySearch, StrategyAVL, StrategyTrick}
}

// ParseStrategy maps a wire name to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyHashtable, StrategyBinarySearch, StrategyAVL, StrategyTrick:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// Distribution identifies the generating distribution of a population.
type Distribution string

const (
	DistributionUniform Distribution = "uniform"
	DistributionNormal  Distribution = "normal"
)

// ParseDistribution maps a wire name to a Distribution.
func ParseDistribution(s string) (Distribution, error) {
	switch Distribution(s) {
	case DistributionUniform, DistributionNormal:
		return Distribution(s), nil
	}
	return "", fmt.Errorf("unknown distribution %q", s)
}

// NotFound is the position reported by PositionIndex lookups for absent keys.
const NotFound = -1

// PositionIndex is a strategy that resolves a key to a single position in
// the population, or NotFound. When the population contains duplicates the
// strategy decides which position wins.
type PositionIndex interface {
	Build(population []int64)
	Lookup(key int64) int
}

// MultiPositionIndex is a strategy that resolves a key to every position it
// occupies in the population. An empty slice means the key is absent.
type MultiPositionIndex interface {
	Build(population []int64)
	Search(key int64) []int
}
