// Package dist draws synthetic integer populations from parametric
// distributions and exposes the model CDF that interpolation search uses to
// guess ranks.
package dist

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"indexbench/index"
)

// Params describes a generating distribution. Implementations are immutable
// value types: one Params configures both the sampler and, later, the CDF
// used to guess ranks over the population it produced.
type Params interface {
	// Kind names the distribution family.
	Kind() index.Distribution
	// CDF returns the fraction of distribution mass at or below x.
	CDF(x float64) float64
	// Fields returns the parameters as a flat map for result records.
	Fields() map[string]float64

	draw(src rand.Source) int64
}

// Uniform draws integers as floor(u) for u uniform on [Low, High).
type Uniform struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

func (u Uniform) Kind() index.Distribution { return index.DistributionUniform }

func (u Uniform) CDF(x float64) float64 {
	return distuv.Uniform{Min: u.Low, Max: u.High}.CDF(x)
}

func (u Uniform) Fields() map[string]float64 {
	return map[string]float64{"low": u.Low, "high": u.High}
}

func (u Uniform) draw(src rand.Source) int64 {
	return int64(math.Floor(distuv.Uniform{Min: u.Low, Max: u.High, Src: src}.Rand()))
}

func (u Uniform) String() string {
	return fmt.Sprintf("uniform(low=%g, high=%g)", u.Low, u.High)
}

// Normal draws integers by inverse-CDF (probit) sampling of a Gaussian,
// rounded to the nearest integer.
type Normal struct {
	Mean     float64 `json:"mean" yaml:"mean"`
	Variance float64 `json:"variance" yaml:"variance"`
}

func (n Normal) Kind() index.Distribution { return index.DistributionNormal }

func (n Normal) gaussian(src rand.Source) distuv.Normal {
	return distuv.Normal{Mu: n.Mean, Sigma: math.Sqrt(n.Variance), Src: src}
}

func (n Normal) CDF(x float64) float64 {
	return n.gaussian(nil).CDF(x)
}

func (n Normal) Fields() map[string]float64 {
	return map[string]float64{"mean": n.Mean, "variance": n.Variance}
}

func (n Normal) draw(src rand.Source) int64 {
	uni := distuv.Uniform{Min: 0, Max: 1, Src: src}
	u := uni.Rand()
	for u == 0 { // Quantile(0) is -Inf
		u = uni.Rand()
	}
	return int64(math.Round(n.gaussian(nil).Quantile(u)))
}

func (n Normal) String() string {
	return fmt.Sprintf("normal(mean=%g, variance=%g)", n.Mean, n.Variance)
}

// Sampler draws populations and query sets from a Params. The random source
// is injected so runs can be made deterministic under a fixed seed.
type Sampler struct {
	rnd *rand.Rand
}

// NewSampler wraps an explicit source.
func NewSampler(src rand.Source) *Sampler {
	return &Sampler{rnd: rand.New(src)}
}

// NewSeeded is shorthand for a sampler over a seeded PCG source.
func NewSeeded(seed uint64) *Sampler {
	return NewSampler(rand.NewSource(seed))
}

// Draw returns count i.i.d. integer draws from p. Each call produces a fresh
// slice; callers replace, never append to, previous populations.
func (s *Sampler) Draw(p Params, count int) []int64 {
	out := make([]int64, count)
	for i := range out {
		out[i] = p.draw(s.rnd)
	}
	return out
}
