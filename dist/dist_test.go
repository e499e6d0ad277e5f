package dist

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"indexbench/index"
)

func TestSamplerDeterminism(t *testing.T) {
	t.Parallel()
	params := []Params{
		Uniform{Low: 0, High: 1000},
		Normal{Mean: 50, Variance: 400},
	}
	for _, p := range params {
		t.Run(string(p.Kind()), func(t *testing.T) {
			a := NewSeeded(42).Draw(p, 1_000)
			b := NewSeeded(42).Draw(p, 1_000)
			require.Equal(t, a, b, "same seed must reproduce the same draws")

			c := NewSeeded(43).Draw(p, 1_000)
			require.NotEqual(t, a, c, "different seeds should diverge")
		})
	}
}

func TestUniformDrawBounds(t *testing.T) {
	t.Parallel()
	u := Uniform{Low: -50, High: 50}
	s := NewSeeded(7)
	for _, v := range s.Draw(u, 10_000) {
		if v < -50 || v >= 50 {
			t.Fatalf("draw %d outside [low, high)", v)
		}
	}
}

func TestNormalDrawCentering(t *testing.T) {
	t.Parallel()
	n := Normal{Mean: 100, Variance: 25}
	s := NewSeeded(11)
	draws := s.Draw(n, 50_000)

	var sum float64
	for _, v := range draws {
		sum += float64(v)
	}
	mean := sum / float64(len(draws))
	// Standard error of the mean is sigma/sqrt(n) ~ 0.022 here.
	require.InDelta(t, 100, mean, 0.5)
}

func TestCDFProperties(t *testing.T) {
	t.Parallel()

	t.Run("uniform is linear and clamped", func(t *testing.T) {
		u := Uniform{Low: 0, High: 100}
		require.Equal(t, 0.0, u.CDF(-1))
		require.Equal(t, 1.0, u.CDF(200))
		require.InDelta(t, 0.25, u.CDF(25), 1e-12)
		require.InDelta(t, 0.5, u.CDF(50), 1e-12)
	})

	t.Run("normal median", func(t *testing.T) {
		n := Normal{Mean: 0, Variance: 10_000}
		require.InDelta(t, 0.5, n.CDF(0), 1e-12)
	})

	t.Run("monotone", func(t *testing.T) {
		for _, p := range []Params{Uniform{Low: -10, High: 10}, Normal{Mean: 0, Variance: 9}} {
			prev := math.Inf(-1)
			for x := -20.0; x <= 20.0; x += 0.5 {
				c := p.CDF(x)
				if c < prev {
					t.Fatalf("%v: CDF not monotone at x=%g", p, x)
				}
				prev = c
			}
		}
	})
}

func TestDrawReplacesNotAppends(t *testing.T) {
	t.Parallel()
	s := NewSeeded(3)
	u := Uniform{Low: 0, High: 10}

	sizes := []int{1, 10, 1_000}
	for _, size := range sizes {
		t.Run(fmt.Sprintf("Size_%d", size), func(t *testing.T) {
			got := s.Draw(u, size)
			if len(got) != size {
				t.Errorf("expected %d draws, got %d", size, len(got))
			}
		})
	}
}

func TestParamsFields(t *testing.T) {
	t.Parallel()
	require.Equal(t, map[string]float64{"low": 1, "high": 9}, Uniform{Low: 1, High: 9}.Fields())
	require.Equal(t, map[string]float64{"mean": 2, "variance": 4}, Normal{Mean: 2, Variance: 4}.Fields())
	require.Equal(t, index.DistributionUniform, Uniform{}.Kind())
	require.Equal(t, index.DistributionNormal, Normal{}.Kind())
}
