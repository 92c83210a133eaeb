package ratio

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproximate_JustIntervals(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  Ratio
	}{
		{"unison", 1.0, Ratio{1, 1}},
		{"fifth", 1.5, Ratio{3, 2}},
		{"major third", 1.25, Ratio{5, 4}},
		{"noisy major third", 1.2499, Ratio{5, 4}},
		{"noisy minor third", 1.2003, Ratio{6, 5}},
		{"undecimal tritone", 11.0 / 8.0, Ratio{11, 8}},
		{"below root", 2.0 / 3.0, Ratio{2, 3}},
		{"two octaves up", 4.0, Ratio{4, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Approximate(tt.value, 13, 128, 1.0))
		})
	}
}

func TestApproximate_InvalidInputResolvesToUnison(t *testing.T) {
	for _, v := range []float64{0, -1.5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Equal(t, Unison, Approximate(v, 13, 128, 1), "Approximate(%v)", v)
	}
}

func TestApproximate_ReturnsClosestWhenLimitUnsatisfiable(t *testing.T) {
	r := Approximate(1.75, 5, 128, 1.0)
	assert.Equal(t, Ratio{7, 4}, r)
	assert.Equal(t, []int{7}, UnsupportedPrimes(r, 5))
}

func TestApproximate_TinyValueFloorsToOne(t *testing.T) {
	r := Approximate(0.3, 13, 1, 0)
	assert.Equal(t, Ratio{1, 1}, r)
	assert.True(t, r.IsValid())
}

func TestApproximate_ContinuedFractionOptimality(t *testing.T) {
	targets := map[string]float64{
		"sqrt2":   math.Sqrt2,
		"pi":      math.Pi,
		"phi":     math.Phi,
		"e":       math.E,
		"cbrt3":   math.Cbrt(3),
		"12tet-5": math.Pow(2, 5.0/12.0),
	}
	for name, x := range targets {
		for _, maxDen := range []int{7, 50, 400} {
			got := Approximate(x, 13, maxDen, 0)
			require.LessOrEqual(t, got.Den, int64(maxDen))
			gotErr := math.Abs(centsDistance(x, got.Num, got.Den))

			for q := int64(1); q <= int64(maxDen); q++ {
				base := int64(math.Floor(x * float64(q)))
				for _, p := range []int64{base, base + 1} {
					if p < 1 {
						continue
					}
					candErr := math.Abs(centsDistance(x, p, q))
					require.LessOrEqual(t, gotErr, candErr+1e-9,
						"%s D=%d: %s beaten by %d/%d", name, maxDen, got, p, q)
				}
			}
		}
	}
}

func TestApproximate_ToleranceKeepsSimpleFraction(t *testing.T) {
	// 5/3 is 2.19 cents off 1.66456; 213/128 is closer but not 13-limit.
	assert.Equal(t, Ratio{5, 3}, Approximate(1.66456, 13, 128, 5))
	assert.Equal(t, Ratio{213, 128}, Approximate(1.66456, 13, 128, 0))
	assert.Equal(t, Ratio{213, 128}, Approximate(1.66456, 13, 128, 2))

	// A fifth 3 cents sharp stays a fifth.
	assert.Equal(t, Ratio{3, 2}, Approximate(1.5*math.Exp2(3.0/1200), 13, 128, 5))
}

// With a nonzero tolerance the answer is either the simplest in-limit
// convergent within tolerance, or no fraction with an admissible
// denominator and no more out-of-limit primes is closer.
func TestApproximate_ToleranceContract(t *testing.T) {
	const tol = 5.0
	rng := rand.New(rand.NewSource(7))
	for _, maxDen := range []int{7, 50, 128} {
		for i := 0; i < 300; i++ {
			x := 1 + rng.Float64()
			got := Approximate(x, 13, maxDen, tol)
			require.LessOrEqual(t, got.Den, int64(maxDen))
			gotErr := math.Abs(centsDistance(x, got.Num, got.Den))

			if WithinLimit(got, 13) && gotErr <= tol {
				walkConvergents(x, int64(maxDen), func(p, q int64, semi bool) {
					if semi || p < 1 || q >= got.Den {
						return
					}
					r := NewRatio(p, q)
					assert.False(t, WithinLimit(r, 13) && math.Abs(centsDistance(x, p, q)) <= tol,
						"x=%v D=%d: simpler %s qualifies before %s", x, maxDen, r, got)
				})
				continue
			}

			gotViolations := len(UnsupportedPrimes(got, 13))
			for q := int64(1); q <= int64(maxDen); q++ {
				base := int64(math.Floor(x * float64(q)))
				for _, p := range []int64{base, base + 1} {
					if p < 1 || len(UnsupportedPrimes(NewRatio(p, q), 13)) > gotViolations {
						continue
					}
					require.LessOrEqual(t, gotErr, math.Abs(centsDistance(x, p, q))+1e-9,
						"x=%v D=%d: %s beaten by %d/%d", x, maxDen, got, p, q)
				}
			}
		}
	}
}

func TestCandidates_Pi(t *testing.T) {
	cands := Candidates(math.Pi, 13, 1000)
	require.Len(t, cands, 5)
	assert.Equal(t, Ratio{3, 1}, cands[0].Ratio)
	assert.Equal(t, Ratio{22, 7}, cands[1].Ratio)
	assert.Equal(t, Ratio{333, 106}, cands[2].Ratio)
	assert.Equal(t, Ratio{355, 113}, cands[3].Ratio)
	assert.True(t, cands[4].Semiconvergent)
	assert.Equal(t, Ratio{2818, 897}, cands[4].Ratio)

	assert.True(t, cands[0].WithinLimit)
	assert.True(t, cands[1].WithinLimit)
	assert.False(t, cands[3].WithinLimit, "113 is prime")
}

func TestCandidates_Invalid(t *testing.T) {
	cands := Candidates(-1, 13, 100)
	require.Len(t, cands, 1)
	assert.Equal(t, Unison, cands[0].Ratio)
}

func TestBestE3ForRatio(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		e3, e2 int
	}{
		{"unison", 1, 0, 0},
		{"fifth", 1.5, 1, -1},
		{"fourth", 4.0 / 3.0, -1, 2},
		{"whole tone", 9.0 / 8.0, 2, -3},
		{"octave", 2, 0, 1},
		{"just major third picks the schisma spelling", 1.25, -8, 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BestE3ForRatio(tt.value)
			assert.Equal(t, tt.e3, got.E3)
			assert.Equal(t, tt.e2, got.E2)
		})
	}
}

func TestBestE3ForRatio_ErrorSign(t *testing.T) {
	got := BestE3ForRatio(1.5 * math.Pow(2, 10.0/1200.0))
	assert.Equal(t, 1, got.E3)
	assert.InDelta(t, 10.0, got.CentsError, 1e-6)

	r, ok := got.Ratio()
	require.True(t, ok)
	assert.Equal(t, Ratio{3, 2}, r)
}

func TestBestE3ForRatio_Invalid(t *testing.T) {
	assert.Equal(t, Pythagorean{}, BestE3ForRatio(math.NaN()))
	assert.Equal(t, Pythagorean{}, BestE3ForRatio(0))
}

func TestPreferPythagorean_TieBreak(t *testing.T) {
	assert.True(t, preferPythagorean(Pythagorean{E3: 1, E2: 5}, Pythagorean{E3: -2, E2: 0}))
	assert.True(t, preferPythagorean(Pythagorean{E3: -1, E2: 1}, Pythagorean{E3: 1, E2: -3}))
	assert.False(t, preferPythagorean(Pythagorean{E3: 3, E2: 0}, Pythagorean{E3: 2, E2: 9}))
}
