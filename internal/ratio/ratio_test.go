package ratio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRatio_Reduces(t *testing.T) {
	r := NewRatio(10, 8)
	assert.Equal(t, Ratio{Num: 5, Den: 4}, r)
	assert.Equal(t, "5/4", r.String())
}

func TestNewRatio_InvalidResolvesToUnison(t *testing.T) {
	for _, tc := range []struct{ n, d int64 }{{0, 1}, {1, 0}, {-3, 2}, {3, -2}, {0, 0}} {
		assert.Equal(t, Unison, NewRatio(tc.n, tc.d), "NewRatio(%d, %d)", tc.n, tc.d)
	}
}

func TestNewRatio_ReductionInvariant(t *testing.T) {
	for n := int64(1); n <= 60; n++ {
		for d := int64(1); d <= 60; d++ {
			r := NewRatio(n, d)
			require.Greater(t, r.Num, int64(0))
			require.Greater(t, r.Den, int64(0))
			require.Equal(t, int64(1), gcd(r.Num, r.Den), "%d/%d not reduced", r.Num, r.Den)
			require.InDelta(t, float64(n)/float64(d), r.Value(), 1e-12)
		}
	}
}

func TestParseRatio(t *testing.T) {
	tests := []struct {
		in   string
		want Ratio
	}{
		{"5/4", Ratio{5, 4}},
		{" 10 / 8 ", Ratio{5, 4}},
		{"3:2", Ratio{3, 2}},
		{"3", Ratio{3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRatio(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRatio_Errors(t *testing.T) {
	for _, in := range []string{"", "abc", "5/", "0/4", "-1/2", "1/0", "x:3"} {
		_, err := ParseRatio(in)
		assert.Error(t, err, "ParseRatio(%q)", in)
	}
}

func TestRatio_ZeroValueBehavesAsUnison(t *testing.T) {
	var r Ratio
	assert.False(t, r.IsValid())
	assert.Equal(t, 1.0, r.Value())
	assert.Equal(t, 0.0, r.Cents())
	assert.Equal(t, "1/1", r.String())
}

func TestRatio_Mul(t *testing.T) {
	got, ok := Ratio{3, 2}.Mul(Ratio{4, 3})
	require.True(t, ok)
	assert.Equal(t, Ratio{2, 1}, got)

	_, ok = Ratio{math.MaxInt64 / 2, 1}.Mul(Ratio{3, 1})
	assert.False(t, ok, "overflow must be reported")
}

func TestRatio_Cents(t *testing.T) {
	assert.InDelta(t, 701.955, Ratio{3, 2}.Cents(), 1e-3)
	assert.InDelta(t, 386.314, Ratio{5, 4}.Cents(), 1e-3)
	assert.InDelta(t, -701.955, Ratio{3, 2}.Inverse().Cents(), 1e-3)
}

func TestOctaveReduce(t *testing.T) {
	tests := []struct {
		in     Ratio
		want   Ratio
		octave int
	}{
		{Ratio{3, 2}, Ratio{3, 2}, 0},
		{Ratio{5, 1}, Ratio{5, 4}, 2},
		{Ratio{1, 3}, Ratio{4, 3}, -2},
		{Ratio{2, 1}, Ratio{1, 1}, 1},
		{Ratio{1, 1}, Ratio{1, 1}, 0},
		{Ratio{15, 32}, Ratio{15, 8}, -2},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			got, oct := OctaveReduce(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.octave, oct)
		})
	}
}

func TestNewRef(t *testing.T) {
	ref := NewRef(Ratio{5, 1})
	assert.Equal(t, int64(5), ref.P)
	assert.Equal(t, int64(4), ref.Q)
	assert.Equal(t, 2, ref.Octave)
	assert.InDelta(t, 5.0, ref.Value(), 1e-12)
	assert.InDelta(t, Ratio{5, 1}.Cents(), ref.Cents(), 1e-9)
	assert.Equal(t, Monzo{2: -2, 5: 1}, ref.Exponents(13))

	cached := Ref{P: 5, Q: 4, Monzo: Monzo{5: 1}}
	assert.Equal(t, Monzo{5: 1}, cached.Exponents(13), "cached monzo is returned verbatim")
}

func TestRefFull(t *testing.T) {
	for _, r := range []Ratio{{5, 1}, {16, 19}, {3, 2}, {1, 8}} {
		full, ok := NewRef(r).Full()
		require.True(t, ok)
		assert.Equal(t, r, full)
	}

	full, ok := Ref{P: 3, Q: 2, Octave: 1}.Full()
	require.True(t, ok)
	assert.Equal(t, Ratio{3, 1}, full)

	_, ok = Ref{P: 3, Q: 2, Octave: 70}.Full()
	assert.False(t, ok)
	_, ok = Ref{P: 3, Q: 2, Octave: 62}.Full()
	assert.False(t, ok, "3 * 2^61 overflows")
}

func TestSemitoneOffset(t *testing.T) {
	assert.Equal(t, 0, SemitoneOffset(Unison))
	assert.Equal(t, 7, SemitoneOffset(Ratio{3, 2}))
	assert.Equal(t, 7, SemitoneOffset(Ratio{3, 1}))
	assert.Equal(t, 11, SemitoneOffset(Ratio{15, 8}))
	assert.Equal(t, 11, SemitoneOffset(Ratio{31, 16}))
	assert.Equal(t, 12, SemitoneOffset(Ratio{63, 32}))
	assert.Equal(t, 1, SemitoneOffset(Ratio{17, 16}))
}

func TestCheckedPow(t *testing.T) {
	v, ok := checkedPow(3, 39)
	require.True(t, ok)
	assert.Equal(t, int64(4052555153018976267), v)

	_, ok = checkedPow(3, 40)
	assert.False(t, ok)

	v, ok = checkedPow(1, 1000)
	require.True(t, ok)
	assert.Equal(t, int64(1), v)
}
