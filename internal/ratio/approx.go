package ratio

import (
	"math"
)

const (
	// maxContinuedFractionTerms caps the convergent expansion. float64
	// carries about 53 bits, so no real input needs more terms than this.
	maxContinuedFractionTerms = 64

	// pythagoreanRange bounds the 3-exponent scanned by BestE3ForRatio.
	pythagoreanRange = 14

	// tieEpsilonCents treats two errors this close as equal.
	tieEpsilonCents = 1e-9
)

var log2of3 = math.Log2(3)

// Candidate is one step of the continued-fraction expansion.
type Candidate struct {
	Ratio          Ratio   `json:"ratio"`
	CentsError     float64 `json:"cents_error"`
	WithinLimit    bool    `json:"within_limit"`
	Semiconvergent bool    `json:"semiconvergent,omitempty"`
}

// Approximate returns the simplest fraction with denominator at most
// maxDenominator that explains value.
//
// Convergents are visited in order of increasing complexity; the first one
// whose primes all lie within primeLimit and whose error is at most
// maxCentsError wins, so a slightly detuned 3/2 stays 3/2 instead of
// becoming a large-prime fraction that happens to sit closer. When no
// convergent qualifies the answer is the closest fraction with an
// admissible denominator: the better of the last convergent and the final
// semiconvergent, preferring fewer primes outside primeLimit on a tie. That
// fraction may exceed the prime limit; callers report it through
// UnsupportedPrimes. With maxCentsError 0 only exact in-limit hits stop the
// walk early.
//
// Non-finite or non-positive values resolve to Unison.
func Approximate(value float64, primeLimit, maxDenominator int, maxCentsError float64) Ratio {
	if !validValue(value) {
		return Unison
	}
	if maxDenominator < 1 {
		maxDenominator = 1
	}

	var (
		simplest     Ratio
		haveSimplest bool
		closest      Ratio
		closestErr   float64
		haveClosest  bool
		lastP, lastQ int64
	)
	walkConvergents(value, int64(maxDenominator), func(p, q int64, semi bool) {
		lastP, lastQ = p, q
		if p < 1 {
			return
		}
		r := NewRatio(p, q)
		e := math.Abs(centsDistance(value, p, q))
		inLimit := WithinLimit(r, primeLimit)
		if !semi && !haveSimplest && inLimit && e <= maxCentsError {
			simplest, haveSimplest = r, true
		}
		switch {
		case !haveClosest, e < closestErr-tieEpsilonCents:
		case e <= closestErr+tieEpsilonCents && inLimit && !WithinLimit(closest, primeLimit):
		default:
			return
		}
		closest, closestErr, haveClosest = r, e, true
	})
	switch {
	case haveSimplest:
		return simplest
	case haveClosest:
		return closest
	}
	return NewRatio(max(lastP, 1), max(lastQ, 1))
}

// Candidates lists every convergent with denominator at most maxDenominator,
// followed by the final semiconvergent when one exists.
func Candidates(value float64, primeLimit, maxDenominator int) []Candidate {
	if !validValue(value) {
		return []Candidate{{Ratio: Unison, WithinLimit: true}}
	}
	if maxDenominator < 1 {
		maxDenominator = 1
	}
	var out []Candidate
	walkConvergents(value, int64(maxDenominator), func(p, q int64, semi bool) {
		if p < 1 {
			return
		}
		r := NewRatio(p, q)
		out = append(out, Candidate{
			Ratio:          r,
			CentsError:     centsDistance(value, p, q),
			WithinLimit:    WithinLimit(r, primeLimit),
			Semiconvergent: semi,
		})
	})
	return out
}

// Pythagorean is a 3-limit approximation 3^E3 * 2^E2.
type Pythagorean struct {
	E3         int     `json:"e3"`
	E2         int     `json:"e2"`
	CentsError float64 `json:"cents_error"`
}

// Ratio rebuilds 3^E3 * 2^E2. ok is false on overflow.
func (p Pythagorean) Ratio() (Ratio, bool) {
	return Monzo{2: p.E2, 3: p.E3}.Ratio()
}

// BestE3ForRatio scans 3-exponents in [-14, 14], pairs each with the
// nearest power of two, and keeps the candidate with the smallest absolute
// cents error. Ties prefer smaller |E3|, then smaller |E2|, which keeps
// spellings close to the origin of the circle of fifths.
//
// CentsError is value minus candidate, in cents.
func BestE3ForRatio(value float64) Pythagorean {
	if !validValue(value) {
		return Pythagorean{}
	}
	target := math.Log2(value)

	best := Pythagorean{}
	bestAbs := math.Inf(1)
	for e3 := -pythagoreanRange; e3 <= pythagoreanRange; e3++ {
		e2 := int(math.Round(target - float64(e3)*log2of3))
		errCents := 1200 * (target - float64(e2) - float64(e3)*log2of3)
		cand := Pythagorean{E3: e3, E2: e2, CentsError: errCents}
		a := math.Abs(errCents)
		switch {
		case a < bestAbs-tieEpsilonCents:
			best, bestAbs = cand, a
		case a <= bestAbs+tieEpsilonCents && preferPythagorean(cand, best):
			best, bestAbs = cand, math.Min(a, bestAbs)
		}
	}
	return best
}

func preferPythagorean(a, b Pythagorean) bool {
	if abs(a.E3) != abs(b.E3) {
		return abs(a.E3) < abs(b.E3)
	}
	return abs(a.E2) < abs(b.E2)
}

// walkConvergents expands x as a continued fraction and calls visit for each
// convergent p/q with q <= maxDen. When the next convergent would exceed
// maxDen (or overflow, or the term is not finite) it visits the largest
// admissible semiconvergent, if any, with semi=true and stops.
func walkConvergents(x float64, maxDen int64, visit func(p, q int64, semi bool)) {
	p0, q0 := int64(0), int64(1)
	p1, q1 := int64(1), int64(0)
	frac := x
	for i := 0; i < maxContinuedFractionTerms; i++ {
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			return
		}
		a := math.Floor(frac)
		p2, okP := mulAddTerm(a, p1, p0)
		q2, okQ := mulAddTerm(a, q1, q0)
		if !okP || !okQ || q2 > maxDen {
			if q1 > 0 {
				k := (maxDen - q0) / q1
				if k >= 1 && float64(k) < a {
					ps, okS := mulAdd(k, p1, p0)
					if okS {
						visit(ps, k*q1+q0, true)
					}
				}
			}
			return
		}
		visit(p2, q2, false)
		p0, q0, p1, q1 = p1, q1, p2, q2

		rem := frac - a
		if rem <= 0 {
			return
		}
		frac = 1 / rem
	}
}

// mulAddTerm computes a*b + c for a float continued-fraction term.
func mulAddTerm(a float64, b, c int64) (int64, bool) {
	if a < 0 || a >= float64(math.MaxInt64/2) {
		return 0, false
	}
	return mulAdd(int64(a), b, c)
}

func mulAdd(a, b, c int64) (int64, bool) {
	prod, ok := checkedMul(a, b)
	if !ok || prod > math.MaxInt64-c {
		return 0, false
	}
	return prod + c, true
}

// centsDistance returns the signed error of p/q against x in cents
// (positive when x lies above p/q).
func centsDistance(x float64, p, q int64) float64 {
	if p <= 0 || q <= 0 {
		return math.Inf(1)
	}
	return 1200 * math.Log2(x*float64(q)/float64(p))
}

func validValue(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
