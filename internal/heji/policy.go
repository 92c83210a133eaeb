package heji

import (
	"sort"

	"github.com/roach88/jispell/internal/ratio"
)

// Polarity says which sign of a prime's exponent draws an "up" arrow.
type Polarity int

const (
	// UpWhenNegative: the comma raises when the prime sits in the
	// denominator (5, 7, 13, 17, 29, 31).
	UpWhenNegative Polarity = iota
	// UpWhenPositive: the comma raises when the prime sits in the
	// numerator (11, 19, 23).
	UpWhenPositive
)

// Up reports the arrow direction for exponent e.
func (p Polarity) Up(e int) bool {
	if p == UpWhenPositive {
		return e > 0
	}
	return e < 0
}

// Policy describes how one prime is notated.
//
// SkeletonE3/SkeletonE2 give the Pythagorean interval 3^E3 * 2^E2 that the
// prime is spelled from; the comma component accounts for the difference.
// StepSizes lists the glyph sizes available for the prime, largest first.
type Policy struct {
	Prime      int
	Name       string
	SkeletonE3 int
	SkeletonE2 int
	Polarity   Polarity
	StepSizes  []int
}

// Policies is the notation table. Adding a prime is a data change here and
// in the glyph table.
var Policies = map[int]Policy{
	5:  {Prime: 5, Name: "syntonic", SkeletonE3: 4, SkeletonE2: -4, Polarity: UpWhenNegative, StepSizes: []int{3, 2, 1}},
	7:  {Prime: 7, Name: "septimal", SkeletonE3: -2, SkeletonE2: 6, Polarity: UpWhenNegative, StepSizes: []int{2, 1}},
	11: {Prime: 11, Name: "undecimal", SkeletonE3: -1, SkeletonE2: 5, Polarity: UpWhenPositive, StepSizes: []int{1}},
	13: {Prime: 13, Name: "tridecimal", SkeletonE3: 3, SkeletonE2: -1, Polarity: UpWhenNegative, StepSizes: []int{1}},
	17: {Prime: 17, Name: "17-limit", SkeletonE3: 7, SkeletonE2: -7, Polarity: UpWhenNegative, StepSizes: []int{1}},
	19: {Prime: 19, Name: "19-limit", SkeletonE3: -3, SkeletonE2: 9, Polarity: UpWhenPositive, StepSizes: []int{1}},
	23: {Prime: 23, Name: "23-limit", SkeletonE3: 6, SkeletonE2: -5, Polarity: UpWhenPositive, StepSizes: []int{1}},
	29: {Prime: 29, Name: "29-limit", SkeletonE3: -2, SkeletonE2: 8, Polarity: UpWhenNegative, StepSizes: []int{1}},
	31: {Prime: 31, Name: "31-limit", SkeletonE3: 0, SkeletonE2: 5, Polarity: UpWhenNegative, StepSizes: []int{1}},
}

// StepSource answers which glyph step sizes exist for a prime.
// glyph.Table implements it; DefaultSteps reads Policies.
type StepSource interface {
	StepSizes(prime int) []int
}

type defaultSteps struct{}

func (defaultSteps) StepSizes(prime int) []int {
	return Policies[prime].StepSizes
}

// DefaultSteps is the StepSource built into the policy table.
var DefaultSteps StepSource = defaultSteps{}

// Skeleton returns the summed Pythagorean exponents (e3, e2) that place
// the letter of m. Mapped primes use their policy skeleton even above the
// prime limit; other primes use the closest 3-limit interval.
func Skeleton(m ratio.Monzo) (e3, e2 int) {
	e3, e2 = m[3], m[2]
	for p, e := range m {
		if p < 5 || e == 0 {
			continue
		}
		se3, se2 := skeletonFor(p)
		e3 += e * se3
		e2 += e * se2
	}
	return e3, e2
}

func skeletonFor(p int) (int, int) {
	if pol, ok := Policies[p]; ok {
		return pol.SkeletonE3, pol.SkeletonE2
	}
	py := ratio.BestE3ForRatio(float64(p))
	return py.E3, py.E2
}

// Unsupported lists the primes of m that get no comma component under
// primeLimit, in ascending order.
func Unsupported(m ratio.Monzo, primeLimit int) []int {
	var out []int
	for p, e := range m {
		if p < 5 || e == 0 {
			continue
		}
		if _, ok := Policies[p]; ok && p <= primeLimit {
			continue
		}
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}
