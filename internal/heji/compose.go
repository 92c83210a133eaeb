package heji

import (
	"sort"

	"github.com/roach88/jispell/internal/ratio"
)

// Decompose splits count greedily into the given step sizes, largest
// first. A size of 1 is always available so the parts sum to count.
// Non-positive counts yield nil.
func Decompose(count int, sizes []int) []int {
	if count <= 0 {
		return nil
	}
	sorted := make([]int, 0, len(sizes)+1)
	for _, s := range sizes {
		if s > 0 {
			sorted = append(sorted, s)
		}
	}
	sorted = append(sorted, 1)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	var parts []int
	for _, s := range sorted {
		for count >= s {
			parts = append(parts, s)
			count -= s
		}
	}
	return parts
}

// Compose turns every mapped prime of m no larger than maxPrime into comma
// components, in ascending prime order. Direction follows the prime's
// polarity; magnitude is decomposed into the sizes steps offers.
func Compose(m ratio.Monzo, maxPrime int, steps StepSource) []Component {
	if steps == nil {
		steps = DefaultSteps
	}
	var out []Component
	for _, p := range m.Primes() {
		e := m[p]
		pol, ok := Policies[p]
		if !ok || p > maxPrime || e == 0 {
			continue
		}
		up := pol.Polarity.Up(e)
		for _, s := range Decompose(abs(e), steps.StepSizes(p)) {
			out = append(out, Component{Prime: p, Up: up, Steps: s})
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
