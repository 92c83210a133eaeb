package glyph

import (
	"sort"
)

// Glyph is a logical glyph identifier and its horizontal advance in staff
// spaces. The renderer maps the identifier to pixels.
type Glyph struct {
	ID      string  `json:"id"`
	Advance float64 `json:"advance"`
}

type componentKey struct {
	prime int
	up    bool
	steps int
}

// Table maps accidentals and comma components to glyphs.
// A Table is read-only after loading and safe for concurrent use.
type Table struct {
	notehead   Glyph
	natural    Glyph
	diatonic   map[int]Glyph
	components map[componentKey]Glyph
	steps      map[int][]int
}

func newTable() *Table {
	return &Table{
		diatonic:   make(map[int]Glyph),
		components: make(map[componentKey]Glyph),
		steps:      make(map[int][]int),
	}
}

// Notehead returns the notehead glyph.
func (t *Table) Notehead() Glyph {
	return t.notehead
}

// Natural returns the natural sign.
func (t *Table) Natural() Glyph {
	return t.natural
}

// StepSizes returns the comma step sizes available for prime, largest
// first, or nil if the table has no glyphs for it.
func (t *Table) StepSizes(prime int) []int {
	return t.steps[prime]
}

// Primes lists the primes the table covers in ascending order.
func (t *Table) Primes() []int {
	out := make([]int, 0, len(t.steps))
	for p := range t.steps {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// Component returns the glyph for one comma component.
func (t *Table) Component(prime int, up bool, steps int) (Glyph, bool) {
	g, ok := t.components[componentKey{prime: prime, up: up, steps: steps}]
	return g, ok
}

// Diatonic returns the glyphs for a sharp/flat count. Counts without a
// dedicated glyph are built from the largest available glyphs of the same
// sign. Zero returns nil; use Natural for an explicit natural.
func (t *Table) Diatonic(count int) []Glyph {
	if count == 0 {
		return nil
	}
	if g, ok := t.diatonic[count]; ok {
		return []Glyph{g}
	}

	sign := 1
	if count < 0 {
		sign = -1
	}
	var sizes []int
	for c := range t.diatonic {
		if c*sign > 0 {
			sizes = append(sizes, c*sign)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	var out []Glyph
	remaining := count * sign
	for _, s := range sizes {
		for remaining >= s {
			out = append(out, t.diatonic[s*sign])
			remaining -= s
		}
	}
	return out
}
