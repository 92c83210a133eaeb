package glyph

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSrc []byte

//go:embed default.cue
var defaultSrc []byte

var loadDefault = sync.OnceValues(func() (*Table, error) {
	return Parse("default.cue", defaultSrc)
})

// Default returns the built-in Helmholtz-Ellis table. It panics if the
// embedded table does not load, which the package tests rule out.
func Default() *Table {
	t, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("glyph: embedded table: %v", err))
	}
	return t
}

// Load reads a CUE glyph table from path.
func Load(path string) (*Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Message: err.Error()}
	}
	return Parse(path, src)
}

// Parse compiles src against the table schema and builds a Table.
// filename is used in error positions.
func Parse(filename string, src []byte) (*Table, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v = schema.LookupPath(cue.ParsePath("#Table")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	return build(v)
}

type rawDiatonic struct {
	Count   int     `json:"count"`
	ID      string  `json:"id"`
	Advance float64 `json:"advance"`
}

type rawComponent struct {
	Up      bool    `json:"up"`
	Steps   int     `json:"steps"`
	ID      string  `json:"id"`
	Advance float64 `json:"advance"`
}

type rawPrime struct {
	Steps  []int          `json:"steps"`
	Glyphs []rawComponent `json:"glyphs"`
}

func build(v cue.Value) (*Table, error) {
	t := newTable()

	if err := v.LookupPath(cue.ParsePath("notehead")).Decode(&t.notehead); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.LookupPath(cue.ParsePath("natural")).Decode(&t.natural); err != nil {
		return nil, formatCUEError(err)
	}

	if err := buildDiatonic(t, v.LookupPath(cue.ParsePath("diatonic"))); err != nil {
		return nil, err
	}
	if err := buildPrimes(t, v.LookupPath(cue.ParsePath("primes"))); err != nil {
		return nil, err
	}
	return t, nil
}

func buildDiatonic(t *Table, v cue.Value) error {
	iter, err := v.List()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		var d rawDiatonic
		if err := iter.Value().Decode(&d); err != nil {
			return formatCUEError(err)
		}
		if _, dup := t.diatonic[d.Count]; dup {
			return &LoadError{
				Code:    ErrCodeDuplicate,
				Message: fmt.Sprintf("diatonic count %d listed twice", d.Count),
				Pos:     iter.Value().Pos(),
			}
		}
		t.diatonic[d.Count] = Glyph{ID: d.ID, Advance: d.Advance}
	}

	for _, c := range []int{-1, 1} {
		if _, ok := t.diatonic[c]; !ok {
			return &LoadError{
				Code:    ErrCodeGlyph,
				Message: fmt.Sprintf("diatonic count %d has no glyph", c),
				Pos:     v.Pos(),
			}
		}
	}
	return nil
}

func buildPrimes(t *Table, v cue.Value) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		label := iter.Label()
		pv := iter.Value()

		prime, err := strconv.Atoi(label)
		if err != nil || prime < 5 || !isPrime(prime) {
			return &LoadError{
				Code:    ErrCodePrime,
				Message: fmt.Sprintf("%q is not a prime above 3", label),
				Pos:     pv.Pos(),
			}
		}

		var raw rawPrime
		if err := pv.Decode(&raw); err != nil {
			return formatCUEError(err)
		}

		for _, g := range raw.Glyphs {
			t.components[componentKey{prime: prime, up: g.Up, steps: g.Steps}] = Glyph{ID: g.ID, Advance: g.Advance}
		}

		sizes := slices.Clone(raw.Steps)
		if !slices.Contains(sizes, 1) {
			sizes = append(sizes, 1)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
		sizes = slices.Compact(sizes)

		for _, s := range sizes {
			for _, up := range []bool{true, false} {
				if _, ok := t.components[componentKey{prime: prime, up: up, steps: s}]; !ok {
					return &LoadError{
						Code:    ErrCodeGlyph,
						Message: fmt.Sprintf("prime %d: no %s glyph for %d step(s)", prime, direction(up), s),
						Pos:     pv.Pos(),
					}
				}
			}
		}
		t.steps[prime] = sizes
	}
	return nil
}

func direction(up bool) string {
	if up {
		return "up"
	}
	return "down"
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}
