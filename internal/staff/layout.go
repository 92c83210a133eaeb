// Package staff projects a spelling onto a five-line staff: clef, staff
// step, ledger lines and the ordered accidental glyph run a renderer
// stacks to the left of the notehead.
package staff

import (
	"fmt"

	"github.com/roach88/jispell/internal/glyph"
	"github.com/roach88/jispell/internal/heji"
	"github.com/roach88/jispell/internal/note"
)

// Clef is the clef the note is drawn in.
type Clef int

const (
	Treble Clef = iota
	Bass
)

func (c Clef) String() string {
	if c == Bass {
		return "bass"
	}
	return "treble"
}

// MarshalText renders the clef name in JSON output.
func (c Clef) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Middle-line references: B4 in treble, D3 in bass.
var (
	trebleMiddle = note.DiatonicIndex(note.B, 4)
	bassMiddle   = note.DiatonicIndex(note.D, 3)
)

// Run is one glyph of the accidental stack and its horizontal offset from
// the start of the stack.
type Run struct {
	Glyph  glyph.Glyph `json:"glyph"`
	Offset float64     `json:"offset"`
}

// Layout is everything a staff renderer needs to place one note.
type Layout struct {
	Clef        Clef        `json:"clef"`
	StaffStep   int         `json:"staff_step"`
	Notehead    glyph.Glyph `json:"notehead"`
	Accidentals []Run       `json:"accidentals,omitempty"`
	LedgerLines int         `json:"ledger_lines"`
}

// Context carries the glyph table; a nil table uses glyph.Default().
type Context struct {
	Glyphs *glyph.Table
}

// Project lays out sp.
//
// Octave 4 and above uses the treble clef, lower octaves the bass clef.
// StaffStep counts diatonic steps from the middle line (positive is up).
// The accidental run is the diatonic glyph, if any, followed by one glyph
// per comma component.
func Project(sp heji.Spelling, ctx Context) Layout {
	table := ctx.Glyphs
	if table == nil {
		table = glyph.Default()
	}

	clef, middle := Treble, trebleMiddle
	if sp.Octave < 4 {
		clef, middle = Bass, bassMiddle
	}
	step := sp.Diatonic() - middle

	glyphs := table.Diatonic(sp.Accidental.Diatonic)
	for _, c := range sp.Accidental.Components {
		g, ok := table.Component(c.Prime, c.Up, c.Steps)
		if !ok {
			g = placeholder(c)
		}
		glyphs = append(glyphs, g)
	}

	return Layout{
		Clef:        clef,
		StaffStep:   step,
		Notehead:    table.Notehead(),
		Accidentals: stack(glyphs),
		LedgerLines: LedgerLines(step),
	}
}

// LedgerLines returns the ledger lines needed at a staff step: none inside
// the staff, then one per two steps beyond it.
func LedgerLines(step int) int {
	if step < 0 {
		step = -step
	}
	if step <= 4 {
		return 0
	}
	return (step - 4 + 1) / 2
}

// stack assigns cumulative offsets: each glyph starts where the previous
// one ends.
func stack(glyphs []glyph.Glyph) []Run {
	if len(glyphs) == 0 {
		return nil
	}
	runs := make([]Run, len(glyphs))
	offset := 0.0
	for i, g := range glyphs {
		runs[i] = Run{Glyph: g, Offset: offset}
		offset += g.Advance
	}
	return runs
}

// placeholder names a component the table has no glyph for so the
// renderer can still draw something.
func placeholder(c heji.Component) glyph.Glyph {
	dir := "Lower"
	if c.Up {
		dir = "Raise"
	}
	return glyph.Glyph{ID: fmt.Sprintf("accidental%s%dLimit%dStep", dir, c.Prime, c.Steps), Advance: 1}
}
