package heji

import (
	"fmt"

	"github.com/roach88/jispell/internal/anchor"
	"github.com/roach88/jispell/internal/note"
)

// Position is a letter placement before comma components are attached.
type Position struct {
	Diatonic   int
	Fifths     int
	Letter     note.Letter
	Accidental int
	Octave     int
}

// LetterFor moves e3 fifths from the anchor and returns the letter and
// sharp/flat count of that circle-of-fifths position.
func LetterFor(e3 int, a anchor.RootAnchor) (note.Letter, int) {
	fifths := a.FifthsFromC + e3
	l := note.LetterForFifths(fifths)
	return l, accidentalFor(fifths, l)
}

// MapDisplacement applies m fifths and a total octave-equivalent
// displacement o = e2 + e3 to the anchor:
//
//	diatonic = anchor.Diatonic + 4m + 7o
//	fifths   = anchor.Fifths + m
//
// The letter comes from the diatonic number; the accidental from the
// fifths. The two must name the same letter. On mismatch debug builds
// panic; release builds keep the diatonic letter and report to obs.
func MapDisplacement(m, o int, a anchor.RootAnchor, obs Observer) Position {
	d := a.DiatonicNumber + 4*m + 7*o
	fifths := a.FifthsFromC + m
	l := note.LetterAt(d)
	if fl := note.LetterForFifths(fifths); fl != l {
		assertf("letter mismatch: diatonic %d gives %s, fifths %d give %s", d, l, fifths, fl)
		if obs != nil {
			obs.Mismatch(d, fifths)
		}
	}
	return Position{
		Diatonic:   d,
		Fifths:     fifths,
		Letter:     l,
		Accidental: accidentalFor(fifths, l),
		Octave:     note.FloorDiv(d, 7),
	}
}

func accidentalFor(fifths int, l note.Letter) int {
	return note.FloorDiv(fifths-l.NaturalFifths(), 7)
}

func (p Position) String() string {
	return fmt.Sprintf("%s%s%d", p.Letter, note.AccidentalSymbol(p.Accidental), p.Octave)
}
