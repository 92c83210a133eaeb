package heji

import (
	"github.com/roach88/jispell/internal/note"
	"github.com/roach88/jispell/internal/ratio"
)

// Component is one rendered comma glyph: a prime, a direction and the
// number of comma steps the glyph stands for.
type Component struct {
	Prime int  `json:"prime"`
	Up    bool `json:"up"`
	Steps int  `json:"steps"`
}

// Accidental is the full accidental of a spelled note: the sharp/flat count
// followed by comma components in ascending prime order.
type Accidental struct {
	Diatonic   int         `json:"diatonic"`
	Components []Component `json:"components,omitempty"`
}

// Has reports whether a component for prime is present.
func (a Accidental) Has(prime int) bool {
	_, ok := a.First(prime)
	return ok
}

// First returns the first component for prime.
func (a Accidental) First(prime int) (Component, bool) {
	for _, c := range a.Components {
		if c.Prime == prime {
			return c, true
		}
	}
	return Component{}, false
}

// Spelling is a resolved note.
//
// Octave is the scientific octave (C4 is middle C); Helmholtz renders it
// in Helmholtz marks. CentsError is the signed distance from the spelled
// pitch to the input frequency and is nil for exact ratio spellings.
// Ratio is nil when no ratio was involved (an approximate spelling keeps
// the ratio it tried).
type Spelling struct {
	Letter            note.Letter  `json:"letter"`
	Octave            int          `json:"octave"`
	Accidental        Accidental   `json:"accidental"`
	IsApproximate     bool         `json:"approximate"`
	CentsError        *float64     `json:"cents_error,omitempty"`
	Ratio             *ratio.Ratio `json:"ratio,omitempty"`
	UnsupportedPrimes []int        `json:"unsupported_primes,omitempty"`
}

// Note returns the letter, diatonic accidental and octave.
func (s Spelling) Note() note.Name {
	return note.Name{Letter: s.Letter, Accidental: s.Accidental.Diatonic, Octave: s.Octave}
}

// Diatonic returns the diatonic number of the spelled letter.
func (s Spelling) Diatonic() int {
	return note.DiatonicIndex(s.Letter, s.Octave)
}
