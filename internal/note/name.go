package note

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultOctave is assumed when a parsed name carries no octave number.
const DefaultOctave = 4

// Name is a spelled pitch: letter, diatonic accidental and scientific octave.
type Name struct {
	Letter     Letter `json:"letter"`
	Accidental int    `json:"accidental"`
	Octave     int    `json:"octave"`
}

// Fifths returns the circle-of-fifths position measured from C.
func (n Name) Fifths() int {
	return n.Letter.NaturalFifths() + 7*n.Accidental
}

// Diatonic returns the diatonic number (C0 = 0).
func (n Name) Diatonic() int {
	return DiatonicIndex(n.Letter, n.Octave)
}

// MIDI returns the MIDI key number.
func (n Name) MIDI() int {
	return MIDI(n.Letter, n.Accidental, n.Octave)
}

// Frequency returns the equal-tempered frequency against a4Hz.
func (n Name) Frequency(a4Hz float64) float64 {
	return Frequency(float64(n.MIDI()), a4Hz)
}

func (n Name) String() string {
	return n.Letter.String() + AccidentalSymbol(n.Accidental) + strconv.Itoa(n.Octave)
}

// Parse reads names such as "C4", "Bb3", "F♯", "E𝄫2" or "c#-1".
// The letter is case-insensitive; ASCII "#", "x" and "b" are accepted next
// to the Unicode symbols. A missing octave defaults to DefaultOctave.
func Parse(s string) (Name, error) {
	s = norm.NFC.String(strings.TrimSpace(s))
	if s == "" {
		return Name{}, fmt.Errorf("parse note: empty input")
	}

	first, size := utf8.DecodeRuneInString(s)
	idx := strings.IndexRune("CDEFGAB", toUpper(first))
	if idx < 0 {
		return Name{}, fmt.Errorf("parse note %q: unknown letter %q", s, first)
	}
	n := Name{Letter: Letter(idx), Octave: DefaultOctave}

	rest := s[size:]
	for rest != "" {
		r, w := utf8.DecodeRuneInString(rest)
		delta, ok := accidentalRunes[r]
		if !ok {
			break
		}
		n.Accidental += delta
		rest = rest[w:]
	}

	rest = strings.TrimSpace(rest)
	if rest != "" {
		oct, err := strconv.Atoi(rest)
		if err != nil {
			return Name{}, fmt.Errorf("parse note %q: octave: %w", s, err)
		}
		n.Octave = oct
	}
	return n, nil
}

var accidentalRunes = map[rune]int{
	'#': 1,
	'♯': 1,
	'x': 2,
	'𝄪': 2,
	'b': -1,
	'♭': -1,
	'𝄫': -2,
	'♮': 0,
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}
