// Package note holds the diatonic vocabulary shared by the resolver and the
// speller: letters, accidental symbols, scientific and Helmholtz octave
// names, and equal-tempered reference pitches.
package note

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Letter is a diatonic letter name, indexed C=0 through B=6.
type Letter int

const (
	C Letter = iota
	D
	E
	F
	G
	A
	B
)

var letterNames = [7]string{"C", "D", "E", "F", "G", "A", "B"}

// naturalFifths is the circle-of-fifths position of each natural letter
// measured from C: F=-1 C=0 G=1 D=2 A=3 E=4 B=5.
var naturalFifths = [7]int{0, 2, 4, -1, 1, 3, 5}

var pitchClasses = [7]int{0, 2, 4, 5, 7, 9, 11}

func (l Letter) String() string {
	if !l.Valid() {
		return "?"
	}
	return letterNames[l]
}

// Valid reports whether l is one of the seven letters.
func (l Letter) Valid() bool {
	return l >= C && l <= B
}

// NaturalFifths returns the letter's position on the circle of fifths.
func (l Letter) NaturalFifths() int {
	return naturalFifths[Mod(int(l), 7)]
}

// PitchClass returns the semitone of the natural letter above C.
func (l Letter) PitchClass() int {
	return pitchClasses[Mod(int(l), 7)]
}

// LetterAt returns the letter of a diatonic number (C0 = 0, D0 = 1, ...).
func LetterAt(diatonic int) Letter {
	return Letter(Mod(diatonic, 7))
}

// LetterForFifths returns the letter reached by moving fifths steps around
// the circle of fifths from C. Each fifth advances four diatonic steps.
func LetterForFifths(fifths int) Letter {
	return Letter(Mod(4*fifths, 7))
}

// DiatonicIndex returns octave*7 + letter.
func DiatonicIndex(l Letter, octave int) int {
	return octave*7 + int(l)
}

// Mod is the non-negative remainder of a divided by n.
func Mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, n int) int {
	q := a / n
	if (a%n != 0) && ((a < 0) != (n < 0)) {
		q--
	}
	return q
}

// MIDI returns the MIDI key number of a spelled pitch; C4 is 60.
func MIDI(l Letter, accidental, octave int) int {
	return 12*(octave+1) + l.PitchClass() + accidental
}

// Frequency returns the equal-tempered frequency of a MIDI key number.
func Frequency(midi float64, a4Hz float64) float64 {
	return a4Hz * math.Pow(2, (midi-69)/12)
}

// NearestMIDI returns round(69 + 12*log2(hz/a4Hz)).
func NearestMIDI(hz, a4Hz float64) int {
	return int(math.Round(69 + 12*math.Log2(hz/a4Hz)))
}

// Cents returns the signed distance from ref to hz in cents.
func Cents(hz, ref float64) float64 {
	return 1200 * math.Log2(hz/ref)
}

// Accidental symbols, single code points where Unicode provides them.
const (
	SymbolSharp       = "♯"
	SymbolFlat        = "♭"
	SymbolNatural     = "♮"
	SymbolDoubleSharp = "𝄪"
	SymbolDoubleFlat  = "𝄫"
)

// AccidentalSymbol renders a diatonic accidental count: 1 → ♯, -2 → 𝄫,
// 3 → ♯𝄪. Zero renders as the empty string.
func AccidentalSymbol(count int) string {
	if count == 0 {
		return ""
	}
	single, double := SymbolSharp, SymbolDoubleSharp
	if count < 0 {
		single, double = SymbolFlat, SymbolDoubleFlat
		count = -count
	}
	var b strings.Builder
	if count%2 == 1 {
		b.WriteString(single)
	}
	for i := 0; i < count/2; i++ {
		b.WriteString(double)
	}
	return norm.NFC.String(b.String())
}

// AccidentalWords renders an accidental count for screen readers.
func AccidentalWords(count int) string {
	switch count {
	case 0:
		return ""
	case 1:
		return "sharp"
	case -1:
		return "flat"
	case 2:
		return "double sharp"
	case -2:
		return "double flat"
	case 3:
		return "triple sharp"
	case -3:
		return "triple flat"
	}
	if count > 0 {
		return strconv.Itoa(count) + " sharps"
	}
	return strconv.Itoa(-count) + " flats"
}

// Helmholtz renders a letter and scientific octave in Helmholtz notation:
// octave 3 is "c", octave 4 "c′", octave 2 "C", octave 1 "C," and so on.
// The accidental symbol sits between the letter and the octave marks.
func Helmholtz(l Letter, accidental, octave int) string {
	var b strings.Builder
	name := l.String()
	if octave >= 3 {
		name = strings.ToLower(name)
	}
	b.WriteString(name)
	b.WriteString(AccidentalSymbol(accidental))
	switch {
	case octave > 3:
		b.WriteString(strings.Repeat("′", octave-3))
	case octave < 2:
		b.WriteString(strings.Repeat(",", 2-octave))
	}
	return norm.NFC.String(b.String())
}
