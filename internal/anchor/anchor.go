package anchor

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/jispell/internal/note"
)

// RootAnchor is the fixed reference point of a session.
// FifthsFromC is the root's position on the circle of fifths (C=0, G=1,
// F=-1); DiatonicNumber is octave*7 + letter index (C4 = 28).
type RootAnchor struct {
	FifthsFromC    int `json:"fifths_from_c"`
	DiatonicNumber int `json:"diatonic_number"`
}

// FromName builds the anchor of a spelled pitch.
func FromName(n note.Name) RootAnchor {
	return RootAnchor{FifthsFromC: n.Fifths(), DiatonicNumber: n.Diatonic()}
}

// Letter returns DiatonicNumber mod 7.
func (a RootAnchor) Letter() note.Letter {
	return note.LetterAt(a.DiatonicNumber)
}

// Octave returns floorDiv(DiatonicNumber, 7).
func (a RootAnchor) Octave() int {
	return note.FloorDiv(a.DiatonicNumber, 7)
}

// Accidental derives the diatonic accidental from the fifths position.
func (a RootAnchor) Accidental() int {
	return note.FloorDiv(a.FifthsFromC-a.Letter().NaturalFifths(), 7)
}

// Valid reports whether the fifths position and diatonic number name the
// same letter.
func (a RootAnchor) Valid() bool {
	return note.LetterForFifths(a.FifthsFromC) == a.Letter()
}

// Name returns the anchor as a spelled pitch.
func (a RootAnchor) Name() note.Name {
	return note.Name{Letter: a.Letter(), Accidental: a.Accidental(), Octave: a.Octave()}
}

func (a RootAnchor) String() string {
	return fmt.Sprintf("%s (fifths=%d, diatonic=%d)", a.Name(), a.FifthsFromC, a.DiatonicNumber)
}

// Preference selects the 12-entry spelling table used for the root.
type Preference int

const (
	// PreferAuto spells each semitone with the fewer fifths from C.
	PreferAuto Preference = iota
	PreferSharps
	PreferFlats
)

func (p Preference) String() string {
	switch p {
	case PreferSharps:
		return "sharps"
	case PreferFlats:
		return "flats"
	default:
		return "auto"
	}
}

// ParsePreference accepts auto, sharps/prefer-sharps and flats/prefer-flats.
func ParsePreference(s string) (Preference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PreferAuto, nil
	case "sharps", "sharp", "prefer-sharps":
		return PreferSharps, nil
	case "flats", "flat", "prefer-flats":
		return PreferFlats, nil
	}
	return PreferAuto, fmt.Errorf("unknown accidental preference %q", s)
}

type spelled struct {
	letter     note.Letter
	accidental int
}

var sharpTable = [12]spelled{
	{note.C, 0}, {note.C, 1}, {note.D, 0}, {note.D, 1}, {note.E, 0}, {note.F, 0},
	{note.F, 1}, {note.G, 0}, {note.G, 1}, {note.A, 0}, {note.A, 1}, {note.B, 0},
}

var flatTable = [12]spelled{
	{note.C, 0}, {note.D, -1}, {note.D, 0}, {note.E, -1}, {note.E, 0}, {note.F, 0},
	{note.G, -1}, {note.G, 0}, {note.A, -1}, {note.A, 0}, {note.B, -1}, {note.B, 0},
}

var autoTable = [12]spelled{
	{note.C, 0}, {note.D, -1}, {note.D, 0}, {note.E, -1}, {note.E, 0}, {note.F, 0},
	{note.F, 1}, {note.G, 0}, {note.A, -1}, {note.A, 0}, {note.B, -1}, {note.B, 0},
}

// SpellSemitone spells a MIDI key number with the table chosen by pref.
func SpellSemitone(midi int, pref Preference) note.Name {
	table := &autoTable
	switch pref {
	case PreferSharps:
		table = &sharpTable
	case PreferFlats:
		table = &flatTable
	}
	s := table[note.Mod(midi, 12)]
	octave := note.FloorDiv(midi, 12) - 1
	// B♯ and C♭ never appear in the tables, so the octave of the pitch
	// class is the octave of the letter.
	return note.Name{Letter: s.letter, Accidental: s.accidental, Octave: octave}
}

// DefaultA4 is used when the note-naming reference is unusable.
const DefaultA4 = 440.0

// Compute derives an anchor from the root frequency without touching any
// store. An unusable root resolves to C4; an unusable A4 to DefaultA4.
func Compute(rootHz, a4Hz float64, pref Preference) RootAnchor {
	if !usable(a4Hz) {
		a4Hz = DefaultA4
	}
	midi := 60
	if usable(rootHz) {
		midi = note.NearestMIDI(rootHz, a4Hz)
	}
	return FromName(SpellSemitone(midi, pref))
}

func usable(hz float64) bool {
	return hz > 0 && !math.IsInf(hz, 0) && !math.IsNaN(hz)
}
