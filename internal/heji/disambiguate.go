package heji

import (
	"math"

	"github.com/roach88/jispell/internal/note"
)

// ETChoice is the equal-tempered spelling nearest to a frequency.
type ETChoice struct {
	Accidental int
	Octave     int
	Cents      float64 // freqHz relative to the chosen pitch
}

// BestETChoice tries accidentals -2..2 and octaves nearOctave±1 on letter
// and keeps the equal-tempered pitch closest to freqHz. The first candidate
// found wins ties (accidentals outer, octaves inner).
func BestETChoice(letter note.Letter, nearOctave int, freqHz, a4Hz float64) ETChoice {
	best := ETChoice{Octave: nearOctave, Cents: math.Inf(1)}
	if !(freqHz > 0) || !(a4Hz > 0) || math.IsInf(freqHz, 0) || math.IsInf(a4Hz, 0) {
		best.Cents = 0
		return best
	}
	bestAbs := math.Inf(1)
	for acc := -2; acc <= 2; acc++ {
		for oct := nearOctave - 1; oct <= nearOctave+1; oct++ {
			et := note.Frequency(float64(note.MIDI(letter, acc, oct)), a4Hz)
			c := note.Cents(freqHz, et)
			if a := math.Abs(c); a < bestAbs {
				best = ETChoice{Accidental: acc, Octave: oct, Cents: c}
				bestAbs = a
			}
		}
	}
	return best
}

// BestAccidentalCount returns only the accidental of BestETChoice.
func BestAccidentalCount(letter note.Letter, nearOctave int, freqHz, a4Hz float64) int {
	return BestETChoice(letter, nearOctave, freqHz, a4Hz).Accidental
}
