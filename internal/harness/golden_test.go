package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/jispell/internal/heji"
	"github.com/roach88/jispell/internal/note"
	"github.com/roach88/jispell/internal/ratio"
)

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "+0.000", formatCents(-1e-12))
	assert.Equal(t, "+0.000", formatCents(0))
	assert.Equal(t, "-31.174", formatCents(-31.17409))
	assert.Equal(t, "+3.000", formatCents(2.99996))
}

func TestFormat_Layout(t *testing.T) {
	r := ratio.NewRatio(7, 4)
	cents := -31.174
	result := &Result{
		Session: "s",
		Anchor:  "C4",
		Entries: []Entry{
			{Step: 1, Kind: KindReset},
			{Step: 2, Kind: KindHz, Input: "1.000 Hz @0.10", Dropped: true},
			{Step: 3, Kind: KindTone, Input: "7/4", Seq: 9, Spelling: &heji.Spelling{
				Letter:            note.B,
				Octave:            4,
				Accidental:        heji.Accidental{Diatonic: -1},
				IsApproximate:     true,
				CentsError:        &cents,
				Ratio:             &r,
				UnsupportedPrimes: []int{7},
			}},
		},
		Readings: 1,
		Errors:   []string{"boom"},
	}

	want := "scenario: demo\n" +
		"session: s\n" +
		"[01] reset\n" +
		"[02] hz 1.000 Hz @0.10 -> dropped\n" +
		"[03] tone 7/4 -> #9 B♭4 | b♭′ | ratio 7/4 | cents -31.174 | unsupported 7 | B flat 4, approximate\n" +
		"anchor: C4\n" +
		"readings: 1\n" +
		"errors: 1\n" +
		"  boom\n"
	assert.Equal(t, want, Format("demo", result))
}
