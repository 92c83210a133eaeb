package heji

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/jispell/internal/note"
)

func TestComponentToken(t *testing.T) {
	assert.Equal(t, "↓", Component{Prime: 5, Steps: 1}.Token())
	assert.Equal(t, "↑↑↑", Component{Prime: 5, Up: true, Steps: 3}.Token())
	assert.Equal(t, "↓7", Component{Prime: 7, Steps: 1}.Token())
	assert.Equal(t, "↓↓7", Component{Prime: 7, Steps: 2}.Token())
	assert.Equal(t, "↑11", Component{Prime: 11, Up: true, Steps: 1}.Token())
}

func TestSpellingLabels(t *testing.T) {
	sp := Spelling{
		Letter: note.B,
		Octave: 4,
		Accidental: Accidental{
			Diatonic:   -1,
			Components: []Component{{Prime: 7, Up: false, Steps: 1}},
		},
	}
	assert.Equal(t, "B♭", sp.Name())
	assert.Equal(t, "B♭↓7", sp.Label())
	assert.Equal(t, "B♭4↓7", sp.Scientific())
	assert.Equal(t, "b♭′↓7", sp.Helmholtz())
	assert.Equal(t, "B flat 4, lowered by one septimal comma", sp.Accessible())
	assert.Equal(t, "B♭4", sp.Note().String())
}

func TestSpellingLabelsStackedCommas(t *testing.T) {
	sp := Spelling{
		Letter: note.E,
		Octave: 2,
		Accidental: Accidental{Components: []Component{
			{Prime: 5, Up: true, Steps: 2},
			{Prime: 11, Up: true, Steps: 1},
		}},
	}
	assert.Equal(t, "E↑↑↑11", sp.Label())
	assert.Equal(t, "E↑↑↑11", sp.Helmholtz())
	assert.Equal(t, "E 2, raised by two syntonic commas, raised by one undecimal comma", sp.Accessible())
}

func TestSpellingLabelsApproximate(t *testing.T) {
	sp := Spelling{Letter: note.A, Octave: 1, IsApproximate: true, Accidental: Accidental{Diatonic: 2}}
	assert.Equal(t, "A𝄪", sp.Label())
	assert.Equal(t, "A𝄪,", sp.Helmholtz())
	assert.Equal(t, "A double sharp 1, approximate", sp.Accessible())
}
