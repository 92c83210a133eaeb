package heji

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/jispell/internal/note"
)

const (
	arrowUp   = "↑"
	arrowDown = "↓"
)

// Token renders a component as arrows followed by the prime; the syntonic
// comma (5) is written as bare arrows.
func (c Component) Token() string {
	arrow := arrowDown
	if c.Up {
		arrow = arrowUp
	}
	tok := strings.Repeat(arrow, max(c.Steps, 1))
	if c.Prime != 5 {
		tok += strconv.Itoa(c.Prime)
	}
	return tok
}

// Tokens renders every component in order.
func (a Accidental) Tokens() string {
	var b strings.Builder
	for _, c := range a.Components {
		b.WriteString(c.Token())
	}
	return b.String()
}

// Name renders letter and diatonic accidental: "E♭".
func (s Spelling) Name() string {
	return norm.NFC.String(s.Letter.String() + note.AccidentalSymbol(s.Accidental.Diatonic))
}

// Label renders the name followed by comma tokens: "E↓", "B♭↓7", "F↑11".
func (s Spelling) Label() string {
	return norm.NFC.String(s.Name() + s.Accidental.Tokens())
}

// Scientific renders name, octave and comma tokens: "E4↓".
func (s Spelling) Scientific() string {
	return norm.NFC.String(s.Name() + strconv.Itoa(s.Octave) + s.Accidental.Tokens())
}

// Helmholtz renders the note in Helmholtz octave marks: "e′↓".
func (s Spelling) Helmholtz() string {
	return norm.NFC.String(note.Helmholtz(s.Letter, s.Accidental.Diatonic, s.Octave) + s.Accidental.Tokens())
}

// Accessible renders a screen-reader description, for example
// "E flat 4, raised by one syntonic comma".
func (s Spelling) Accessible() string {
	var b strings.Builder
	b.WriteString(s.Letter.String())
	if w := note.AccidentalWords(s.Accidental.Diatonic); w != "" {
		b.WriteString(" ")
		b.WriteString(w)
	}
	b.WriteString(" ")
	b.WriteString(strconv.Itoa(s.Octave))

	for _, c := range s.Accidental.Components {
		b.WriteString(", ")
		if c.Up {
			b.WriteString("raised by ")
		} else {
			b.WriteString("lowered by ")
		}
		b.WriteString(countWord(c.Steps))
		b.WriteString(" ")
		name := strconv.Itoa(c.Prime) + "-limit"
		if pol, ok := Policies[c.Prime]; ok {
			name = pol.Name
		}
		b.WriteString(name)
		if c.Steps == 1 {
			b.WriteString(" comma")
		} else {
			b.WriteString(" commas")
		}
	}
	if s.IsApproximate {
		b.WriteString(", approximate")
	}
	return norm.NFC.String(b.String())
}

var countWords = []string{"zero", "one", "two", "three", "four", "five"}

func countWord(n int) string {
	if n >= 0 && n < len(countWords) {
		return countWords[n]
	}
	return strconv.Itoa(n)
}
