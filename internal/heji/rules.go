package heji

import (
	"github.com/roach88/jispell/internal/anchor"
	"github.com/roach88/jispell/internal/note"
	"github.com/roach88/jispell/internal/ratio"
)

// State is the spelling a rule inspects and rewrites.
type State struct {
	Diatonic   int
	Accidental int
	Components []Component

	// Read-only context.
	Monzo  ratio.Monzo
	Offset int // rounded semitones above the anchor, octave-reduced (0..12)
	Anchor anchor.RootAnchor
}

// Letter returns the letter of the current diatonic number.
func (s *State) Letter() note.Letter {
	return note.LetterAt(s.Diatonic)
}

// Octave returns the scientific octave of the current diatonic number.
func (s *State) Octave() int {
	return note.FloorDiv(s.Diatonic, 7)
}

// Has reports whether a component for prime is present.
func (s *State) Has(prime int) bool {
	for _, c := range s.Components {
		if c.Prime == prime {
			return true
		}
	}
	return false
}

func (s *State) first(prime int) (Component, bool) {
	for _, c := range s.Components {
		if c.Prime == prime {
			return c, true
		}
	}
	return Component{}, false
}

// retarget moves to the nearest diatonic number carrying letter l.
func (s *State) retarget(l note.Letter) {
	delta := note.Mod(int(l)-int(s.Letter()), 7)
	if delta > 3 {
		delta -= 7
	}
	s.Diatonic += delta
}

func (s *State) is(l note.Letter, acc int) bool {
	return s.Letter() == l && s.Accidental == acc
}

// Rule is one narrow rewrite of a composed spelling.
type Rule struct {
	Name    string
	Applies func(*State) bool
	Rewrite func(*State)
}

// DefaultRules are applied in order; each sees the result of the previous.
var DefaultRules = []Rule{
	Prime29Pure,
	Prime17NearTonic,
	Prime19Enharmonic,
	Prime23Enharmonic,
	Prime29DoubleSharp,
	Prime31Tonic,
}

// Prime29Pure drops the sharp of a bare 29 spelled on F♯.
var Prime29Pure = Rule{
	Name: "29-pure",
	Applies: func(s *State) bool {
		return s.Monzo.OnlyPrime(29) && s.Has(29) && s.is(note.F, 1)
	},
	Rewrite: func(s *State) {
		s.Accidental = 0
	},
}

// Prime17NearTonic spells 17-limit pitches within two semitones of the
// root on the root's letter, with the 17-comma pointing down.
var Prime17NearTonic = Rule{
	Name: "17-near-tonic",
	Applies: func(s *State) bool {
		return s.Has(17) && abs(s.Offset) <= 2
	},
	Rewrite: func(s *State) {
		s.retarget(s.Anchor.Letter())
		s.Accidental = clamp(s.Anchor.Accidental()+s.Offset, -2, 2)
		for i := range s.Components {
			if s.Components[i].Prime == 17 {
				s.Components[i].Up = false
			}
		}
	},
}

type spelledKey struct {
	letter note.Letter
	acc    int
}

// preferSharps rewrites single flats to the enharmonic sharp or natural.
var preferSharps = map[spelledKey]spelledKey{
	{note.C, -1}: {note.B, 0},
	{note.D, -1}: {note.C, 1},
	{note.E, -1}: {note.D, 1},
	{note.F, -1}: {note.E, 0},
	{note.G, -1}: {note.F, 1},
	{note.A, -1}: {note.G, 1},
	{note.B, -1}: {note.A, 1},
}

// preferFlats rewrites single sharps to the enharmonic flat or natural.
var preferFlats = map[spelledKey]spelledKey{
	{note.B, 1}: {note.C, 0},
	{note.C, 1}: {note.D, -1},
	{note.D, 1}: {note.E, -1},
	{note.E, 1}: {note.F, 0},
	{note.F, 1}: {note.G, -1},
	{note.G, 1}: {note.A, -1},
	{note.A, 1}: {note.B, -1},
}

// enharmonicRule builds the 19/23 rewrite. sharpsWhenUp selects the
// prefer-sharps table when the prime's first component points up.
func enharmonicRule(name string, prime int, sharpsWhenUp bool) Rule {
	lookup := func(s *State) (spelledKey, bool) {
		c, ok := s.first(prime)
		if !ok {
			return spelledKey{}, false
		}
		table := preferFlats
		if c.Up == sharpsWhenUp {
			table = preferSharps
		}
		to, ok := table[spelledKey{s.Letter(), s.Accidental}]
		return to, ok
	}
	return Rule{
		Name: name,
		Applies: func(s *State) bool {
			_, ok := lookup(s)
			return ok
		},
		Rewrite: func(s *State) {
			to, ok := lookup(s)
			if !ok {
				return
			}
			s.retarget(to.letter)
			s.Accidental = to.acc
		},
	}
}

// Prime19Enharmonic prefers sharps when the 19-comma points down.
var Prime19Enharmonic = enharmonicRule("19-enharmonic", 19, false)

// Prime23Enharmonic prefers sharps when the 23-comma points up.
var Prime23Enharmonic = enharmonicRule("23-enharmonic", 23, true)

// Prime29DoubleSharp respells A𝄪 as B when no 17 is present.
var Prime29DoubleSharp = Rule{
	Name: "29-double-sharp",
	Applies: func(s *State) bool {
		return s.Has(29) && !s.Has(17) && s.is(note.A, 2)
	},
	Rewrite: func(s *State) {
		s.retarget(note.B)
		s.Accidental = 0
	},
}

// Prime31Tonic keeps 31-limit pitches near the unison or the octave on the
// root's letter and accidental.
var Prime31Tonic = Rule{
	Name: "31-tonic",
	Applies: func(s *State) bool {
		return s.Has(31) && (abs(s.Offset) <= 1 || abs(s.Offset-12) <= 1)
	},
	Rewrite: func(s *State) {
		s.retarget(s.Anchor.Letter())
		s.Accidental = s.Anchor.Accidental()
	},
}

// ApplyRules runs rules in order and reports each rewrite to obs.
func ApplyRules(s *State, rules []Rule, obs Observer) {
	for _, r := range rules {
		if !r.Applies(s) {
			continue
		}
		before := s.pitch()
		r.Rewrite(s)
		if obs != nil {
			obs.RuleApplied(r.Name, before, s.pitch())
		}
	}
}

func (s *State) pitch() note.Name {
	return note.Name{Letter: s.Letter(), Accidental: s.Accidental, Octave: s.Octave()}
}

func clamp(x, lo, hi int) int {
	return max(lo, min(x, hi))
}
