package heji

import (
	"math"

	"github.com/roach88/jispell/internal/anchor"
	"github.com/roach88/jispell/internal/ratio"
)

// Defaults used when a Speller is built without options.
const (
	DefaultPrimeLimit     = 13
	DefaultMaxDenominator = 128
	DefaultMaxCentsError  = 5.0
)

// Speller turns ratios and frequencies into Spellings.
// A Speller is immutable after construction and safe for concurrent use.
type Speller struct {
	primeLimit     int
	maxDenominator int
	maxCentsError  float64
	steps          StepSource
	rules          []Rule
	observer       Observer
}

// Option configures a Speller.
type Option func(*Speller)

// WithPrimeLimit sets the largest prime spelled exactly.
func WithPrimeLimit(limit int) Option {
	return func(s *Speller) {
		s.primeLimit = limit
	}
}

// WithMaxDenominator bounds the continued-fraction search.
func WithMaxDenominator(d int) Option {
	return func(s *Speller) {
		s.maxDenominator = d
	}
}

// WithMaxCentsError sets the tolerance above which a frequency is spelled
// approximately.
func WithMaxCentsError(c float64) Option {
	return func(s *Speller) {
		s.maxCentsError = c
	}
}

// WithStepSource sets where comma step sizes come from (normally the glyph
// table).
func WithStepSource(src StepSource) Option {
	return func(s *Speller) {
		s.steps = src
	}
}

// WithRules replaces the rewrite rules.
func WithRules(rules []Rule) Option {
	return func(s *Speller) {
		s.rules = rules
	}
}

// WithObserver installs a diagnostics observer.
func WithObserver(o Observer) Option {
	return func(s *Speller) {
		s.observer = o
	}
}

// NewSpeller creates a speller.
func NewSpeller(opts ...Option) *Speller {
	s := &Speller{
		primeLimit:     DefaultPrimeLimit,
		maxDenominator: DefaultMaxDenominator,
		maxCentsError:  DefaultMaxCentsError,
		steps:          DefaultSteps,
		rules:          DefaultRules,
		observer:       NopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.steps == nil {
		s.steps = DefaultSteps
	}
	if s.observer == nil {
		s.observer = NopObserver{}
	}
	return s
}

// PrimeLimit returns the configured prime limit.
func (s *Speller) PrimeLimit() int {
	return s.primeLimit
}

// SpellRatio spells r above the anchor. Primes that cannot be notated
// still move the letter through their skeleton and are listed in
// UnsupportedPrimes. Invalid ratios spell the unison.
func (s *Speller) SpellRatio(r ratio.Ratio, a anchor.RootAnchor) Spelling {
	if !r.IsValid() {
		r = ratio.Unison
	}
	return s.spellMonzo(ratio.Factorize(r), r, a)
}

// SpellRef spells a ratio with an octave displacement, reusing its cached
// monzo when present. The spelling carries the full interval, octave
// included, unless it overflows int64.
func (s *Speller) SpellRef(ref ratio.Ref, a anchor.RootAnchor) Spelling {
	r, ok := ref.Full()
	if !ok {
		r = ref.Ratio()
	}
	var m ratio.Monzo
	if len(ref.Monzo) > 0 {
		m = make(ratio.Monzo, len(ref.Monzo)+1)
		for p, e := range ref.Monzo {
			m[p] = e
		}
	} else {
		m = ratio.Factorize(ref.Ratio())
	}
	if ref.Octave != 0 {
		m[2] += ref.Octave
		if m[2] == 0 {
			delete(m, 2)
		}
	}
	return s.spellMonzo(m, r, a)
}

func (s *Speller) spellMonzo(m ratio.Monzo, r ratio.Ratio, a anchor.RootAnchor) Spelling {
	e3, e2 := Skeleton(m)
	pos := MapDisplacement(e3, e2+e3, a, s.observer)

	st := State{
		Diatonic:   pos.Diatonic,
		Accidental: pos.Accidental,
		Components: Compose(m, s.primeLimit, s.steps),
		Monzo:      m,
		Offset:     ratio.SemitoneOffset(r),
		Anchor:     a,
	}
	ApplyRules(&st, s.rules, s.observer)

	return Spelling{
		Letter:            st.Letter(),
		Octave:            st.Octave(),
		Accidental:        Accidental{Diatonic: st.Accidental, Components: st.Components},
		Ratio:             &r,
		UnsupportedPrimes: Unsupported(m, s.primeLimit),
	}
}

// SpellFrequency spells freqHz heard against a root at rootHz.
//
// The ratio is found with the continued-fraction approximator (or as a
// pure Pythagorean interval when the prime limit is 3). If it misses by
// more than the tolerance, or contains primes that cannot be notated, the
// letter is kept and accidental and octave come from the nearest
// equal-tempered pitch against a4Hz; comma components are dropped and the
// spelling is marked approximate.
//
// Unusable frequencies spell the unison.
func (s *Speller) SpellFrequency(freqHz, rootHz, a4Hz float64, a anchor.RootAnchor) Spelling {
	if !usable(freqHz) || !usable(rootHz) {
		return s.SpellRatio(ratio.Unison, a)
	}
	value := freqHz / rootHz

	var sp Spelling
	var centsError float64
	if s.primeLimit <= 3 {
		py := ratio.BestE3ForRatio(value)
		m := ratio.Monzo{}
		if py.E3 != 0 {
			m[3] = py.E3
		}
		if py.E2 != 0 {
			m[2] = py.E2
		}
		r, ok := py.Ratio()
		if !ok {
			r = ratio.Unison
		}
		sp = s.spellMonzo(m, r, a)
		centsError = py.CentsError
	} else {
		r := ratio.Approximate(value, s.primeLimit, s.maxDenominator, s.maxCentsError)
		sp = s.SpellRatio(r, a)
		centsError = 1200 * math.Log2(value/r.Value())
	}

	if math.Abs(centsError) > s.maxCentsError || len(sp.UnsupportedPrimes) > 0 {
		if !usable(a4Hz) {
			a4Hz = anchor.DefaultA4
		}
		choice := BestETChoice(sp.Letter, sp.Octave, freqHz, a4Hz)
		sp.Accidental = Accidental{Diatonic: choice.Accidental}
		sp.Octave = choice.Octave
		sp.IsApproximate = true
		centsError = choice.Cents
		if sp.Ratio != nil {
			s.observer.Approximated(freqHz, *sp.Ratio, centsError)
		}
	}
	sp.CentsError = &centsError
	return sp
}

func usable(hz float64) bool {
	return hz > 0 && !math.IsInf(hz, 0) && !math.IsNaN(hz)
}
