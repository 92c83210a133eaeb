package harness

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/roach88/jispell/internal/anchor"
	"github.com/roach88/jispell/internal/engine"
	"github.com/roach88/jispell/internal/heji"
	"github.com/roach88/jispell/internal/note"
	"github.com/roach88/jispell/internal/ratio"
	"github.com/roach88/jispell/internal/store"
	"github.com/roach88/jispell/internal/testutil"
)

// Harness drives one engine through a scenario step by step.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	clock  *testutil.DeterministicClock
	a4Hz   float64

	last *store.Reading
}

// Run executes a scenario and returns its result.
//
// Each run gets a fresh in-memory store backing both the anchor and the
// readings log, so runs are isolated and repeatable.
//
// Execution flow:
//  1. Open the store and build the engine from the scenario config
//  2. Feed each step through the engine on this goroutine
//  3. Check per-step expectations
//  4. Evaluate assertions against the final state
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	cfg := scenario.Config
	h := &Harness{
		store: st,
		clock: testutil.NewDeterministicClock(0),
		a4Hz:  cfg.A4Hz,
	}
	eng, err := engine.FromConfig(cfg,
		anchor.NewResolver(st.Anchors(cfg.Profile)),
		testutil.NewFixedSessionGenerator(scenario.Session),
		engine.WithRecorder(st),
		engine.WithClock(h.clock),
		engine.WithHandler(func(r store.Reading) { h.last = &r }),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}
	h.engine = eng

	ctx := context.Background()
	result := NewResult()
	result.Session = eng.Session()

	for i, step := range scenario.Steps {
		entry, err := h.execute(ctx, i, step)
		if err != nil {
			result.AddError(fmt.Sprintf("steps[%d]: %v", i, err))
		}
		result.Entries = append(result.Entries, entry)
		if step.Expect != nil {
			for _, msg := range checkExpect(i, *step.Expect, entry) {
				result.AddError(msg)
			}
		}
	}

	a, err := eng.Anchor(ctx)
	if err != nil {
		result.AddError(fmt.Sprintf("anchor: %v", err))
	}
	result.Anchor = a.Name().String()

	readings, err := st.ReadSession(ctx, result.Session, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read readings: %w", err)
	}
	result.Readings = len(readings)

	for _, msg := range EvaluateAssertions(result, readings, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) execute(ctx context.Context, i int, step Step) (Entry, error) {
	entry := Entry{Step: i + 1, Kind: step.Kind()}

	switch entry.Kind {
	case KindRatio:
		r, err := ratio.ParseRatio(step.Ratio)
		if err != nil {
			return entry, err
		}
		entry.Input = r.String()
		if step.Octave != 0 {
			entry.Input += fmt.Sprintf(" %+d oct", step.Octave)
		}
		sp, err := h.engine.SpellRatio(ctx, r, step.Octave)
		entry.Spelling = &sp
		return entry, err

	case KindTone:
		r, err := ratio.ParseRatio(step.Tone)
		if err != nil {
			return entry, err
		}
		entry.Input = r.String()
		if step.Detune != 0 {
			entry.Input += fmt.Sprintf(" %+.3fc", step.Detune)
		}
		hz := h.engine.Settings().RootHz * r.Value() * math.Exp2(step.Detune/1200)
		return h.sample(ctx, entry, hz, step.SampleConfidence())

	case KindHz:
		entry.Input = fmt.Sprintf("%.3f Hz @%.2f", *step.Hz, step.SampleConfidence())
		return h.sample(ctx, entry, *step.Hz, step.SampleConfidence())

	case KindRoot:
		hz := step.RootHz
		entry.Input = fmt.Sprintf("%.3f Hz", hz)
		if step.Root != "" {
			n, err := note.Parse(step.Root)
			if err != nil {
				return entry, err
			}
			hz = n.Frequency(h.a4Hz)
			entry.Input = n.String()
		}
		entry.RootHz = hz
		return entry, h.engine.Process(ctx, engine.Event{Type: engine.EventTypeRoot, RootHz: hz})

	case KindReset:
		return entry, h.engine.Process(ctx, engine.Event{Type: engine.EventTypeReset})
	}
	return entry, fmt.Errorf("unsupported step")
}

func (h *Harness) sample(ctx context.Context, entry Entry, hz, confidence float64) (Entry, error) {
	h.last = nil
	err := h.engine.Process(ctx, engine.Event{
		Type:   engine.EventTypeSample,
		Sample: engine.Sample{FrequencyHz: hz, Confidence: confidence, Timestamp: float64(entry.Step)},
	})
	if h.last == nil {
		entry.Dropped = true
		return entry, err
	}
	entry.Seq = h.last.Seq
	sp := h.last.Spelling
	entry.Spelling = &sp
	return entry, err
}

func checkExpect(i int, want Expect, got Entry) []string {
	var errs []string
	if want.Dropped != got.Dropped {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected dropped=%t, got %t", i, want.Dropped, got.Dropped))
	}
	if got.Spelling == nil {
		if want.Label != "" || want.Approximate != nil || want.Unsupported != nil {
			errs = append(errs, fmt.Sprintf("steps[%d]: expected a spelling, got none", i))
		}
		return errs
	}
	sp := *got.Spelling
	if want.Label != "" && want.Label != sp.Scientific() {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected label %s, got %s", i, want.Label, sp.Scientific()))
	}
	if want.Approximate != nil && *want.Approximate != sp.IsApproximate {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected approximate=%t, got %t", i, *want.Approximate, sp.IsApproximate))
	}
	if want.Unsupported != nil && !slices.Equal(want.Unsupported, sp.UnsupportedPrimes) {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected unsupported primes %v, got %v", i, want.Unsupported, sp.UnsupportedPrimes))
	}
	return errs
}

// labels renders spellings as scientific labels.
func labels(sps []heji.Spelling) []string {
	out := make([]string, len(sps))
	for i, sp := range sps {
		out[i] = sp.Scientific()
	}
	return out
}
