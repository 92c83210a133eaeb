package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/roach88/jispell/internal/anchor"
	"github.com/roach88/jispell/internal/config"
	"github.com/roach88/jispell/internal/glyph"
	"github.com/roach88/jispell/internal/heji"
	"github.com/roach88/jispell/internal/ratio"
	"github.com/roach88/jispell/internal/store"
)

// Sample is one output of a pitch detector.
type Sample struct {
	FrequencyHz float64 `json:"frequency_hz"`
	Confidence  float64 `json:"confidence"`
	Timestamp   float64 `json:"timestamp"`
}

// Settings are the per-engine tuning inputs.
type Settings struct {
	RootHz        float64
	A4Hz          float64
	Preference    anchor.Preference
	MinConfidence float64
	Profile       string
}

// DefaultSettings mirrors config.Default.
func DefaultSettings() Settings {
	s, _ := SettingsFromConfig(config.Default())
	return s
}

// SettingsFromConfig extracts engine settings, reading a note-name root
// against the configured A4.
func SettingsFromConfig(cfg config.Config) (Settings, error) {
	root, err := cfg.RootFrequency()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		RootHz:        root,
		A4Hz:          cfg.A4Hz,
		Preference:    cfg.Preference(),
		MinConfidence: cfg.MinConfidence,
		Profile:       cfg.Profile,
	}, nil
}

// FromConfig builds an engine from cfg. When cfg.Glyphs names a CUE glyph
// table its step sizes drive comma composition, so every composed
// component has a glyph to draw.
func FromConfig(cfg config.Config, resolver *anchor.Resolver, gen SessionGenerator, opts ...EngineOption) (*Engine, error) {
	settings, err := SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	spellerOpts := append(cfg.SpellerOptions(), heji.WithObserver(heji.NewSlogObserver(slog.Default())))
	if cfg.Glyphs != "" {
		tbl, err := glyph.Load(cfg.Glyphs)
		if err != nil {
			return nil, fmt.Errorf("load glyph table: %w", err)
		}
		spellerOpts = append(spellerOpts, heji.WithStepSource(tbl))
	}
	return New(settings, resolver, heji.NewSpeller(spellerOpts...), gen, opts...), nil
}

// Recorder persists readings. Implemented by *store.Store.
type Recorder interface {
	WriteReading(ctx context.Context, r store.Reading) error
}

// Handler receives every reading the loop produces, after it is recorded.
type Handler func(store.Reading)

// Stats counts what the loop has done with its samples.
type Stats struct {
	Processed int64 `json:"processed"`
	Dropped   int64 `json:"dropped"`
	Failed    int64 `json:"failed"`
}

// Engine is the single-writer pitch stream loop.
//
// Thread-safety model:
//   - Submit(), SetRoot(), ResetAnchor(): safe from any goroutine
//   - Spell(), SpellRatio(), Anchor(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
type Engine struct {
	resolver *anchor.Resolver
	speller  *heji.Speller
	clock    Sequencer
	queue    *eventQueue
	session  string
	recorder Recorder
	handler  Handler

	mu       sync.RWMutex
	settings Settings

	processed atomic.Int64
	dropped   atomic.Int64
	failed    atomic.Int64
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithRecorder writes every reading through r.
func WithRecorder(r Recorder) EngineOption {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithHandler delivers every reading to h.
func WithHandler(h Handler) EngineOption {
	return func(e *Engine) {
		e.handler = h
	}
}

// WithClock replaces the logical clock, for example with NewClockAt to
// continue an existing session.
func WithClock(c Sequencer) EngineOption {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// New creates an Engine. A nil resolver uses an in-memory anchor store, a
// nil speller uses the default 13-limit speller, and a nil generator
// issues UUIDv7 session tokens.
func New(
	settings Settings,
	resolver *anchor.Resolver,
	speller *heji.Speller,
	gen SessionGenerator,
	opts ...EngineOption,
) *Engine {
	if resolver == nil {
		resolver = anchor.NewResolver(nil)
	}
	if speller == nil {
		speller = heji.NewSpeller()
	}
	if gen == nil {
		gen = UUIDv7Generator{}
	}

	e := &Engine{
		resolver: resolver,
		speller:  speller,
		clock:    NewClock(),
		queue:    newEventQueue(),
		session:  gen.Generate(),
		settings: settings,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Session returns the token stamped on this engine's readings.
func (e *Engine) Session() string {
	return e.session
}

// Settings returns a copy of the current settings.
func (e *Engine) Settings() Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings
}

// Stats returns the sample counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Processed: e.processed.Load(),
		Dropped:   e.dropped.Load(),
		Failed:    e.failed.Load(),
	}
}

// Submit queues a sample. Returns false once the engine is stopped.
func (e *Engine) Submit(s Sample) bool {
	return e.queue.Enqueue(Event{Type: EventTypeSample, Sample: s})
}

// SetRoot queues a move of the reference frequency. The anchor stays
// frozen; only the ratios heard from now on change.
func (e *Engine) SetRoot(hz float64) bool {
	return e.queue.Enqueue(Event{Type: EventTypeRoot, RootHz: hz})
}

// ResetAnchor queues a reset of the frozen anchor. The next sample
// freezes a new one from the settings in force at that time.
func (e *Engine) ResetAnchor() bool {
	return e.queue.Enqueue(Event{Type: EventTypeReset})
}

// QueueLen returns the number of events waiting for Run.
func (e *Engine) QueueLen() int {
	return e.queue.Len()
}

// Run processes events until ctx is cancelled or Stop is called. Events
// already queued when Stop is called are drained first.
//
// ERROR HANDLING: a failing event is logged and the loop continues. A
// reading that could not be recorded is still delivered to the handler.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting", "session", e.session)

	for {
		event, ok := e.queue.TryDequeue()
		if ok {
			if err := e.processEvent(ctx, event); err != nil {
				logEventError(event, err)
			}
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("engine stopping: context cancelled", "session", e.session)
			e.queue.Close()
			return ctx.Err()

		case <-e.queue.Wait():
			if e.queue.Closed() && e.queue.Len() == 0 {
				slog.Info("engine stopping: queue closed", "session", e.session)
				return nil
			}
		}
	}
}

// Process handles one event on the caller's goroutine. It is for callers
// that drive the engine step by step, such as the scenario harness, and
// must not be mixed with Run.
func (e *Engine) Process(ctx context.Context, ev Event) error {
	return e.processEvent(ctx, ev)
}

// Stop closes the queue; Run returns once it has drained.
func (e *Engine) Stop() {
	e.queue.Close()
}

// Anchor resolves the frozen anchor from the current settings.
func (e *Engine) Anchor(ctx context.Context) (anchor.RootAnchor, error) {
	st := e.Settings()
	return e.resolver.Resolve(ctx, st.RootHz, st.A4Hz, st.Preference)
}

// Spell spells freqHz against the current root. The spelling is always
// usable; a non-nil error reports an anchor store failure.
func (e *Engine) Spell(ctx context.Context, freqHz float64) (heji.Spelling, error) {
	st := e.Settings()
	a, err := e.resolver.Resolve(ctx, st.RootHz, st.A4Hz, st.Preference)
	return e.speller.SpellFrequency(freqHz, st.RootHz, st.A4Hz, a), err
}

// SpellRatio spells r displaced by octave octaves above the anchor.
func (e *Engine) SpellRatio(ctx context.Context, r ratio.Ratio, octave int) (heji.Spelling, error) {
	a, err := e.Anchor(ctx)
	ref := ratio.NewRef(r)
	ref.Octave += octave
	return e.speller.SpellRef(ref, a), err
}

// processEvent routes an event to its handler.
// CRITICAL: called only from the Run goroutine.
func (e *Engine) processEvent(ctx context.Context, event Event) error {
	switch event.Type {
	case EventTypeSample:
		return e.processSample(ctx, event.Sample)
	case EventTypeRoot:
		return e.processRoot(event.RootHz)
	case EventTypeReset:
		return e.resolver.Reset(ctx)
	default:
		return fmt.Errorf("unknown event type: %d", event.Type)
	}
}

func (e *Engine) processSample(ctx context.Context, s Sample) error {
	st := e.Settings()
	if !e.accepts(s, st.MinConfidence) {
		e.dropped.Add(1)
		slog.Debug("sample dropped",
			"frequency_hz", s.FrequencyHz,
			"confidence", s.Confidence,
		)
		return nil
	}

	sp, err := e.Spell(ctx, s.FrequencyHz)
	if err != nil {
		slog.Warn("anchor store unavailable, using in-memory anchor", "error", err)
	}

	r := store.Reading{
		Session:     e.session,
		Profile:     st.Profile,
		Seq:         e.clock.Next(),
		FrequencyHz: s.FrequencyHz,
		Confidence:  s.Confidence,
		Timestamp:   s.Timestamp,
		Spelling:    sp,
	}
	slog.Debug("sample spelled",
		"seq", r.Seq,
		"frequency_hz", s.FrequencyHz,
		"label", sp.Scientific(),
		"approximate", sp.IsApproximate,
	)

	var recErr error
	if e.recorder != nil {
		if err := e.recorder.WriteReading(ctx, r); err != nil {
			e.failed.Add(1)
			recErr = fmt.Errorf("record reading seq %d: %w", r.Seq, err)
		}
	}
	e.processed.Add(1)
	if e.handler != nil {
		e.handler(r)
	}
	return recErr
}

func (e *Engine) processRoot(hz float64) error {
	if !usable(hz) {
		return fmt.Errorf("invalid root frequency %v", hz)
	}
	e.mu.Lock()
	old := e.settings.RootHz
	e.settings.RootHz = hz
	e.mu.Unlock()

	slog.Info("root changed", "from_hz", old, "to_hz", hz)
	return nil
}

// accepts reports whether a sample is worth spelling: confident enough and
// carrying a real frequency. Silence is reported by detectors as 0 Hz.
func (e *Engine) accepts(s Sample, minConfidence float64) bool {
	if math.IsNaN(s.Confidence) || s.Confidence < minConfidence {
		return false
	}
	return usable(s.FrequencyHz)
}

func usable(hz float64) bool {
	return hz > 0 && !math.IsInf(hz, 0) && !math.IsNaN(hz)
}

// logEventError logs a failed event with enough context to replay it.
func logEventError(event Event, err error) {
	attrs := []any{
		"event_type", event.Type.String(),
		"error", err,
	}
	switch event.Type {
	case EventTypeSample:
		attrs = append(attrs,
			"frequency_hz", event.Sample.FrequencyHz,
			"confidence", event.Sample.Confidence,
			"timestamp", event.Sample.Timestamp,
		)
	case EventTypeRoot:
		attrs = append(attrs, "root_hz", event.RootHz)
	}
	slog.Error("event processing failed", attrs...)
}
