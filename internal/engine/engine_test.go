package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jispell/internal/anchor"
	"github.com/roach88/jispell/internal/config"
	"github.com/roach88/jispell/internal/heji"
	"github.com/roach88/jispell/internal/note"
	"github.com/roach88/jispell/internal/ratio"
	"github.com/roach88/jispell/internal/store"
	"github.com/roach88/jispell/internal/testutil"
)

var (
	c4Hz = note.Frequency(60, 440)
	d4Hz = note.Frequency(62, 440)
)

// collector is a Handler that keeps every reading.
type collector struct {
	mu       sync.Mutex
	readings []store.Reading
}

func (c *collector) handle(r store.Reading) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readings = append(c.readings, r)
}

func (c *collector) labels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.readings))
	for i, r := range c.readings {
		out[i] = r.Spelling.Scientific()
	}
	return out
}

type failingRecorder struct{}

func (failingRecorder) WriteReading(context.Context, store.Reading) error {
	return errors.New("disk full")
}

type failingAnchorStore struct{}

func (failingAnchorStore) Load(context.Context) (anchor.Record, error) {
	return anchor.Record{}, errors.New("store offline")
}
func (failingAnchorStore) Save(context.Context, anchor.Record) error {
	return errors.New("store offline")
}
func (failingAnchorStore) Reset(context.Context) error { return errors.New("store offline") }

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestEngine(t *testing.T, opts ...EngineOption) (*Engine, *collector) {
	t.Helper()
	c := &collector{}
	opts = append([]EngineOption{WithHandler(c.handle)}, opts...)
	e := New(DefaultSettings(), nil, nil, testutil.NewFixedSessionGenerator("session-1"), opts...)
	return e, c
}

// drain stops the engine and runs it to completion on the calling
// goroutine; Run returns once every queued event is processed.
func drain(t *testing.T, e *Engine) {
	t.Helper()
	e.Stop()
	require.NoError(t, e.Run(context.Background()))
}

func TestEngine_New(t *testing.T) {
	e, _ := newTestEngine(t)

	assert.Equal(t, "session-1", e.Session())
	assert.InDelta(t, c4Hz, e.Settings().RootHz, 1e-9)
	assert.Equal(t, 0.5, e.Settings().MinConfidence)
	assert.Equal(t, "default", e.Settings().Profile)
	assert.Equal(t, 0, e.QueueLen())
}

func TestEngine_NilGeneratorIssuesUUIDs(t *testing.T) {
	e := New(DefaultSettings(), nil, nil, nil)
	assert.Len(t, e.Session(), 36)
}

func TestEngine_SpellsSamplesInOrder(t *testing.T) {
	e, c := newTestEngine(t)

	require.True(t, e.Submit(Sample{FrequencyHz: testutil.Above(c4Hz, 3, 2), Confidence: 0.9, Timestamp: 0.1}))
	require.True(t, e.Submit(Sample{FrequencyHz: testutil.Above(c4Hz, 5, 4), Confidence: 0.9, Timestamp: 0.2}))
	require.True(t, e.Submit(Sample{FrequencyHz: c4Hz, Confidence: 0.9, Timestamp: 0.3}))
	require.True(t, e.Submit(Sample{FrequencyHz: testutil.Above(c4Hz, 7, 4), Confidence: 0.9, Timestamp: 0.4}))
	assert.Equal(t, 4, e.QueueLen())

	drain(t, e)

	assert.Equal(t, []string{"G4", "E4↓", "C4", "B♭4↓7"}, c.labels())
	for i, r := range c.readings {
		assert.Equal(t, int64(i+1), r.Seq, "seq must follow submission order")
		assert.Equal(t, "session-1", r.Session)
		assert.Equal(t, "default", r.Profile)
		assert.False(t, r.Spelling.IsApproximate)
		require.NotNil(t, r.Spelling.CentsError)
		assert.InDelta(t, 0, *r.Spelling.CentsError, 1e-6)
	}
	assert.Equal(t, 0.2, c.readings[1].Timestamp)
	assert.Equal(t, Stats{Processed: 4}, e.Stats())
}

func TestEngine_ConfidenceGate(t *testing.T) {
	e, c := newTestEngine(t)

	e.Submit(Sample{FrequencyHz: 440, Confidence: 0.2})
	e.Submit(Sample{FrequencyHz: 0, Confidence: 1})
	e.Submit(Sample{FrequencyHz: math.NaN(), Confidence: 1})
	e.Submit(Sample{FrequencyHz: 440, Confidence: math.NaN()})
	e.Submit(Sample{FrequencyHz: c4Hz, Confidence: 0.5})
	drain(t, e)

	assert.Equal(t, []string{"C4"}, c.labels())
	assert.Equal(t, int64(1), c.readings[0].Seq, "dropped samples do not consume seq numbers")
	assert.Equal(t, Stats{Processed: 1, Dropped: 4}, e.Stats())
}

func TestEngine_AnchorFrozenAcrossRootChange(t *testing.T) {
	e, c := newTestEngine(t)

	e.Submit(Sample{FrequencyHz: c4Hz, Confidence: 1})
	e.SetRoot(d4Hz)
	e.Submit(Sample{FrequencyHz: testutil.Above(d4Hz, 3, 2), Confidence: 1})
	e.SetRoot(-1)
	e.Submit(Sample{FrequencyHz: d4Hz, Confidence: 1})
	drain(t, e)

	// The letter grid stays on C: a fifth above the new root is still G.
	assert.Equal(t, []string{"C4", "G4", "C4"}, c.labels())
	assert.InDelta(t, d4Hz, e.Settings().RootHz, 1e-9, "invalid root change is ignored")

	a, err := e.Anchor(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "C4", a.Name().String())
}

func TestEngine_ResetAnchorRefreezes(t *testing.T) {
	e, c := newTestEngine(t)

	e.Submit(Sample{FrequencyHz: c4Hz, Confidence: 1})
	e.SetRoot(d4Hz)
	e.ResetAnchor()
	e.Submit(Sample{FrequencyHz: d4Hz, Confidence: 1})
	e.Submit(Sample{FrequencyHz: testutil.Above(d4Hz, 3, 2), Confidence: 1})
	drain(t, e)

	assert.Equal(t, []string{"C4", "D4", "A4"}, c.labels())
}

func TestEngine_RecordsReadings(t *testing.T) {
	st := setupTestStore(t)
	e, _ := newTestEngine(t, WithRecorder(st))

	e.Submit(Sample{FrequencyHz: testutil.Above(c4Hz, 5, 4), Confidence: 0.8, Timestamp: 1.5})
	e.Submit(Sample{FrequencyHz: testutil.Above(c4Hz, 11, 8), Confidence: 0.8, Timestamp: 2.5})
	drain(t, e)

	got, err := st.ReadSession(context.Background(), "session-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Seq)
	assert.Equal(t, "E4↓", got[0].Spelling.Scientific())
	assert.Equal(t, 1.5, got[0].Timestamp)
	assert.Equal(t, int64(2), got[1].Seq)
	assert.Equal(t, "F4↑11", got[1].Spelling.Scientific())
}

func TestEngine_RecorderFailureStillDelivers(t *testing.T) {
	buf := testutil.CaptureLogs(t)
	e, c := newTestEngine(t, WithRecorder(failingRecorder{}))

	e.Submit(Sample{FrequencyHz: c4Hz, Confidence: 1})
	drain(t, e)

	assert.Equal(t, []string{"C4"}, c.labels())
	assert.Equal(t, Stats{Processed: 1, Failed: 1}, e.Stats())
	assert.Contains(t, buf.String(), "event processing failed")
	assert.Contains(t, buf.String(), "disk full")
}

func TestEngine_AnchorStoreFailureStillSpells(t *testing.T) {
	buf := testutil.CaptureLogs(t)
	c := &collector{}
	e := New(DefaultSettings(), anchor.NewResolver(failingAnchorStore{}), nil,
		testutil.NewFixedSessionGenerator("s"), WithHandler(c.handle))

	e.Submit(Sample{FrequencyHz: testutil.Above(c4Hz, 3, 2), Confidence: 1})
	drain(t, e)

	assert.Equal(t, []string{"G4"}, c.labels())
	assert.Contains(t, buf.String(), "store offline")
}

func TestEngine_WithClockContinuesSession(t *testing.T) {
	clock := testutil.NewDeterministicClock(100)
	e, c := newTestEngine(t, WithClock(clock))

	e.Submit(Sample{FrequencyHz: c4Hz, Confidence: 1})
	e.Submit(Sample{FrequencyHz: c4Hz * 2, Confidence: 1})
	drain(t, e)

	require.Len(t, c.readings, 2)
	assert.Equal(t, int64(101), c.readings[0].Seq)
	assert.Equal(t, int64(102), c.readings[1].Seq)
	assert.Equal(t, []int64{101, 102}, clock.Issued())
	assert.Equal(t, "C5", c.readings[1].Spelling.Scientific())
}

func TestEngine_NewClockAt(t *testing.T) {
	e, c := newTestEngine(t, WithClock(NewClockAt(7)))
	e.Submit(Sample{FrequencyHz: c4Hz, Confidence: 1})
	drain(t, e)

	require.Len(t, c.readings, 1)
	assert.Equal(t, int64(8), c.readings[0].Seq)
}

func TestEngine_Run_StopsOnContext(t *testing.T) {
	e, _ := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, e.Submit(Sample{FrequencyHz: 440, Confidence: 1}), "submit after stop should fail")
}

func TestEngine_Run_ConcurrentProducers(t *testing.T) {
	e, c := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				e.Submit(Sample{FrequencyHz: c4Hz, Confidence: 1})
			}
		}()
	}
	wg.Wait()
	e.Stop()
	require.NoError(t, <-done)

	require.Len(t, c.readings, 100)
	for i, r := range c.readings {
		assert.Equal(t, int64(i+1), r.Seq)
	}
}

func TestEngine_SpellOnDemand(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	sp, err := e.Spell(ctx, testutil.Above(c4Hz, 7, 4))
	require.NoError(t, err)
	assert.Equal(t, "B♭4↓7", sp.Scientific())

	sp, err = e.SpellRatio(ctx, ratio.NewRatio(3, 2), 1)
	require.NoError(t, err)
	assert.Equal(t, "G5", sp.Scientific())

	sp, err = e.SpellRatio(ctx, ratio.NewRatio(3, 1), 0)
	require.NoError(t, err)
	assert.Equal(t, "G5", sp.Scientific())

	sp, err = e.SpellRatio(ctx, ratio.NewRatio(5, 4), -1)
	require.NoError(t, err)
	assert.Equal(t, "E3↓", sp.Scientific())
}

func TestEngine_SpellApproximate(t *testing.T) {
	speller := heji.NewSpeller(heji.WithPrimeLimit(5))
	e := New(DefaultSettings(), nil, speller, testutil.NewFixedSessionGenerator("s"))

	sp, err := e.Spell(context.Background(), testutil.Above(c4Hz, 7, 4))
	require.NoError(t, err)
	assert.True(t, sp.IsApproximate)
	assert.Equal(t, "B♭4", sp.Scientific())
	require.NotNil(t, sp.CentsError)
	assert.InDelta(t, -31.174, *sp.CentsError, 0.001)
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Root = "D4"
	cfg.AccidentalPreference = "flats"
	cfg.Profile = "viola"

	s, err := SettingsFromConfig(cfg)
	require.NoError(t, err)
	assert.InDelta(t, d4Hz, s.RootHz, 1e-9)
	assert.Equal(t, anchor.PreferFlats, s.Preference)
	assert.Equal(t, "viola", s.Profile)

	cfg.Root = "H2"
	_, err = SettingsFromConfig(cfg)
	require.Error(t, err)
	_, ok := config.IsValidationError(err)
	assert.True(t, ok)
}

func TestEngine_ProcessSynchronously(t *testing.T) {
	e, c := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Process(ctx, Event{Type: EventTypeSample, Sample: Sample{FrequencyHz: c4Hz, Confidence: 1}}))
	require.Len(t, c.readings, 1)

	require.NoError(t, e.Process(ctx, Event{Type: EventTypeRoot, RootHz: d4Hz}))
	assert.InDelta(t, d4Hz, e.Settings().RootHz, 1e-9)

	assert.Error(t, e.Process(ctx, Event{Type: EventTypeRoot, RootHz: 0}))
	assert.Error(t, e.Process(ctx, Event{Type: EventType(99)}))
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.PrimeLimit = 5

	e, err := FromConfig(cfg, nil, NewFixedGenerator("cfg-session"))
	require.NoError(t, err)
	assert.Equal(t, "cfg-session", e.Session())

	sp, err := e.SpellRatio(context.Background(), ratio.NewRatio(7, 4), 0)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, sp.UnsupportedPrimes)

	cfg.Glyphs = t.TempDir() + "/missing.cue"
	_, err = FromConfig(cfg, nil, nil)
	assert.ErrorContains(t, err, "load glyph table")
}
