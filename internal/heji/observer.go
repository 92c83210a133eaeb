package heji

import (
	"context"
	"log/slog"

	"github.com/roach88/jispell/internal/note"
	"github.com/roach88/jispell/internal/ratio"
)

// Observer receives diagnostics from the speller. Implementations must be
// cheap; they are called on the pitch-tracking path.
type Observer interface {
	// RuleApplied reports a rewrite rule that changed the spelling.
	RuleApplied(rule string, before, after note.Name)

	// Mismatch reports a letter disagreement between the diatonic number
	// and the fifths position.
	Mismatch(diatonic, fifths int)

	// Approximated reports a frequency spelled by the ET fallback.
	Approximated(freqHz float64, r ratio.Ratio, centsError float64)
}

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) RuleApplied(string, note.Name, note.Name)   {}
func (NopObserver) Mismatch(int, int)                          {}
func (NopObserver) Approximated(float64, ratio.Ratio, float64) {}

// SlogObserver logs at debug level. When the logger's debug level is off
// nothing is formatted.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver wraps logger; nil uses slog.Default().
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) enabled() bool {
	return o.logger.Enabled(context.Background(), slog.LevelDebug)
}

func (o *SlogObserver) RuleApplied(rule string, before, after note.Name) {
	if !o.enabled() {
		return
	}
	o.logger.Debug("spelling rule applied",
		"rule", rule,
		"before", before.String(),
		"after", after.String(),
	)
}

func (o *SlogObserver) Mismatch(diatonic, fifths int) {
	// Invariant violations are worth a warning even without --verbose.
	o.logger.Warn("letter mismatch",
		"diatonic", diatonic,
		"fifths", fifths,
	)
}

func (o *SlogObserver) Approximated(freqHz float64, r ratio.Ratio, centsError float64) {
	if !o.enabled() {
		return
	}
	o.logger.Debug("approximate spelling",
		"frequency_hz", freqHz,
		"ratio", r.String(),
		"cents_error", centsError,
	)
}
