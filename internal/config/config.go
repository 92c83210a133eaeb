// Package config loads jispell settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/jispell/internal/anchor"
	"github.com/roach88/jispell/internal/heji"
	"github.com/roach88/jispell/internal/note"
)

// PrimeLimits are the accepted values of prime_limit.
var PrimeLimits = []int{3, 5, 7, 11, 13, 17, 19, 23, 29, 31}

// Config holds every tunable. Zero values are never used directly; Load
// starts from Default and overlays the file.
type Config struct {
	// RootHz is the tonal root. Root, when set, wins and is read as a
	// note name against A4Hz.
	RootHz float64 `yaml:"root_hz" json:"root_hz"`
	Root   string  `yaml:"root,omitempty" json:"root,omitempty"`

	// A4Hz is the note-naming reference; it may differ from concert pitch.
	A4Hz float64 `yaml:"a4_hz" json:"a4_hz"`

	PrimeLimit           int     `yaml:"prime_limit" json:"prime_limit"`
	AccidentalPreference string  `yaml:"accidental_preference" json:"accidental_preference"`
	MaxDenominator       int     `yaml:"max_denominator" json:"max_denominator"`
	MaxCentsError        float64 `yaml:"max_cents_error" json:"max_cents_error"`

	// MinConfidence drops pitch samples below this detector confidence.
	MinConfidence float64 `yaml:"min_confidence" json:"min_confidence"`

	// Database is the SQLite file for anchors and readings. Empty keeps
	// everything in memory.
	Database string `yaml:"database,omitempty" json:"database,omitempty"`
	Profile  string `yaml:"profile" json:"profile"`

	// Glyphs is an optional CUE glyph table replacing the built-in one.
	Glyphs string `yaml:"glyphs,omitempty" json:"glyphs,omitempty"`

	Debug bool `yaml:"debug,omitempty" json:"debug,omitempty"`
}

// Default returns the built-in settings: C4 root at A4 = 440 Hz, 13-limit.
func Default() Config {
	return Config{
		RootHz:               note.Frequency(60, anchor.DefaultA4),
		A4Hz:                 anchor.DefaultA4,
		PrimeLimit:           heji.DefaultPrimeLimit,
		AccidentalPreference: anchor.PreferAuto.String(),
		MaxDenominator:       heji.DefaultMaxDenominator,
		MaxCentsError:        heji.DefaultMaxCentsError,
		MinConfidence:        0.5,
		Profile:              "default",
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is a *ValidationError and returns it.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if !positive(c.A4Hz) {
		return &ValidationError{Field: "a4_hz", Message: fmt.Sprintf("must be a positive frequency, got %v", c.A4Hz)}
	}
	if c.Root != "" {
		if _, err := note.Parse(c.Root); err != nil {
			return &ValidationError{Field: "root", Message: err.Error()}
		}
	} else if !positive(c.RootHz) {
		return &ValidationError{Field: "root_hz", Message: fmt.Sprintf("must be a positive frequency, got %v", c.RootHz)}
	}
	if !slices.Contains(PrimeLimits, c.PrimeLimit) {
		return &ValidationError{Field: "prime_limit", Message: fmt.Sprintf("must be one of %v, got %d", PrimeLimits, c.PrimeLimit)}
	}
	if _, err := anchor.ParsePreference(c.AccidentalPreference); err != nil {
		return &ValidationError{Field: "accidental_preference", Message: err.Error()}
	}
	if c.MaxDenominator < 1 || c.MaxDenominator > 1<<20 {
		return &ValidationError{Field: "max_denominator", Message: fmt.Sprintf("must be between 1 and %d, got %d", 1<<20, c.MaxDenominator)}
	}
	if c.MaxCentsError < 0 || math.IsNaN(c.MaxCentsError) {
		return &ValidationError{Field: "max_cents_error", Message: "must not be negative"}
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return &ValidationError{Field: "min_confidence", Message: fmt.Sprintf("must be in [0, 1], got %v", c.MinConfidence)}
	}
	if c.Profile == "" {
		return &ValidationError{Field: "profile", Message: "must not be empty"}
	}
	return nil
}

// RootFrequency returns the root in Hz, reading Root as a note name when
// it is set.
func (c Config) RootFrequency() (float64, error) {
	if c.Root == "" {
		return c.RootHz, nil
	}
	n, err := note.Parse(c.Root)
	if err != nil {
		return 0, &ValidationError{Field: "root", Message: err.Error()}
	}
	return n.Frequency(c.A4Hz), nil
}

// Preference returns the parsed accidental preference.
func (c Config) Preference() anchor.Preference {
	p, _ := anchor.ParsePreference(c.AccidentalPreference)
	return p
}

// SpellerOptions translates the settings into speller options.
func (c Config) SpellerOptions() []heji.Option {
	return []heji.Option{
		heji.WithPrimeLimit(c.PrimeLimit),
		heji.WithMaxDenominator(c.MaxDenominator),
		heji.WithMaxCentsError(c.MaxCentsError),
	}
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
