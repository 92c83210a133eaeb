package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/jispell/internal/config"
	"github.com/roach88/jispell/internal/note"
	"github.com/roach88/jispell/internal/ratio"
)

// Scenario is one scripted run of the engine.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Session     string        `yaml:"session,omitempty"`
	Config      config.Config `yaml:"config"`
	Steps       []Step        `yaml:"steps"`
	Assertions  []Assertion   `yaml:"assertions,omitempty"`
}

// Step is a single input. Exactly one of the input fields is set.
type Step struct {
	Ratio  string `yaml:"ratio,omitempty"`
	Octave int    `yaml:"octave,omitempty"`

	// Tone plays root * Tone, detuned by Detune cents, as a sample.
	Tone   string  `yaml:"tone,omitempty"`
	Detune float64 `yaml:"detune,omitempty"`

	Hz         *float64 `yaml:"hz,omitempty"`
	Confidence *float64 `yaml:"confidence,omitempty"`

	Root   string  `yaml:"root,omitempty"`
	RootHz float64 `yaml:"root_hz,omitempty"`

	Reset bool `yaml:"reset,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// Step kinds.
const (
	KindRatio   = "ratio"
	KindTone    = "tone"
	KindHz      = "hz"
	KindRoot    = "root"
	KindReset   = "reset"
	kindNone    = ""
	kindTooMany = "ambiguous"
)

// Kind reports which input the step carries.
func (s Step) Kind() string {
	kinds := make([]string, 0, 1)
	if s.Ratio != "" {
		kinds = append(kinds, KindRatio)
	}
	if s.Tone != "" {
		kinds = append(kinds, KindTone)
	}
	if s.Hz != nil {
		kinds = append(kinds, KindHz)
	}
	if s.Root != "" || s.RootHz != 0 {
		kinds = append(kinds, KindRoot)
	}
	if s.Reset {
		kinds = append(kinds, KindReset)
	}
	switch len(kinds) {
	case 0:
		return kindNone
	case 1:
		return kinds[0]
	default:
		return kindTooMany
	}
}

// SampleConfidence returns the step's confidence, 1 when unset.
func (s Step) SampleConfidence() float64 {
	if s.Confidence == nil {
		return 1
	}
	return *s.Confidence
}

// Expect is a subset match on a step's outcome.
type Expect struct {
	// Label is the scientific label, e.g. "B♭4↓7".
	Label       string `yaml:"label,omitempty"`
	Approximate *bool  `yaml:"approximate,omitempty"`
	Dropped     bool   `yaml:"dropped,omitempty"`
	Unsupported []int  `yaml:"unsupported,omitempty"`
}

// Assertion checks the state after all steps ran.
type Assertion struct {
	Type   string   `yaml:"type"`
	Anchor string   `yaml:"anchor,omitempty"`
	Labels []string `yaml:"labels,omitempty"`
	Count  *int     `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertAnchor      = "anchor"
	AssertLabels      = "labels"
	AssertReadings    = "readings"
	AssertApproximate = "approximate"
)

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes a scenario, rejecting unknown keys, and validates it.
// The config block starts from config.Default.
func ParseScenario(data []byte) (*Scenario, error) {
	sc := Scenario{Config: config.Default()}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if err := s.Config.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, step Step) error {
	switch step.Kind() {
	case kindNone:
		return fmt.Errorf("steps[%d]: one of ratio, tone, hz, root, root_hz, reset is required", i)
	case kindTooMany:
		return fmt.Errorf("steps[%d]: only one of ratio, tone, hz, root, root_hz, reset may be set", i)
	case KindRatio:
		if _, err := ratio.ParseRatio(step.Ratio); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	case KindTone:
		if _, err := ratio.ParseRatio(step.Tone); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	case KindRoot:
		if step.Root != "" && step.RootHz != 0 {
			return fmt.Errorf("steps[%d]: root and root_hz are exclusive", i)
		}
		if step.Root != "" {
			if _, err := note.Parse(step.Root); err != nil {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
		} else if step.RootHz < 0 {
			return fmt.Errorf("steps[%d]: root_hz must be positive", i)
		}
	}
	if step.Octave != 0 && step.Kind() != KindRatio {
		return fmt.Errorf("steps[%d]: octave applies to ratio steps only", i)
	}
	if step.Detune != 0 && step.Kind() != KindTone {
		return fmt.Errorf("steps[%d]: detune applies to tone steps only", i)
	}
	return nil
}

func validateAssertion(i int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", i)
	case AssertAnchor:
		if a.Anchor == "" {
			return fmt.Errorf("assertions[%d]: anchor is required for anchor", i)
		}
	case AssertLabels:
		if a.Labels == nil {
			return fmt.Errorf("assertions[%d]: labels list is required for labels", i)
		}
	case AssertReadings, AssertApproximate:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for %s", i, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
	}
	return nil
}
