package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/jispell/internal/heji"
	"github.com/roach88/jispell/internal/store"
)

// AssertionError describes a failed assertion.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion and returns the failure
// messages, in assertion order.
func EvaluateAssertions(result *Result, readings []store.Reading, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, readings, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, readings []store.Reading, a Assertion) error {
	switch a.Type {
	case AssertAnchor:
		if result.Anchor != a.Anchor {
			return &AssertionError{Type: a.Type, Expected: a.Anchor, Actual: result.Anchor}
		}
	case AssertLabels:
		sps := make([]heji.Spelling, len(readings))
		for i, r := range readings {
			sps[i] = r.Spelling
		}
		got := labels(sps)
		if !slices.Equal(got, a.Labels) {
			return &AssertionError{
				Type:     a.Type,
				Expected: "[" + strings.Join(a.Labels, " ") + "]",
				Actual:   "[" + strings.Join(got, " ") + "]",
			}
		}
	case AssertReadings:
		if len(readings) != *a.Count {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprint(*a.Count), Actual: fmt.Sprint(len(readings))}
		}
	case AssertApproximate:
		n := 0
		for _, sp := range result.Spellings() {
			if sp.IsApproximate {
				n++
			}
		}
		if n != *a.Count {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprint(*a.Count), Actual: fmt.Sprint(n)}
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
