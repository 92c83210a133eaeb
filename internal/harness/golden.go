package harness

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/jispell/internal/heji"
)

// Format renders a result as the line-oriented text stored in golden files.
// Cents are rounded to three decimals and negative zero is printed as +0.
func Format(name string, r *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)
	fmt.Fprintf(&b, "session: %s\n", r.Session)
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "[%02d] %s", e.Step, e.Kind)
		if e.Input != "" {
			fmt.Fprintf(&b, " %s", e.Input)
		}
		switch {
		case e.Dropped:
			b.WriteString(" -> dropped")
		case e.Spelling != nil:
			b.WriteString(" ->")
			if e.Seq != 0 {
				fmt.Fprintf(&b, " #%d", e.Seq)
			}
			b.WriteString(" ")
			b.WriteString(formatSpelling(*e.Spelling))
		case e.RootHz != 0:
			fmt.Fprintf(&b, " -> %.3f Hz", e.RootHz)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "anchor: %s\n", r.Anchor)
	fmt.Fprintf(&b, "readings: %d\n", r.Readings)
	fmt.Fprintf(&b, "errors: %d\n", len(r.Errors))
	for _, msg := range r.Errors {
		fmt.Fprintf(&b, "  %s\n", msg)
	}
	return b.String()
}

func formatSpelling(sp heji.Spelling) string {
	parts := []string{sp.Scientific(), sp.Helmholtz()}
	if sp.Ratio != nil {
		parts = append(parts, "ratio "+sp.Ratio.String())
	}
	if sp.CentsError != nil {
		parts = append(parts, "cents "+formatCents(*sp.CentsError))
	}
	if len(sp.UnsupportedPrimes) > 0 {
		ps := make([]string, len(sp.UnsupportedPrimes))
		for i, p := range sp.UnsupportedPrimes {
			ps[i] = strconv.Itoa(p)
		}
		parts = append(parts, "unsupported "+strings.Join(ps, ","))
	}
	parts = append(parts, sp.Accessible())
	return strings.Join(parts, " | ")
}

func formatCents(c float64) string {
	c = math.Round(c*1000) / 1000
	if c == 0 {
		c = 0
	}
	return fmt.Sprintf("%+.3f", c)
}

// RunWithGolden runs a scenario and compares Format output with
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(Format(name, result)))
}
