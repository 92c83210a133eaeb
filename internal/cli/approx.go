package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/jispell/internal/ratio"
)

// ApproxOptions holds flags for the approx command.
type ApproxOptions struct {
	*RootOptions
	Hz bool
}

// ApproxOutput is the approx command's JSON payload.
type ApproxOutput struct {
	Value       float64           `json:"value"`
	Cents       float64           `json:"cents"`
	Best        ratio.Ratio       `json:"best"`
	BestError   float64           `json:"best_cents_error"`
	WithinLimit bool              `json:"within_limit"`
	Exact       bool              `json:"within_tolerance"`
	Pythagorean ratio.Pythagorean `json:"pythagorean"`
	Candidates  []ratio.Candidate `json:"candidates"`
}

// NewApproxCommand creates the approx command.
func NewApproxCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApproxOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "approx <value>",
		Short: "Show the rational approximations of a frequency ratio",
		Long: `List the continued-fraction convergents of a frequency ratio with their
cents error and prime-limit status, the fraction the speller would pick,
and the nearest Pythagorean interval.

With --hz the value is a frequency and is divided by the root first.

Examples:
  jispell approx 1.25
  jispell approx 1.4142 --prime-limit 7
  jispell approx 466.16 --hz --root A4`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApprox(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Hz, "hz", false, "treat the value as a frequency in Hz")

	return cmd
}

func runApprox(opts *ApproxOptions, arg string, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts.RootOptions)

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	value, err := strconv.ParseFloat(arg, 64)
	if opts.Hz {
		var ok bool
		value, ok = parseHz(arg)
		if !ok {
			err = fmt.Errorf("not a frequency")
		}
	}
	if err != nil || !(value > 0) || math.IsInf(value, 0) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid value %q: must be a positive number", arg))
	}
	if opts.Hz {
		root, err := cfg.RootFrequency()
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid root", err)
		}
		value /= root
	}

	best := ratio.Approximate(value, cfg.PrimeLimit, cfg.MaxDenominator, cfg.MaxCentsError)
	bestErr := 1200 * math.Log2(value/best.Value())
	result := ApproxOutput{
		Value:       value,
		Cents:       1200 * math.Log2(value),
		Best:        best,
		BestError:   bestErr,
		WithinLimit: ratio.WithinLimit(best, cfg.PrimeLimit),
		Exact:       math.Abs(bestErr) <= cfg.MaxCentsError,
		Pythagorean: ratio.BestE3ForRatio(value),
		Candidates:  ratio.Candidates(value, cfg.PrimeLimit, cfg.MaxDenominator),
	}

	if out.JSON() {
		return out.Success(result)
	}
	out.Printf("value %.6f (%.3f c)\n", result.Value, result.Cents)
	out.Printf("best  %s (%+.3f c)%s\n", result.Best, result.BestError, approxNote(result, cfg.PrimeLimit))
	out.Printf("3-limit 3^%d * 2^%d (%+.3f c)\n", result.Pythagorean.E3, result.Pythagorean.E2, result.Pythagorean.CentsError)
	out.Printf("candidates:\n")
	for _, c := range result.Candidates {
		var flags string
		if !c.WithinLimit {
			flags += fmt.Sprintf(" beyond %d-limit", cfg.PrimeLimit)
		}
		if c.Semiconvergent {
			flags += " semiconvergent"
		}
		out.Printf("  %-14s %+10.3f c%s\n", c.Ratio, c.CentsError, flags)
	}
	return nil
}

func approxNote(r ApproxOutput, limit int) string {
	switch {
	case !r.WithinLimit:
		return fmt.Sprintf(", beyond %d-limit", limit)
	case !r.Exact:
		return ", outside tolerance"
	}
	return ""
}
