package cli

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/jispell/internal/engine"
	"github.com/roach88/jispell/internal/heji"
	"github.com/roach88/jispell/internal/ratio"
)

// SpellOptions holds flags for the spell command.
type SpellOptions struct {
	*RootOptions
	Octave int
	Hz     bool
}

// SpellResult is one spelled input.
type SpellResult struct {
	Input      string        `json:"input"`
	Kind       string        `json:"kind"` // "ratio" | "frequency"
	Label      string        `json:"label"`
	Helmholtz  string        `json:"helmholtz"`
	Accessible string        `json:"accessible"`
	Spelling   heji.Spelling `json:"spelling"`
}

// SpellOutput is the spell command's JSON payload.
type SpellOutput struct {
	Anchor  string        `json:"anchor"`
	RootHz  float64       `json:"root_hz"`
	Results []SpellResult `json:"results"`
}

// NewSpellCommand creates the spell command.
func NewSpellCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SpellOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "spell <ratio|hz>...",
		Short: "Spell ratios or frequencies in HEJI notation",
		Long: `Spell each argument relative to the frozen anchor.

Arguments containing "/" or ":" are ratios above the root; anything else
is a frequency in Hz ("440", "440hz"). With --db the anchor is read from
and frozen into the database, so repeated calls agree.

Examples:
  jispell spell 5/4 7/4 11/8
  jispell spell 3/2 --octave 1
  jispell spell 440 --root 261.6256
  jispell spell 5/4 --root B♭3 --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpell(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Octave, "octave", 0, "octave displacement applied to ratios")
	cmd.Flags().BoolVar(&opts.Hz, "hz", false, "read every argument as a frequency")

	return cmd
}

func runSpell(opts *SpellOptions, args []string, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts.RootOptions)

	e, err := openEnv(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer e.Close()

	eng, err := e.engine(nil)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	a, err := eng.Anchor(ctx)
	if err != nil {
		slog.Warn("anchor store unavailable, using in-memory anchor", "error", err)
	}
	result := SpellOutput{
		Anchor:  a.Name().String(),
		RootHz:  eng.Settings().RootHz,
		Results: make([]SpellResult, 0, len(args)),
	}

	for _, arg := range args {
		sr, err := spellArg(cmd, eng, arg, opts)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("cannot spell %q", arg), err)
		}
		result.Results = append(result.Results, sr)
	}

	if out.JSON() {
		return out.Success(result)
	}
	out.Printf("anchor %s (root %.3f Hz)\n", result.Anchor, result.RootHz)
	for _, r := range result.Results {
		out.Printf("%-12s %-12s %-12s %s\n", r.Input, r.Label, r.Helmholtz, r.Accessible)
	}
	return nil
}

func spellArg(cmd *cobra.Command, eng *engine.Engine, arg string, opts *SpellOptions) (SpellResult, error) {
	var (
		sp   heji.Spelling
		kind string
		err  error
	)
	if !opts.Hz && strings.ContainsAny(arg, "/:") {
		r, perr := ratio.ParseRatio(arg)
		if perr != nil {
			return SpellResult{}, perr
		}
		kind = "ratio"
		sp, err = eng.SpellRatio(cmd.Context(), r, opts.Octave)
	} else {
		hz, ok := parseHz(arg)
		if !ok || !(hz > 0) || math.IsInf(hz, 0) {
			return SpellResult{}, fmt.Errorf("not a ratio or positive frequency")
		}
		kind = "frequency"
		sp, err = eng.Spell(cmd.Context(), hz)
	}
	if err != nil {
		slog.Warn("anchor store unavailable, using in-memory anchor", "error", err)
	}
	return SpellResult{
		Input:      arg,
		Kind:       kind,
		Label:      sp.Scientific(),
		Helmholtz:  sp.Helmholtz(),
		Accessible: sp.Accessible(),
		Spelling:   sp,
	}, nil
}
