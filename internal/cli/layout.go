package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/jispell/internal/ratio"
	"github.com/roach88/jispell/internal/staff"
)

// LayoutOptions holds flags for the layout command.
type LayoutOptions struct {
	*RootOptions
	Octave int
}

// LayoutOutput is the layout command's JSON payload.
type LayoutOutput struct {
	Input  string       `json:"input"`
	Label  string       `json:"label"`
	Layout staff.Layout `json:"layout"`
}

// NewLayoutCommand creates the layout command.
func NewLayoutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LayoutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "layout <ratio>...",
		Short: "Show staff placement and accidental glyphs for ratios",
		Long: `Spell each ratio and project it onto the staff: clef, staff step,
ledger lines and the accidental glyph run with horizontal offsets.

Glyph identifiers come from the built-in table or from --glyphs.

Examples:
  jispell layout 7/4
  jispell layout 5/4 11/8 --glyphs ./heji.cue --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Octave, "octave", 0, "octave displacement")

	return cmd
}

func runLayout(opts *LayoutOptions, args []string, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts.RootOptions)

	e, err := openEnv(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer e.Close()

	tbl, err := e.glyphs()
	if err != nil {
		return err
	}
	eng, err := e.engine(nil)
	if err != nil {
		return err
	}

	results := make([]LayoutOutput, 0, len(args))
	for _, arg := range args {
		r, err := ratio.ParseRatio(arg)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid ratio %q", arg), err)
		}
		sp, err := eng.SpellRatio(cmd.Context(), r, opts.Octave)
		if err != nil {
			slog.Warn("anchor store unavailable, using in-memory anchor", "error", err)
		}
		results = append(results, LayoutOutput{
			Input:  arg,
			Label:  sp.Scientific(),
			Layout: staff.Project(sp, staff.Context{Glyphs: tbl}),
		})
	}

	if out.JSON() {
		return out.Success(results)
	}
	for _, r := range results {
		l := r.Layout
		out.Printf("%s  %s\n", r.Input, r.Label)
		out.Printf("  clef %s, staff step %+d, ledger lines %d\n", l.Clef, l.StaffStep, l.LedgerLines)
		out.Printf("  notehead %s\n", l.Notehead.ID)
		if len(l.Accidentals) > 0 {
			runs := make([]string, len(l.Accidentals))
			for i, run := range l.Accidentals {
				runs[i] = fmt.Sprintf("%s@%.2f", run.Glyph.ID, run.Offset)
			}
			out.Printf("  accidentals %s\n", strings.Join(runs, " "))
		}
	}
	return nil
}
