package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/jispell/internal/anchor"
	"github.com/roach88/jispell/internal/note"
	"github.com/roach88/jispell/internal/store"
)

// AnchorView describes one profile's anchor.
type AnchorView struct {
	Profile  string `json:"profile"`
	Anchor   string `json:"anchor"`
	Fifths   int    `json:"fifths"`
	Diatonic int    `json:"diatonic"`
	Frozen   bool   `json:"frozen"`
}

// AnchorShowOutput is the anchor show JSON payload.
type AnchorShowOutput struct {
	Current  AnchorView            `json:"current"`
	Profiles []store.ProfileAnchor `json:"profiles,omitempty"`
}

// NewAnchorCommand creates the anchor command group.
func NewAnchorCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anchor",
		Short: "Inspect or change the frozen root anchor",
		Long: `The anchor is the spelled root every ratio is named against. It is
computed from the root frequency the first time a pitch is spelled and
then frozen, per profile, in the database.

Examples:
  jispell anchor show --db jispell.db
  jispell anchor set E♭3 --db jispell.db --profile horn
  jispell anchor reset --db jispell.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newAnchorShowCommand(rootOpts))
	cmd.AddCommand(newAnchorSetCommand(rootOpts))
	cmd.AddCommand(newAnchorResetCommand(rootOpts))

	return cmd
}

func newAnchorShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show the anchor without freezing it",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnchorShow(rootOpts, cmd)
		},
	}
}

func runAnchorShow(opts *RootOptions, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts)

	e, err := openEnv(cmd, opts)
	if err != nil {
		return err
	}
	defer e.Close()

	root, err := e.cfg.RootFrequency()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid root", err)
	}
	current := anchorView(e.cfg.Profile, anchor.Compute(root, e.cfg.A4Hz, e.cfg.Preference()), false)

	var result AnchorShowOutput
	if e.store != nil {
		rec, err := e.store.Anchors(e.cfg.Profile).Load(cmd.Context())
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load anchor", err)
		}
		if rec.Frozen {
			current = anchorView(e.cfg.Profile, rec.Anchor(), true)
		}
		if result.Profiles, err = e.store.ListAnchors(cmd.Context()); err != nil {
			return WrapExitError(ExitCommandError, "failed to list anchors", err)
		}
	}
	result.Current = current

	if out.JSON() {
		return out.Success(result)
	}
	state := "not frozen, would compute"
	if current.Frozen {
		state = "frozen"
	}
	out.Printf("profile %s: %s (%s)\n", current.Profile, current.Anchor, state)
	for _, p := range result.Profiles {
		if p.Profile == current.Profile {
			continue
		}
		out.Printf("profile %s: %s (frozen=%t, updated %s)\n", p.Profile, p.Record.Anchor().Name(), p.Record.Frozen, p.UpdatedAt)
	}
	return nil
}

func newAnchorSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "set <note>",
		Short:         "Freeze a named anchor, replacing the current one",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnchorSet(rootOpts, args[0], cmd)
		},
	}
}

func runAnchorSet(opts *RootOptions, name string, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts)

	n, err := note.Parse(name)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("invalid note %q", name), err)
	}

	e, err := openEnv(cmd, opts)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireStore(); err != nil {
		return err
	}

	a := anchor.FromName(n)
	if err := e.resolver.Freeze(cmd.Context(), a); err != nil {
		return WrapExitError(ExitCommandError, "failed to freeze anchor", err)
	}

	view := anchorView(e.cfg.Profile, a, true)
	if out.JSON() {
		return out.Success(view)
	}
	out.Printf("profile %s: anchor frozen at %s\n", view.Profile, view.Anchor)
	return nil
}

func newAnchorResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "reset",
		Short:         "Clear the frozen anchor so the next spelling recomputes it",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnchorReset(rootOpts, cmd)
		},
	}
}

func runAnchorReset(opts *RootOptions, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts)

	e, err := openEnv(cmd, opts)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireStore(); err != nil {
		return err
	}

	if err := e.resolver.Reset(cmd.Context()); err != nil {
		return WrapExitError(ExitCommandError, "failed to reset anchor", err)
	}

	if out.JSON() {
		return out.Success(map[string]string{"profile": e.cfg.Profile, "anchor": "reset"})
	}
	out.Printf("profile %s: anchor reset\n", e.cfg.Profile)
	return nil
}

func anchorView(profile string, a anchor.RootAnchor, frozen bool) AnchorView {
	return AnchorView{
		Profile:  profile,
		Anchor:   a.Name().String(),
		Fifths:   a.FifthsFromC,
		Diatonic: a.DiatonicNumber,
		Frozen:   frozen,
	}
}
