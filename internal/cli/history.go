package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/jispell/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Latest bool
	Limit  int
	Delete bool
}

// HistoryOutput is the JSON payload when one session is shown.
type HistoryOutput struct {
	Session  string          `json:"session"`
	Readings []store.Reading `json:"readings"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [session]",
		Short: "List recorded sessions or the readings of one session",
		Long: `Without arguments, list every session recorded by "jispell track".
With a session token (or --latest), print its readings in sequence order.

Examples:
  jispell history --db jispell.db
  jispell history --db jispell.db --latest --limit 20
  jispell history --db jispell.db 0190... --delete`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := ""
			if len(args) == 1 {
				session = args[0]
			}
			return runHistory(opts, session, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Latest, "latest", false, "show the most recent session")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "show at most n readings (0 for all)")
	cmd.Flags().BoolVar(&opts.Delete, "delete", false, "delete the session instead of printing it")

	return cmd
}

func runHistory(opts *HistoryOptions, session string, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts.RootOptions)
	ctx := cmd.Context()

	e, err := openEnv(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireStore(); err != nil {
		return err
	}

	if opts.Latest {
		if session != "" {
			return NewExitError(ExitCommandError, "--latest and a session argument are mutually exclusive")
		}
		if session, err = e.store.LatestSession(ctx); err != nil {
			return WrapExitError(ExitCommandError, "failed to find latest session", err)
		}
		if session == "" {
			return NewExitError(ExitCommandError, "no sessions recorded")
		}
	}

	if session == "" {
		if opts.Delete {
			return NewExitError(ExitCommandError, "--delete needs a session")
		}
		return listSessions(out, e.store, cmd)
	}

	if opts.Delete {
		n, err := e.store.DeleteSession(ctx, session)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to delete session", err)
		}
		if n == 0 {
			return NewExitError(ExitCommandError, fmt.Sprintf("session %q not found", session))
		}
		if out.JSON() {
			return out.Success(map[string]any{"session": session, "deleted": n})
		}
		out.Printf("deleted %d reading(s) from session %s\n", n, session)
		return nil
	}

	readings, err := e.store.ReadSession(ctx, session, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}
	if len(readings) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("session %q not found", session))
	}

	if out.JSON() {
		return out.Success(HistoryOutput{Session: session, Readings: readings})
	}
	out.Printf("session %s (profile %s)\n", session, readings[0].Profile)
	for _, r := range readings {
		mark := ""
		if r.Spelling.IsApproximate {
			mark = " ~"
		}
		out.Printf("#%-5d %8.3f s %10.3f Hz  %-12s%s\n", r.Seq, r.Timestamp, r.FrequencyHz, r.Spelling.Scientific(), mark)
	}
	return nil
}

func listSessions(out *OutputFormatter, st *store.Store, cmd *cobra.Command) error {
	sessions, err := st.Sessions(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}
	if out.JSON() {
		return out.Success(sessions)
	}
	if len(sessions) == 0 {
		out.Printf("No sessions recorded.\n")
		return nil
	}
	for _, s := range sessions {
		out.Printf("%s  profile %-10s %4d readings (%d approximate), seq %d-%d\n",
			s.Session, s.Profile, s.Readings, s.Approximate, s.FirstSeq, s.LastSeq)
	}
	return nil
}
