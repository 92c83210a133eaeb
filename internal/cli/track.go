package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/jispell/internal/engine"
	"github.com/roach88/jispell/internal/note"
	"github.com/roach88/jispell/internal/store"
)

// TrackOptions holds flags for the track command.
type TrackOptions struct {
	*RootOptions
	Input   string
	Session string
	Quiet   bool
}

// TrackOutput is the track command's JSON payload.
type TrackOutput struct {
	Session  string          `json:"session"`
	Stats    engine.Stats    `json:"stats"`
	Skipped  int             `json:"skipped_lines"`
	Readings []store.Reading `json:"readings"`
}

// NewTrackCommand creates the track command.
func NewTrackCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TrackOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Spell a live stream of pitch-detector samples",
		Long: `Read pitch samples, one per line, and spell each one as it arrives.

Line format:
  <hz> [confidence [timestamp]]   a detector sample (confidence defaults to 1,
                                  timestamp to the line number)
  root <note|hz>                  move the root; the anchor stays frozen
  reset                           clear the anchor; the next sample refreezes it
Blank lines and lines starting with # are ignored.

Samples below min_confidence and silence (0 Hz) are dropped. With --db every
reading is recorded and can be listed with "jispell history".

Examples:
  pitchdetect | jispell track --db jispell.db
  jispell track --input take1.txt --root G3
  jispell track --input take2.txt --db jispell.db --session 0190...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "-", "sample file (- for stdin)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "continue an existing session from the database")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "print only the summary")

	return cmd
}

func runTrack(opts *TrackOptions, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts.RootOptions)

	var in io.Reader = cmd.InOrStdin()
	if opts.Input != "-" {
		f, err := os.Open(opts.Input)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open input", err)
		}
		defer f.Close()
		in = f
	}

	e, err := openEnv(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer e.Close()

	var (
		gen      engine.SessionGenerator
		readings []store.Reading
		engOpts  []engine.EngineOption
	)
	if opts.Session != "" {
		if err := e.requireStore(); err != nil {
			return err
		}
		last, err := lastSeq(cmd.Context(), e.store, opts.Session)
		if err != nil {
			return err
		}
		gen = engine.NewFixedGenerator(opts.Session)
		engOpts = append(engOpts, engine.WithClock(engine.NewClockAt(last)))
		slog.Info("continuing session", "session", opts.Session, "after_seq", last)
	}
	if e.store != nil {
		engOpts = append(engOpts, engine.WithRecorder(e.store))
	}
	engOpts = append(engOpts, engine.WithHandler(func(r store.Reading) {
		if out.JSON() {
			readings = append(readings, r)
			return
		}
		if !opts.Quiet {
			out.Printf("#%-5d %10.3f Hz  %-12s %s\n", r.Seq, r.FrequencyHz, r.Spelling.Scientific(), r.Spelling.Accessible())
		}
	}))

	eng, err := e.engine(gen, engOpts...)
	if err != nil {
		return err
	}

	// Signal handling mirrors a long-running server: Ctrl-C stops the loop
	// without waiting for the rest of the input.
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	fed := make(chan int, 1)
	go func() {
		fed <- feed(eng, in, e.cfg.A4Hz)
		eng.Stop()
	}()

	runErr := eng.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return WrapExitError(ExitFailure, "engine error", runErr)
	}

	skipped := 0
	if runErr == nil {
		skipped = <-fed
	}
	result := TrackOutput{
		Session:  eng.Session(),
		Stats:    eng.Stats(),
		Skipped:  skipped,
		Readings: readings,
	}
	if result.Readings == nil {
		result.Readings = []store.Reading{}
	}

	if out.JSON() {
		if err := out.Success(result); err != nil {
			return err
		}
	} else {
		out.Printf("session %s: %d spelled, %d dropped, %d not recorded, %d skipped lines\n",
			result.Session, result.Stats.Processed, result.Stats.Dropped, result.Stats.Failed, result.Skipped)
	}

	if result.Stats.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d reading(s) could not be recorded", result.Stats.Failed))
	}
	return nil
}

// feed parses input lines into engine events and returns the number of
// lines it could not parse.
func feed(eng *engine.Engine, in io.Reader, a4Hz float64) int {
	sc := bufio.NewScanner(in)
	skipped := 0
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ev, err := parseLine(line, lineNo, a4Hz)
		if err != nil {
			skipped++
			slog.Warn("skipping input line", "line", lineNo, "error", err)
			continue
		}
		if !enqueue(eng, ev) {
			return skipped
		}
	}
	if err := sc.Err(); err != nil {
		slog.Error("reading input failed", "error", err)
	}
	return skipped
}

func enqueue(eng *engine.Engine, ev engine.Event) bool {
	switch ev.Type {
	case engine.EventTypeRoot:
		return eng.SetRoot(ev.RootHz)
	case engine.EventTypeReset:
		return eng.ResetAnchor()
	default:
		return eng.Submit(ev.Sample)
	}
}

// parseLine reads one line of the sample format.
func parseLine(line string, lineNo int, a4Hz float64) (engine.Event, error) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "reset":
		if len(fields) != 1 {
			return engine.Event{}, fmt.Errorf("reset takes no arguments")
		}
		return engine.Event{Type: engine.EventTypeReset}, nil
	case "root":
		if len(fields) != 2 {
			return engine.Event{}, fmt.Errorf("root takes one note name or frequency")
		}
		hz, ok := parseHz(fields[1])
		if !ok {
			n, err := note.Parse(fields[1])
			if err != nil {
				return engine.Event{}, err
			}
			hz = n.Frequency(a4Hz)
		}
		return engine.Event{Type: engine.EventTypeRoot, RootHz: hz}, nil
	}

	if len(fields) > 3 {
		return engine.Event{}, fmt.Errorf("expected hz [confidence [timestamp]], got %d fields", len(fields))
	}
	s := engine.Sample{Confidence: 1, Timestamp: float64(lineNo)}
	vals := []*float64{&s.FrequencyHz, &s.Confidence, &s.Timestamp}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return engine.Event{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		*vals[i] = v
	}
	return engine.Event{Type: engine.EventTypeSample, Sample: s}, nil
}

// lastSeq returns the highest sequence number recorded for session.
func lastSeq(ctx context.Context, st *store.Store, session string) (int64, error) {
	sessions, err := st.Sessions(ctx)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, "failed to list sessions", err)
	}
	for _, s := range sessions {
		if s.Session == session {
			return s.LastSeq, nil
		}
	}
	return 0, NewExitError(ExitCommandError, fmt.Sprintf("session %q not found", session))
}
