package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/jispell/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Overrides applied on top of the config file when set.
	Database   string
	Profile    string
	Root       string // note name or Hz
	A4Hz       float64
	PrimeLimit int
	Prefer     string
	Glyphs     string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the jispell CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "jispell",
		Short: "jispell - just intonation spelling",
		Long: `Resolve pitches to just-intonation ratios and spell them in
Helmholtz-Ellis (HEJI) notation relative to a frozen tonal anchor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	pf.StringVar(&opts.Database, "db", "", "SQLite database for anchors and readings")
	pf.StringVar(&opts.Profile, "profile", "", "anchor profile")
	pf.StringVar(&opts.Root, "root", "", "tonal root as a note name (B♭3) or frequency in Hz")
	pf.Float64Var(&opts.A4Hz, "a4", 0, "note-naming reference in Hz")
	pf.IntVar(&opts.PrimeLimit, "prime-limit", 0, "highest prime used in ratios")
	pf.StringVar(&opts.Prefer, "prefer", "", "accidental preference for the anchor (auto|sharps|flats)")
	pf.StringVar(&opts.Glyphs, "glyphs", "", "CUE glyph table")

	cmd.AddCommand(NewSpellCommand(opts))
	cmd.AddCommand(NewApproxCommand(opts))
	cmd.AddCommand(NewLayoutCommand(opts))
	cmd.AddCommand(NewAnchorCommand(opts))
	cmd.AddCommand(NewTrackCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))

	return cmd
}

// setupLogging installs a text handler on w: Debug under --verbose, Info
// otherwise.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadConfig reads the config file (or the defaults) and applies every
// flag the user set explicitly.
func (o *RootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(o.ConfigPath); err != nil {
			return config.Config{}, err
		}
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("db") {
		cfg.Database = o.Database
	}
	if changed("profile") {
		cfg.Profile = o.Profile
	}
	if changed("a4") {
		cfg.A4Hz = o.A4Hz
	}
	if changed("root") {
		if hz, ok := parseHz(o.Root); ok {
			cfg.Root, cfg.RootHz = "", hz
		} else {
			cfg.Root = o.Root
		}
	}
	if changed("prime-limit") {
		cfg.PrimeLimit = o.PrimeLimit
	}
	if changed("prefer") {
		cfg.AccidentalPreference = o.Prefer
	}
	if changed("glyphs") {
		cfg.Glyphs = o.Glyphs
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if cfg.Debug && !o.Verbose {
		setupLogging(cmd.ErrOrStderr(), true)
	}
	return cfg, nil
}

// parseHz reads "440", "440hz" or "440 Hz".
func parseHz(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasSuffix(lower, "hz") {
		s = strings.TrimSpace(s[:len(s)-2])
	}
	hz, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return hz, true
}
