package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/jispell/internal/harness"
)

// ScenarioOptions holds flags for the scenario command.
type ScenarioOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // scenario name glob
	GoldenDir string // overrides the golden/ directory beside scenarios/
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// ScenarioRunResult is the scenario command's JSON payload.
type ScenarioRunResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScenarioOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scenario <file|dir>...",
		Short: "Run spelling scenarios and compare them with golden files",
		Long: `Run YAML spelling scenarios through the pitch engine and check their
expectations and assertions. When a golden file exists for a scenario
(golden/<name>.golden next to the scenarios directory, or under --golden)
the formatted run must match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (missing paths, etc.)

Examples:
  jispell scenario ./testdata/scenarios
  jispell scenario ./testdata/scenarios --filter "syntonic*"
  jispell scenario ./testdata/scenarios --update
  jispell scenario high_primes.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "golden file directory")

	return cmd
}

func runScenarios(opts *ScenarioOptions, paths []string, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts.RootOptions)

	var files []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return NewExitError(ExitCommandError, fmt.Sprintf("scenario path not found: %s", p))
		}
		found, err := findScenarioFiles(p, opts.Filter)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to find scenarios", err)
		}
		files = append(files, found...)
	}

	result := ScenarioRunResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}
	if len(files) == 0 {
		if out.JSON() {
			return out.Success(result)
		}
		out.Printf("No scenarios found.\n")
		return nil
	}

	for _, file := range files {
		sr := runScenarioFile(opts, file)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		if !out.JSON() {
			printScenario(out, sr, opts.Update)
		}
	}

	if out.JSON() {
		if err := out.Success(result); err != nil {
			return err
		}
	} else {
		out.Printf("\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

func printScenario(out *OutputFormatter, sr ScenarioResult, updated bool) {
	if sr.Pass {
		if updated {
			out.Printf("✓ %s (golden updated)\n", sr.Name)
		} else {
			out.Printf("✓ %s\n", sr.Name)
		}
		return
	}
	out.Printf("✗ %s\n", sr.Name)
	for _, e := range sr.Errors {
		out.Printf("  %s\n", e)
	}
}

// findScenarioFiles returns path itself when it is a file, or every YAML
// file under it. filter matches the file name without extension.
func findScenarioFiles(path string, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(p)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(p), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, p)
		return nil
	})

	return files, err
}

func runScenarioFile(opts *ScenarioOptions, file string) ScenarioResult {
	sc, err := harness.LoadScenario(file)
	if err != nil {
		return ScenarioResult{
			Name:   filepath.Base(file),
			Errors: []string{fmt.Sprintf("load error: %v", err)},
		}
	}

	result, err := harness.Run(sc)
	if err != nil {
		return ScenarioResult{
			Name:   sc.Name,
			Errors: []string{fmt.Sprintf("execution error: %v", err)},
		}
	}

	goldenPath := goldenFilePath(file, sc.Name, opts.GoldenDir)
	got := harness.Format(sc.Name, result)

	if opts.Update {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
			return ScenarioResult{Name: sc.Name, Errors: []string{fmt.Sprintf("golden update error: %v", err)}}
		}
		if err := os.WriteFile(goldenPath, []byte(got), 0644); err != nil {
			return ScenarioResult{Name: sc.Name, Errors: []string{fmt.Sprintf("golden update error: %v", err)}}
		}
		return ScenarioResult{Name: sc.Name, Pass: result.Pass, Errors: result.Errors}
	}

	errs := result.Errors
	want, err := os.ReadFile(goldenPath)
	switch {
	case os.IsNotExist(err):
		// Assertion-only scenario.
	case err != nil:
		errs = append(errs, fmt.Sprintf("golden read error: %v", err))
	case string(want) != got:
		errs = append(errs, "output does not match golden file (run with --update to regenerate)")
	}
	return ScenarioResult{Name: sc.Name, Pass: len(errs) == 0, Errors: errs}
}

// goldenFilePath places golden files in a golden/ directory beside the
// directory holding the scenario, unless dir overrides it.
func goldenFilePath(scenarioFile, name, dir string) string {
	if dir == "" {
		dir = filepath.Join(filepath.Dir(filepath.Dir(scenarioFile)), "golden")
	}
	return filepath.Join(dir, name+".golden")
}
