package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/tokencheck/internal/harness"
	"github.com/roach88/tokencheck/internal/registry"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // suite filter (glob pattern)
	Jobs   int    // suites run concurrently; 0 means GOMAXPROCS
}

// SuiteReport holds the outcome of a single suite file.
type SuiteReport struct {
	Name        string   `json:"name"`
	File        string   `json:"file"`
	Pass        bool     `json:"pass"`
	Passed      int      `json:"passed"`
	Failed      int      `json:"failed"`
	Total       int      `json:"total"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	Golden      string   `json:"golden,omitempty"` // "matched", "updated" or empty
	Code        string   `json:"code,omitempty"`   // set when the suite could not run
	Errors      []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Suites []SuiteReport `json:"suites"`
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
	Total  int           `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <suites-dir>",
		Short: "Run token suites",
		Long: `Run every YAML suite under suites-dir against the family schemas.

A suite names a family and the style files of one component. It passes
when exactly its expected cases fail. When golden/<suite>.golden exists
next to the suite file, the canonical report must match it byte for byte.

Exit codes:
  0 - All suites passed
  1 - One or more suites failed
  2 - Command error (invalid paths, invalid schemas, etc.)

Examples:
  tokencheck test ./suites
  tokencheck test ./suites --filter "outlined-*"
  tokencheck test ./suites --update
  tokencheck test ./suites --jobs 4 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootOpts.defaults()
			if !cmd.Flags().Changed("jobs") {
				opts.Jobs = rootOpts.Config.Check.Jobs
			}
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter suites by glob pattern")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 0, "suites to run concurrently (0 = GOMAXPROCS)")

	return cmd
}

func runTests(opts *TestOptions, suitesDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if _, err := os.Stat(suitesDir); os.IsNotExist(err) {
		return reportSetupError(formatter, &registry.LoadError{
			Code:    registry.ErrCodeNotFound,
			Message: fmt.Sprintf("suites directory not found: %s", suitesDir),
		})
	}
	if opts.Jobs < 0 {
		const msg = "--jobs must be non-negative"
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	suiteFiles, err := findSuiteFiles(suitesDir, opts.Filter)
	if err != nil {
		return reportSetupError(formatter, fmt.Errorf("failed to find suites: %w", err))
	}

	if len(suiteFiles) == 0 {
		if formatter.Format == "json" {
			return formatter.Success(TestResult{Suites: []SuiteReport{}})
		}
		fmt.Fprintln(formatter.Writer, "No suites found.")
		return nil
	}

	reg, err := loadRegistry(opts.RootOptions, formatter)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	reports, err := runSuites(ctx, opts, reg, suiteFiles)
	if err != nil {
		return WrapExitError(ExitCommandError, "test run aborted", err)
	}

	result := TestResult{Suites: reports, Total: len(reports)}
	for _, r := range reports {
		if r.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if formatter.Format == "json" {
		return outputTestJSON(formatter, result)
	}
	return outputTestText(formatter, result)
}

// runSuites runs suite files concurrently. Reports keep file order.
func runSuites(ctx context.Context, opts *TestOptions, reg *registry.Registry, files []string) ([]SuiteReport, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine owns one index; no mutex needed.
	reports := make([]SuiteReport, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			reports[i] = runSuite(opts, reg, file)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// runSuite loads and executes one suite file, then checks its golden report.
func runSuite(opts *TestOptions, reg *registry.Registry, file string) SuiteReport {
	report := SuiteReport{Name: suiteName(file), File: file}

	suite, err := harness.LoadSuite(file)
	if err != nil {
		report.Code = ErrCodeSuiteLoad
		report.Errors = []string{fmt.Sprintf("failed to load suite: %v", err)}
		return report
	}
	report.Name = suite.Name

	result, err := harness.Run(suite, reg, harness.WithLogger(opts.Logger))
	if err != nil {
		report.Code = errorCode(err)
		report.Errors = []string{fmt.Sprintf("suite setup failed: %v", err)}
		return report
	}

	report.Pass = result.Pass
	report.Passed = result.Passed
	report.Failed = result.Failed
	report.Total = result.Total
	report.Errors = append(report.Errors, result.Errors...)
	for _, c := range result.Cases {
		if !c.Pass {
			opts.Logger.Debug("case failed", "suite", suite.Name, "case", c.Name, "message", c.Message)
		}
	}

	snapshot, err := harness.Snapshot(result)
	if err != nil {
		report.Pass = false
		report.Errors = append(report.Errors, fmt.Sprintf("failed to serialize report: %v", err))
		return report
	}
	if fp, err := harness.Fingerprint(result); err == nil {
		report.Fingerprint = fp
	}

	goldenPath := goldenFilePath(file)
	if opts.Update {
		if err := writeGolden(goldenPath, snapshot); err != nil {
			report.Pass = false
			report.Errors = append(report.Errors, fmt.Sprintf("failed to update golden file: %v", err))
			return report
		}
		report.Golden = "updated"
		return report
	}

	golden, err := os.ReadFile(goldenPath)
	if errors.Is(err, os.ErrNotExist) {
		return report
	}
	if err != nil {
		report.Pass = false
		report.Errors = append(report.Errors, fmt.Sprintf("failed to read golden file: %v", err))
		return report
	}
	if !bytes.Equal(golden, snapshot) {
		report.Pass = false
		report.Errors = append(report.Errors, "report does not match golden file (run with --update to regenerate)")
		return report
	}
	report.Golden = "matched"
	return report
}

// findSuiteFiles finds all YAML suite files in a directory.
func findSuiteFiles(dir string, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			if matched, _ := filepath.Match(filter, suiteName(path)); !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

func suiteName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// goldenFilePath returns the path to the golden file for a suite.
func goldenFilePath(suiteFile string) string {
	return filepath.Join(filepath.Dir(suiteFile), "golden", suiteName(suiteFile)+".golden")
}

func writeGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(formatter *OutputFormatter, result TestResult) error {
	if result.Failed == 0 {
		return formatter.Success(result)
	}

	message := fmt.Sprintf("%d suite(s) failed", result.Failed)
	if err := formatter.Failure(result, ErrCodeTestFailed, message); err != nil {
		return err
	}
	return NewExitError(ExitFailure, message)
}

// outputTestText outputs the test result as text.
func outputTestText(formatter *OutputFormatter, result TestResult) error {
	w := formatter.Writer

	for _, r := range result.Suites {
		line := fmt.Sprintf("%s %s", formatter.Mark(r.Pass), r.Name)
		if r.Total > 0 {
			line += fmt.Sprintf(" (%d/%d cases passed)", r.Passed, r.Total)
		}
		if r.Golden == "updated" {
			line += " (golden updated)"
		}
		fmt.Fprintln(w, line)
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d suite(s) failed", result.Failed))
	}

	fmt.Fprintf(w, "%s All suites passed\n", formatter.Mark(true))
	return nil
}
