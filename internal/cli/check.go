package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tokencheck/internal/extract"
	"github.com/roach88/tokencheck/internal/harness"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Values bool // enable value-mismatch detection
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <family> <css-file>...",
		Short: "Check a component's styles against its family schema",
		Long: `Generate the token test cases for one component and run them.

The css files form the component's style artifact, in order. Every schema
token becomes one case; one more case asserts nothing else is declared.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (unknown family, malformed styles, etc.)

Examples:
  tokencheck check outlined-button dist/outlined-button.css
  tokencheck check filled-button base.css filled.css --values`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootOpts.defaults()
			if !cmd.Flags().Changed("values") {
				opts.Values = rootOpts.Config.Check.Values
			}
			return runCheck(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Values, "values", false, "report tokens whose value differs from the schema default")

	return cmd
}

func runCheck(opts *CheckOptions, familyID string, files []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	reg, err := loadRegistry(opts.RootOptions, formatter)
	if err != nil {
		return err
	}

	artifact, err := extract.ReadFiles(files...)
	if err != nil {
		return reportSetupError(formatter, err)
	}

	cases, err := harness.Generate(reg, familyID, artifact,
		harness.WithLogger(opts.Logger),
		harness.WithValues(opts.Values),
	)
	if err != nil {
		var malformed *extract.MalformedStyleError
		if errors.As(err, &malformed) {
			_ = formatter.Error(ErrCodeMalformed, err.Error(), nil)
			return WrapExitError(ExitCommandError, ErrCodeMalformed, err)
		}
		return reportSetupError(formatter, err)
	}

	result := harness.Execute(familyID, familyID, cases, nil)
	return outputCheckResult(formatter, result)
}

func outputCheckResult(formatter *OutputFormatter, result *harness.SuiteResult) error {
	var exitErr error
	if result.Failed > 0 {
		exitErr = NewExitError(ExitFailure, fmt.Sprintf("%d of %d case(s) failed", result.Failed, result.Total))
	}

	if formatter.Format == "json" {
		if exitErr != nil {
			if err := formatter.Failure(result, ErrCodeCheckFailed, exitErr.Error()); err != nil {
				return err
			}
			return exitErr
		}
		return formatter.Success(result)
	}

	w := formatter.Writer
	for _, c := range result.Cases {
		fmt.Fprintf(w, "%s %s\n", formatter.Mark(c.Pass), c.Name)
		if !c.Pass {
			for _, f := range c.Findings {
				fmt.Fprintf(w, "    %s\n", f)
			}
			if len(c.Findings) == 0 && c.Message != "" {
				fmt.Fprintf(w, "    %s\n", c.Message)
			}
		}
	}
	fmt.Fprintf(w, "\n%s: %d passed, %d failed, %d total\n", result.Family, result.Passed, result.Failed, result.Total)

	return exitErr
}
