package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tokencheck/internal/compiler"
	"github.com/roach88/tokencheck/internal/registry"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Families []string                   `json:"families,omitempty"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [schemas-dir]",
		Short: "Validate family schemas",
		Long: `Compile every token family (CUE and *.tokens.json) and check it:
names, categories, prefixes, inheritance targets, cycles and removals.

Exit codes:
  0 - All families valid
  1 - One or more validation errors
  2 - Command error (directory missing, CUE does not build, etc.)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootOpts.defaults()
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	dir, err := schemasDir(opts, args)
	if err != nil {
		return reportSetupError(formatter, err)
	}

	families, err := loadFamilies(opts, dir)
	if err != nil {
		var loadErr *registry.LoadError
		if errors.As(err, &loadErr) && loadErr.Code == registry.ErrCodeCompile {
			return outputValidationErrors(formatter, []compiler.ValidationError{
				compileValidationError(loadErr),
			})
		}
		return reportSetupError(formatter, err)
	}
	formatter.VerboseLog("Compiled %s in %s", pluralize(len(families), "family", "families"), dir)

	reg, err := registry.New(families)
	if err != nil {
		var schemaErr *registry.SchemaError
		if errors.As(err, &schemaErr) {
			return outputValidationErrors(formatter, schemaErr.Errors)
		}
		return reportSetupError(formatter, err)
	}

	return outputValidateSuccess(formatter, reg.Families())
}

// compileValidationError reports a compile failure like a validation error.
func compileValidationError(loadErr *registry.LoadError) compiler.ValidationError {
	verr := compiler.ValidationError{
		Field:   "compile",
		Message: loadErr.Message,
		Code:    loadErr.Code,
		Line:    compileErrorLine(loadErr),
	}
	var compileErr *compiler.CompileError
	if errors.As(loadErr, &compileErr) {
		verr.Field = compileErr.Field
		verr.Message = compileErr.Message
	}
	return verr
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, families []string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Families: families})
	}

	fmt.Fprintf(formatter.Writer, "%s %s valid\n", formatter.Mark(true), pluralize(len(families), "family", "families"))
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.Format == "json" {
		result := ValidationResult{Valid: false, Errors: errs}
		if err := formatter.Failure(result, errs[0].Code, errs[0].Message); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintf(formatter.Writer, "%s Validation failed\n\n", formatter.Mark(false))
	for _, err := range errs {
		if err.Family != "" {
			fmt.Fprintf(formatter.Writer, "family %s", err.Family)
			if err.Line > 0 {
				fmt.Fprintf(formatter.Writer, ", line %d", err.Line)
			}
			fmt.Fprintln(formatter.Writer)
		} else if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	return exitErr
}
