package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/tokencheck/internal/compiler"
	"github.com/roach88/tokencheck/internal/registry"
	"github.com/roach88/tokencheck/internal/tokens"
)

// Error codes used by CLI responses. Load codes come from the registry,
// validation codes from the compiler.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeNoSchemas     = "E002" // No schema directory configured
	ErrCodeUnknownFamily = "E008" // Family id not registered
	ErrCodeMalformed     = "E009" // Style artifact cannot be parsed
	ErrCodeSuiteLoad     = "E010" // Suite file cannot be loaded
	ErrCodeTestFailed    = "E_TEST_FAILED"
	ErrCodeCheckFailed   = "E_CHECK_FAILED"
)

// schemasDir returns the schema directory: an explicit argument wins over
// --schemas, which already carries the config default.
func schemasDir(opts *RootOptions, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if opts.SchemasDir != "" {
		return opts.SchemasDir, nil
	}
	return "", &registry.LoadError{
		Code:    ErrCodeNoSchemas,
		Message: "no schema directory: pass --schemas or set [schemas].dir in tokencheck.toml",
	}
}

// loadFamilies compiles every family in dir.
func loadFamilies(opts *RootOptions, dir string) ([]tokens.FamilySchema, error) {
	return registry.LoadFamilies(dir, registry.LoadOptions{Logger: opts.Logger})
}

// loadRegistry builds the registry for commands that need a valid one.
// Any failure is a setup error: it is reported and mapped to exit code 2.
func loadRegistry(opts *RootOptions, formatter *OutputFormatter) (*registry.Registry, error) {
	dir, err := schemasDir(opts, nil)
	if err != nil {
		return nil, reportSetupError(formatter, err)
	}
	families, err := loadFamilies(opts, dir)
	if err != nil {
		return nil, reportSetupError(formatter, err)
	}
	reg, err := registry.New(families)
	if err != nil {
		return nil, reportSetupError(formatter, err)
	}
	opts.Logger.Debug("registry ready", "dir", dir, "families", len(reg.Families()))
	return reg, nil
}

// reportSetupError writes err and returns it as an exit-code-2 error.
func reportSetupError(formatter *OutputFormatter, err error) error {
	code, message := errorCode(err), err.Error()
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, code, err)
}

// errorCode picks the most specific code for err.
func errorCode(err error) string {
	var loadErr *registry.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	var schemaErr *registry.SchemaError
	if errors.As(err, &schemaErr) && len(schemaErr.Errors) > 0 {
		return schemaErr.Errors[0].Code
	}
	var unknown *registry.UnknownFamilyError
	if errors.As(err, &unknown) {
		return ErrCodeUnknownFamily
	}
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return registry.ErrCodeCompile
	}
	return ErrCodeGeneric
}

// compileErrorLine returns the source line of a compile error, if any.
func compileErrorLine(err error) int {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) && compileErr.Pos.IsValid() {
		return compileErr.Pos.Line()
	}
	return 0
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
