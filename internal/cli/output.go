package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Process exit codes.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Verification or validation failure
	ExitCommandError = 2 // Command error (invalid paths, unknown family, malformed styles, etc.)
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int // ExitFailure or ExitCommandError
	Message string
	Err     error // optional cause
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps err to a process exit code. Errors that are not an
// ExitError count as ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or as a JSON envelope.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
	RunID     string

	pass *color.Color
	fail *color.Color
}

// newFormatter builds a formatter for the given streams. Colors are only
// emitted to a real stdout terminal.
func newFormatter(opts *RootOptions, out, errOut io.Writer) *OutputFormatter {
	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errOut,
		Verbose:   opts.Verbose,
		pass:      color.New(color.FgGreen, color.Bold),
		fail:      color.New(color.FgRed, color.Bold),
	}
	if opts.IDs != nil {
		f.RunID = opts.IDs.NewID()
	}
	if out != io.Writer(os.Stdout) || color.NoColor {
		f.pass.DisableColor()
		f.fail.DisableColor()
	}
	return f
}

// Mark returns the pass or fail mark for text output.
func (f *OutputFormatter) Mark(ok bool) string {
	if f.pass == nil {
		if ok {
			return "✓"
		}
		return "✗"
	}
	if ok {
		return f.pass.Sprint("✓")
	}
	return f.fail.Sprint("✗")
}

// CLIResponse is the JSON envelope every command writes in json format.
type CLIResponse struct {
	Status string    `json:"status"`           // "ok" or "error"
	Data   any       `json:"data,omitempty"`   // success payload
	Error  *CLIError `json:"error,omitempty"`  // error details
	RunID  string    `json:"run_id,omitempty"` // correlates output with verbose logs
}

// CLIError is the error member of CLIResponse.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success writes data with status "ok".
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.writeJSON(CLIResponse{Status: "ok", Data: data, RunID: f.RunID})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Failure outputs a result that carries data alongside an error.
func (f *OutputFormatter) Failure(data any, code, message string) error {
	return f.writeJSON(CLIResponse{
		Status: "error",
		Data:   data,
		Error:  &CLIError{Code: code, Message: message},
		RunID:  f.RunID,
	})
}

// Error writes a coded error without data.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.writeJSON(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
			RunID: f.RunID,
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

func (f *OutputFormatter) writeJSON(resp CLIResponse) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}

// VerboseLog writes a diagnostic line in verbose mode. It goes to ErrWriter
// so json stdout stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter, falling back to Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
