// Command tokencheck verifies that compiled component styles declare
// exactly the design tokens their family schema requires.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/tokencheck/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return cli.ExitSuccess
	}

	// Command errors are already reported by the formatter. Anything else
	// comes from flag or argument parsing.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitCommandError
	}
	return exitErr.Code
}
