package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <family>",
		Short: "Print the resolved token schema of a family",
		Long: `Resolve a family's inheritance chain and print the tokens a component
of that family must declare, in schema order, with qualified names.
The family's own source file and removed tokens are listed first.

Examples:
  tokencheck schema outlined-button --schemas ./tokens
  tokencheck schema filled-button --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootOpts.defaults()
			return runSchema(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runSchema(opts *RootOptions, familyID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	reg, err := loadRegistry(opts, formatter)
	if err != nil {
		return err
	}

	schema, err := reg.Resolve(familyID)
	if err != nil {
		return reportSetupError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(schema)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "family: %s\n", schema.Family)
	fmt.Fprintf(w, "chain:  %s\n", strings.Join(schema.Chain, " → "))
	if fam, ok := reg.Family(familyID); ok {
		if fam.Source != "" {
			fmt.Fprintf(w, "source: %s\n", fam.Source)
		}
		if len(fam.Remove) > 0 {
			fmt.Fprintf(w, "remove: %s\n", strings.Join(fam.Remove, ", "))
		}
	}
	if schema.Prefix != "" {
		fmt.Fprintf(w, "prefix: %s\n", schema.Prefix)
	}
	fmt.Fprintf(w, "tokens: %d\n\n", len(schema.Tokens))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, tok := range schema.Tokens {
		category := string(tok.Category)
		if category == "" {
			category = "-"
		}
		def := tok.Default
		if def == "" {
			def = "-"
		}
		fmt.Fprintf(tw, "  --%s\t%s\t%s\n", tok.Name, category, def)
	}
	return tw.Flush()
}
