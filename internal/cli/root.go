package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/tokencheck/internal/config"
)

// IDGenerator produces run ids stamped on JSON output.
type IDGenerator interface {
	NewID() string
}

// UUIDv7Generator generates time-sortable run ids.
type UUIDv7Generator struct{}

// NewID returns a new UUIDv7 string.
func (UUIDv7Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	SchemasDir string

	// Populated by the root command before any subcommand runs.
	Config *config.Config
	Logger *slog.Logger

	// IDs overrides the run id generator (for testing).
	IDs IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the tokencheck CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokencheck",
		Short: "Verify component style tokens against family schemas",
		Long: `tokencheck checks that a component's compiled styles declare exactly
the design tokens its family schema expects: every token present, nothing
leaked from other variants.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(opts, cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to "+config.FileName+" (default: search upward)")
	cmd.PersistentFlags().StringVar(&opts.SchemasDir, "schemas", "", "schema directory (default: [schemas].dir from config)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// setup loads the config file and fills in everything flags left unset.
func setup(opts *RootOptions, cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	opts.Config = cfg

	if !cmd.Flags().Changed("format") {
		opts.Format = cfg.Check.Format
	}
	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}
	if opts.SchemasDir == "" {
		opts.SchemasDir = cfg.Schemas.Dir
	}

	// Diagnostics go to stderr so JSON on stdout stays parseable.
	if opts.Verbose {
		opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.IDs == nil {
		opts.IDs = UUIDv7Generator{}
	}

	opts.Logger.Debug("configuration loaded",
		"config", cfg.Path,
		"schemas", opts.SchemasDir,
		"format", opts.Format,
		"values", cfg.Check.Values,
		"jobs", cfg.Check.Jobs)
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// defaults fills what setup would when a subcommand runs on its own.
func (o *RootOptions) defaults() {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Format == "" {
		o.Format = o.Config.Check.Format
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}
