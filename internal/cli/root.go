package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tabula/internal/config"
)

// RootOptions holds global flags for all commands. After flag parsing the
// fields hold the resolved configuration (flags > env > file > defaults).
type RootOptions struct {
	Verbose        bool
	Format         string // "json" | "text"
	DB             string
	ConfigFile     string
	Timestamped    bool
	DecayThreshold int
	DryRun         bool

	// Logger receives store and operator events. Nil discards them.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = config.Formats

// NewRootCommand creates the root command for the tabula CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tabula",
		Short: "tabula - small relational tables in one SQLite file",
		Long: `Create, edit, reshape and sample small tables of text stored in a
single SQLite file. Rows are numbered 1..n and stay dense after deletions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", config.DefaultFormat, "output format (json|text)")
	pf.StringVar(&opts.DB, "db", config.DefaultDB, "path to the SQLite store")
	pf.StringVar(&opts.ConfigFile, "config", "", "config file (default: tabula.yaml in the working directory)")
	pf.BoolVar(&opts.Timestamped, "timestamped", false, "create and edit tables with a hidden timestamp column")
	pf.IntVar(&opts.DecayThreshold, "decay-threshold", 0, "keep at most this many rows marked after a draw (0 disables)")
	pf.BoolVar(&opts.DryRun, "dry-run", false, "run against a scratch copy; the store file is left untouched")

	cmd.AddCommand(NewTablesCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewInsertCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewDropCommand(opts))
	cmd.AddCommand(NewRenameCommand(opts))
	cmd.AddCommand(NewCopyCommand(opts))
	cmd.AddCommand(NewMergeCommand(opts))
	cmd.AddCommand(NewSortCommand(opts))
	cmd.AddCommand(NewDrawCommand(opts))

	return cmd
}

// resolve loads the layered configuration into opts and installs the logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigFile, cmd.Flags())
	if err != nil {
		exitErr := WrapExitError(ExitCommandError, "failed to load configuration", err)
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", exitErr)
		return exitErr
	}
	o.DB = cfg.DB
	o.Format = cfg.Format
	o.Verbose = cfg.Verbose
	o.Timestamped = cfg.Timestamped
	o.DecayThreshold = cfg.DecayThreshold

	if o.Logger == nil {
		o.Logger = newLogger(cmd.ErrOrStderr(), o.Verbose)
	}
	if cfg.FileUsed != "" {
		o.Logger.Debug("config loaded", "file", cfg.FileUsed)
	}
	return nil
}

// newLogger returns a text logger on w: Debug when verbose, warnings only
// otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
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

// formatter builds the output formatter for a command.
func (o *RootOptions) formatter(cmd *cobra.Command) (*OutputFormatter, error) {
	if !isValidFormat(o.Format) {
		exitErr := NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", exitErr)
		return nil, exitErr
	}
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}, nil
}
