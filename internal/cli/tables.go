package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tabula/internal/table"
)

// TablesResult is the JSON payload of the tables command.
type TablesResult struct {
	Tables []string `json:"tables"`
}

// ShowResult is the JSON payload of the show command.
type ShowResult struct {
	Table   string     `json:"table"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "tables",
		Short:         "List the tables in the store",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInSession(rootOpts, cmd, func(s *session) (interface{}, string, error) {
				names, err := s.tables.ListTables(cmd.Context(), s.cur)
				if err != nil {
					return nil, "", err
				}
				if names == nil {
					names = []string{}
				}
				return TablesResult{Tables: names}, strings.Join(names, "\n"), nil
			})
		},
	}
}

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Headers bool
	Sort    int
	Rows    string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <table>",
		Short: "Print a table",
		Long: `Print a table's rows with their ids.

Text output is a bordered grid with a header line. JSON output lists the
columns and the rows; --headers also repeats the header as the first row.

Example:
  tabula show verbs --sort 2
  tabula show verbs --rows 1-3,7`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Headers, "headers", false, "include the header row in JSON rows")
	cmd.Flags().IntVar(&opts.Sort, "sort", 0, "order by this data column (1-based)")
	cmd.Flags().StringVar(&opts.Rows, "rows", "", "only these row ids, e.g. 1-3,7")

	return cmd
}

func runShow(opts *ShowOptions, name string, cmd *cobra.Command) error {
	if opts.Rows != "" && opts.Sort != 0 {
		return reportInputError(opts.RootOptions, cmd,
			NewExitError(ExitCommandError, "--rows and --sort cannot be combined"))
	}

	return runInSession(opts.RootOptions, cmd, func(s *session) (interface{}, string, error) {
		ctx := cmd.Context()
		cols, err := s.tables.Columns(ctx, s.cur, name, true)
		if err != nil {
			return nil, "", err
		}

		var rows [][]string
		if opts.Rows != "" {
			rows, err = s.tables.GetRows(ctx, s.cur, name, opts.Rows)
		} else {
			rows, err = s.tables.GetTable(ctx, s.cur, name, table.ReadOptions{SortBy: opts.Sort})
		}
		if err != nil {
			return nil, "", err
		}
		if rows == nil {
			rows = [][]string{}
		}

		withHeader := append([][]string{cols}, rows...)
		result := ShowResult{Table: name, Columns: cols, Rows: rows}
		if opts.Headers {
			result.Rows = withHeader
		}
		return result, table.RenderText(withHeader), nil
	})
}
