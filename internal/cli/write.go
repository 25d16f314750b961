package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tabula/internal/rangespec"
)

// CreateOptions holds flags for the create command.
type CreateOptions struct {
	*RootOptions
	Columns  []string
	RowsFile string
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create <table>",
		Short: "Create a table",
		Long: `Create a table with the given data columns, optionally filled from a
YAML rows file (a list of lists, one value per column).

Example:
  tabula create verbs --col infinitive --col past --col meaning --rows verbs.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Columns, "col", nil, "data column name (repeatable, in order)")
	cmd.Flags().StringVar(&opts.RowsFile, "rows", "", "YAML rows file, - for stdin")
	_ = cmd.MarkFlagRequired("col")

	return cmd
}

func runCreate(opts *CreateOptions, name string, cmd *cobra.Command) error {
	var rows [][]string
	if opts.RowsFile != "" {
		var err error
		if rows, err = loadRows(opts.RowsFile, cmd.InOrStdin()); err != nil {
			return reportInputError(opts.RootOptions, cmd, err)
		}
	}

	return runInSession(opts.RootOptions, cmd, func(s *session) (interface{}, string, error) {
		if err := s.tables.CreateTable(cmd.Context(), s.cur, name, opts.Columns, rows...); err != nil {
			return nil, "", err
		}
		return MutationResult{Table: name, Action: "created", Rows: len(rows)},
			fmt.Sprintf("created table %s with %s and %s", name,
				plural(len(opts.Columns), "column"), plural(len(rows), "row")), nil
	})
}

// InsertOptions holds flags for the insert command.
type InsertOptions struct {
	*RootOptions
	RowsFile string
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InsertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "insert <table>",
		Short: "Append rows from a YAML rows file",
		Long: `Append rows to a table. Ids continue after the last row. If any row has
the wrong number of values nothing is inserted.

Example:
  tabula insert verbs --rows more.yaml
  printf -- '- [go, "went, gone", aller]\n' | tabula insert verbs --rows -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsert(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RowsFile, "rows", "", "YAML rows file, - for stdin (required)")
	_ = cmd.MarkFlagRequired("rows")

	return cmd
}

func runInsert(opts *InsertOptions, name string, cmd *cobra.Command) error {
	rows, err := loadRows(opts.RowsFile, cmd.InOrStdin())
	if err != nil {
		return reportInputError(opts.RootOptions, cmd, err)
	}

	return runInSession(opts.RootOptions, cmd, func(s *session) (interface{}, string, error) {
		if err := s.tables.InsertRows(cmd.Context(), s.cur, name, rows...); err != nil {
			return nil, "", err
		}
		return MutationResult{Table: name, Action: "inserted", Rows: len(rows)},
			fmt.Sprintf("inserted %s into %s", plural(len(rows), "row"), name), nil
	})
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <table> <id> <value>...",
		Short: "Overwrite the values of one row",
		Long: `Overwrite every data value of an existing row. The row keeps its id.

Example:
  tabula update verbs 3 do "did, done" faire`,
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, values := args[0], args[2:]
			id, err := parsePositive("row id", args[1])
			if err != nil {
				return reportInputError(rootOpts, cmd, err)
			}
			return runInSession(rootOpts, cmd, func(s *session) (interface{}, string, error) {
				if err := s.tables.UpdateRow(cmd.Context(), s.cur, name, id, values); err != nil {
					return nil, "", err
				}
				return MutationResult{Table: name, Action: "updated", Rows: 1},
					fmt.Sprintf("updated row %d of %s", id, name), nil
			})
		},
	}
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <table> <rows>",
		Short: "Remove rows by id",
		Long: `Remove the rows listed by a range such as 1-3,7. The remaining rows are
renumbered 1..n. If any listed row is missing nothing is removed.

Example:
  tabula remove verbs 2,5-6`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, spec := args[0], args[1]
			return runInSession(rootOpts, cmd, func(s *session) (interface{}, string, error) {
				if err := s.tables.RemoveRows(cmd.Context(), s.cur, name, spec); err != nil {
					return nil, "", err
				}
				ids, _ := rangespec.Parse(spec)
				return MutationResult{Table: name, Action: "removed", Rows: len(ids)},
					fmt.Sprintf("removed %s from %s", plural(len(ids), "row"), name), nil
			})
		},
	}
}

// NewDropCommand creates the drop command.
func NewDropCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "drop <table>",
		Short:         "Remove a table",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return runInSession(rootOpts, cmd, func(s *session) (interface{}, string, error) {
				if err := s.tables.RemoveTable(cmd.Context(), s.cur, name); err != nil {
					return nil, "", err
				}
				return MutationResult{Table: name, Action: "dropped"},
					fmt.Sprintf("dropped table %s", name), nil
			})
		},
	}
}
