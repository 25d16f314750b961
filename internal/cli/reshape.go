package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRenameCommand creates the rename command.
func NewRenameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rename <table> <new-name>",
		Short:         "Rename a table",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := args[0], args[1]
			return runInSession(rootOpts, cmd, func(s *session) (interface{}, string, error) {
				if err := s.tables.RenameTable(cmd.Context(), s.cur, from, to); err != nil {
					return nil, "", err
				}
				return MutationResult{Table: from, Action: "renamed", Target: to},
					fmt.Sprintf("renamed table %s to %s", from, to), nil
			})
		},
	}
}

// NewCopyCommand creates the copy command.
func NewCopyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "copy <table> <new-name>",
		Short:         "Copy a table under a new name",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := args[0], args[1]
			return runInSession(rootOpts, cmd, func(s *session) (interface{}, string, error) {
				ctx := cmd.Context()
				if err := s.tables.CopyTable(ctx, s.cur, from, to); err != nil {
					return nil, "", err
				}
				n, err := s.tables.RowCount(ctx, s.cur, to)
				if err != nil {
					return nil, "", err
				}
				return MutationResult{Table: from, Action: "copied", Rows: n, Target: to},
					fmt.Sprintf("copied table %s to %s (%s)", from, to, plural(n, "row")), nil
			})
		},
	}
}

// NewMergeCommand creates the merge command.
func NewMergeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <src> <dst>",
		Short: "Append the rows of one table to another",
		Long: `Append the rows of <src> after those of <dst>. Both tables must have the
same number of data columns. <src> is left unchanged.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			return runInSession(rootOpts, cmd, func(s *session) (interface{}, string, error) {
				ctx := cmd.Context()
				if err := s.tables.MergeTables(ctx, s.cur, src, dst); err != nil {
					return nil, "", err
				}
				n, err := s.tables.RowCount(ctx, s.cur, src)
				if err != nil {
					return nil, "", err
				}
				return MutationResult{Table: src, Action: "merged", Rows: n, Target: dst},
					fmt.Sprintf("merged %s from %s into %s", plural(n, "row"), src, dst), nil
			})
		},
	}
}

// NewSortCommand creates the sort command.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sort <table> <column>",
		Short: "Reorder a table by a data column",
		Long: `Reorder a table by a data column (1-based) and renumber its rows in the
new order.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			col, err := parsePositive("column", args[1])
			if err != nil {
				return reportInputError(rootOpts, cmd, err)
			}
			return runInSession(rootOpts, cmd, func(s *session) (interface{}, string, error) {
				if err := s.tables.SortTable(cmd.Context(), s.cur, name, col); err != nil {
					return nil, "", err
				}
				return MutationResult{Table: name, Action: "sorted"},
					fmt.Sprintf("sorted table %s by column %d", name, col), nil
			})
		},
	}
}
