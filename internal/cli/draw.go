package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/tabula/internal/table"
)

// DrawResult is the JSON payload of the draw command.
type DrawResult struct {
	Table string     `json:"table"`
	Rows  [][]string `json:"rows"`
}

// DrawOptions holds flags for the draw command.
type DrawOptions struct {
	*RootOptions
	Oldest bool
}

// NewDrawCommand creates the draw command.
func NewDrawCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DrawOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "draw <table> <count>",
		Short: "Draw rows, preferring those drawn least recently",
		Long: `Draw <count> distinct rows from a timestamped table and mark them as
drawn. Rows never drawn come first, in random order; then rows drawn longest
ago. With --oldest the choice is deterministic: least recently drawn first,
ties broken by id.

With --decay-threshold n, at most n rows stay marked after the draw.

Example:
  tabula draw verbs 5
  tabula draw verbs 2 --oldest --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDraw(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Oldest, "oldest", false, "least recently drawn rows win deterministically")

	return cmd
}

func runDraw(opts *DrawOptions, name, countArg string, cmd *cobra.Command) error {
	count, err := parseCount(countArg)
	if err != nil {
		return reportInputError(opts.RootOptions, cmd, err)
	}

	return runInSession(opts.RootOptions, cmd, func(s *session) (interface{}, string, error) {
		ctx := cmd.Context()
		rows, err := s.stamped.DrawRows(ctx, s.cur, name, count, opts.Oldest)
		if err != nil {
			return nil, "", err
		}
		cols, err := s.stamped.Columns(ctx, s.cur, name, false)
		if err != nil {
			return nil, "", err
		}
		return DrawResult{Table: name, Rows: rows}, table.RenderText(append([][]string{cols}, rows...)), nil
	})
}
