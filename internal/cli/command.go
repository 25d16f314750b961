package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// MutationResult is the JSON payload of commands that change the store.
type MutationResult struct {
	Table  string `json:"table"`
	Action string `json:"action"`
	Rows   int    `json:"rows,omitempty"`
	Target string `json:"target,omitempty"`
}

// runInSession runs body inside a store session and reports its outcome.
// body returns the JSON payload and the text rendering of its result.
func runInSession(opts *RootOptions, cmd *cobra.Command, body func(s *session) (interface{}, string, error)) error {
	formatter, err := opts.formatter(cmd)
	if err != nil {
		return err
	}

	var (
		data interface{}
		text string
	)
	err = opts.withSession(cmd.Context(), func(s *session) error {
		var err error
		data, text, err = body(s)
		return err
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if opts.DryRun {
		formatter.VerboseLog("dry run: %s was not modified", opts.DB)
	}
	return formatter.Success(data, text)
}

// reportInputError prints an argument error and returns it as a command error.
func reportInputError(opts *RootOptions, cmd *cobra.Command, err error) error {
	formatter, ferr := opts.formatter(cmd)
	if ferr != nil {
		return ferr
	}
	return formatter.Fail(err)
}

// parsePositive parses a 1-based number argument.
func parsePositive(what, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("%s must be a positive integer, got %q", what, arg))
	}
	return n, nil
}

// parseCount parses a non-negative count argument.
func parseCount(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("count must be a non-negative integer, got %q", arg))
	}
	return n, nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
