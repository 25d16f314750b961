package cli

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// loadRows reads a YAML list of rows, each a list of scalar values:
//
//	- [amor, amour]
//	- ["anima,  ae, f.", "coeur, âme"]
//
// A path of "-" reads from stdin.
func loadRows(path string, stdin io.Reader) ([][]string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("cannot read rows file %s: %v", path, err))
	}

	var rows [][]string
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid rows file %s: %v", path, err))
	}
	return rows, nil
}
