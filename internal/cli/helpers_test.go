package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// execute runs the root command against db and returns stdout and stderr.
func execute(t *testing.T, db string, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"--db", db}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustExecute is execute for commands expected to succeed.
func mustExecute(t *testing.T, db string, args ...string) string {
	t.Helper()
	out, stderr, err := execute(t, db, args...)
	require.NoError(t, err, "stdout: %s\nstderr: %s", out, stderr)
	return out
}

func writeRows(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}
