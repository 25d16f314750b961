package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", DefaultDB, "")
	fs.String("format", DefaultFormat, "")
	fs.Bool("timestamped", false, "")
	fs.Int("decay-threshold", 0, "")
	fs.BoolP("verbose", "v", false, "")
	return fs
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDB, cfg.DB)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.False(t, cfg.Timestamped)
	assert.Equal(t, 0, cfg.DecayThreshold)
	assert.Empty(t, cfg.FileUsed)
}

func TestLoad_DiscoversFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, "tabula.yaml", "db: words.db\ntimestamped: true\ndecay_threshold: 3\n")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "words.db", cfg.DB)
	assert.True(t, cfg.Timestamped)
	assert.Equal(t, 3, cfg.DecayThreshold)
	assert.Equal(t, "tabula.yaml", cfg.FileUsed)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := writeFile(t, dir, "custom.yml", "db: file.db\nformat: json\ndecay_threshold: 1\n")

	t.Setenv("TABULA_DB", "env.db")
	t.Setenv("TABULA_DECAY_THRESHOLD", "5")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--db", "flag.db"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "flag.db", cfg.DB, "flag beats env")
	assert.Equal(t, 5, cfg.DecayThreshold, "env beats file")
	assert.Equal(t, "json", cfg.Format, "file beats default")
	assert.Equal(t, path, cfg.FileUsed)
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, "tabula.yaml", "format: json\n")

	fs := newFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoad_KebabFlags(t *testing.T) {
	chdir(t, t.TempDir())

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--decay-threshold", "4", "--timestamped"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.DecayThreshold)
	assert.True(t, cfg.Timestamped)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := Load(filepath.Join(dir, "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")

	bad := writeFile(t, dir, "bad.yaml", "format: xml\n")
	_, err = Load(bad, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		errSubstr string
	}{
		{"valid", Config{DB: "a.db", Format: "text"}, ""},
		{"valid json", Config{DB: ":memory:", Format: "json", DecayThreshold: 2}, ""},
		{"empty db", Config{Format: "text"}, "db"},
		{"negative threshold", Config{DB: "a.db", Format: "text", DecayThreshold: -1}, "decay_threshold"},
		{"unknown format", Config{DB: "a.db", Format: "TEXT"}, "invalid format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}
