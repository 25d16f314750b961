// Package config loads tabula settings from defaults, a YAML file,
// TABULA_ environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"fmt"
	"slices"
)

// Defaults.
const (
	DefaultDB     = "tabula.db"
	DefaultFormat = "text"
)

// Formats lists the accepted output formats.
var Formats = []string{"text", "json"}

// Config holds the settings a command runs with.
type Config struct {
	DB             string `koanf:"db"`
	Timestamped    bool   `koanf:"timestamped"`
	DecayThreshold int    `koanf:"decay_threshold"`
	Format         string `koanf:"format"`
	Verbose        bool   `koanf:"verbose"`

	// FileUsed is the config file that was read, empty if none.
	FileUsed string `koanf:"-"`
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.DB == "" {
		return fmt.Errorf("db: path must not be empty")
	}
	if c.DecayThreshold < 0 {
		return fmt.Errorf("decay_threshold: must be >= 0, got %d", c.DecayThreshold)
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("format: invalid format %q: must be one of %v", c.Format, Formats)
	}
	return nil
}
