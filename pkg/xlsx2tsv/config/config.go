// Package config loads conversion settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings a conversion run can take from a file.
type Config struct {
	Debug bool `yaml:"debug"`
	// StartRow is the 1-based first row to convert.
	StartRow      int    `yaml:"start_row"`
	AllowWildcard *bool  `yaml:"allow_wildcard"`
	OutputDir     string `yaml:"output_dir"`
	Extension     string `yaml:"extension"`
	MaxSheets     int    `yaml:"max_sheets"`
	MaxColumns    int    `yaml:"max_columns"`
	// StrictDirectory rejects containers with a malformed central directory record.
	StrictDirectory bool `yaml:"strict_directory"`
}

// AllowWildcardOrDefault returns whether '*' is admitted in names; defaults to true when unset.
func (c *Config) AllowWildcardOrDefault() bool {
	if c.AllowWildcard != nil {
		return *c.AllowWildcard
	}
	return true
}

// Load reads and parses the config file at path, applies defaults, and
// resolves "./"-relative paths against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.OutputDir = expandPath(cfg.OutputDir, filepath.Dir(path))
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.StartRow < 0 {
		return fmt.Errorf("start_row must not be negative, got %d", c.StartRow)
	}
	if c.MaxSheets < 0 {
		return fmt.Errorf("max_sheets must not be negative, got %d", c.MaxSheets)
	}
	if c.MaxColumns < 0 {
		return fmt.Errorf("max_columns must not be negative, got %d", c.MaxColumns)
	}
	if strings.ContainsAny(c.Extension, `/\`) {
		return fmt.Errorf("extension %q must not contain a path separator", c.Extension)
	}
	return nil
}

// Options returns conversion options for this config. The logger is left
// for the caller to set.
func (c *Config) Options() xlsx2tsv.Options {
	return xlsx2tsv.Options{
		StartRow:        xlsx2tsv.StartRowIndex(c.StartRow),
		AllowWildcard:   c.AllowWildcardOrDefault(),
		OutputDir:       c.OutputDir,
		Extension:       c.Extension,
		MaxSheets:       c.MaxSheets,
		MaxColumns:      c.MaxColumns,
		StrictDirectory: c.StrictDirectory,
	}
}

// expandPath resolves paths starting with "./" (or ".") against configDir.
// Absolute paths and other relative paths are returned unchanged.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	return path
}
