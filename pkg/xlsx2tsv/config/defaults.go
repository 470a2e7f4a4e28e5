package config

import "github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.StartRow == 0 {
		cfg.StartRow = 1
	}
	if cfg.AllowWildcard == nil {
		t := true
		cfg.AllowWildcard = &t
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Extension == "" {
		cfg.Extension = xlsx2tsv.DefaultExtension
	}
	if cfg.MaxSheets == 0 {
		cfg.MaxSheets = xlsx2tsv.DefaultMaxSheets
	}
	if cfg.MaxColumns == 0 {
		cfg.MaxColumns = xlsx2tsv.DefaultMaxColumns
	}
}

// Default returns a config holding only default values.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}
