// Package xlsx2tsv converts the sheets of an xlsx workbook into
// tab-separated text files, one file per sheet.
package xlsx2tsv

import "go.uber.org/zap"

const (
	// DefaultExtension is appended to every output file name.
	DefaultExtension = ".tsv"
	// DefaultMaxSheets bounds the number of sheets admitted from a workbook.
	DefaultMaxSheets = 50
	// DefaultMaxColumns bounds the width of a sheet's header row.
	DefaultMaxColumns = 1000
)

// Options configures a conversion.
type Options struct {
	// StartRow is the 0-based first row to convert. Earlier rows are
	// skipped entirely, and the first kept row becomes the header.
	StartRow int
	// AllowWildcard admits '*' in sheet and column names.
	AllowWildcard bool
	// OutputDir receives the output files. Empty means the current directory.
	OutputDir string
	// Extension is appended to each sanitized sheet name.
	Extension string
	// MaxSheets bounds the number of admitted sheets. Zero means no limit.
	MaxSheets int
	// MaxColumns bounds the header width of a sheet. Zero means no limit.
	MaxColumns int
	// StrictDirectory fails on the first malformed central directory record
	// instead of logging it and reading on.
	StrictDirectory bool
	// Logger receives diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{
		AllowWildcard: true,
		OutputDir:     ".",
		Extension:     DefaultExtension,
		MaxSheets:     DefaultMaxSheets,
		MaxColumns:    DefaultMaxColumns,
	}
}

// StartRowIndex converts a 1-based row number into a StartRow value.
// Numbers below 1 select the first row.
func StartRowIndex(n int) int {
	if n < 1 {
		return 0
	}
	return n - 1
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) extension() string {
	if o.Extension == "" {
		return DefaultExtension
	}
	return o.Extension
}

func (o Options) outputDir() string {
	if o.OutputDir == "" {
		return "."
	}
	return o.OutputDir
}
