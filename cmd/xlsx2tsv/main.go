// Package main provides the CLI entry point for xlsx2tsv.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv"
	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/config"
	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/models"
	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/output"
	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/verify"
	"go.uber.org/zap"
)

type flags struct {
	configPath string
	noWildcard bool
	outputDir  string
	debug      bool
	strict     bool
	jsonOut    bool
	pretty     bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	rootCmd := &cobra.Command{
		Use:   "xlsx2tsv <input.xlsx> [start_row]",
		Short: "Convert the sheets of an xlsx workbook to TSV files",
		Long: `xlsx2tsv writes every sheet of an xlsx workbook whose name is made of
letters, digits, '-', '_' (and '*' unless --no-wildcard is given) to its own
tab-separated file. The first converted row is the header: columns whose
header name is not valid are left out of the file.`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return convert(cmd, f, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&f.configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVar(&f.noWildcard, "no-wildcard", false, "Reject '*' in sheet and column names")
	rootCmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&f.strict, "strict", false, "Fail on a malformed central directory record")
	rootCmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "Directory for output files (default: current directory)")
	rootCmd.Flags().BoolVar(&f.jsonOut, "json", false, "Print the run summary as JSON")
	rootCmd.Flags().BoolVar(&f.pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(newVerifyCmd(f))
	return rootCmd
}

func newVerifyCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:          "verify <input.xlsx> [start_row]",
		Short:        "Compare converter output with an independent xlsx reader",
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, logger, err := loadOptions(cmd, f, args)
			if err != nil {
				return err
			}
			defer logger.Sync()

			mismatches, err := verify.Verify(args[0], opts)
			if err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, m := range mismatches {
				fmt.Fprintln(out, m.String())
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("found %d mismatches", len(mismatches))
			}
			fmt.Fprintln(out, "No mismatches found")
			return nil
		},
	}
}

func convert(cmd *cobra.Command, f *flags, args []string) error {
	opts, logger, err := loadOptions(cmd, f, args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	inputPath := args[0]
	out := cmd.OutOrStdout()
	if !f.jsonOut {
		fmt.Fprintf(out, "Converting %s\n", inputPath)
	}

	summary, err := xlsx2tsv.Convert(inputPath, opts)
	if summary != nil {
		if f.jsonOut {
			data, jerr := output.SummaryToJSON(summary, f.pretty)
			if jerr != nil {
				return fmt.Errorf("serialization failed: %w", jerr)
			}
			fmt.Fprintln(out, string(data))
		} else {
			printSummary(out, summary)
		}
	}
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}
	return nil
}

// loadOptions merges the config file, the command-line flags and the
// optional start row argument. Flags win only when set explicitly.
func loadOptions(cmd *cobra.Command, f *flags, args []string) (xlsx2tsv.Options, *zap.Logger, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return xlsx2tsv.Options{}, nil, err
		}
		cfg = loaded
	}

	flagSet := cmd.Flags()
	if flagSet.Changed("no-wildcard") {
		allow := !f.noWildcard
		cfg.AllowWildcard = &allow
	}
	if flagSet.Changed("debug") {
		cfg.Debug = f.debug
	}
	if flagSet.Changed("strict") {
		cfg.StrictDirectory = f.strict
	}
	if flagSet.Changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return xlsx2tsv.Options{}, nil, fmt.Errorf("invalid start row %q: %w", args[1], err)
		}
		cfg.StartRow = n
	}

	logger, err := xlsx2tsv.NewLogger(cfg.Debug)
	if err != nil {
		return xlsx2tsv.Options{}, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	opts := cfg.Options()
	opts.Logger = logger
	return opts, logger, nil
}

func printSummary(w io.Writer, s *models.Summary) {
	for _, r := range s.Sheets {
		if r.Skipped {
			fmt.Fprintf(w, "Skipped sheet %q: %s\n", r.Sheet.Name, r.Reason)
			continue
		}
		fmt.Fprintf(w, "Converted sheet %q (%d rows)\n", r.Sheet.Name, r.Rows)
	}

	fmt.Fprintf(w, "Processed %d out of %d sheets in %s\n",
		s.Processed, s.Total, s.Duration.Round(time.Millisecond))
	outputs := s.Outputs()
	if len(outputs) == 0 {
		return
	}
	fmt.Fprintln(w, "Output files:")
	for _, r := range outputs {
		fmt.Fprintf(w, "  %s (sheet %q)\n", filepath.Base(r.OutputPath), r.Sheet.Name)
	}
}
