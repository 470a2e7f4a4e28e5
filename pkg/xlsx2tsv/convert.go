package xlsx2tsv

import (
	"os"
	"time"

	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/models"
)

// Convert writes every admitted sheet of the workbook at path to its own
// file and returns a summary of the run.
//
// Failures of individual sheets are recorded in the summary and do not stop
// the run. The returned error is non-nil when the workbook cannot be opened,
// when the output directory cannot be created, or when no sheet was
// written (ErrNoValidSheets, ErrNoSheetsProcessed). The summary is returned
// alongside the latter errors.
func Convert(path string, opts Options) (*models.Summary, error) {
	start := time.Now()
	c, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	sheets := c.Sheets()
	summary := &models.Summary{
		Input: path,
		Total: len(sheets),
	}
	defer func() { summary.Duration = time.Since(start) }()

	if len(sheets) == 0 {
		return summary, ErrNoValidSheets
	}
	dir := opts.outputDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return summary, &OutputError{Path: dir, Err: err}
	}

	for _, sheet := range sheets {
		res := c.ConvertSheet(sheet)
		if !res.Skipped {
			summary.Processed++
		}
		summary.Sheets = append(summary.Sheets, res)
	}
	if summary.Processed == 0 {
		return summary, ErrNoSheetsProcessed
	}
	return summary, nil
}
