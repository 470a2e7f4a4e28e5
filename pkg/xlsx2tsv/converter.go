package xlsx2tsv

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/container"
	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/models"
	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/output"
	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/parser"
	"go.uber.org/zap"
)

const (
	// ManifestEntry is the workbook manifest. A container without it is rejected.
	ManifestEntry = "xl/workbook.xml"
	// SharedStringsEntry is the optional shared string table.
	SharedStringsEntry = "xl/sharedStrings.xml"
)

// Converter holds an open workbook: its container index, the admitted
// sheets and the shared string table. Both are read once in Open and never
// change afterwards.
type Converter struct {
	path   string
	opts   Options
	logger *zap.Logger

	index  *container.Index
	sheets []models.SheetDescriptor
	shared *parser.SharedStrings
}

// Open opens the workbook at path and loads its manifest and shared strings.
// A missing manifest is an error; missing shared strings are not.
func Open(path string, opts Options) (*Converter, error) {
	logger := opts.logger()
	idx, err := container.Open(path, container.Options{
		Strict: opts.StrictDirectory,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	c := &Converter{
		path:   path,
		opts:   opts,
		logger: logger,
		index:  idx,
	}
	if err := c.load(); err != nil {
		idx.Close()
		return nil, err
	}
	return c, nil
}

func (c *Converter) load() error {
	manifest, err := c.index.ExtractName(ManifestEntry)
	if err != nil {
		return fmt.Errorf("read workbook manifest: %w", err)
	}
	c.sheets = parser.ReadManifest(manifest, parser.ManifestOptions{
		AllowWildcard: c.opts.AllowWildcard,
		MaxSheets:     c.opts.MaxSheets,
		Logger:        c.logger,
	})

	data, err := c.index.ExtractName(SharedStringsEntry)
	switch {
	case err == nil:
		c.shared = parser.ParseSharedStrings(data)
		c.logger.Info("shared strings loaded", zap.Int("count", c.shared.Len()))
	case errors.Is(err, container.ErrEntryNotFound):
		c.logger.Debug("workbook has no shared strings")
	default:
		c.logger.Warn("shared strings unreadable, references resolve to empty", zap.Error(err))
	}
	return nil
}

// Close releases the container.
func (c *Converter) Close() error {
	return c.index.Close()
}

// Sheets returns the admitted sheets in manifest order.
func (c *Converter) Sheets() []models.SheetDescriptor {
	out := make([]models.SheetDescriptor, len(c.sheets))
	copy(out, c.sheets)
	return out
}

// WriteSheet converts one sheet into w and returns the number of rows
// written, header included.
func (c *Converter) WriteSheet(sheet models.SheetDescriptor, w io.Writer) (int, error) {
	data, err := c.extract(sheet)
	if err != nil {
		return 0, err
	}
	rw, err := c.render(data, w)
	if err != nil {
		return rw.Rows(), NewSheetError(sheet.Name, StageWrite, err)
	}
	return rw.Rows(), nil
}

// ConvertSheet converts one sheet into its output file. The worksheet is
// fully extracted before the file is created, and a file left behind by a
// failed write is removed, so a skipped sheet never leaves output.
func (c *Converter) ConvertSheet(sheet models.SheetDescriptor) models.SheetResult {
	res := models.SheetResult{Sheet: sheet}
	data, err := c.extract(sheet)
	if err != nil {
		return c.skip(res, err)
	}

	path := c.OutputPath(sheet)
	f, err := os.Create(path)
	if err != nil {
		return c.skip(res, NewSheetError(sheet.Name, StageOutput, &OutputError{Path: path, Err: err}))
	}
	rw, err := c.render(data, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = &OutputError{Path: path, Err: cerr}
	}
	if err != nil {
		os.Remove(path)
		return c.skip(res, NewSheetError(sheet.Name, StageWrite, err))
	}

	res.OutputPath = path
	res.Rows = rw.Rows()
	res.Columns = rw.Columns()
	c.logger.Info("sheet converted",
		zap.String("sheet", sheet.Name),
		zap.String("output", path),
		zap.Int("rows", res.Rows))
	return res
}

// OutputPath returns the file a sheet is written to. A name that sanitizes
// to nothing falls back to the worksheet number.
func (c *Converter) OutputPath(sheet models.SheetDescriptor) string {
	ext := c.opts.extension()
	name := parser.OutputName(sheet.Name, ext)
	if strings.TrimSuffix(name, ext) == "" {
		name = fmt.Sprintf("sheet%d%s", sheet.Index, ext)
	}
	return filepath.Join(c.opts.outputDir(), name)
}

func (c *Converter) extract(sheet models.SheetDescriptor) ([]byte, error) {
	entry, err := c.index.Locate(sheet.Entry)
	if err != nil {
		return nil, NewSheetError(sheet.Name, StageLocate, err)
	}
	data, err := c.index.Extract(entry)
	if err != nil {
		return nil, NewSheetError(sheet.Name, StageExtract, err)
	}
	return data, nil
}

// Rows returns a reader over the rows of one sheet, as they reach the
// header filter.
func (c *Converter) Rows(sheet models.SheetDescriptor) (*parser.SheetReader, error) {
	data, err := c.extract(sheet)
	if err != nil {
		return nil, err
	}
	return c.reader(data), nil
}

func (c *Converter) reader(data []byte) *parser.SheetReader {
	return parser.NewSheetReader(data, c.shared, parser.SheetOptions{
		StartRow: c.opts.StartRow,
		Logger:   c.logger,
	})
}

func (c *Converter) render(data []byte, w io.Writer) (*output.RowWriter, error) {
	sr := c.reader(data)
	rw := output.NewRowWriter(w, output.WriterOptions{
		AllowWildcard: c.opts.AllowWildcard,
		MaxColumns:    c.opts.MaxColumns,
	})
	for sr.Next() {
		if err := rw.WriteRow(sr.Row()); err != nil {
			return rw, err
		}
	}
	return rw, rw.Flush()
}

func (c *Converter) skip(res models.SheetResult, err error) models.SheetResult {
	res.Skipped = true
	res.Err = err
	res.Reason = err.Error()
	c.logger.Warn("sheet skipped", zap.String("sheet", res.Sheet.Name), zap.Error(err))
	return res
}
