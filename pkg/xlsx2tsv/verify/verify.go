// Package verify cross-checks converter output against excelize.
//
// Each admitted sheet is rendered twice: once from the rows the converter
// reads and once from the rows excelize reads for the same sheet name, both
// passed through the same field escaping and header filtering. Excelize does
// not report rows that hold no values, so on both sides rows without values
// are skipped until the header, and lines made only of empty fields are
// ignored afterwards.
package verify

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv"
	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/models"
	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/output"
	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/parser"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// MaxPerSheet bounds the number of line mismatches reported for one sheet.
const MaxPerSheet = 10

// Mismatch is one difference between the converter and the reference reader.
type Mismatch struct {
	Sheet string
	// Line is the 1-based line among non-empty output lines, or 0 when the
	// sheet could not be rendered at all.
	Line int
	Got  string
	Want string
	Err  error
}

func (m Mismatch) String() string {
	if m.Err != nil {
		return fmt.Sprintf("%s: %v", m.Sheet, m.Err)
	}
	return fmt.Sprintf("%s:%d: got %q, want %q", m.Sheet, m.Line, m.Got, m.Want)
}

// Verify compares every admitted sheet of the workbook at path. It returns
// an error only when the workbook cannot be opened by either reader.
func Verify(path string, opts xlsx2tsv.Options) ([]Mismatch, error) {
	c, err := xlsx2tsv.Open(path, opts)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("reference reader: %w", err)
	}
	defer f.Close()

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var mismatches []Mismatch
	for _, sheet := range c.Sheets() {
		got, err := converted(c, sheet, opts)
		if err != nil {
			mismatches = append(mismatches, Mismatch{Sheet: sheet.Name, Err: err})
			continue
		}
		want, err := reference(f, sheet.Name, opts)
		if err != nil {
			mismatches = append(mismatches, Mismatch{Sheet: sheet.Name, Err: fmt.Errorf("reference reader: %w", err)})
			continue
		}
		found := compare(sheet.Name, lines(got), lines(want))
		logger.Debug("sheet verified", zap.String("sheet", sheet.Name), zap.Int("mismatches", len(found)))
		mismatches = append(mismatches, found...)
	}
	return mismatches, nil
}

// rowSource yields rows of escaped fields.
type rowSource interface {
	Next() bool
	Row() []string
}

func converted(c *xlsx2tsv.Converter, sheet models.SheetDescriptor, opts xlsx2tsv.Options) (string, error) {
	sr, err := c.Rows(sheet)
	if err != nil {
		return "", err
	}
	return render(sr, opts)
}

// reference renders a sheet from excelize rows the way the converter
// renders worksheet cells.
func reference(f *excelize.File, sheet string, opts xlsx2tsv.Options) (string, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", err
	}
	if opts.StartRow < len(rows) {
		rows = rows[max(opts.StartRow, 0):]
	} else {
		rows = nil
	}
	return render(&gridRows{rows: rows}, opts)
}

// gridRows walks excelize rows, skipping rows without cells.
type gridRows struct {
	rows [][]string
	row  []string
}

func (g *gridRows) Next() bool {
	for len(g.rows) > 0 {
		r := g.rows[0]
		g.rows = g.rows[1:]
		if len(r) == 0 {
			continue
		}
		g.row = g.row[:0]
		for _, v := range r {
			g.row = append(g.row, parser.EscapeField(v))
		}
		return true
	}
	return false
}

func (g *gridRows) Row() []string {
	return g.row
}

// render writes the rows of src through the header filter. Rows holding
// only empty fields are dropped until the header is found.
func render(src rowSource, opts xlsx2tsv.Options) (string, error) {
	var buf bytes.Buffer
	rw := output.NewRowWriter(&buf, output.WriterOptions{
		AllowWildcard: opts.AllowWildcard,
		MaxColumns:    opts.MaxColumns,
	})
	for src.Next() {
		row := src.Row()
		if rw.Rows() == 0 && blank(row) {
			continue
		}
		if err := rw.WriteRow(row); err != nil {
			return "", err
		}
	}
	if err := rw.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func blank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

// lines splits rendered output and drops lines holding only empty fields.
func lines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, output.Terminator) {
		if strings.Trim(line, output.Delimiter) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func compare(sheet string, got, want []string) []Mismatch {
	var out []Mismatch
	n := max(len(got), len(want))
	for i := 0; i < n && len(out) < MaxPerSheet; i++ {
		var g, w string
		if i < len(got) {
			g = got[i]
		}
		if i < len(want) {
			w = want[i]
		}
		if g != w {
			out = append(out, Mismatch{Sheet: sheet, Line: i + 1, Got: g, Want: w})
		}
	}
	return out
}
