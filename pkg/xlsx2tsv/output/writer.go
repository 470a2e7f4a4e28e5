// Package output writes converted sheets as tab-separated text.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/models"
	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/parser"
)

const (
	// Delimiter separates fields within a row.
	Delimiter = "\t"
	// Terminator ends every row.
	Terminator = "\n"
)

// ErrTooManyColumns is returned when a header row is wider than the
// writer's column limit.
var ErrTooManyColumns = errors.New("too many columns")

// WriterOptions configures a RowWriter.
type WriterOptions struct {
	// AllowWildcard admits '*' in header names.
	AllowWildcard bool
	// MaxColumns bounds the header width. Zero means no limit.
	MaxColumns int
}

// RowWriter writes the rows of one sheet, keeping only the columns whose
// header name is valid.
//
// The first row written is the header. Its validity pattern is fixed for
// the rest of the sheet: later rows are cut or padded to the header width
// and only fields under valid headers are emitted, in column order.
type RowWriter struct {
	w    *bufio.Writer
	opts WriterOptions

	columns []models.Column
	rows    int
	line    []string
}

// NewRowWriter returns a RowWriter that writes to w.
func NewRowWriter(w io.Writer, opts WriterOptions) *RowWriter {
	return &RowWriter{
		w:    bufio.NewWriter(w),
		opts: opts,
	}
}

// WriteRow writes one row. Fields must already be escaped.
func (rw *RowWriter) WriteRow(fields []string) error {
	rw.line = rw.line[:0]
	if rw.rows == 0 {
		if err := rw.setHeader(fields); err != nil {
			return err
		}
		for _, col := range rw.columns {
			if col.Valid {
				rw.line = append(rw.line, col.Name)
			}
		}
	} else {
		for i, col := range rw.columns {
			if !col.Valid {
				continue
			}
			var v string
			if i < len(fields) {
				v = fields[i]
			}
			rw.line = append(rw.line, v)
		}
	}

	if _, err := rw.w.WriteString(strings.Join(rw.line, Delimiter)); err != nil {
		return err
	}
	if _, err := rw.w.WriteString(Terminator); err != nil {
		return err
	}
	rw.rows++
	return nil
}

func (rw *RowWriter) setHeader(fields []string) error {
	if rw.opts.MaxColumns > 0 && len(fields) > rw.opts.MaxColumns {
		return fmt.Errorf("%w: header has %d columns, limit is %d",
			ErrTooManyColumns, len(fields), rw.opts.MaxColumns)
	}
	rw.columns = make([]models.Column, len(fields))
	for i, name := range fields {
		rw.columns[i] = models.Column{
			Name:  parser.StripWildcards(name),
			Valid: parser.ValidName(name, rw.opts.AllowWildcard),
		}
	}
	return nil
}

// Columns returns the header layout, or nil before the first row.
func (rw *RowWriter) Columns() []models.Column {
	return rw.columns
}

// Rows returns the number of rows written, header included.
func (rw *RowWriter) Rows() int {
	return rw.rows
}

// Flush writes any buffered data to the underlying writer.
func (rw *RowWriter) Flush() error {
	return rw.w.Flush()
}
