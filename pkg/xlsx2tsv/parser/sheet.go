package parser

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// cell is a decoded cell ready to be placed in a row.
type cell struct {
	addr  CellAddress
	value string
}

// SheetReader rebuilds dense rows from the sparse cells of a worksheet.
//
// Cells are taken in document order. A row is closed as soon as a cell with
// a different row number appears; columns skipped within a row are filled
// with empty fields so the field at position i is always column i. Rows
// before the start row are dropped without affecting column tracking, and
// rows without any kept cell produce nothing.
type SheetReader struct {
	sc       *scanner
	shared   *SharedStrings
	startRow int
	logger   *zap.Logger

	row     []string
	open    bool
	lastRow int
	lastCol int
	pending cell
	hasNext bool
	done    bool
}

// SheetOptions configures a SheetReader.
type SheetOptions struct {
	// StartRow is the 0-based first row to keep.
	StartRow int
	// Logger receives notices about skipped cells. Nil disables logging.
	Logger *zap.Logger
}

// NewSheetReader returns a reader over a worksheet payload. Shared string
// references are resolved against shared, which may be nil.
func NewSheetReader(data []byte, shared *SharedStrings, opts SheetOptions) *SheetReader {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	startRow := opts.StartRow
	if startRow < 0 {
		startRow = 0
	}
	return &SheetReader{
		sc:       newScanner(data),
		shared:   shared,
		startRow: startRow,
		logger:   logger,
	}
}

// Next advances to the next row and reports whether there is one.
func (sr *SheetReader) Next() bool {
	if sr.done {
		return false
	}
	sr.row = sr.row[:0]
	sr.open = false
	if sr.hasNext {
		sr.place(sr.pending)
		sr.hasNext = false
	}

	for {
		c, ok := sr.nextCell()
		if !ok {
			sr.done = true
			return sr.open
		}
		if sr.open && c.addr.Row != sr.lastRow {
			sr.pending = c
			sr.hasNext = true
			return true
		}
		sr.place(c)
	}
}

// Row returns the fields of the current row. The slice is reused by the
// next call to Next.
func (sr *SheetReader) Row() []string {
	return sr.row
}

// RowNumber returns the 0-based row number of the current row.
func (sr *SheetReader) RowNumber() int {
	return sr.lastRow
}

// place appends c to the current row after filling any column gap.
func (sr *SheetReader) place(c cell) {
	if !sr.open {
		sr.open = true
		sr.lastRow = c.addr.Row
		sr.lastCol = -1
	}
	for col := sr.lastCol + 1; col < c.addr.Col; col++ {
		sr.row = append(sr.row, "")
	}
	sr.row = append(sr.row, c.value)
	sr.lastCol = c.addr.Col
}

// nextCell returns the next cell at or after the start row.
func (sr *SheetReader) nextCell() (cell, bool) {
	for {
		el, ok := sr.sc.next(cellPattern)
		if !ok {
			return cell{}, false
		}
		ref, ok := attr(el.tag, "r")
		if !ok {
			sr.logger.Debug("cell without reference skipped")
			continue
		}
		addr, err := ParseCellRef(ref)
		if err != nil {
			sr.logger.Debug("cell skipped", zap.Error(err))
			continue
		}
		if addr.Row < sr.startRow {
			continue
		}
		return cell{addr: addr, value: EscapeField(sr.resolve(el))}, true
	}
}

// resolve returns the text of a cell. Shared string references are looked
// up by index, and an index outside the table yields an empty value. Any
// other cell keeps the raw text of its value, inline string or text child.
func (sr *SheetReader) resolve(el element) string {
	if el.selfClosing {
		return ""
	}
	text, ok := cellText(el.body)
	if !ok {
		return ""
	}
	if t, _ := attr(el.tag, "t"); t == "s" {
		i, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return ""
		}
		s, _ := sr.shared.At(i)
		return s
	}
	return text
}

// cellText looks for <v>, then <is><t>, then <t> inside a cell body.
func cellText(body []byte) (string, bool) {
	if v, ok := newScanner(body).next(valuePattern); ok {
		return string(v.body), true
	}
	if is, ok := newScanner(body).next(inlinePattern); ok && !is.selfClosing {
		if t, ok := newScanner(is.body).next(textPattern); ok {
			return string(t.body), true
		}
	}
	if t, ok := newScanner(body).next(textPattern); ok {
		return string(t.body), true
	}
	return "", false
}
