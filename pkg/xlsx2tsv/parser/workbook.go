package parser

import (
	"fmt"
	"strconv"

	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/models"
	"go.uber.org/zap"
)

// WorksheetEntry returns the container entry of the n-th (1-based) admitted sheet.
// Worksheet parts are numbered in manifest order, independent of the
// declared sheet identifiers.
func WorksheetEntry(n int) string {
	return fmt.Sprintf("xl/worksheets/sheet%d.xml", n)
}

// ManifestOptions configures ReadManifest.
type ManifestOptions struct {
	// AllowWildcard admits '*' in sheet names.
	AllowWildcard bool
	// MaxSheets stops scanning once this many sheets are admitted. Zero means no limit.
	MaxSheets int
	// Logger receives a notice for every rejected sheet. Nil disables logging.
	Logger *zap.Logger
}

// ReadManifest returns the admitted sheets declared in a workbook manifest,
// in document order. Sheets whose name fails CheckName are dropped and do
// not take a worksheet number.
func ReadManifest(data []byte, opts ManifestOptions) []models.SheetDescriptor {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var sheets []models.SheetDescriptor
	sc := newScanner(data)
	for opts.MaxSheets <= 0 || len(sheets) < opts.MaxSheets {
		el, ok := sc.next(sheetPattern)
		if !ok {
			break
		}
		name, ok := attr(el.tag, "name")
		if !ok {
			logger.Debug("sheet declaration without a name skipped")
			continue
		}
		if err := CheckName(name, opts.AllowWildcard); err != nil {
			logger.Info("skipping sheet", zap.String("sheet", name), zap.Error(err))
			continue
		}

		n := len(sheets) + 1
		id := n
		if v, ok := attr(el.tag, "sheetId"); ok {
			if parsed, err := strconv.Atoi(v); err == nil {
				id = parsed
			}
		}
		sheets = append(sheets, models.SheetDescriptor{
			Name:  name,
			ID:    id,
			Index: n,
			Entry: WorksheetEntry(n),
		})
	}
	return sheets
}
