package xlsx2tsv

import (
	"errors"
	"fmt"
)

// ErrNoValidSheets indicates the workbook manifest admitted no sheet.
var ErrNoValidSheets = errors.New("no valid sheets")

// ErrNoSheetsProcessed indicates every admitted sheet was skipped.
var ErrNoSheetsProcessed = errors.New("no sheets processed")

// Stage names the step at which a sheet failed.
type Stage string

const (
	// StageLocate means the worksheet entry is missing from the container.
	StageLocate Stage = "locate"
	// StageExtract means the worksheet entry could not be decompressed.
	StageExtract Stage = "extract"
	// StageOutput means the output file could not be created.
	StageOutput Stage = "output"
	// StageWrite means writing the rows failed.
	StageWrite Stage = "write"
)

// OutputError represents a failure to create or write an output file.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// SheetError represents the failure of a single sheet. It never aborts a run.
type SheetError struct {
	SheetName string
	Stage     Stage
	Err       error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q (%s): %v", e.SheetName, e.Stage, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// NewSheetError creates a new SheetError.
func NewSheetError(sheetName string, stage Stage, err error) *SheetError {
	return &SheetError{
		SheetName: sheetName,
		Stage:     stage,
		Err:       err,
	}
}
