package models

import "time"

// SheetResult records what happened to one sheet during a run.
type SheetResult struct {
	// Sheet is the sheet that was attempted.
	Sheet SheetDescriptor `json:"sheet"`
	// OutputPath is the written file (empty when skipped).
	OutputPath string `json:"output_path,omitempty"`
	// Rows is the number of rows written, header included.
	Rows int `json:"rows"`
	// Columns is the header layout used to filter the sheet.
	Columns []Column `json:"columns,omitempty"`
	// Skipped is set when the sheet produced no output file.
	Skipped bool `json:"skipped"`
	// Err is the reason the sheet was skipped.
	Err error `json:"-"`
	// Reason is Err rendered as text.
	Reason string `json:"reason,omitempty"`
}

// Summary is the outcome of a conversion run.
type Summary struct {
	// Input is the workbook path.
	Input string `json:"input"`
	// Total is the number of sheets admitted by the manifest.
	Total int `json:"total"`
	// Processed is the number of sheets written successfully.
	Processed int `json:"processed"`
	// Sheets holds one result per admitted sheet, in manifest order.
	Sheets []SheetResult `json:"sheets"`
	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration_ns"`
}

// Outputs returns the results of the sheets that were written.
func (s *Summary) Outputs() []SheetResult {
	var out []SheetResult
	for _, r := range s.Sheets {
		if !r.Skipped {
			out = append(out, r)
		}
	}
	return out
}
