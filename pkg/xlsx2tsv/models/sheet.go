// Package models defines data structures shared by the conversion stages.
package models

// SheetDescriptor identifies one admitted sheet of a workbook.
type SheetDescriptor struct {
	// Name is the display name declared in the workbook manifest.
	Name string `json:"name"`
	// ID is the declared sheet identifier, or the sheet's position when absent.
	ID int `json:"id"`
	// Index is the 1-based position among admitted sheets.
	Index int `json:"index"`
	// Entry is the container entry holding the worksheet, e.g. "xl/worksheets/sheet1.xml".
	Entry string `json:"entry"`
}

// Column is one header column of a sheet.
type Column struct {
	// Name is the header text with wildcard markers removed.
	Name string `json:"name"`
	// Valid reports whether the raw header text passed name validation.
	Valid bool `json:"valid"`
}
