package parser

import (
	"strings"
	"testing"
)

func sheetXML(rows string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><dimension ref="A1:C3"/><cols><col min="1" max="3" width="9"/></cols><sheetData>` + rows + `</sheetData></worksheet>`)
}

func readAll(sr *SheetReader) []string {
	var lines []string
	for sr.Next() {
		lines = append(lines, strings.Join(sr.Row(), "\t"))
	}
	return lines
}

func sharedTable(items ...string) *SharedStrings {
	var b strings.Builder
	b.WriteString(sstHeader)
	for _, s := range items {
		b.WriteString("<si><t>" + s + "</t></si>")
	}
	b.WriteString("</sst>")
	return ParseSharedStrings([]byte(b.String()))
}

func TestSheetReader(t *testing.T) {
	tests := []struct {
		name     string
		rows     string
		startRow int
		expected []string
	}{
		{
			name:     "gap fill",
			rows:     `<row r="1"><c r="A1" t="s"><v>0</v></c><c r="C1" t="s"><v>1</v></c></row>`,
			expected: []string{"A\t\tB"},
		},
		{
			name:     "leading gap",
			rows:     `<row r="1"><c r="C1"><v>7</v></c></row>`,
			expected: []string{"\t\t7"},
		},
		{
			name:     "start row drops earlier rows",
			rows:     `<row r="1"><c r="A1"><v>1</v></c></row><row r="2"><c r="A2"><v>2</v></c><c r="B2"><v>3</v></c></row><row r="3"><c r="B3"><v>4</v></c></row>`,
			startRow: 1,
			expected: []string{"2\t3", "\t4"},
		},
		{
			name:     "row numbers gaps are not filled",
			rows:     `<row r="1"><c r="A1"><v>1</v></c></row><row r="5"><c r="A5"><v>5</v></c></row>`,
			expected: []string{"1", "5"},
		},
		{
			name:     "rows without cells produce nothing",
			rows:     `<row r="1"/><row r="2"></row><row r="3"><c r="A3"><v>x</v></c></row>`,
			expected: []string{"x"},
		},
		{
			name:     "inline and plain text",
			rows:     `<row r="1"><c r="A1" t="inlineStr"><is><t>inline</t></is></c><c r="B1" t="str"><f>A1</f><v>formula</v></c><c r="C1"><t>bare</t></c></row>`,
			expected: []string{"inline\tformula\tbare"},
		},
		{
			name:     "empty cells",
			rows:     `<row r="1"><c r="A1" s="1"/><c r="B1"><v>b</v></c><c r="C1"></c></row>`,
			expected: []string{"\tb\t"},
		},
		{
			name:     "shared string out of range",
			rows:     `<row r="1"><c r="A1" t="s"><v>9</v></c><c r="B1" t="s"><v>x</v></c><c r="C1"><v>1</v></c></row>`,
			expected: []string{"\t\t1"},
		},
		{
			name:     "control characters become spaces",
			rows:     `<row r="1"><c r="A1" t="s"><v>2</v></c></row>`,
			expected: []string{"a b c"},
		},
		{
			name:     "non shared values are kept verbatim",
			rows:     `<row r="1"><c r="A1" t="str"><v>R&amp;D</v></c></row>`,
			expected: []string{"R&amp;D"},
		},
		{
			name:     "cells with bad references are skipped",
			rows:     `<row r="1"><c><v>x</v></c><c r="1A"><v>y</v></c><c r="B1"><v>z</v></c></row>`,
			expected: []string{"\tz"},
		},
		{
			name:     "empty sheet",
			rows:     ``,
			expected: nil,
		},
	}

	shared := sharedTable("A", "B", "a\tb\nc")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := NewSheetReader(sheetXML(tt.rows), shared, SheetOptions{StartRow: tt.startRow})
			got := readAll(sr)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d rows %q, got %d rows %q", len(tt.expected), tt.expected, len(got), got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("row %d = %q, expected %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestSheetReaderRowNumber(t *testing.T) {
	data := sheetXML(`<row r="2"><c r="A2"><v>a</v></c></row><row r="4"><c r="B4"><v>b</v></c></row>`)
	sr := NewSheetReader(data, nil, SheetOptions{})

	var numbers []int
	for sr.Next() {
		numbers = append(numbers, sr.RowNumber())
	}
	if len(numbers) != 2 || numbers[0] != 1 || numbers[1] != 3 {
		t.Errorf("Expected row numbers [1 3], got %v", numbers)
	}
	if sr.Next() {
		t.Error("Next after exhaustion returned true")
	}
}

func TestSheetReaderNilSharedStrings(t *testing.T) {
	data := sheetXML(`<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1"><v>2</v></c></row>`)
	got := readAll(NewSheetReader(data, nil, SheetOptions{StartRow: -3}))
	if len(got) != 1 || got[0] != "\t2" {
		t.Errorf("Expected [\"\\t2\"], got %q", got)
	}
}
