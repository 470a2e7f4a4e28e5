package verify

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv"
	"github.com/xuri/excelize/v2"
)

func TestVerify(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Data")
	f.SetCellValue("Data", "A1", "Name")
	f.SetCellValue("Data", "B1", "*Score")
	f.SetCellValue("Data", "C1", "Bad Header")
	f.SetCellValue("Data", "A2", "alice")
	f.SetCellValue("Data", "B2", 10)
	f.SetCellValue("Data", "C2", "ignored")
	f.SetCellValue("Data", "B4", 2.5)
	if _, err := f.NewSheet("Empty"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	tests := []struct {
		name     string
		startRow int
	}{
		{"from first row", 0},
		{"from second row", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := xlsx2tsv.DefaultOptions()
			opts.StartRow = tt.startRow
			mismatches, err := Verify(path, opts)
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			if len(mismatches) != 0 {
				t.Errorf("Expected no mismatches, got %v", mismatches)
			}
		})
	}
}

func TestVerifyStyledBandAboveHeader(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFFF00"}, Pattern: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellStyle("Sheet1", "A1", "B1", style); err != nil {
		t.Fatal(err)
	}
	f.SetCellValue("Sheet1", "A2", "Name")
	f.SetCellValue("Sheet1", "B2", "Score")
	f.SetCellValue("Sheet1", "A3", "alice")
	f.SetCellValue("Sheet1", "B3", 7)

	path := filepath.Join(t.TempDir(), "styled.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	mismatches, err := Verify(path, xlsx2tsv.DefaultOptions())
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if len(mismatches) != 0 {
		t.Errorf("Expected no mismatches, got %v", mismatches)
	}
}

func TestRenderSkipsLeadingBlankRows(t *testing.T) {
	src := &gridRows{rows: [][]string{{}, {"", ""}, {"Name", "*ID"}, {}, {"a", "1"}}}
	got, err := render(src, xlsx2tsv.DefaultOptions())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if got != "Name\tID\na\t1\n" {
		t.Errorf("render = %q", got)
	}
}

func TestVerifyNotAWorkbook(t *testing.T) {
	if _, err := Verify(filepath.Join(t.TempDir(), "missing.xlsx"), xlsx2tsv.DefaultOptions()); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestCompare(t *testing.T) {
	got := lines("A\tB\nx\t1\n\t\ny\t2\n")
	want := lines("A\tB\nx\t1\nz\t2\n\t\n")

	mismatches := compare("S", got, want)
	if len(mismatches) != 1 {
		t.Fatalf("Expected 1 mismatch, got %v", mismatches)
	}
	m := mismatches[0]
	if m.Line != 3 || m.Got != "y\t2" || m.Want != "z\t2" {
		t.Errorf("unexpected mismatch %+v", m)
	}
	if s := m.String(); !strings.HasPrefix(s, "S:3:") {
		t.Errorf("String() = %q", s)
	}

	extra := compare("S", []string{"a", "b"}, []string{"a"})
	if len(extra) != 1 || extra[0].Want != "" || extra[0].Got != "b" {
		t.Errorf("unexpected extra-line mismatch %v", extra)
	}
}

func TestCompareLimit(t *testing.T) {
	var got, want []string
	for i := 0; i < MaxPerSheet*2; i++ {
		got = append(got, "a")
		want = append(want, "b")
	}
	if n := len(compare("S", got, want)); n != MaxPerSheet {
		t.Errorf("Expected %d mismatches, got %d", MaxPerSheet, n)
	}
}
