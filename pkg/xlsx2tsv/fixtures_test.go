package xlsx2tsv

import (
	"archive/zip"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// part is one entry of a hand-built workbook container.
type part struct {
	name   string
	body   string
	method uint16
}

// writeContainer builds a container from parts and returns its path.
// Methods other than store and deflate are written raw with a valid header.
func writeContainer(t *testing.T, parts ...part) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.xlsx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, p := range parts {
		var w io.Writer
		switch p.method {
		case zip.Store, zip.Deflate:
			w, err = zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: p.method})
		default:
			w, err = zw.CreateRaw(&zip.FileHeader{
				Name:               p.name,
				Method:             p.method,
				CRC32:              crc32.ChecksumIEEE([]byte(p.body)),
				CompressedSize64:   uint64(len(p.body)),
				UncompressedSize64: uint64(len(p.body)),
			})
		}
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func manifestPart(names ...string) part {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheets>`)
	for i, name := range names {
		fmt.Fprintf(&b, `<sheet name="%s" sheetId="%d" r:id="rId%d"/>`, name, i+1, i+1)
	}
	b.WriteString(`</sheets></workbook>`)
	return part{name: ManifestEntry, body: b.String(), method: zip.Deflate}
}

func sharedPart(items ...string) part {
	var b strings.Builder
	b.WriteString(`<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">`)
	for _, s := range items {
		if s == "" {
			b.WriteString("<si/>")
			continue
		}
		b.WriteString("<si><t>" + s + "</t></si>")
	}
	b.WriteString(`</sst>`)
	return part{name: SharedStringsEntry, body: b.String(), method: zip.Deflate}
}

func worksheetPart(n int, rows string, method uint16) part {
	return part{
		name:   fmt.Sprintf("xl/worksheets/sheet%d.xml", n),
		body:   `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` + rows + `</sheetData></worksheet>`,
		method: method,
	}
}

// writeWorkbook saves an excelize workbook with one sheet per entry of
// sheets, each filled from a row-major grid.
func writeWorkbook(t *testing.T, sheets []string, grids map[string][][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatal(err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatal(err)
		}
		for r, row := range grids[name] {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatal(err)
				}
				if err := f.SetCellValue(name, cell, v); err != nil {
					t.Fatal(err)
				}
			}
		}
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	return string(data)
}
