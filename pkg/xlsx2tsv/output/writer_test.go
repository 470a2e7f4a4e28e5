package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/models"
)

func TestRowWriter(t *testing.T) {
	tests := []struct {
		name          string
		allowWildcard bool
		rows          [][]string
		expected      string
	}{
		{
			name:          "wildcard header",
			allowWildcard: true,
			rows: [][]string{
				{"Name", "*ID", "Note!"},
				{"alice", "1", "hello"},
				{"bob", "2", "bye"},
			},
			expected: "Name\tID\nalice\t1\nbob\t2\n",
		},
		{
			name:          "wildcard disabled",
			allowWildcard: false,
			rows: [][]string{
				{"Name", "*ID"},
				{"alice", "1"},
			},
			expected: "Name\nalice\n",
		},
		{
			name:          "rows are fitted to the header",
			allowWildcard: true,
			rows: [][]string{
				{"A", "B", "C"},
				{"1"},
				{"1", "2", "3", "4", "5"},
				{"", "", "x"},
			},
			expected: "A\tB\tC\n1\t\t\n1\t2\t3\n\t\tx\n",
		},
		{
			name:          "empty header fields are invalid",
			allowWildcard: true,
			rows: [][]string{
				{"A", "", "C"},
				{"1", "2", "3"},
			},
			expected: "A\tC\n1\t3\n",
		},
		{
			name:          "data rows keep wildcards",
			allowWildcard: true,
			rows: [][]string{
				{"*Key*"},
				{"a*b"},
			},
			expected: "Key\na*b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			rw := NewRowWriter(&buf, WriterOptions{AllowWildcard: tt.allowWildcard})
			for _, row := range tt.rows {
				if err := rw.WriteRow(row); err != nil {
					t.Fatalf("WriteRow(%q) failed: %v", row, err)
				}
			}
			if err := rw.Flush(); err != nil {
				t.Fatalf("Flush failed: %v", err)
			}
			if got := buf.String(); got != tt.expected {
				t.Errorf("output = %q, expected %q", got, tt.expected)
			}
			if rw.Rows() != len(tt.rows) {
				t.Errorf("Rows() = %d, expected %d", rw.Rows(), len(tt.rows))
			}
		})
	}
}

func TestRowWriterColumns(t *testing.T) {
	var buf bytes.Buffer
	rw := NewRowWriter(&buf, WriterOptions{AllowWildcard: true})
	if rw.Columns() != nil {
		t.Error("Columns() before the header should be nil")
	}
	if err := rw.WriteRow([]string{"Name", "*ID", "Note!"}); err != nil {
		t.Fatal(err)
	}

	expected := []models.Column{
		{Name: "Name", Valid: true},
		{Name: "ID", Valid: true},
		{Name: "Note!", Valid: false},
	}
	cols := rw.Columns()
	if len(cols) != len(expected) {
		t.Fatalf("Expected %d columns, got %d", len(expected), len(cols))
	}
	for i := range expected {
		if cols[i] != expected[i] {
			t.Errorf("column %d = %+v, expected %+v", i, cols[i], expected[i])
		}
	}
}

func TestRowWriterMaxColumns(t *testing.T) {
	var buf bytes.Buffer
	rw := NewRowWriter(&buf, WriterOptions{AllowWildcard: true, MaxColumns: 2})
	err := rw.WriteRow([]string{"A", "B", "C"})
	if !errors.Is(err, ErrTooManyColumns) {
		t.Fatalf("Expected ErrTooManyColumns, got %v", err)
	}
	rw.Flush()
	if buf.Len() != 0 {
		t.Errorf("Expected nothing written, got %q", buf.String())
	}

	rw = NewRowWriter(&buf, WriterOptions{MaxColumns: 2})
	if err := rw.WriteRow([]string{"A", "B"}); err != nil {
		t.Errorf("header at the limit failed: %v", err)
	}
}

func TestSummaryToJSON(t *testing.T) {
	s := &models.Summary{
		Input:     "book.xlsx",
		Total:     2,
		Processed: 1,
		Duration:  1500 * time.Millisecond,
		Sheets: []models.SheetResult{
			{Sheet: models.SheetDescriptor{Name: "A", ID: 1, Index: 1}, OutputPath: "A.tsv", Rows: 3},
			{Sheet: models.SheetDescriptor{Name: "B", ID: 2, Index: 2}, Skipped: true,
				Err: errors.New("boom"), Reason: "boom"},
		},
	}

	data, err := SummaryToJSON(s, false)
	if err != nil {
		t.Fatalf("SummaryToJSON failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["processed"] != float64(1) || decoded["duration_ns"] != float64(1500*time.Millisecond) {
		t.Errorf("unexpected summary fields: %v", decoded)
	}
	sheets := decoded["sheets"].([]any)
	skipped := sheets[1].(map[string]any)
	if skipped["reason"] != "boom" || skipped["skipped"] != true {
		t.Errorf("unexpected skipped sheet: %v", skipped)
	}

	pretty, err := SummaryToJSON(s, true)
	if err != nil || !bytes.Contains(pretty, []byte("\n  \"input\"")) {
		t.Errorf("pretty output not indented: %s", pretty)
	}
}
