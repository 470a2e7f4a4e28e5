package output

import (
	"encoding/json"

	"github.com/ukaji3/xlsx2tsv-go/pkg/xlsx2tsv/models"
)

// SummaryToJSON serializes a run summary. Per-sheet errors are carried in
// each result's Reason field.
func SummaryToJSON(s *models.Summary, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(s, "", "  ")
	}
	return json.Marshal(s)
}
