package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ReadCSV reads every record from r. Ragged rows are allowed; missing
// trailing cells are treated as empty by the loader.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}
