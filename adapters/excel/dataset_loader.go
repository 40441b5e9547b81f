package excel

import (
	"context"
	"math"
	"strconv"
	"strings"

	"digihealth/domain/behavior"
	"digihealth/domain/core"
)

// DatasetLoader reads a spreadsheet and projects it onto the core columns
type DatasetLoader struct {
	reader *DataReader
}

// NewDatasetLoader creates a loader on top of reader
func NewDatasetLoader(reader *DataReader) *DatasetLoader {
	return &DatasetLoader{reader: reader}
}

// Source returns the path being loaded.
func (l *DatasetLoader) Source() string {
	return l.reader.Path()
}

// Load reads the file and converts it into a dataset. A missing file wraps
// core.ErrDataSourceNotFound, a missing or non-numeric column wraps
// core.ErrInvalidColumn and a sheet without data rows is core.ErrEmptyDataset.
func (l *DatasetLoader) Load(ctx context.Context) (*behavior.Dataset, error) {
	data, err := l.reader.ReadData(ctx)
	if err != nil {
		return nil, err
	}
	return ToDataset(l.reader.Path(), data)
}

// ToDataset converts raw rows into typed rows, failing on the first cell that
// cannot be read as a finite number. Columns outside the core set are ignored.
func ToDataset(source string, data *ExcelData) (*behavior.Dataset, error) {
	var missing []string
	for _, col := range behavior.CoreColumns {
		if !data.HasColumn(col.String()) {
			missing = append(missing, col.String())
		}
	}
	if len(missing) > 0 {
		return nil, core.NewInvalidColumnError(strings.Join(missing, ", "), 0, "column not found in header")
	}
	if len(data.Rows) == 0 {
		return nil, core.ErrEmptyDataset
	}

	rows := make([]behavior.Row, 0, len(data.Rows))
	for i, raw := range data.Rows {
		var row behavior.Row
		for _, col := range behavior.CoreColumns {
			cell := raw[col.String()]
			value, ok := parseNumeric(cell)
			if !ok {
				reason := "value " + strconv.Quote(cell) + " is not numeric"
				if cell == "" {
					reason = "value is missing"
				}
				return nil, core.NewInvalidColumnError(col.String(), i+1, reason)
			}
			if err := row.Set(col, value); err != nil {
				return nil, err
			}
		}
		rows = append(rows, row)
	}

	return behavior.NewDataset(source, rows), nil
}

// parseNumeric accepts plain decimal or exponent notation and rejects NaN and
// infinities.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
