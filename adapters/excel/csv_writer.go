package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"digihealth/domain/behavior"
	"digihealth/domain/core"
)

// CleanedWriter writes the core columns of a dataset as CSV
type CleanedWriter struct {
	path string
}

// NewCleanedWriter creates a writer targeting path
func NewCleanedWriter(path string) *CleanedWriter {
	return &CleanedWriter{path: path}
}

// WriteCleaned writes a header of the core column names followed by one
// record per row in dataset order, and returns the path and a hash of the bytes
// written. Values use the shortest representation that parses back to the
// same float64.
func (w *CleanedWriter) WriteCleaned(ctx context.Context, ds *behavior.Dataset) (string, core.Hash, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	if err := EncodeCleaned(&buf, ds); err != nil {
		return "", "", err
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", "", fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(w.path, buf.Bytes(), 0o644); err != nil {
		return "", "", fmt.Errorf("write cleaned data: %w", err)
	}
	return w.path, core.NewHash(buf.Bytes()), nil
}

// EncodeCleaned writes the cleaned CSV to buf.
func EncodeCleaned(buf *bytes.Buffer, ds *behavior.Dataset) error {
	cw := csv.NewWriter(buf)

	header := make([]string, len(behavior.CoreColumns))
	for i, col := range behavior.CoreColumns {
		header[i] = col.String()
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(behavior.CoreColumns))
	for _, row := range ds.Rows {
		for i, col := range behavior.CoreColumns {
			record[i] = strconv.FormatFloat(row.Value(col), 'f', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
