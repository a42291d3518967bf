package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// TableWriter implements port.ProcessedTableWriter over a CSV file.
type TableWriter struct {
	path string
}

// NewTableWriter creates a CSV writer for the processed feature table.
func NewTableWriter(path string) *TableWriter {
	return &TableWriter{path: path}
}

// Write writes the header and rows, creating parent directories as needed.
// The file is written to a temporary name and renamed so a crash mid-write
// never leaves a truncated table behind.
func (w *TableWriter) Write(header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.path), ".processed-*.csv")
	if err != nil {
		return fmt.Errorf("create temp table file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp table file: %w", err)
	}

	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("rename table into place: %w", err)
	}
	return nil
}
