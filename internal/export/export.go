// Package export writes validated tables back out and renders reports.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ShayCichocki/rosterlint/internal/validation"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// ErrBlocked is returned by Gate when the data set still has findings.
var ErrBlocked = errors.New("export blocked by validation errors")

// Gate refuses export while the report has any finding.
func Gate(report *validation.Report) error {
	if report.Valid() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrBlocked, report.Summary())
}

// Columns returns the union of the rows' columns in first-seen order.
func Columns(rows []models.Row) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range rows {
		for _, c := range r.Columns {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// WriteCSV writes rows with a header row. Cells are rendered with
// models.FormatValue so numbers round-trip unchanged.
func WriteCSV(w io.Writer, rows []models.Row) error {
	return writeCSV(w, Columns(rows), rows)
}

func writeCSV(w io.Writer, columns []string, rows []models.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(columns))
	for _, r := range rows {
		for i, c := range columns {
			record[i] = r.Text(c)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", r.Index, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDataset writes clients.csv, workers.csv and tasks.csv into dir and
// returns the paths written. Empty tables get the canonical header.
func WriteDataset(dir string, ds validation.Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	var paths []string
	for _, t := range models.Tables() {
		rows := ds.Rows(t)
		columns := Columns(rows)
		if len(columns) == 0 {
			columns = t.Fields()
		}

		path := filepath.Join(dir, string(t)+".csv")
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("create %s: %w", path, err)
		}
		if err := writeCSV(f, columns, rows); err != nil {
			f.Close()
			return paths, fmt.Errorf("%s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return paths, fmt.Errorf("close %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
