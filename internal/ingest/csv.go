package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// ReadCSV reads a table from CSV with a header row. Short records are padded
// with empty cells; every row gets its 0-based data-row position as Index.
func ReadCSV(r io.Reader, t models.Table) ([]models.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := normalizeColumns(t, header)

	var rows []models.Row
	line := 1
	for {
		line++
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if blankRecord(rec) {
			continue
		}

		values := make(map[string]any, len(columns))
		for i, col := range columns {
			if col == "" {
				continue
			}
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			if _, dup := values[col]; !dup {
				values[col] = cell
			}
		}
		rows = append(rows, models.NewRow(len(rows), compactColumns(columns), values))
	}

	return rows, nil
}

// normalizeColumns maps header cells to field names. Repeated and blank
// headers map to "" and their cells are ignored.
func normalizeColumns(t models.Table, header []string) []string {
	seen := make(map[string]bool, len(header))
	columns := make([]string, len(header))
	for i, h := range header {
		name := NormalizeHeader(t, h)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		columns[i] = name
	}
	return columns
}

func compactColumns(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func blankRecord(rec []string) bool {
	for _, cell := range rec {
		if cell != "" {
			return false
		}
	}
	return true
}
