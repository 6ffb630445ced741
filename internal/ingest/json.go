package ingest

import (
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// ReadJSON reads a table from a JSON array of objects. Column order follows
// first appearance across objects. Nested arrays and objects are kept as
// their JSON text so structured fields validate the same as in CSV.
func ReadJSON(r io.Reader, t models.Table) ([]models.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}

	doc := gjson.ParseBytes(data)
	if doc.IsObject() {
		// Accept {"clients": [...]} as well as a bare array.
		if nested := doc.Get(string(t)); nested.IsArray() {
			doc = nested
		}
	}
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of objects", ErrMalformed)
	}

	var columns []string
	seen := make(map[string]bool)
	var rows []models.Row
	var rowErr error

	doc.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			rowErr = fmt.Errorf("%w: element %d is not an object", ErrMalformed, len(rows))
			return false
		}
		values := make(map[string]any)
		item.ForEach(func(key, value gjson.Result) bool {
			name := NormalizeHeader(t, key.String())
			if name == "" {
				return true
			}
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
			if _, dup := values[name]; !dup {
				values[name] = jsonCell(value)
			}
			return true
		})
		rows = append(rows, models.Row{Index: len(rows), Values: values})
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	for i := range rows {
		rows[i].Columns = append([]string(nil), columns...)
		for _, c := range columns {
			if _, ok := rows[i].Values[c]; !ok {
				rows[i].Values[c] = ""
			}
		}
	}
	return rows, nil
}

// jsonCell converts a JSON value into a cell value.
func jsonCell(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Num
	case gjson.True:
		return true
	case gjson.False:
		return false
	default:
		return v.Raw
	}
}
