package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Row is one uploaded record: named cells in header order plus the
// positional index assigned at ingest.
//
// Index is the identity fallback when the natural identifier is missing and
// stays stable across inline edits.
type Row struct {
	// Index is the 0-based position of the row in its upload.
	Index int `json:"idx"`
	// Columns is the header order, used when the row is written back out.
	Columns []string `json:"-"`
	// Values maps field names to untyped cell values.
	Values map[string]any `json:"values"`
}

// NewRow creates a row from ordered columns and their values.
func NewRow(index int, columns []string, values map[string]any) Row {
	if values == nil {
		values = make(map[string]any, len(columns))
	}
	return Row{
		Index:   index,
		Columns: append([]string(nil), columns...),
		Values:  values,
	}
}

// RowFromStrings builds a row from alternating field/value pairs.
// Handy for fixtures; panics on an odd number of arguments.
func RowFromStrings(index int, pairs ...string) Row {
	if len(pairs)%2 != 0 {
		panic("models: RowFromStrings needs field/value pairs")
	}
	columns := make([]string, 0, len(pairs)/2)
	values := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		columns = append(columns, pairs[i])
		values[pairs[i]] = pairs[i+1]
	}
	return Row{Index: index, Columns: columns, Values: values}
}

// Get returns the raw cell value and whether the field is present.
func (r Row) Get(field string) (any, bool) {
	v, ok := r.Values[field]
	return v, ok
}

// Text renders a cell as text. Absent and nil cells render as "".
func (r Row) Text(field string) string {
	v, ok := r.Values[field]
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// With returns a copy of r with field set to value. The receiver is left
// untouched; new fields are appended to Columns.
func (r Row) With(field string, value any) Row {
	out := r.Clone()
	if _, ok := out.Values[field]; !ok {
		out.Columns = append(out.Columns, field)
	}
	out.Values[field] = value
	return out
}

// Clone returns a copy of r that shares no maps or slices with it.
func (r Row) Clone() Row {
	values := make(map[string]any, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	return Row{
		Index:   r.Index,
		Columns: append([]string(nil), r.Columns...),
		Values:  values,
	}
}

// FormatValue renders an untyped cell value as text.
// Numbers use their shortest decimal form so 101 and "101" read the same;
// arrays and objects are re-encoded as JSON.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case []any, map[string]any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
