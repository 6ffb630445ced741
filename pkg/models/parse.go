package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Number is the outcome of reading a numeric cell.
type Number struct {
	// Value is the parsed number; meaningful only when OK.
	Value float64
	// OK is true when the cell held a finite number.
	OK bool
	// Reason explains a failed parse.
	Reason string
}

// ParseNumber reads an untyped cell as a finite number.
// Surrounding whitespace is ignored; an empty cell is a failure.
func ParseNumber(v any) Number {
	switch x := v.(type) {
	case nil:
		return Number{Reason: "value is empty"}
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return Number{Value: float64(x), OK: true}
	case int64:
		return Number{Value: float64(x), OK: true}
	case bool:
		return Number{Reason: fmt.Sprintf("%t is not a number", x)}
	}

	text := strings.TrimSpace(FormatValue(v))
	if text == "" {
		return Number{Reason: "value is empty"}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Number{Reason: fmt.Sprintf("%q is not a number", text)}
	}
	return finite(f)
}

func finite(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{Reason: "value is not a finite number"}
	}
	return Number{Value: f, OK: true}
}

// String renders the parsed value, or the failure reason.
func (n Number) String() string {
	if !n.OK {
		return n.Reason
	}
	return formatFloat(n.Value)
}

// Shape is the outcome of reading a structured-text cell.
type Shape int

const (
	// ShapeEmpty means the cell was blank; optional fields accept it.
	ShapeEmpty Shape = iota
	// ShapeInvalid means the text did not parse.
	ShapeInvalid
	// ShapeValue means the text parsed to something other than an array.
	ShapeValue
	// ShapeArray means the text parsed to an array.
	ShapeArray
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeEmpty:
		return "empty"
	case ShapeInvalid:
		return "invalid"
	case ShapeValue:
		return "value"
	case ShapeArray:
		return "array"
	default:
		return "unknown"
	}
}

// Structured is the two-stage result of parsing a structured-text cell:
// first whether it parses at all, then whether it is an array.
type Structured struct {
	Shape Shape
	// Elements holds array members as labels; scalars render as text so the
	// label 1 and the label "1" are the same phase.
	Elements []string
	// Reason explains ShapeInvalid and ShapeValue results.
	Reason string
}

// Parsed reports whether the text was well-formed (array or not).
func (s Structured) Parsed() bool {
	return s.Shape == ShapeValue || s.Shape == ShapeArray
}

// IsArray reports whether the text parsed to an array.
func (s Structured) IsArray() bool {
	return s.Shape == ShapeArray
}

// ParseStructured reads an untyped cell as JSON text. Whitespace-only cells
// are empty.
func ParseStructured(v any) Structured {
	text := strings.TrimSpace(FormatValue(v))
	if text == "" {
		return Structured{Shape: ShapeEmpty}
	}
	if !gjson.Valid(text) {
		return Structured{Shape: ShapeInvalid, Reason: "is not valid JSON"}
	}

	res := gjson.Parse(text)
	if !res.IsArray() {
		return Structured{Shape: ShapeValue, Reason: fmt.Sprintf("is a JSON %s, not an array", jsonKind(res))}
	}

	items := res.Array()
	elements := make([]string, 0, len(items))
	for _, item := range items {
		elements = append(elements, elementLabel(item))
	}
	return Structured{Shape: ShapeArray, Elements: elements}
}

func elementLabel(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.String:
		return r.Str
	case gjson.JSON:
		return r.Raw
	default:
		return r.String()
	}
}

func jsonKind(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	default:
		if r.IsObject() {
			return "object"
		}
		return "value"
	}
}

// SplitList splits a comma-separated cell into trimmed, lower-cased tokens.
// Empty tokens are dropped.
func SplitList(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
