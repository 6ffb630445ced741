// Package assist turns plain-language questions about the uploaded tables
// into structured row filters, and applies those filters.
package assist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ShayCichocki/rosterlint/internal/ingest"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// ErrInvalidFilter is returned for filters that cannot be applied.
var ErrInvalidFilter = errors.New("invalid filter")

// Op is a condition operator.
type Op string

const (
	OpEq       Op = "eq"
	OpNe       Op = "ne"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpContains Op = "contains"
	// OpIncludes matches a member of a comma list or a JSON array cell.
	OpIncludes Op = "includes"
	// OpEmpty matches blank cells; Value is ignored.
	OpEmpty Op = "empty"
)

// Ops returns every operator.
func Ops() []Op {
	return []Op{OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpContains, OpIncludes, OpEmpty}
}

// Valid returns true if the operator is known.
func (o Op) Valid() bool {
	for _, op := range Ops() {
		if o == op {
			return true
		}
	}
	return false
}

// Match says how conditions combine.
const (
	MatchAll = "all"
	MatchAny = "any"
)

// Condition is one field test.
type Condition struct {
	Field string `json:"field"`
	Op    Op     `json:"op"`
	Value any    `json:"value,omitempty"`
}

// Filter selects rows of one table.
type Filter struct {
	Table      models.Table `json:"table"`
	Match      string       `json:"match,omitempty"`
	Conditions []Condition  `json:"conditions"`
}

// Validate checks the filter and normalises table and field names in place.
func (f *Filter) Validate() error {
	t, ok := models.ParseTable(string(f.Table))
	if !ok {
		return fmt.Errorf("%w: unknown table %q", ErrInvalidFilter, f.Table)
	}
	f.Table = t

	switch strings.ToLower(f.Match) {
	case "", MatchAll:
		f.Match = MatchAll
	case MatchAny:
		f.Match = MatchAny
	default:
		return fmt.Errorf("%w: match must be %q or %q, got %q", ErrInvalidFilter, MatchAll, MatchAny, f.Match)
	}

	for i := range f.Conditions {
		c := &f.Conditions[i]
		if strings.TrimSpace(c.Field) == "" {
			return fmt.Errorf("%w: condition %d has no field", ErrInvalidFilter, i)
		}
		c.Field = ingest.NormalizeHeader(t, c.Field)
		c.Op = Op(strings.ToLower(string(c.Op)))
		if !c.Op.Valid() {
			return fmt.Errorf("%w: condition %d has unknown op %q", ErrInvalidFilter, i, c.Op)
		}
	}
	return nil
}

// Apply returns the rows the filter selects, in their original order.
// Rows are not copied or modified. A filter with no conditions selects all.
func (f Filter) Apply(rows []models.Row) []models.Row {
	var out []models.Row
	for _, r := range rows {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether one row passes the filter.
func (f Filter) Matches(r models.Row) bool {
	if len(f.Conditions) == 0 {
		return true
	}
	anyOf := f.Match == MatchAny
	for _, c := range f.Conditions {
		ok := c.Matches(r)
		if anyOf && ok {
			return true
		}
		if !anyOf && !ok {
			return false
		}
	}
	return !anyOf
}

// Matches reports whether one row passes the condition.
func (c Condition) Matches(r models.Row) bool {
	cell := strings.TrimSpace(r.Text(c.Field))
	want := strings.TrimSpace(models.FormatValue(c.Value))

	switch c.Op {
	case OpEmpty:
		return cell == ""
	case OpEq:
		return equal(cell, want)
	case OpNe:
		return !equal(cell, want)
	case OpGt, OpGte, OpLt, OpLte:
		a, b := models.ParseNumber(cell), models.ParseNumber(want)
		if !a.OK || !b.OK {
			return false
		}
		switch c.Op {
		case OpGt:
			return a.Value > b.Value
		case OpGte:
			return a.Value >= b.Value
		case OpLt:
			return a.Value < b.Value
		default:
			return a.Value <= b.Value
		}
	case OpContains:
		return strings.Contains(strings.ToLower(cell), strings.ToLower(want))
	case OpIncludes:
		return includes(cell, want)
	default:
		return false
	}
}

func equal(a, b string) bool {
	na, nb := models.ParseNumber(a), models.ParseNumber(b)
	if na.OK && nb.OK {
		return na.Value == nb.Value
	}
	return strings.EqualFold(a, b)
}

func includes(cell, want string) bool {
	want = strings.ToLower(want)
	if st := models.ParseStructured(cell); st.IsArray() {
		for _, e := range st.Elements {
			if strings.ToLower(e) == want {
				return true
			}
		}
		return false
	}
	for _, item := range models.SplitList(cell) {
		if item == want {
			return true
		}
	}
	return false
}

// String renders the filter in a compact readable form.
func (f Filter) String() string {
	parts := make([]string, 0, len(f.Conditions))
	for _, c := range f.Conditions {
		if c.Op == OpEmpty {
			parts = append(parts, fmt.Sprintf("%s is empty", c.Field))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s %s", c.Field, c.Op, models.FormatValue(c.Value)))
	}
	joiner := " and "
	if f.Match == MatchAny {
		joiner = " or "
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s: all rows", f.Table)
	}
	return fmt.Sprintf("%s where %s", f.Table, strings.Join(parts, joiner))
}
