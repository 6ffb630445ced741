package models

import "fmt"

// Kind classifies a validation finding. It is a category, not a severity:
// any finding makes the data set invalid.
type Kind string

const (
	// KindRequired flags a missing natural identifier.
	KindRequired Kind = "required"
	// KindDuplicate flags an identifier already used earlier in the table.
	KindDuplicate Kind = "duplicate"
	// KindDomain flags a numeric field that is unparseable or out of range.
	KindDomain Kind = "domain"
	// KindFormat flags a structured-text field that is malformed or the wrong shape.
	KindFormat Kind = "format"
	// KindOverload flags a worker whose load exceeds its own availability.
	KindOverload Kind = "overload"
	// KindSaturation flags a phase whose task demand exceeds worker supply.
	KindSaturation Kind = "saturation"
	// KindCoverage flags a required skill no worker has.
	KindCoverage Kind = "coverage"
)

// Kinds returns all kinds in taxonomy order.
func Kinds() []Kind {
	return []Kind{KindRequired, KindDuplicate, KindDomain, KindFormat, KindOverload, KindSaturation, KindCoverage}
}

// Valid returns true if the kind is a known value.
func (k Kind) Valid() bool {
	switch k {
	case KindRequired, KindDuplicate, KindDomain, KindFormat, KindOverload, KindSaturation, KindCoverage:
		return true
	default:
		return false
	}
}

// ValidationError is one reported finding. It is a value, not a Go error:
// bad input is the subject of a finding, never a reason to abort.
type ValidationError struct {
	// Table is the table the finding belongs to.
	Table Table `json:"table" yaml:"table"`
	// Row identifies the offending row, or AggregateRow.
	Row RowKey `json:"row" yaml:"row"`
	// Field is the offending field, or the field most relevant to an aggregate.
	Field string `json:"field" yaml:"field"`
	// Message is the human-readable description.
	Message string `json:"message" yaml:"message"`
	// Kind is the finding's category.
	Kind Kind `json:"kind" yaml:"kind"`
}

// String renders the finding as "table[row].field: message".
func (e ValidationError) String() string {
	return fmt.Sprintf("%s[%s].%s: %s", e.Table, e.Row, e.Field, e.Message)
}

// Matches reports whether the finding points at the given cell.
func (e ValidationError) Matches(table Table, row RowKey, field string) bool {
	return e.Table == table && e.Row == row && e.Field == field
}
