package models

import (
	"encoding/json"
	"testing"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"whole float", 101.0, "101"},
		{"fraction", 2.5, "2.5"},
		{"int", 7, "7"},
		{"bool", true, "true"},
		{"array", []any{1.0, 2.0}, "[1,2]"},
		{"object", map[string]any{"a": 1.0}, `{"a":1}`},
		{"json number", json.Number("12"), "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.value); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestRow_WithDoesNotMutate(t *testing.T) {
	row := RowFromStrings(3, FieldClientID, "C1", FieldPriorityLevel, "2")

	edited := row.With(FieldPriorityLevel, "9")
	if row.Text(FieldPriorityLevel) != "2" {
		t.Errorf("original row changed: PriorityLevel = %q", row.Text(FieldPriorityLevel))
	}
	if edited.Text(FieldPriorityLevel) != "9" {
		t.Errorf("edited PriorityLevel = %q, want %q", edited.Text(FieldPriorityLevel), "9")
	}
	if edited.Index != 3 {
		t.Errorf("edited Index = %d, want 3", edited.Index)
	}

	added := row.With(FieldGroupTag, "g1")
	if len(added.Columns) != 3 || added.Columns[2] != FieldGroupTag {
		t.Errorf("Columns = %v, want GroupTag appended", added.Columns)
	}
	if len(row.Columns) != 2 {
		t.Errorf("original Columns changed: %v", row.Columns)
	}
}

func TestRow_TextAbsentField(t *testing.T) {
	row := NewRow(0, nil, nil)
	if got := row.Text(FieldTaskID); got != "" {
		t.Errorf("Text of absent field = %q, want empty", got)
	}
	if _, ok := row.Get(FieldTaskID); ok {
		t.Error("Get of absent field reported present")
	}
}
