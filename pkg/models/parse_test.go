package models

import (
	"reflect"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   float64
		wantOK bool
	}{
		{"integer text", "3", 3, true},
		{"padded text", "  4 ", 4, true},
		{"decimal text", "2.5", 2.5, true},
		{"float value", 7.0, 7, true},
		{"int value", 5, 5, true},
		{"negative", "-1", -1, true},
		{"empty", "", 0, false},
		{"blank", "   ", 0, false},
		{"nil", nil, 0, false},
		{"words", "three", 0, false},
		{"infinity", "Inf", 0, false},
		{"nan", "NaN", 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumber(tt.value)
			if got.OK != tt.wantOK {
				t.Fatalf("ParseNumber(%v).OK = %v, want %v (reason %q)", tt.value, got.OK, tt.wantOK, got.Reason)
			}
			if got.OK && got.Value != tt.want {
				t.Errorf("ParseNumber(%v).Value = %v, want %v", tt.value, got.Value, tt.want)
			}
			if !got.OK && got.Reason == "" {
				t.Errorf("ParseNumber(%v) failed without a reason", tt.value)
			}
		})
	}
}

func TestParseStructured(t *testing.T) {
	tests := []struct {
		name         string
		value        any
		wantShape    Shape
		wantElements []string
	}{
		{"numeric array", "[1,2,3]", ShapeArray, []string{"1", "2", "3"}},
		{"string array", `["1","b"]`, ShapeArray, []string{"1", "b"}},
		{"empty array", "[]", ShapeArray, []string{}},
		{"padded array", "  [4] ", ShapeArray, []string{"4"}},
		{"object", `{"a":1}`, ShapeValue, nil},
		{"scalar", "5", ShapeValue, nil},
		{"braces list", "{1,2,3}", ShapeInvalid, nil},
		{"prose", "not json", ShapeInvalid, nil},
		{"empty", "", ShapeEmpty, nil},
		{"blank", "  ", ShapeEmpty, nil},
		{"nil", nil, ShapeEmpty, nil},
		{"decoded array value", []any{1.0, "x"}, ShapeArray, []string{"1", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStructured(tt.value)
			if got.Shape != tt.wantShape {
				t.Fatalf("ParseStructured(%v).Shape = %v, want %v", tt.value, got.Shape, tt.wantShape)
			}
			if tt.wantShape == ShapeArray && !reflect.DeepEqual(got.Elements, tt.wantElements) {
				t.Errorf("ParseStructured(%v).Elements = %v, want %v", tt.value, got.Elements, tt.wantElements)
			}
			if (tt.wantShape == ShapeInvalid || tt.wantShape == ShapeValue) && got.Reason == "" {
				t.Errorf("ParseStructured(%v) has no reason", tt.value)
			}
		})
	}
}

func TestParseStructured_ObjectReason(t *testing.T) {
	got := ParseStructured(`{"a":1}`)
	if got.Reason != "is a JSON object, not an array" {
		t.Errorf("Reason = %q", got.Reason)
	}
	if !got.Parsed() || got.IsArray() {
		t.Errorf("Parsed() = %v, IsArray() = %v, want true, false", got.Parsed(), got.IsArray())
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"python, ml", []string{"python", "ml"}},
		{" Python ,SQL", []string{"python", "sql"}},
		{"go,,rust,", []string{"go", "rust"}},
		{"", nil},
		{"   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SplitList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
