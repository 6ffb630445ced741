package assist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ParseFilter extracts a filter from model output or user input. The JSON
// object may be wrapped in prose or a code fence.
func ParseFilter(text string) (*Filter, error) {
	obj := extractObject(text)
	if obj == "" {
		return nil, fmt.Errorf("%w: no JSON object found", ErrInvalidFilter)
	}
	if !gjson.Valid(obj) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidFilter)
	}
	if !gjson.Get(obj, "table").Exists() {
		return nil, fmt.Errorf("%w: missing table", ErrInvalidFilter)
	}

	var f Filter
	if err := json.Unmarshal([]byte(obj), &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// extractObject returns the outermost {...} span of text.
func extractObject(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			text = rest[:end]
		}
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}
