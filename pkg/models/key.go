package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// RowKey identifies the row an error refers to: the natural identifier when
// the row has one, otherwise its positional index. Aggregate findings that no
// single row owns use AggregateRow (index -1).
type RowKey struct {
	id    string
	index int
	byID  bool
}

// AggregateRow is the key of table-level findings.
var AggregateRow = RowKey{index: -1}

// KeyID returns a key for a natural identifier.
func KeyID(id string) RowKey {
	return RowKey{id: id, byID: true}
}

// KeyIndex returns a key for a positional index.
func KeyIndex(index int) RowKey {
	return RowKey{index: index}
}

// KeyFor returns KeyID(id) when id is non-empty, else KeyIndex(index).
func KeyFor(id string, index int) RowKey {
	if id != "" {
		return KeyID(id)
	}
	return KeyIndex(index)
}

// ID returns the natural identifier, if this key carries one.
func (k RowKey) ID() (string, bool) {
	return k.id, k.byID
}

// Index returns the positional index, if this key carries one.
func (k RowKey) Index() (int, bool) {
	return k.index, !k.byID
}

// IsAggregate reports whether the key refers to no single row.
func (k RowKey) IsAggregate() bool {
	return !k.byID && k.index == -1
}

// String renders the key the way it appears in reports.
func (k RowKey) String() string {
	if k.byID {
		return k.id
	}
	return strconv.Itoa(k.index)
}

// MarshalJSON encodes identifiers as strings and indexes as numbers.
func (k RowKey) MarshalJSON() ([]byte, error) {
	if k.byID {
		return json.Marshal(k.id)
	}
	return []byte(strconv.Itoa(k.index)), nil
}

// UnmarshalJSON accepts either a string identifier or a numeric index.
func (k *RowKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*k = KeyID(id)
		return nil
	}
	var index int
	if err := json.Unmarshal(data, &index); err != nil {
		return fmt.Errorf("row key: %w", err)
	}
	*k = KeyIndex(index)
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML reports.
func (k RowKey) MarshalYAML() (interface{}, error) {
	if k.byID {
		return k.id, nil
	}
	return k.index, nil
}
