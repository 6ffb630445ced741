package models

import "strings"

// Client is the typed view of a client row.
type Client struct {
	Row Row
	// ClientID is the raw identifier text, untrimmed.
	ClientID   string
	ClientName string
	// PriorityLevel is expected in 1..5.
	PriorityLevel Number
	// RequestedTaskIDs is carried through unvalidated.
	RequestedTaskIDs []string
	GroupTag         string
	// Attributes is the optional AttributesJSON cell; any well-formed JSON is accepted.
	Attributes Structured
}

// ParseClient builds the typed view of a client row.
func ParseClient(r Row) Client {
	return Client{
		Row:              r,
		ClientID:         r.Text(FieldClientID),
		ClientName:       r.Text(FieldClientName),
		PriorityLevel:    ParseNumber(r.Values[FieldPriorityLevel]),
		RequestedTaskIDs: splitIDs(r.Text(FieldRequestedTaskIDs)),
		GroupTag:         r.Text(FieldGroupTag),
		Attributes:       ParseStructured(r.Values[FieldAttributesJSON]),
	}
}

// HasID reports whether the identifier has any non-space text.
func (c Client) HasID() bool {
	return strings.TrimSpace(c.ClientID) != ""
}

// Key returns the row key errors on this client use.
func (c Client) Key() RowKey {
	return KeyFor(c.ClientID, c.Row.Index)
}

// splitIDs splits a comma list of identifiers, keeping case.
func splitIDs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
