package models

import "strings"

// Task is the typed view of a task row.
type Task struct {
	Row Row
	// TaskID is the raw identifier text, untrimmed.
	TaskID   string
	TaskName string
	Category string
	// Duration is the number of phases of demand; expected to be greater than 0.
	Duration Number
	// RequiredSkills are the trimmed, lower-cased skill tokens.
	RequiredSkills []string
	// PreferredPhases lists the phases the task would like to run in.
	PreferredPhases Structured
	MaxConcurrent   string
}

// ParseTask builds the typed view of a task row.
func ParseTask(r Row) Task {
	return Task{
		Row:             r,
		TaskID:          r.Text(FieldTaskID),
		TaskName:        r.Text(FieldTaskName),
		Category:        r.Text(FieldCategory),
		Duration:        ParseNumber(r.Values[FieldDuration]),
		RequiredSkills:  SplitList(r.Text(FieldRequiredSkills)),
		PreferredPhases: ParseStructured(r.Values[FieldPreferredPhases]),
		MaxConcurrent:   r.Text(FieldMaxConcurrent),
	}
}

// HasID reports whether the identifier has any non-space text.
func (t Task) HasID() bool {
	return strings.TrimSpace(t.TaskID) != ""
}

// Key returns the row key errors on this task use.
func (t Task) Key() RowKey {
	return KeyFor(t.TaskID, t.Row.Index)
}
