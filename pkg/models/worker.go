package models

import "strings"

// Worker is the typed view of a worker row.
type Worker struct {
	Row Row
	// WorkerID is the raw identifier text, untrimmed.
	WorkerID   string
	WorkerName string
	// Skills are the trimmed, lower-cased skill tokens.
	Skills []string
	// AvailableSlots lists the phases the worker can be scheduled in.
	AvailableSlots Structured
	// MaxLoadPerPhase is expected to be greater than 0.
	MaxLoadPerPhase    Number
	WorkerGroup        string
	QualificationLevel string
}

// ParseWorker builds the typed view of a worker row.
func ParseWorker(r Row) Worker {
	return Worker{
		Row:                r,
		WorkerID:           r.Text(FieldWorkerID),
		WorkerName:         r.Text(FieldWorkerName),
		Skills:             SplitList(r.Text(FieldSkills)),
		AvailableSlots:     ParseStructured(r.Values[FieldAvailableSlots]),
		MaxLoadPerPhase:    ParseNumber(r.Values[FieldMaxLoadPerPhase]),
		WorkerGroup:        r.Text(FieldWorkerGroup),
		QualificationLevel: r.Text(FieldQualificationLevel),
	}
}

// HasID reports whether the identifier has any non-space text.
func (w Worker) HasID() bool {
	return strings.TrimSpace(w.WorkerID) != ""
}

// Key returns the row key errors on this worker use.
func (w Worker) Key() RowKey {
	return KeyFor(w.WorkerID, w.Row.Index)
}

// Overloaded reports whether the declared load exceeds the number of
// available slots. Both values must have parsed; otherwise the comparison
// is not made.
func (w Worker) Overloaded() (load float64, slots int, over bool) {
	if !w.AvailableSlots.IsArray() || !w.MaxLoadPerPhase.OK {
		return 0, 0, false
	}
	load = w.MaxLoadPerPhase.Value
	slots = len(w.AvailableSlots.Elements)
	return load, slots, load > float64(slots)
}
