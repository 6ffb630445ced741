// Package workbook holds the three uploaded tables in memory and keeps their
// validation findings current as rows are loaded and edited.
package workbook

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ShayCichocki/rosterlint/internal/logging"
	"github.com/ShayCichocki/rosterlint/internal/validation"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

var (
	// ErrRowOutOfRange is returned when an edit targets a row that does not exist.
	ErrRowOutOfRange = errors.New("row out of range")
	// ErrUnknownTable is returned for a table name outside clients, workers and tasks.
	ErrUnknownTable = errors.New("unknown table")
	// ErrClosed is returned by mutations after Close.
	ErrClosed = errors.New("workbook closed")
)

// Observer is called after every revalidation with the new report, the data
// it was computed from and how long it took.
type Observer func(report *validation.Report, ds validation.Dataset, took time.Duration)

// Option configures a Workbook.
type Option func(*options)

type options struct {
	logger     *logging.Logger
	bufferSize int
	observers  []Observer
}

// WithLogger sets the debug logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithEventBuffer sets the capacity of the event channel.
func WithEventBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithObserver registers a callback run after every revalidation.
func WithObserver(fn Observer) Option {
	return func(o *options) { o.observers = append(o.observers, fn) }
}

// Workbook is the validation orchestrator. All mutations are serialised; each
// one replaces the affected findings with a full recomputation before the
// next mutation begins.
type Workbook struct {
	mu     sync.RWMutex
	data   validation.Dataset
	report *validation.Report
	closed bool

	events    *emitter
	logger    *logging.Logger
	observers []Observer
}

// New creates an empty workbook. Its report is the (valid) report of no data.
func New(opts ...Option) *Workbook {
	o := options{bufferSize: 64}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Nop()
	}

	return &Workbook{
		report:    validation.Run(validation.Dataset{}),
		events:    newEmitter(o.bufferSize, o.logger),
		logger:    o.logger,
		observers: o.observers,
	}
}

// Load replaces every row of table t and revalidates.
func (w *Workbook) Load(t models.Table, rows []models.Row) error {
	if !t.Valid() {
		return fmt.Errorf("load %q: %w", t, ErrUnknownTable)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.data.Set(t, cloneRows(rows))
	w.logger.Log("[workbook] loaded %d %s rows", len(rows), t)
	count := w.revalidateLocked(t)
	w.mu.Unlock()

	w.events.emit(Event{Type: EventLoaded, Table: t, Index: -1, Errors: count,
		Message: fmt.Sprintf("%d rows", len(rows)), Timestamp: time.Now()})
	w.emitRevalidated(t, count)
	return nil
}

// LoadDataset replaces all three tables at once and revalidates once.
func (w *Workbook) LoadDataset(ds validation.Dataset) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	for _, t := range models.Tables() {
		w.data.Set(t, cloneRows(ds.Rows(t)))
	}
	w.logger.Log("[workbook] loaded data set: %d clients, %d workers, %d tasks",
		len(ds.Clients), len(ds.Workers), len(ds.Tasks))
	count := w.revalidateAllLocked()
	w.mu.Unlock()

	for _, t := range models.Tables() {
		w.events.emit(Event{Type: EventLoaded, Table: t, Index: -1, Errors: count,
			Message: fmt.Sprintf("%d rows", len(ds.Rows(t))), Timestamp: time.Now()})
	}
	w.emitRevalidated("", count)
	return nil
}

// ReplaceRow replaces the row at position index of table t. The replacement
// keeps the original row's positional Index so fallback identities stay stable.
func (w *Workbook) ReplaceRow(t models.Table, index int, row models.Row) error {
	return w.edit(t, index, func(old models.Row) models.Row {
		out := row.Clone()
		out.Index = old.Index
		return out
	})
}

// SetCell sets one field of the row at position index of table t.
func (w *Workbook) SetCell(t models.Table, index int, field string, value any) error {
	return w.edit(t, index, func(old models.Row) models.Row {
		return old.With(field, value)
	})
}

func (w *Workbook) edit(t models.Table, index int, fn func(models.Row) models.Row) error {
	if !t.Valid() {
		return fmt.Errorf("edit %q: %w", t, ErrUnknownTable)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	rows := w.data.Rows(t)
	if index < 0 || index >= len(rows) {
		w.mu.Unlock()
		return fmt.Errorf("edit %s row %d of %d: %w", t, index, len(rows), ErrRowOutOfRange)
	}

	updated := make([]models.Row, len(rows))
	copy(updated, rows)
	updated[index] = fn(rows[index])
	w.data.Set(t, updated)
	w.logger.Log("[workbook] edited %s row %d", t, index)
	count := w.revalidateLocked(t)
	w.mu.Unlock()

	w.events.emit(Event{Type: EventEdited, Table: t, Index: index, Errors: count, Timestamp: time.Now()})
	w.emitRevalidated(t, count)
	return nil
}

// revalidateLocked recomputes the findings that depend on table t: its own
// per-table findings, and both cross-table checks when t is workers or tasks.
// Callers hold w.mu.
func (w *Workbook) revalidateLocked(t models.Table) int {
	start := time.Now()

	next := *w.report
	switch t {
	case models.TableClients:
		next.Clients = validation.ValidateClients(w.data.Clients)
	case models.TableWorkers:
		next.Workers = validation.ValidateWorkers(w.data.Workers)
	case models.TableTasks:
		next.Tasks = validation.ValidateTasks(w.data.Tasks)
	}
	if t == models.TableWorkers || t == models.TableTasks {
		next.Saturation = validation.CheckPhaseSaturation(w.data.Tasks, w.data.Workers)
		next.Coverage = validation.CheckSkillCoverage(w.data.Tasks, w.data.Workers)
		next.Phases = validation.PhaseLoad(w.data.Tasks, w.data.Workers)
	}
	w.report = &next

	w.observe(time.Since(start))
	return next.Count()
}

func (w *Workbook) revalidateAllLocked() int {
	start := time.Now()
	w.report = validation.Run(w.data)
	w.observe(time.Since(start))
	return w.report.Count()
}

func (w *Workbook) observe(took time.Duration) {
	w.logger.Log("[workbook] revalidated in %s: %s", took, w.report.Summary())
	for _, fn := range w.observers {
		fn(w.report, w.data, took)
	}
}

func (w *Workbook) emitRevalidated(t models.Table, count int) {
	w.events.emit(Event{Type: EventRevalidated, Table: t, Index: -1, Errors: count, Timestamp: time.Now()})
}

// Rows returns a copy of table t's rows.
func (w *Workbook) Rows(t models.Table) []models.Row {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return cloneRows(w.data.Rows(t))
}

// Dataset returns a copy of all three tables.
func (w *Workbook) Dataset() validation.Dataset {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return validation.Dataset{
		Clients: cloneRows(w.data.Clients),
		Workers: cloneRows(w.data.Workers),
		Tasks:   cloneRows(w.data.Tasks),
	}
}

// Report returns the current findings. The report is replaced, never
// modified, on revalidation, so callers may keep it.
func (w *Workbook) Report() *validation.Report {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.report
}

// Errors returns every current finding for table t, cross-table ones included.
func (w *Workbook) Errors(t models.Table) []models.ValidationError {
	return w.Report().ForTable(t)
}

// CellError returns the findings that highlight one cell.
func (w *Workbook) CellError(t models.Table, row models.RowKey, field string) []models.ValidationError {
	return w.Report().CellErrors(t, row, field)
}

// Exportable reports whether the data set currently has no findings.
func (w *Workbook) Exportable() bool {
	return w.Report().Valid()
}

// Events returns the event stream. It is closed by Close.
func (w *Workbook) Events() <-chan Event {
	return w.events.events
}

// Close stops further mutations and closes the event stream.
func (w *Workbook) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.events.close()
}

func cloneRows(rows []models.Row) []models.Row {
	if rows == nil {
		return nil
	}
	out := make([]models.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
