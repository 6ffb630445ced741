package workbook

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ShayCichocki/rosterlint/internal/validation"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

func testDataset() validation.Dataset {
	return validation.Dataset{
		Clients: []models.Row{
			models.RowFromStrings(0, models.FieldClientID, "C1", models.FieldPriorityLevel, "3"),
			models.RowFromStrings(1, models.FieldClientID, "", models.FieldPriorityLevel, "2"),
		},
		Workers: []models.Row{
			models.RowFromStrings(0,
				models.FieldWorkerID, "W1",
				models.FieldSkills, "python",
				models.FieldAvailableSlots, "[1]",
				models.FieldMaxLoadPerPhase, "1"),
		},
		Tasks: []models.Row{
			models.RowFromStrings(0,
				models.FieldTaskID, "T1",
				models.FieldDuration, "1",
				models.FieldRequiredSkills, "python, ml",
				models.FieldPreferredPhases, "[1]"),
		},
	}
}

func drain(w *Workbook) []Event {
	var out []Event
	for {
		select {
		case ev := <-w.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestNewIsValid(t *testing.T) {
	w := New()
	defer w.Close()

	if !w.Exportable() {
		t.Errorf("empty workbook: Exportable() = false, errors %v", w.Report().All())
	}
}

func TestLoadDataset(t *testing.T) {
	w := New()
	defer w.Close()

	if err := w.LoadDataset(testDataset()); err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}

	r := w.Report()
	if got := r.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2 (%v)", got, r.All())
	}
	if w.Exportable() {
		t.Error("Exportable() = true, want false")
	}

	// Required on the client without an id, keyed by its index.
	errs := w.CellError(models.TableClients, models.KeyIndex(1), models.FieldClientID)
	if len(errs) != 1 || errs[0].Kind != models.KindRequired {
		t.Errorf("CellError(clients, 1, ClientID) = %v", errs)
	}
	if got := len(w.Errors(models.TableTasks)); got != 1 {
		t.Errorf("Errors(tasks) = %d, want 1", got)
	}

	events := drain(w)
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4 (%v)", len(events), events)
	}
	if last := events[len(events)-1]; last.Type != EventRevalidated || last.Errors != 2 {
		t.Errorf("last event = %+v, want revalidated with 2 errors", last)
	}
}

func TestSetCellRevalidates(t *testing.T) {
	w := New()
	defer w.Close()
	if err := w.LoadDataset(testDataset()); err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}
	drain(w)

	if err := w.SetCell(models.TableClients, 1, models.FieldClientID, "C2"); err != nil {
		t.Fatalf("SetCell() error = %v", err)
	}
	if got := len(w.Errors(models.TableClients)); got != 0 {
		t.Errorf("clients errors after fix = %d, want 0", got)
	}

	if err := w.SetCell(models.TableWorkers, 0, models.FieldSkills, "python, ML"); err != nil {
		t.Fatalf("SetCell() error = %v", err)
	}
	if !w.Exportable() {
		t.Errorf("Exportable() = false, errors %v", w.Report().All())
	}

	events := drain(w)
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	if events[2].Type != EventEdited || events[2].Table != models.TableWorkers || events[2].Index != 0 {
		t.Errorf("events[2] = %+v, want workers edit of row 0", events[2])
	}
}

func TestReplaceRowKeepsIndex(t *testing.T) {
	w := New()
	defer w.Close()
	if err := w.LoadDataset(testDataset()); err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}

	replacement := models.RowFromStrings(99, models.FieldClientID, "", models.FieldPriorityLevel, "8")
	if err := w.ReplaceRow(models.TableClients, 1, replacement); err != nil {
		t.Fatalf("ReplaceRow() error = %v", err)
	}

	rows := w.Rows(models.TableClients)
	if rows[1].Index != 1 {
		t.Errorf("Index = %d, want 1", rows[1].Index)
	}
	errs := w.CellError(models.TableClients, models.KeyIndex(1), models.FieldPriorityLevel)
	if len(errs) != 1 || errs[0].Kind != models.KindDomain {
		t.Errorf("CellError(clients, 1, PriorityLevel) = %v", errs)
	}
}

func TestEditErrors(t *testing.T) {
	w := New()
	defer w.Close()
	if err := w.LoadDataset(testDataset()); err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}

	tests := []struct {
		name  string
		table models.Table
		index int
		want  error
	}{
		{"negative", models.TableClients, -1, ErrRowOutOfRange},
		{"past end", models.TableTasks, 1, ErrRowOutOfRange},
		{"unknown table", models.Table("projects"), 0, ErrUnknownTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.SetCell(tt.table, tt.index, "x", "y")
			if !errors.Is(err, tt.want) {
				t.Errorf("SetCell() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRowsAreCopies(t *testing.T) {
	w := New()
	defer w.Close()
	if err := w.Load(models.TableClients, testDataset().Clients); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	rows := w.Rows(models.TableClients)
	rows[0].Values[models.FieldPriorityLevel] = "100"

	if got := w.Rows(models.TableClients)[0].Text(models.FieldPriorityLevel); got != "3" {
		t.Errorf("stored PriorityLevel = %q, want 3", got)
	}
}

func TestLoadOnlyRecomputesDependents(t *testing.T) {
	w := New()
	defer w.Close()
	if err := w.LoadDataset(testDataset()); err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}
	before := w.Report()

	if err := w.Load(models.TableClients, nil); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	after := w.Report()

	if len(after.Clients) != 0 {
		t.Errorf("Clients = %v, want none", after.Clients)
	}
	if len(after.Coverage) != len(before.Coverage) {
		t.Errorf("Coverage changed: %v -> %v", before.Coverage, after.Coverage)
	}
	// The old report is untouched.
	if len(before.Clients) != 1 {
		t.Errorf("previous report mutated: %v", before.Clients)
	}
}

func TestObserver(t *testing.T) {
	var mu sync.Mutex
	var calls int
	var lastRows int

	w := New(WithObserver(func(r *validation.Report, ds validation.Dataset, took time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		lastRows = ds.Len()
	}))
	defer w.Close()

	if err := w.LoadDataset(testDataset()); err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}
	if err := w.SetCell(models.TableTasks, 0, models.FieldDuration, "2"); err != nil {
		t.Fatalf("SetCell() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Errorf("observer calls = %d, want 2", calls)
	}
	if lastRows != 4 {
		t.Errorf("rows seen = %d, want 4", lastRows)
	}
}

func TestClose(t *testing.T) {
	w := New()
	w.Close()

	if err := w.Load(models.TableClients, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Load() after Close error = %v, want %v", err, ErrClosed)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Events() still open after Close")
	}
	// Closing twice is safe.
	w.Close()
}

func TestEventsDropWhenFull(t *testing.T) {
	w := New(WithEventBuffer(1))
	defer w.Close()

	for i := 0; i < 3; i++ {
		if err := w.Load(models.TableClients, nil); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
	}
	if got := w.events.dropped.Load(); got == 0 {
		t.Error("expected dropped events with a buffer of 1")
	}
}

func TestLoadWithoutReaderDoesNotStall(t *testing.T) {
	w := New()
	defer w.Close()

	rows := testDataset().Workers
	for i := 0; i < 40; i++ {
		start := time.Now()
		if err := w.Load(models.TableWorkers, rows); err != nil {
			t.Fatalf("Load #%d error = %v", i, err)
		}
		if took := time.Since(start); took > 50*time.Millisecond {
			t.Fatalf("Load #%d took %v with nobody reading events, want < 50ms", i, took)
		}
	}
	if got := w.events.dropped.Load(); got == 0 {
		t.Error("expected dropped events once the buffer filled")
	}
}
