package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ShayCichocki/rosterlint/internal/validation"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "history.db")
}

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(tempDBPath(t))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func sampleReport() (*validation.Report, validation.Dataset) {
	ds := validation.Dataset{
		Clients: []models.Row{
			models.RowFromStrings(0, models.FieldClientID, "", models.FieldPriorityLevel, "9"),
		},
		Workers: []models.Row{
			models.RowFromStrings(0, models.FieldWorkerID, "W1", models.FieldSkills, "go",
				models.FieldAvailableSlots, "[1]", models.FieldMaxLoadPerPhase, "1"),
		},
		Tasks: []models.Row{
			models.RowFromStrings(0, models.FieldTaskID, "T1", models.FieldDuration, "4",
				models.FieldRequiredSkills, "go", models.FieldPreferredPhases, "[1]"),
		},
	}
	return validation.Run(ds), ds
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "history.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if db.Driver() != DriverPure {
		t.Errorf("Driver() = %q, want %q", db.Driver(), DriverPure)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("database file does not exist at %s", path)
	}
}

func TestOpenWithDriverUnknown(t *testing.T) {
	if _, err := OpenWithDriver("postgres", tempDBPath(t)); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	var version int
	if err := db.conn.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != 3 {
		t.Errorf("schema version = %d, want 3", version)
	}
}

func TestRecordAndGetRun(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	report, ds := sampleReport()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	run := NewRun(report, ds, []string{"clients.csv", "workers.csv"}, started, 1500*time.Millisecond)

	if len(run.ID) != 8 {
		t.Errorf("ID = %q, want 8 characters", run.ID)
	}
	if err := db.RecordRun(ctx, run, report.All()); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	got, err := db.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetRun returned nil")
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, started)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v, want 1.5s", got.Duration)
	}
	if !reflect.DeepEqual(got.Sources, run.Sources) {
		t.Errorf("Sources = %v, want %v", got.Sources, run.Sources)
	}
	if got.ErrorCount != report.Count() || got.Valid() {
		t.Errorf("ErrorCount = %d, want %d", got.ErrorCount, report.Count())
	}
	if got.Clients != 1 || got.Workers != 1 || got.Tasks != 1 {
		t.Errorf("row counts = %d/%d/%d, want 1/1/1", got.Clients, got.Workers, got.Tasks)
	}
	if !reflect.DeepEqual(got.Phases, report.Phases) {
		t.Errorf("Phases = %+v, want %+v", got.Phases, report.Phases)
	}

	// A prefix finds the same run.
	byPrefix, err := db.GetRun(ctx, run.ID[:4])
	if err != nil || byPrefix == nil || byPrefix.ID != run.ID {
		t.Errorf("GetRun(prefix) = %v, %v", byPrefix, err)
	}
}

func TestRunErrorsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	report, ds := sampleReport()
	run := NewRun(report, ds, nil, time.Now(), 0)
	if err := db.RecordRun(ctx, run, report.All()); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	got, err := db.RunErrors(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunErrors failed: %v", err)
	}
	if !reflect.DeepEqual(got, report.All()) {
		t.Errorf("RunErrors() = %v, want %v", got, report.All())
	}

	// Index keys, identifier keys and the aggregate key all survive.
	if got[0].Row != models.KeyIndex(0) {
		t.Errorf("first row key = %v, want index 0", got[0].Row)
	}
	if !got[len(got)-1].Row.IsAggregate() {
		t.Errorf("last row key = %v, want aggregate", got[len(got)-1].Row)
	}
}

func TestGetRunNotFound(t *testing.T) {
	db := setupTestDB(t)
	got, err := db.GetRun(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got != nil {
		t.Errorf("GetRun = %+v, want nil", got)
	}
}

func TestGetRunAmbiguous(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"abc11111", "abc22222"} {
		if err := db.RecordRun(ctx, &Run{ID: id, StartedAt: time.Now()}, nil); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}
	if _, err := db.GetRun(ctx, "abc"); !errors.Is(err, ErrAmbiguousID) {
		t.Errorf("GetRun error = %v, want %v", err, ErrAmbiguousID)
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"run00001", "run00002", "run00003"} {
		run := &Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Hour), ErrorCount: i}
		if err := db.RecordRun(ctx, run, nil); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	runs, err := db.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].ID != "run00003" || runs[1].ID != "run00002" {
		t.Errorf("order = %s, %s; want newest first", runs[0].ID, runs[1].ID)
	}

	all, err := db.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}
}

func TestPurgeOldRuns(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	report, ds := sampleReport()
	old := NewRun(report, ds, nil, time.Now().Add(-48*time.Hour), 0)
	recent := NewRun(report, ds, nil, time.Now(), 0)
	for _, r := range []*Run{old, recent} {
		if err := db.RecordRun(ctx, r, report.All()); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	n, err := db.PurgeOldRuns(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("PurgeOldRuns failed: %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d runs, want 1", n)
	}

	errs, err := db.RunErrors(ctx, old.ID)
	if err != nil {
		t.Fatalf("RunErrors failed: %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("errors of purged run = %d, want 0", len(errs))
	}
}
