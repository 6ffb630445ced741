package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ShayCichocki/rosterlint/internal/ingest"
	"github.com/ShayCichocki/rosterlint/internal/validation"
	"github.com/ShayCichocki/rosterlint/internal/workbook"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

type reload struct {
	table  models.Table
	report *validation.Report
	err    error
}

func setup(t *testing.T) (string, *workbook.Workbook, ingest.Sources) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "clients.csv")
	if err := os.WriteFile(path, []byte("ClientID,PriorityLevel\nC1,9\n"), 0644); err != nil {
		t.Fatalf("write clients: %v", err)
	}

	ds, src, err := ingest.LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}
	wb := workbook.New()
	t.Cleanup(wb.Close)
	if err := wb.LoadDataset(ds); err != nil {
		t.Fatalf("workbook load: %v", err)
	}
	return path, wb, src
}

func TestReload(t *testing.T) {
	path, wb, src := setup(t)
	if wb.Exportable() {
		t.Fatal("fixture should start invalid")
	}

	var got []reload
	w, err := New(wb, src, Options{OnReload: func(tbl models.Table, r *validation.Report, err error) {
		got = append(got, reload{tbl, r, err})
	}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("ClientID,PriorityLevel\nC1,3\n"), 0644); err != nil {
		t.Fatalf("rewrite clients: %v", err)
	}
	if err := w.Reload(models.TableClients); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if !wb.Exportable() {
		t.Errorf("after reload: errors %v", wb.Report().All())
	}
	if len(got) != 1 || got[0].table != models.TableClients || got[0].err != nil {
		t.Errorf("callbacks = %+v", got)
	}

	if err := w.Reload(models.TableTasks); err == nil {
		t.Error("Reload(tasks) without a source should fail")
	}
}

func TestReloadKeepsRowsOnReadError(t *testing.T) {
	path, wb, src := setup(t)
	w, err := New(wb, src, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := w.Reload(models.TableClients); err == nil {
		t.Fatal("Reload() of a missing file should fail")
	}
	if got := len(wb.Rows(models.TableClients)); got != 1 {
		t.Errorf("rows after failed reload = %d, want 1", got)
	}
}

func TestRunPicksUpWrites(t *testing.T) {
	path, wb, src := setup(t)

	reloads := make(chan reload, 8)
	w, err := New(wb, src, Options{
		Debounce: 20 * time.Millisecond,
		OnReload: func(tbl models.Table, r *validation.Report, err error) {
			reloads <- reload{tbl, r, err}
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write notes: %v", err)
	}
	if err := os.WriteFile(path, []byte("ClientID,PriorityLevel\nC1,2\nC2,4\n"), 0644); err != nil {
		t.Fatalf("rewrite clients: %v", err)
	}

	select {
	case r := <-reloads:
		if r.err != nil {
			t.Fatalf("reload error = %v", r.err)
		}
		if r.table != models.TableClients {
			t.Errorf("table = %v, want clients", r.table)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
