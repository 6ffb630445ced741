// Package watch re-reads input files into a workbook when they change on
// disk, so edits made in a spreadsheet tool are revalidated immediately.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ShayCichocki/rosterlint/internal/ingest"
	"github.com/ShayCichocki/rosterlint/internal/logging"
	"github.com/ShayCichocki/rosterlint/internal/validation"
	"github.com/ShayCichocki/rosterlint/internal/workbook"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// DefaultDebounce is how long a file must be quiet before it is re-read.
const DefaultDebounce = 250 * time.Millisecond

// ReloadFunc is called after every reload attempt. err is non-nil when the
// file could not be read; the workbook then keeps its previous rows.
type ReloadFunc func(t models.Table, report *validation.Report, err error)

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *logging.Logger
	OnReload ReloadFunc
}

// Watcher feeds file changes into a workbook.
type Watcher struct {
	wb      *workbook.Workbook
	sources ingest.Sources
	opts    Options

	fs        *fsnotify.Watcher
	closeOnce sync.Once
}

// New watches the directories holding every source file.
func New(wb *workbook.Workbook, sources ingest.Sources, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	dirs := make(map[string]bool)
	for _, path := range sources.Paths() {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	return &Watcher{wb: wb, sources: sources, opts: opts, fs: fsw}, nil
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	pending := make(map[models.Table]bool)
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			t, watched := w.sources.TableFor(event.Name)
			if !watched {
				continue
			}
			w.opts.Logger.Log("[watch] %s changed (%s)", event.Name, event.Op)
			pending[t] = true
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			for _, t := range models.Tables() {
				if pending[t] {
					w.Reload(t)
				}
			}
			pending = make(map[models.Table]bool)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Log("[watch] watcher error: %v", err)
		}
	}
}

// Reload re-reads table t from its source file into the workbook.
func (w *Watcher) Reload(t models.Table) error {
	path, ok := w.sources[t]
	if !ok {
		return fmt.Errorf("no source file for %s", t)
	}

	rows, err := ingest.ReadFileAs(path, t)
	if err == nil {
		err = w.wb.Load(t, rows)
	}
	if err != nil {
		w.opts.Logger.Log("[watch] reload %s failed: %v", t, err)
	} else {
		w.opts.Logger.Log("[watch] reloaded %s: %d rows", t, len(rows))
	}

	if w.opts.OnReload != nil {
		w.opts.OnReload(t, w.wb.Report(), err)
	}
	return err
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fs.Close()
	})
	return err
}
