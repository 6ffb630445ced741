// Package logging provides the file-backed debug log shared by rosterlint
// components.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger writes timestamped debug lines to a file. A nil Logger, or one
// created with an empty path, discards everything.
type Logger struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
}

// New creates a logger appending to path, creating parent directories.
// An empty path returns a no-op logger.
func New(path string) (*Logger, error) {
	if path == "" {
		return &Logger{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := &Logger{w: f, c: f}
	l.Log("=== rosterlint debug log started at %s ===", time.Now().Format(time.RFC3339))
	return l, nil
}

// ForProject creates a logger in root's .rosterlint/logs directory.
// Returns a no-op logger if the file cannot be opened.
func ForProject(root string) *Logger {
	l, err := New(filepath.Join(root, ".rosterlint", "logs", "debug.log"))
	if err != nil {
		return &Logger{}
	}
	return l
}

// NewWriter creates a logger writing to w. Close does not close w.
func NewWriter(w io.Writer) *Logger {
	return &Logger{w: w}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{}
}

// Log writes a timestamped line.
func (l *Logger) Log(format string, args ...interface{}) {
	if l == nil || l.w == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.w, "[%s] %s\n", time.Now().Format("15:04:05.000"), msg)
	if f, ok := l.w.(*os.File); ok {
		f.Sync()
	}
}

// Close closes the log file. Safe on nil and no-op loggers.
func (l *Logger) Close() error {
	if l == nil || l.c == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.c.Close()
	l.w, l.c = nil, nil
	return err
}
