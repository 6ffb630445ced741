package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewEmptyPathIsNop(t *testing.T) {
	l, err := New("")
	if err != nil {
		t.Fatalf("New(\"\") error = %v", err)
	}
	l.Log("ignored %d", 1)
	if err := l.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug.log")

	l, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Log("validated %d rows", 12)
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	// Logging after close is a no-op.
	l.Log("after close")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "debug log started") {
		t.Errorf("missing header in %q", content)
	}
	if !strings.Contains(content, "validated 12 rows") {
		t.Errorf("missing message in %q", content)
	}
	if strings.Contains(content, "after close") {
		t.Errorf("message logged after close: %q", content)
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Log("nothing")
	if err := l.Close(); err != nil {
		t.Errorf("Close() on nil = %v", err)
	}
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf)
	l.Log("hello %s", "world")
	if !strings.HasSuffix(buf.String(), "] hello world\n") {
		t.Errorf("output = %q", buf.String())
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestForProject(t *testing.T) {
	root := t.TempDir()
	l := ForProject(root)
	l.Log("x")
	l.Close()

	if _, err := os.Stat(filepath.Join(root, ".rosterlint", "logs", "debug.log")); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}
