// Package ingest turns uploaded CSV and JSON files into rows keyed by
// canonical field names.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ShayCichocki/rosterlint/internal/validation"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

var (
	// ErrUnknownTable is returned when a file name names none of the tables.
	ErrUnknownTable = errors.New("cannot tell which table the file holds")
	// ErrUnsupportedFormat is returned for extensions other than .csv and .json.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyFile is returned for a file with no header.
	ErrEmptyFile = errors.New("file is empty")
	// ErrMalformed is returned when a JSON file is not an array of objects.
	ErrMalformed = errors.New("malformed file")
	// ErrDuplicateTable is returned when two files resolve to the same table.
	ErrDuplicateTable = errors.New("table given more than once")
)

// DetectTable infers the table from a file name such as "clients.csv" or
// "Worker_list.json".
func DetectTable(path string) (models.Table, error) {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(base, "client"):
		return models.TableClients, nil
	case strings.Contains(base, "worker"):
		return models.TableWorkers, nil
	case strings.Contains(base, "task"):
		return models.TableTasks, nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnknownTable)
	}
}

// ReadFile reads path, inferring its table from the file name.
func ReadFile(path string) (models.Table, []models.Row, error) {
	t, err := DetectTable(path)
	if err != nil {
		return "", nil, err
	}
	rows, err := ReadFileAs(path, t)
	return t, rows, err
}

// ReadFileAs reads path as table t.
func ReadFileAs(path string, t models.Table) ([]models.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var rows []models.Row
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = ReadCSV(f, t)
	case ".json":
		rows, err = ReadJSON(f, t)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Sources maps each table to the file it is read from.
type Sources map[models.Table]string

// Resolve assigns each path to a table by file name.
func Resolve(paths ...string) (Sources, error) {
	src := make(Sources, len(paths))
	for _, p := range paths {
		if err := src.Add(p, ""); err != nil {
			return nil, err
		}
	}
	return src, nil
}

// Add records path as the source of table t, inferring t when empty.
func (s Sources) Add(path string, t models.Table) error {
	if t == "" {
		var err error
		if t, err = DetectTable(path); err != nil {
			return err
		}
	}
	if prev, ok := s[t]; ok && prev != path {
		return fmt.Errorf("%s: %s and %s: %w", t, prev, path, ErrDuplicateTable)
	}
	s[t] = path
	return nil
}

// TableFor returns the table whose source is path.
func (s Sources) TableFor(path string) (models.Table, bool) {
	clean := filepath.Clean(path)
	for t, p := range s {
		if filepath.Clean(p) == clean {
			return t, true
		}
	}
	return "", false
}

// Paths returns the source files in table order.
func (s Sources) Paths() []string {
	out := make([]string, 0, len(s))
	for _, t := range models.Tables() {
		if p, ok := s[t]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Load reads every source into a data set. Tables without a source are empty.
func (s Sources) Load() (validation.Dataset, error) {
	var ds validation.Dataset
	for _, t := range models.Tables() {
		path, ok := s[t]
		if !ok {
			continue
		}
		rows, err := ReadFileAs(path, t)
		if err != nil {
			return validation.Dataset{}, err
		}
		ds.Set(t, rows)
	}
	return ds, nil
}

// LoadDataset resolves and reads paths in one step.
func LoadDataset(paths ...string) (validation.Dataset, Sources, error) {
	src, err := Resolve(paths...)
	if err != nil {
		return validation.Dataset{}, nil, err
	}
	ds, err := src.Load()
	if err != nil {
		return validation.Dataset{}, nil, err
	}
	return ds, src, nil
}
