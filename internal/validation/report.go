package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// Dataset is the three uploaded tables.
type Dataset struct {
	Clients []models.Row `json:"clients"`
	Workers []models.Row `json:"workers"`
	Tasks   []models.Row `json:"tasks"`
}

// Rows returns the rows of table t.
func (d Dataset) Rows(t models.Table) []models.Row {
	switch t {
	case models.TableClients:
		return d.Clients
	case models.TableWorkers:
		return d.Workers
	case models.TableTasks:
		return d.Tasks
	default:
		return nil
	}
}

// Set replaces the rows of table t.
func (d *Dataset) Set(t models.Table, rows []models.Row) {
	switch t {
	case models.TableClients:
		d.Clients = rows
	case models.TableWorkers:
		d.Workers = rows
	case models.TableTasks:
		d.Tasks = rows
	}
}

// Len returns the total number of rows across all tables.
func (d Dataset) Len() int {
	return len(d.Clients) + len(d.Workers) + len(d.Tasks)
}

// Report is the result of a full validation run.
type Report struct {
	Clients    []models.ValidationError `json:"clients" yaml:"clients"`
	Workers    []models.ValidationError `json:"workers" yaml:"workers"`
	Tasks      []models.ValidationError `json:"tasks" yaml:"tasks"`
	Saturation []models.ValidationError `json:"saturation" yaml:"saturation"`
	Coverage   []models.ValidationError `json:"coverage" yaml:"coverage"`
	// Phases is the demand and supply of every phase, for display.
	Phases []PhaseBalance `json:"phases" yaml:"phases"`
}

// Run validates every table and runs both cross-table checks.
func Run(ds Dataset) *Report {
	return &Report{
		Clients:    ValidateClients(ds.Clients),
		Workers:    ValidateWorkers(ds.Workers),
		Tasks:      ValidateTasks(ds.Tasks),
		Saturation: CheckPhaseSaturation(ds.Tasks, ds.Workers),
		Coverage:   CheckSkillCoverage(ds.Tasks, ds.Workers),
		Phases:     PhaseLoad(ds.Tasks, ds.Workers),
	}
}

// Entity returns the per-table findings for t.
func (r *Report) Entity(t models.Table) []models.ValidationError {
	switch t {
	case models.TableClients:
		return r.Clients
	case models.TableWorkers:
		return r.Workers
	case models.TableTasks:
		return r.Tasks
	default:
		return nil
	}
}

// All returns every finding: clients, workers, tasks, then saturation and
// coverage.
func (r *Report) All() []models.ValidationError {
	out := make([]models.ValidationError, 0, r.Count())
	out = append(out, r.Clients...)
	out = append(out, r.Workers...)
	out = append(out, r.Tasks...)
	out = append(out, r.Saturation...)
	out = append(out, r.Coverage...)
	return out
}

// Count returns the total number of findings.
func (r *Report) Count() int {
	return len(r.Clients) + len(r.Workers) + len(r.Tasks) + len(r.Saturation) + len(r.Coverage)
}

// Valid reports whether the data set has no findings at all.
func (r *Report) Valid() bool {
	return r.Count() == 0
}

// ByKind counts findings per kind.
func (r *Report) ByKind() map[models.Kind]int {
	counts := make(map[models.Kind]int)
	for _, e := range r.All() {
		counts[e.Kind]++
	}
	return counts
}

// ForTable returns every finding whose table is t, cross-table ones included.
func (r *Report) ForTable(t models.Table) []models.ValidationError {
	var out []models.ValidationError
	for _, e := range r.All() {
		if e.Table == t {
			out = append(out, e)
		}
	}
	return out
}

// CellErrors returns the findings that point at one cell.
func (r *Report) CellErrors(t models.Table, row models.RowKey, field string) []models.ValidationError {
	var out []models.ValidationError
	for _, e := range r.All() {
		if e.Matches(t, row, field) {
			out = append(out, e)
		}
	}
	return out
}

// Summary returns a one-line description such as
// "3 errors (domain: 1, coverage: 2)" or "no errors".
func (r *Report) Summary() string {
	n := r.Count()
	if n == 0 {
		return "no errors"
	}

	counts := r.ByKind()
	parts := make([]string, 0, len(counts))
	for _, k := range models.Kinds() {
		if c := counts[k]; c > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", k, c))
		}
	}
	// Unknown kinds cannot come from this package, but a decoded report may carry them.
	var extra []string
	for k, c := range counts {
		if !k.Valid() {
			extra = append(extra, fmt.Sprintf("%s: %d", k, c))
		}
	}
	sort.Strings(extra)
	parts = append(parts, extra...)

	noun := "errors"
	if n == 1 {
		noun = "error"
	}
	return fmt.Sprintf("%d %s (%s)", n, noun, strings.Join(parts, ", "))
}
