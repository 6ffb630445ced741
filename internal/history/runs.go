package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/rosterlint/internal/validation"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// Run is one recorded validation run.
type Run struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	// Sources are the files the data set was read from.
	Sources    []string `json:"sources"`
	Clients    int      `json:"clients"`
	Workers    int      `json:"workers"`
	Tasks      int      `json:"tasks"`
	ErrorCount int      `json:"error_count"`
	Summary    string   `json:"summary"`
	// Phases is only filled by GetRun.
	Phases []validation.PhaseBalance `json:"phases,omitempty"`
}

// Valid reports whether the run found no errors.
func (r *Run) Valid() bool {
	return r.ErrorCount == 0
}

// NewRun builds a run record from a report and the data it was computed from.
func NewRun(report *validation.Report, ds validation.Dataset, sources []string, started time.Time, took time.Duration) *Run {
	return &Run{
		ID:         uuid.New().String()[:8],
		StartedAt:  started,
		Duration:   took,
		Sources:    append([]string(nil), sources...),
		Clients:    len(ds.Clients),
		Workers:    len(ds.Workers),
		Tasks:      len(ds.Tasks),
		ErrorCount: report.Count(),
		Summary:    report.Summary(),
		Phases:     append([]validation.PhaseBalance(nil), report.Phases...),
	}
}

// RecordRun stores a run with its findings and phase balances.
func (db *DB) RecordRun(ctx context.Context, run *Run, errs []models.ValidationError) error {
	if run.ID == "" {
		run.ID = uuid.New().String()[:8]
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	return db.transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (id, started_at, duration_ms, sources, clients, workers, tasks, error_count, summary)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, formatTime(run.StartedAt), run.Duration.Milliseconds(), strings.Join(run.Sources, "\n"),
			run.Clients, run.Workers, run.Tasks, run.ErrorCount, run.Summary)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for i, e := range errs {
			key, byID := encodeKey(e.Row)
			_, err := tx.ExecContext(ctx, `
				INSERT INTO run_errors (run_id, seq, table_name, row_key, row_by_id, field, kind, message)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, run.ID, i, string(e.Table), key, byID, e.Field, string(e.Kind), e.Message)
			if err != nil {
				return fmt.Errorf("insert run error %d: %w", i, err)
			}
		}

		for i, p := range run.Phases {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO run_phases (run_id, seq, phase, demand, supply) VALUES (?, ?, ?, ?, ?)
			`, run.ID, i, p.Phase, p.Demand, p.Supply)
			if err != nil {
				return fmt.Errorf("insert run phase %d: %w", i, err)
			}
		}
		return nil
	})
}

const runColumns = `id, started_at, duration_ms, sources, clients, workers, tasks, error_count, summary`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var r Run
	var startedAt, sources string
	var durationMS int64
	if err := s.Scan(&r.ID, &startedAt, &durationMS, &sources, &r.Clients, &r.Workers, &r.Tasks, &r.ErrorCount, &r.Summary); err != nil {
		return nil, err
	}
	r.StartedAt, _ = parseTime(startedAt)
	r.Duration = time.Duration(durationMS) * time.Millisecond
	if sources != "" {
		r.Sources = strings.Split(sources, "\n")
	}
	return &r, nil
}

// ListRuns returns the most recent runs first. A limit of 0 or less returns all.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRun retrieves a run by ID or unique ID prefix, with its phase balances.
// It returns nil, nil when no run matches.
func (db *DB) GetRun(ctx context.Context, id string) (*Run, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.QueryContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id LIKE ? || '%' LIMIT 2`, id)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	var matches []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, fmt.Errorf("run id %q: %w", id, ErrAmbiguousID)
	}
	run := matches[0]

	phases, err := db.conn.QueryContext(ctx, `SELECT phase, demand, supply FROM run_phases WHERE run_id = ? ORDER BY seq`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("get run phases: %w", err)
	}
	defer phases.Close()
	for phases.Next() {
		var p validation.PhaseBalance
		if err := phases.Scan(&p.Phase, &p.Demand, &p.Supply); err != nil {
			return nil, fmt.Errorf("scan run phase: %w", err)
		}
		run.Phases = append(run.Phases, p)
	}
	return run, phases.Err()
}

// ErrAmbiguousID is returned when an ID prefix matches more than one run.
var ErrAmbiguousID = errors.New("ambiguous run id")

// RunErrors returns the findings of a run in their original order.
func (db *DB) RunErrors(ctx context.Context, runID string) ([]models.ValidationError, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT table_name, row_key, row_by_id, field, kind, message
		FROM run_errors WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("run errors: %w", err)
	}
	defer rows.Close()

	var out []models.ValidationError
	for rows.Next() {
		var e models.ValidationError
		var table, key, kind string
		var byID bool
		if err := rows.Scan(&table, &key, &byID, &e.Field, &kind, &e.Message); err != nil {
			return nil, fmt.Errorf("scan run error: %w", err)
		}
		e.Table = models.Table(table)
		e.Kind = models.Kind(kind)
		e.Row = decodeKey(key, byID)
		out = append(out, e)
	}
	return out, rows.Err()
}

// PurgeOldRuns deletes runs older than the given age and returns how many
// were removed.
func (db *DB) PurgeOldRuns(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := formatTime(time.Now().Add(-olderThan))

	db.mu.Lock()
	defer db.mu.Unlock()

	result, err := db.conn.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge old runs: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return count, nil
}

func encodeKey(k models.RowKey) (string, bool) {
	if id, ok := k.ID(); ok {
		return id, true
	}
	index, _ := k.Index()
	return strconv.Itoa(index), false
}

func decodeKey(key string, byID bool) models.RowKey {
	if byID {
		return models.KeyID(key)
	}
	index, err := strconv.Atoi(key)
	if err != nil {
		return models.KeyID(key)
	}
	return models.KeyIndex(index)
}
