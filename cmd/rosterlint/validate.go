package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/rosterlint/internal/config"
	"github.com/ShayCichocki/rosterlint/internal/export"
	"github.com/ShayCichocki/rosterlint/internal/history"
	"github.com/ShayCichocki/rosterlint/internal/logging"
	"github.com/ShayCichocki/rosterlint/internal/validation"
)

var (
	validateInputs    inputFlags
	validateFormat    string
	validateNoHistory bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate clients, workers and tasks",
	Long: `Read the input tables, run every check and print the report.

Exits with status 1 when any finding is reported. Each run is recorded in
the project history database unless --no-history is given or
history.enabled is false.

Examples:
  rosterlint validate clients.csv workers.csv tasks.csv
  rosterlint validate --tasks jobs.json --workers staff.csv
  rosterlint validate data/*.csv --format json`,
	RunE: runValidate,
}

func init() {
	validateInputs.register(validateCmd)
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "", "Report format: text, json or yaml (default from output.format)")
	validateCmd.Flags().BoolVar(&validateNoHistory, "no-history", false, "Do not record this run")
}

func runValidate(cmd *cobra.Command, args []string) error {
	started := time.Now()

	s, err := openSession(&validateInputs, args)
	if err != nil {
		return err
	}
	defer s.Close()

	format, err := reportFormat(s.cfg, validateFormat)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	report := s.wb.Report()
	if err := export.WriteReport(out, report, format); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if s.cfg.History.Enabled && !validateNoHistory {
		run := history.NewRun(report, s.wb.Dataset(), s.sources.Paths(), started, s.took)
		if err := recordRun(cmd.Context(), s.cfg, s.logger, run, report); err != nil {
			warnf("run not recorded: %v", err)
		} else if format == export.FormatText {
			fmt.Fprintf(out, "\nRecorded as run %s\n", color.CyanString(run.ID))
		}
	}

	if !report.Valid() {
		return fmt.Errorf("%w: %s", errValidationFailed, report.Summary())
	}
	if format == export.FormatText {
		fprintStatus(out, "✓", "Data set is valid and ready for export", color.FgGreen)
	}
	return nil
}

// reportFormat resolves --format over output.format.
func reportFormat(cfg *config.Config, flag string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	return export.ParseFormat(cfg.Output.Format)
}

// openHistory opens and migrates the configured history database.
// Relative paths are resolved against the working directory.
func openHistory(cfg *config.Config) (*history.DB, error) {
	path := cfg.History.Path
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	db, err := history.OpenWithDriver(cfg.History.Driver, path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return db, nil
}

// recordRun stores run and applies history.retention.
func recordRun(ctx context.Context, cfg *config.Config, logger *logging.Logger, run *history.Run, report *validation.Report) error {
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RecordRun(ctx, run, report.All()); err != nil {
		return err
	}
	logger.Log("[history] recorded run %s: %s", run.ID, run.Summary)

	if cfg.History.Retention > 0 {
		n, err := db.PurgeOldRuns(ctx, cfg.History.Retention)
		if err != nil {
			return fmt.Errorf("purge old runs: %w", err)
		}
		if n > 0 {
			logger.Log("[history] purged %d runs older than %s", n, cfg.History.Retention)
		}
	}
	return nil
}
