package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/rosterlint/internal/config"
	"github.com/ShayCichocki/rosterlint/internal/ingest"
	"github.com/ShayCichocki/rosterlint/internal/logging"
	"github.com/ShayCichocki/rosterlint/internal/validation"
	"github.com/ShayCichocki/rosterlint/internal/workbook"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

var errNoInputs = errors.New("no input files: pass files or --clients/--workers/--tasks")

// inputFlags are the explicit per-table file flags shared by data commands.
type inputFlags struct {
	clients string
	workers string
	tasks   string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.clients, "clients", "", "Clients file (CSV or JSON)")
	cmd.Flags().StringVar(&f.workers, "workers", "", "Workers file (CSV or JSON)")
	cmd.Flags().StringVar(&f.tasks, "tasks", "", "Tasks file (CSV or JSON)")
}

// sources maps positional files by name and adds the explicit flags.
func (f *inputFlags) sources(args []string) (ingest.Sources, error) {
	src, err := ingest.Resolve(args...)
	if err != nil {
		return nil, err
	}
	explicit := map[models.Table]string{
		models.TableClients: f.clients,
		models.TableWorkers: f.workers,
		models.TableTasks:   f.tasks,
	}
	for _, t := range models.Tables() {
		if path := explicit[t]; path != "" {
			if err := src.Add(path, t); err != nil {
				return nil, err
			}
		}
	}
	if len(src) == 0 {
		return nil, errNoInputs
	}
	return src, nil
}

// session is a loaded workbook plus what produced it.
type session struct {
	cfg     *config.Config
	logger  *logging.Logger
	sources ingest.Sources
	wb      *workbook.Workbook
	// took is the duration of the most recent validation run.
	took time.Duration
}

// openSession reads the inputs into a new workbook. Extra workbook options
// are applied after the logger and timing observer.
func openSession(in *inputFlags, args []string, opts ...workbook.Option) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	src, err := in.sources(args)
	if err != nil {
		return nil, err
	}
	ds, err := src.Load()
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, logger: openLogger(cfg), sources: src}
	base := []workbook.Option{
		workbook.WithLogger(s.logger),
		workbook.WithObserver(func(_ *validation.Report, _ validation.Dataset, took time.Duration) {
			s.took = took
		}),
	}
	s.wb = workbook.New(append(base, opts...)...)
	if err := s.wb.LoadDataset(ds); err != nil {
		s.Close()
		return nil, fmt.Errorf("load workbook: %w", err)
	}
	return s, nil
}

// reload re-reads every source into the workbook.
func (s *session) reload() error {
	ds, err := s.sources.Load()
	if err != nil {
		return err
	}
	return s.wb.LoadDataset(ds)
}

func (s *session) Close() {
	if s.wb != nil {
		s.wb.Close()
	}
	s.logger.Close()
}

// describeSources renders "clients=a.csv workers=b.json" for status lines.
func describeSources(src ingest.Sources) string {
	var out string
	for _, t := range models.Tables() {
		if p, ok := src[t]; ok {
			if out != "" {
				out += " "
			}
			out += fmt.Sprintf("%s=%s", t, p)
		}
	}
	return out
}
