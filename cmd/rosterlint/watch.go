package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/rosterlint/internal/metrics"
	"github.com/ShayCichocki/rosterlint/internal/validation"
	"github.com/ShayCichocki/rosterlint/internal/watch"
	"github.com/ShayCichocki/rosterlint/internal/workbook"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

var (
	watchInputs      inputFlags
	watchMetricsAddr string
	watchDebounce    time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [files...]",
	Short: "Revalidate whenever an input file changes",
	Long: `Validate the input tables, then keep watching their files. When a file
is saved, only that table is re-read, and the findings that depend on it are
recomputed.

With --metrics-addr, Prometheus metrics for every run are served at
http://<addr>/metrics.

Examples:
  rosterlint watch clients.csv workers.csv tasks.csv
  rosterlint watch data/*.csv --metrics-addr :9090`,
	RunE: runWatch,
}

func init() {
	watchInputs.register(watchCmd)
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (default from watch.metrics_addr)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Wait this long after the last change before revalidating (default from watch.debounce)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	addr := cfg.Watch.MetricsAddr
	if watchMetricsAddr != "" {
		addr = watchMetricsAddr
	}
	debounce := cfg.Watch.Debounce
	if watchDebounce > 0 {
		debounce = watchDebounce
	}

	var collector *metrics.Collector
	var opts []workbook.Option
	if addr != "" {
		collector = metrics.NewCollector(nil)
		opts = append(opts, workbook.WithObserver(collector.Observe))
	}

	s, err := openSession(&watchInputs, args, opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	// Nothing consumes workbook events here; the channel closes with s.
	go func() {
		for range s.wb.Events() {
		}
	}()

	out := cmd.OutOrStdout()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if collector != nil {
		go func() {
			if err := collector.Serve(ctx, addr); err != nil {
				warnf("metrics server: %v", err)
			}
		}()
		fprintStatus(out, "✓", fmt.Sprintf("Serving metrics at http://%s/metrics", addr), color.FgGreen)
	}

	w, err := watch.New(s.wb, s.sources, watch.Options{
		Debounce: debounce,
		Logger:   s.logger,
		OnReload: func(t models.Table, report *validation.Report, err error) {
			printReload(out, t, report, err)
		},
	})
	if err != nil {
		return err
	}

	printReport(out, "initial", s.wb.Report())
	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", describeSources(s.sources))

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Fprintln(out)
	fprintStatus(out, "✓", "Stopped watching", color.FgGreen)
	return nil
}

func printReload(w io.Writer, t models.Table, report *validation.Report, err error) {
	if err != nil {
		fprintStatus(w, "✗", fmt.Sprintf("%s: %v (keeping previous rows)", t, err), color.FgRed)
		return
	}
	printReport(w, string(t)+" reloaded", report)
}

// printReport writes a timestamped one-line summary and the findings to w.
func printReport(w io.Writer, label string, report *validation.Report) {
	stamp := time.Now().Format("15:04:05")
	if report.Valid() {
		fprintStatus(w, "✓", fmt.Sprintf("[%s] %s: %s", stamp, label, report.Summary()), color.FgGreen)
		return
	}
	fprintStatus(w, "✗", fmt.Sprintf("[%s] %s: %s", stamp, label, report.Summary()), color.FgRed)
	for _, e := range report.All() {
		fmt.Fprintf(w, "    %s\n", e)
	}
}
