// Package metrics exposes validation results as Prometheus metrics.
//
// Metrics:
//
//	rosterlint_validation_runs_total            counter
//	rosterlint_validation_errors{table,kind}    gauge, findings of the latest run
//	rosterlint_validation_rows{table}           gauge, rows of the latest run
//	rosterlint_validation_duration_seconds      histogram
//	rosterlint_phase_demand{phase}              gauge
//	rosterlint_phase_supply{phase}              gauge
package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ShayCichocki/rosterlint/internal/validation"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// Collector records validation runs.
type Collector struct {
	runs     prometheus.Counter
	errors   *prometheus.GaugeVec
	rows     *prometheus.GaugeVec
	duration prometheus.Histogram
	demand   *prometheus.GaugeVec
	supply   *prometheus.GaugeVec

	gatherer prometheus.Gatherer
	mu       sync.Mutex
}

// NewCollector creates a collector and registers it with reg. A nil reg
// means the default registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rosterlint_validation_runs_total",
			Help: "Total number of validation runs",
		}),
		errors: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rosterlint_validation_errors",
			Help: "Findings of the latest validation run by table and kind",
		}, []string{"table", "kind"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rosterlint_validation_rows",
			Help: "Rows validated in the latest run by table",
		}, []string{"table"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rosterlint_validation_duration_seconds",
			Help:    "Validation run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		demand: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rosterlint_phase_demand",
			Help: "Summed task duration preferring each phase",
		}, []string{"phase"}),
		supply: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rosterlint_phase_supply",
			Help: "Workers available in each phase",
		}, []string{"phase"}),
	}

	reg.MustRegister(c.runs, c.errors, c.rows, c.duration, c.demand, c.supply)

	if g, ok := reg.(prometheus.Gatherer); ok {
		c.gatherer = g
	} else {
		c.gatherer = prometheus.DefaultGatherer
	}
	return c
}

// Observe records one validation run. Per-run gauges are reset first so
// kinds and phases that disappeared read as absent rather than stale.
func (c *Collector) Observe(report *validation.Report, ds validation.Dataset, took time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.runs.Inc()
	c.duration.Observe(took.Seconds())

	c.errors.Reset()
	for _, t := range models.Tables() {
		for _, k := range models.Kinds() {
			c.errors.WithLabelValues(string(t), string(k)).Set(0)
		}
	}
	for _, e := range report.All() {
		c.errors.WithLabelValues(string(e.Table), string(e.Kind)).Inc()
	}

	for _, t := range models.Tables() {
		c.rows.WithLabelValues(string(t)).Set(float64(len(ds.Rows(t))))
	}

	c.demand.Reset()
	c.supply.Reset()
	for _, p := range report.Phases {
		c.demand.WithLabelValues(p.Phase).Set(p.Demand)
		c.supply.WithLabelValues(p.Phase).Set(float64(p.Supply))
	}
}

// Handler returns an HTTP handler serving the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// Serve serves /metrics on addr until ctx is done.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
