// Package metrics exposes compiler activity as Prometheus collectors.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector groups the compiler's metrics.
type Collector struct {
	registry *prometheus.Registry

	builds        *prometheus.CounterVec
	rows          *prometheus.GaugeVec
	warnings      *prometheus.CounterVec
	violations    *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	writes        *prometheus.CounterVec
}

// New creates a collector on its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drama_builds_total",
				Help: "Total number of finalized graphs",
			},
			[]string{"graph"},
		),
		rows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "drama_rows",
				Help: "Rows in the last build of each graph",
			},
			[]string{"graph"},
		),
		warnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drama_warnings_total",
				Help: "Structural warnings by kind",
			},
			[]string{"graph", "kind"},
		),
		violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drama_schema_violations_total",
				Help: "Flag schema violations",
			},
			[]string{"graph"},
		),
		buildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "drama_build_duration_seconds",
				Help: "Duration of graph finalization",
			},
			[]string{"graph"},
		),
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drama_sink_writes_total",
				Help: "Sheet writes by sink and outcome",
			},
			[]string{"sink", "status"},
		),
	}
	c.registry.MustRegister(c.builds, c.rows, c.warnings, c.violations, c.buildDuration, c.writes)
	return c
}

// Registry returns the underlying registry, e.g. for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collected metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks recording into the collector.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBuild: c.observeBuild,
		OnWrite: c.observeWrite,
	}
}

func (c *Collector) observeBuild(_ context.Context, e *domain.BuildEvent) {
	c.builds.WithLabelValues(e.Graph).Inc()
	c.rows.WithLabelValues(e.Graph).Set(float64(e.Rows))
	for _, w := range e.Warnings {
		c.warnings.WithLabelValues(e.Graph, string(w.Kind)).Inc()
	}
	c.violations.WithLabelValues(e.Graph).Add(float64(e.Violations))
	c.buildDuration.WithLabelValues(e.Graph).Observe(e.Duration.Seconds())
}

func (c *Collector) observeWrite(_ context.Context, e *domain.WriteEvent) {
	status := "ok"
	switch {
	case e.Err != nil:
		status = "error"
	case e.Skipped:
		status = "unchanged"
	}
	c.writes.WithLabelValues(e.Sink, status).Inc()
}
