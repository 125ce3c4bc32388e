// Package metrics exposes Prometheus collectors for registry writes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry implements project.Metrics.
type Registry struct {
	// rowsTotal counts child rows touched by reconciliation, by table and outcome
	rowsTotal *prometheus.CounterVec

	// writesTotal counts project writes by operation and result
	writesTotal *prometheus.CounterVec

	// writeDuration tracks project write latency including the transaction
	writeDuration *prometheus.HistogramVec
}

// New registers the registry collectors with reg.
func New(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		rowsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_reconcile_rows_total",
			Help: "Child rows processed by reconciliation by table and outcome",
		}, []string{"table", "outcome"}),
		writesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_project_writes_total",
			Help: "Project writes by operation and result",
		}, []string{"operation", "result"}),
		writeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registry_project_write_duration_seconds",
			Help:    "Project write duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		}, []string{"operation"}),
	}
}

// ObserveReconcile records the outcome counts of one collection.
func (r *Registry) ObserveReconcile(table string, added, removed, updated, kept int) {
	r.rowsTotal.WithLabelValues(table, "added").Add(float64(added))
	r.rowsTotal.WithLabelValues(table, "removed").Add(float64(removed))
	r.rowsTotal.WithLabelValues(table, "updated").Add(float64(updated))
	r.rowsTotal.WithLabelValues(table, "kept").Add(float64(kept))
}

// ObserveWrite records one create, update or delete.
func (r *Registry) ObserveWrite(op string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.writesTotal.WithLabelValues(op, result).Inc()
	r.writeDuration.WithLabelValues(op).Observe(d.Seconds())
}
