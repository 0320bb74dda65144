package vmpool

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records reconciliation outcomes on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	reconcileTotal    *prometheus.CounterVec
	reconcileDuration *prometheus.HistogramVec
	nicsAttached      prometheus.Counter
	waitDuration      prometheus.Histogram
}

// NewMetrics creates and registers the reconciliation metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reconcileTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vmpool",
				Name:      "reconcile_total",
				Help:      "Total number of reconciliations by desired state and result",
			},
			[]string{"state", "result"},
		),
		reconcileDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "vmpool",
				Name:      "reconcile_duration_seconds",
				Help:      "Duration of reconciliation in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
			},
			[]string{"state"},
		),
		nicsAttached: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "vmpool",
				Name:      "nics_attached_total",
				Help:      "Total number of NICs attached to pool VMs",
			},
		),
		waitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "vmpool",
				Name:      "wait_duration_seconds",
				Help:      "Time spent waiting for pool VMs to settle",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 9), // 1s to ~4min
			},
		),
	}
	m.registry.MustRegister(m.reconcileTotal, m.reconcileDuration, m.nicsAttached, m.waitDuration)
	return m
}

// Registry exposes the registry for export.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func (m *Metrics) recordReconcile(state, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.reconcileTotal.WithLabelValues(state, result).Inc()
	m.reconcileDuration.WithLabelValues(state).Observe(duration.Seconds())
}

func (m *Metrics) nicAttached() {
	if m == nil {
		return
	}
	m.nicsAttached.Inc()
}

func (m *Metrics) recordWait(d time.Duration) {
	if m == nil {
		return
	}
	m.waitDuration.Observe(d.Seconds())
}
