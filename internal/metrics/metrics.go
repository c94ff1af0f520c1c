// Package metrics declares the prometheus counters/gauges/histograms the
// core publishes: checkpoint failures, WAL append latency, IVF build
// outcomes, resource manager usage, and write request outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PersistenceCheckpointErrorTotal counts snapshot-write failures.
	PersistenceCheckpointErrorTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "persistence_checkpoint_error_total",
		Help: "Total number of checkpoint attempts that failed to write a base snapshot",
	})

	// WalAppendLatencySeconds tracks group-commit flush latency.
	WalAppendLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wal_append_duration_seconds",
		Help:    "Latency of a WAL group-commit append+fsync",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
	})

	// IvfBuildTotal counts IVF index builds by outcome.
	IvfBuildTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ivf_index_build_total",
		Help: "Total number of IVF index build attempts",
	}, []string{"outcome"})

	// ResourceManagerUsedBytes gauges the resource manager's current
	// reservation total.
	ResourceManagerUsedBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "resource_manager_used_bytes",
		Help: "Bytes currently reserved against the process-wide memory budget",
	})

	// WriteRequestsTotal counts write-path requests by outcome (applied,
	// rejected, degraded).
	WriteRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "write_requests_total",
		Help: "Total number of write-path requests",
	}, []string{"outcome"})
)
