// Package telemetry exposes frame metrics through Prometheus and frame
// traces through OpenTelemetry.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lattice"

// Metrics holds the frame driver's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Frames        prometheus.Counter
	FrameDuration prometheus.Histogram
	LayoutErrors  *prometheus.CounterVec
	EventsApplied *prometheus.CounterVec
	StoreEntries  prometheus.Gauge
	DirtyKeys     prometheus.Gauge
	CellsWritten  prometheus.Counter
}

// NewMetrics registers the collectors with reg. Passing nil registers
// nothing, which suits tests that build several drivers.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Frames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames rendered by the driver.",
		}),
		FrameDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Wall time of a full flush, layout and draw pass.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 100us to ~200ms
		}),
		LayoutErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_errors_total",
			Help:      "Layout passes that failed and kept the previous regions.",
		}, []string{"code"}),
		EventsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_applied_total",
			Help:      "Store events applied at frame flush.",
		}, []string{"kind"}),
		StoreEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_entries",
			Help:      "Live entries in the reactive store.",
		}),
		DirtyKeys: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dirty_keys",
			Help:      "Keys changed in the most recent frame.",
		}),
		CellsWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_written_total",
			Help:      "Cells sent to the backend.",
		}),
	}
}

// ObserveFrame records one completed frame.
func (m *Metrics) ObserveFrame(d time.Duration, storeEntries, dirtyKeys, cells int) {
	if m == nil {
		return
	}
	m.Frames.Inc()
	m.FrameDuration.Observe(d.Seconds())
	m.StoreEntries.Set(float64(storeEntries))
	m.DirtyKeys.Set(float64(dirtyKeys))
	m.CellsWritten.Add(float64(cells))
}

// LayoutError counts a failed layout pass by error code.
func (m *Metrics) LayoutError(code string) {
	if m == nil {
		return
	}
	m.LayoutErrors.WithLabelValues(code).Inc()
}

// EventApplied counts an applied store event by kind.
func (m *Metrics) EventApplied(kind string) {
	if m == nil {
		return
	}
	m.EventsApplied.WithLabelValues(kind).Inc()
}

// Handler serves the metrics in gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
