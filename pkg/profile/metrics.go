package profile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// storeMetrics counts store operations per profile type and outcome. A nil
// receiver is a no-op so the manager works without a registry.
type storeMetrics struct {
	loads          *prometheus.CounterVec
	saves          *prometheus.CounterVec
	removes        *prometheus.CounterVec
	expandDuration prometheus.Histogram
}

func newStoreMetrics(reg prometheus.Registerer) *storeMetrics {
	m := &storeMetrics{
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_store_loads_total",
				Help: "Total number of profile load attempts",
			},
			[]string{"type", "result"},
		),
		saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_store_saves_total",
				Help: "Total number of profile save attempts",
			},
			[]string{"type", "result"},
		),
		removes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_store_removes_total",
				Help: "Total number of profile remove attempts",
			},
			[]string{"type", "result"},
		),
		expandDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "profile_store_expand_duration_seconds",
				Help:    "Duration of sub-profile expansion",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(m.loads, m.saves, m.removes, m.expandDuration)
	return m
}

func (m *storeMetrics) observeLoad(typ, result string) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(typ, result).Inc()
}

func (m *storeMetrics) observeSave(typ, result string) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(typ, result).Inc()
}

func (m *storeMetrics) observeRemove(typ, result string) {
	if m == nil {
		return
	}
	m.removes.WithLabelValues(typ, result).Inc()
}

func (m *storeMetrics) observeExpand(d time.Duration) {
	if m == nil {
		return
	}
	m.expandDuration.Observe(d.Seconds())
}
