package gateway

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors describing saga activity.
type Metrics struct {
	sagaRuns     *prometheus.CounterVec
	sagaDuration *prometheus.HistogramVec
	stepFailures *prometheus.CounterVec
	fanout       prometheus.Histogram
}

// MustNewMetrics registers the gateway collectors with reg, reusing
// collectors that are already registered under the same name.  Any other
// registration error panics.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Metrics{
		sagaRuns: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hotel",
				Subsystem: "gateway",
				Name:      "saga_runs_total",
				Help:      "Saga runs by saga and outcome.",
			},
			[]string{"saga", "outcome"},
		)),
		sagaDuration: register(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hotel",
				Subsystem: "gateway",
				Name:      "saga_duration_seconds",
				Help:      "Wall time of a saga run.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"saga", "outcome"},
		)),
		stepFailures: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hotel",
				Subsystem: "gateway",
				Name:      "saga_step_failures_total",
				Help:      "Saga steps that aborted their run.",
			},
			[]string{"saga", "step", "reason"},
		)),
		fanout: register(reg, prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "hotel",
				Subsystem: "gateway",
				Name:      "payment_fanout_size",
				Help:      "Concurrent payment lookups issued by one read.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
			},
		)),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveSaga records a finished saga run.
func (m *Metrics) ObserveSaga(saga, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.sagaRuns.WithLabelValues(saga, outcome).Inc()
	m.sagaDuration.WithLabelValues(saga, outcome).Observe(d.Seconds())
}

// IncStepFailure counts a step that aborted its saga.
func (m *Metrics) IncStepFailure(saga, step, reason string) {
	if m == nil {
		return
	}
	m.stepFailures.WithLabelValues(saga, step, reason).Inc()
}

// ObserveFanout records the width of one payment fan-out.
func (m *Metrics) ObserveFanout(n int) {
	if m == nil {
		return
	}
	m.fanout.Observe(float64(n))
}
