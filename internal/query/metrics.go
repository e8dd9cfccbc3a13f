package query

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records per-submission counters and latency.
// A nil *Metrics records nothing.
type Metrics struct {
	submissions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// NewMetrics creates the query metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supplyask_query_submissions_total",
				Help: "Query submissions by outcome kind",
			},
			[]string{"outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "supplyask_query_duration_seconds",
				Help:    "Time from submit to settled outcome",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.submissions, m.latency)
	return m
}

func (m *Metrics) observe(kind Kind, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(kind.String()).Inc()
	m.latency.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
}
