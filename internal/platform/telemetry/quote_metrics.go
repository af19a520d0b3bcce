package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/betterdays/inspiration-service/internal/domain"
)

// Fetch attempt outcomes recorded by QuoteMetrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeStale   = "stale"
)

// QuoteMetrics exposes quote provider behaviour as Prometheus collectors.
// The collectors are served by the /-/metrics endpoint.
type QuoteMetrics struct {
	attempts    *prometheus.CounterVec
	duration    prometheus.Histogram
	transitions *prometheus.CounterVec
	status      *prometheus.GaugeVec
}

// NewQuoteMetrics creates the provider collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewQuoteMetrics(reg prometheus.Registerer) (*QuoteMetrics, error) {
	m := &QuoteMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inspiration",
			Subsystem: "quote",
			Name:      "fetch_attempts_total",
			Help:      "Quote fetch attempts partitioned by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "inspiration",
			Subsystem: "quote",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of individual quote fetch attempts.",
			Buckets:   prometheus.DefBuckets,
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inspiration",
			Subsystem: "quote",
			Name:      "state_transitions_total",
			Help:      "Quote provider state transitions.",
		}, []string{"from", "to"}),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "inspiration",
			Subsystem: "quote",
			Name:      "status",
			Help:      "1 for the provider's current status, 0 otherwise.",
		}, []string{"status"}),
	}

	for _, c := range []prometheus.Collector{m.attempts, m.duration, m.transitions, m.status} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	m.setStatus(domain.StatusLoading)

	return m, nil
}

// ObserveAttempt records the outcome and latency of one fetch attempt.
// Stale results are counted but carry no latency.
func (m *QuoteMetrics) ObserveAttempt(outcome string, elapsed time.Duration) {
	m.attempts.WithLabelValues(outcome).Inc()

	if outcome != OutcomeStale {
		m.duration.Observe(elapsed.Seconds())
	}
}

// ObserveTransition records a provider status change.
func (m *QuoteMetrics) ObserveTransition(from, to domain.Status) {
	m.transitions.WithLabelValues(from.String(), to.String()).Inc()
	m.setStatus(to)
}

func (m *QuoteMetrics) setStatus(current domain.Status) {
	for _, s := range []domain.Status{domain.StatusLoading, domain.StatusSuccess, domain.StatusError} {
		v := 0.0
		if s == current {
			v = 1
		}

		m.status.WithLabelValues(s.String()).Set(v)
	}
}
