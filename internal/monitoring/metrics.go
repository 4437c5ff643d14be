package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ReconcileMetrics contains all metrics for the confirmation reconciliation
// engine and its provider calls.
type ReconcileMetrics struct {
	cycleDuration    prometheus.Histogram
	recordsChecked   prometheus.Counter
	recordsConfirmed prometheus.Counter

	providerCalls    *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	breakerState     *prometheus.GaugeVec
}

func NewReconcileMetrics(registry *prometheus.Registry) *ReconcileMetrics {
	m := &ReconcileMetrics{
		cycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chainwatch_reconcile_cycle_duration_seconds",
				Help:    "Duration of one reconciliation invocation in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		recordsChecked: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "chainwatch_reconcile_records_checked_total",
				Help: "Total number of sell transactions checked against a provider",
			},
		),
		recordsConfirmed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "chainwatch_reconcile_records_confirmed_total",
				Help: "Total number of sell transactions newly confirmed",
			},
		),
		providerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chainwatch_provider_calls_total",
				Help: "Total number of chain data provider calls",
			},
			[]string{"strategy", "status"},
		),
		providerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chainwatch_provider_call_duration_seconds",
				Help:    "Duration of chain data provider calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "chainwatch_provider_circuit_breaker_state",
				Help: "Circuit breaker state per strategy (0=closed, 1=half-open, 2=open)",
			},
			[]string{"strategy"},
		),
	}

	if registry != nil {
		registry.MustRegister(
			m.cycleDuration,
			m.recordsChecked,
			m.recordsConfirmed,
			m.providerCalls,
			m.providerDuration,
			m.breakerState,
		)
	}

	return m
}

func (m *ReconcileMetrics) ObserveCycle(seconds float64, checked, confirmed int) {
	m.cycleDuration.Observe(seconds)
	m.recordsChecked.Add(float64(checked))
	m.recordsConfirmed.Add(float64(confirmed))
}

func (m *ReconcileMetrics) ObserveProviderCall(strategy, status string, seconds float64) {
	m.providerCalls.WithLabelValues(strategy, status).Inc()
	m.providerDuration.WithLabelValues(strategy).Observe(seconds)
}

func (m *ReconcileMetrics) SetBreakerState(strategy string, state float64) {
	m.breakerState.WithLabelValues(strategy).Set(state)
}
