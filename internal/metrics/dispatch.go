package metrics

import "github.com/prometheus/client_golang/prometheus"

// Dispatch Prometheus metrics.
var (
	DispatchAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taggate",
			Name:      "dispatch_attempts_total",
			Help:      "Backend attempts by outcome",
		},
		[]string{"outcome"}, // "accepted" / "transport_error" / "server_error"
	)

	DispatchResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taggate",
			Name:      "dispatch_results_total",
			Help:      "Dispatched batches by final result",
		},
		[]string{"result"},
	)

	DispatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "taggate",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent dispatching one batch, all attempts included",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	AuditWriteErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "taggate",
			Name:      "audit_write_errors_total",
			Help:      "Query records that could not be persisted",
		},
	)
)

var dispatchMetricsRegistered bool

// RegisterDispatchMetrics registers gateway dispatch metrics. Must be called once from main.
func RegisterDispatchMetrics() {
	if dispatchMetricsRegistered {
		return
	}
	prometheus.MustRegister(DispatchAttemptsTotal)
	prometheus.MustRegister(DispatchResultsTotal)
	prometheus.MustRegister(DispatchDuration)
	prometheus.MustRegister(AuditWriteErrorsTotal)
	dispatchMetricsRegistered = true
}
