package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval pipeline Prometheus metrics.
var (
	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sakhee",
			Name:      "retrieval_stage_duration_seconds",
			Help:      "Per-stage retrieval duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"stage"},
	)

	StageQueryFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sakhee",
			Name:      "retrieval_stage_query_failures_total",
			Help:      "Failed queries per stage",
		},
		[]string{"stage"},
	)

	CandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sakhee",
			Name:      "retrieval_candidates_total",
			Help:      "Candidates counted at each pipeline step",
		},
		[]string{"stage", "step"}, // step: retrieved / filtered / selected
	)

	ContextTruncatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sakhee",
			Name:      "retrieval_context_truncated_total",
			Help:      "Aggregated contexts cut off by the size budget",
		},
	)

	RequestsDegradedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sakhee",
			Name:      "retrieval_requests_degraded_total",
			Help:      "Requests answered with one or more stages missing",
		},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers Prometheus retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(StageDuration)
	prometheus.MustRegister(StageQueryFailures)
	prometheus.MustRegister(CandidatesTotal)
	prometheus.MustRegister(ContextTruncatedTotal)
	prometheus.MustRegister(RequestsDegradedTotal)
	retrievalMetricsRegistered = true
}
