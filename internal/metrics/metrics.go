// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "candidate_ranker_requests_total",
			Help: "Total number of scoring requests by outcome",
		},
		[]string{"status"},
	)

	requestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "candidate_ranker_request_duration_seconds",
			Help:    "Duration of scoring requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	cacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "candidate_ranker_cache_operations_total",
			Help: "Cache operations by tier, operation and result",
		},
		[]string{"tier", "op", "result"},
	)

	oracleCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "candidate_ranker_oracle_calls_total",
			Help: "Oracle invocations by provider and status",
		},
		[]string{"provider", "status"},
	)

	batchesDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "candidate_ranker_batches_degraded_total",
			Help: "Batches that fell back to heuristic scoring",
		},
	)

	candidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "candidate_ranker_candidates_scored_total",
			Help: "Total number of candidates scored",
		},
	)

	admissionRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "candidate_ranker_admission_rejections_total",
			Help: "Requests rejected before processing, by reason",
		},
		[]string{"reason"},
	)
)

func RecordRequest(status string, duration time.Duration) {
	requestsTotal.WithLabelValues(status).Inc()
	requestDuration.Observe(duration.Seconds())
}

func RecordCacheOperation(tier, op, result string) {
	cacheOperations.WithLabelValues(tier, op, result).Inc()
}

func RecordOracleCall(provider, status string) {
	oracleCalls.WithLabelValues(provider, status).Inc()
}

func RecordBatchDegraded() {
	batchesDegraded.Inc()
}

func RecordCandidatesScored(n int) {
	candidatesScored.Add(float64(n))
}

func RecordAdmissionRejection(reason string) {
	admissionRejections.WithLabelValues(reason).Inc()
}
