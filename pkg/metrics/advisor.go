package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of recommendation oracle generation calls
	OracleGenerateLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "advisor_oracle_generate_latency_seconds",
		Help:    "Latency of recommendation oracle generation calls",
		Buckets: prometheus.DefBuckets,
	})

	// Total insight batches generated (cache misses that reached the oracle)
	InsightBatchesGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "advisor_insight_batches_generated_total",
		Help: "Total insight batches generated via the oracle",
	})

	// Batch loads served from cache without an oracle call
	InsightCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "advisor_insight_cache_hits_total",
		Help: "Insight batch loads served from cache",
	})

	// Insights dropped by the bundle conflict filter
	ConflictsFiltered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "advisor_conflicts_filtered_total",
		Help: "Bundle insights dropped because a member item was already grouped",
	})

	// Executions by insight kind and outcome
	InsightExecutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_insight_executions_total",
		Help: "Insight executions by kind and outcome",
	}, []string{"kind", "outcome"})

	// Compensations run after a partial bundle creation
	BundleCompensations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "advisor_bundle_compensations_total",
		Help: "Bundle creations rolled back after membership insert failure",
	})
)

func Init() {
	prometheus.MustRegister(
		OracleGenerateLatency,
		InsightBatchesGenerated,
		InsightCacheHits,
		ConflictsFiltered,
		InsightExecutions,
		BundleCompensations,
	)
}
