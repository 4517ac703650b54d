package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation engine Prometheus metrics.
var (
	ScoreCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propmatch",
			Name:      "score_cache_total",
			Help:      "Compatibility score cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ScoringDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "propmatch",
			Name:      "scoring_duration_seconds",
			Help:      "Duration of filter and score passes",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"}, // "recommend" / "score"
	)

	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propmatch",
			Name:      "recommendations_total",
			Help:      "Recommendation requests by outcome",
		},
		[]string{"outcome"}, // "ok" / "empty"
	)

	CriteriaRelaxedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propmatch",
			Name:      "criteria_relaxed_total",
			Help:      "Filter criteria skipped because they would empty the candidate set",
		},
		[]string{"criterion"},
	)

	SnapshotSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "propmatch",
			Name:      "snapshot_size",
			Help:      "Number of loaded records",
		},
		[]string{"kind"}, // "properties" / "pois"
	)

	ReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propmatch",
			Name:      "reloads_total",
			Help:      "Snapshot reloads by kind and status",
		},
		[]string{"kind", "status"},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers the engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(ScoreCacheTotal)
	prometheus.MustRegister(ScoringDuration)
	prometheus.MustRegister(RecommendationsTotal)
	prometheus.MustRegister(CriteriaRelaxedTotal)
	prometheus.MustRegister(SnapshotSize)
	prometheus.MustRegister(ReloadsTotal)
	engineMetricsRegistered = true
}
