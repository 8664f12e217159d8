package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the judging module.
// Tracks rating volume and the latency of the two read-model hot paths.
type Metrics struct {
	RatingsUpserted     prometheus.Counter
	AggregateDuration   prometheus.Histogram
	LeaderboardDuration prometheus.Histogram
	LeaderboardCacheHit *prometheus.CounterVec
}

// New creates a Metrics instance with all judging module metrics registered.
func New() *Metrics {
	return &Metrics{
		RatingsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hackhub_ratings_upserted_total",
			Help: "Total number of rating submissions (creates and replacements)",
		}),
		AggregateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hackhub_aggregate_duration_seconds",
			Help:    "Duration of per-team score aggregation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		LeaderboardDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hackhub_leaderboard_duration_seconds",
			Help:    "Duration of full leaderboard ranking",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		LeaderboardCacheHit: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hackhub_leaderboard_cache_total",
			Help: "Leaderboard cache lookups by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveAggregate records the duration of an aggregation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveAggregate(start time.Time) {
	m.AggregateDuration.Observe(time.Since(start).Seconds())
}

// ObserveLeaderboard records the duration of a ranking pass.
func (m *Metrics) ObserveLeaderboard(start time.Time) {
	m.LeaderboardDuration.Observe(time.Since(start).Seconds())
}
