package healing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// healingAttempts tracks Heal calls per strategy and outcome.
	// Outcome is one of: healed, failed, blocked, no_match.
	healingAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mender_healing_attempts_total",
			Help: "Total number of healing attempts",
		},
		[]string{"strategy", "outcome"},
	)

	// actionRuns tracks individual action executions.
	actionRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mender_action_runs_total",
			Help: "Total number of recovery action executions",
		},
		[]string{"action_type", "outcome"},
	)

	// healingDuration tracks end-to-end Heal latency.
	healingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mender_healing_duration_seconds",
			Help:    "Healing attempt duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	// strategiesRegistered tracks the current registry size.
	strategiesRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mender_strategies_registered",
			Help: "Number of currently registered recovery strategies",
		},
	)
)
