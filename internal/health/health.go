// Package health provides system health monitoring and status reporting
// for the healing engine.
package health

import "time"

// SystemStatus represents the overall health state of the engine.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// Report contains the engine health report.
type Report struct {
	Status           SystemStatus `json:"status"`
	Strategies       int          `json:"strategies"`
	ActiveStrategies int          `json:"active_strategies"`
	TotalActivations int          `json:"total_activations"`
	SuccessRatePct   float64      `json:"success_rate_pct"`
	LastActivation   *time.Time   `json:"last_activation,omitempty"`
}
