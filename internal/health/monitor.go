package health

import (
	"github.com/vietddude/mender/internal/healing"
)

// Monitor derives a health report from the engine's activation stats.
type Monitor struct {
	engine *healing.Engine
}

// NewMonitor creates a new health monitor.
func NewMonitor(engine *healing.Engine) *Monitor {
	return &Monitor{engine: engine}
}

// CheckHealth builds the current engine health report. Status rules:
// no strategies registered is degraded (the engine cannot recover
// anything), a sub-25% success rate with history is critical, sub-75%
// is degraded.
func (m *Monitor) CheckHealth() Report {
	total, stats := m.engine.Snapshot()

	report := Report{
		Status:           StatusHealthy,
		Strategies:       total,
		ActiveStrategies: stats.StrategiesWithHistory,
		TotalActivations: stats.TotalActivations,
		SuccessRatePct:   stats.SuccessRatePct,
		LastActivation:   stats.LastActivation,
	}

	switch {
	case total == 0:
		report.Status = StatusDegraded
	case stats.TotalActivations > 0 && stats.SuccessRatePct < 25:
		report.Status = StatusCritical
	case stats.TotalActivations > 0 && stats.SuccessRatePct < 75:
		report.Status = StatusDegraded
	}

	return report
}
