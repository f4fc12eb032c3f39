package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vietddude/mender/internal/core/domain"
	"github.com/vietddude/mender/internal/healing"
)

func strategyWithOutcome(id string, succeed bool) *domain.RecoveryStrategy {
	return &domain.RecoveryStrategy{
		ID:         id,
		ErrorKinds: []string{"DatabaseError"},
		Category:   domain.CategoryDatabase,
		Severities: []domain.Severity{domain.SeverityHigh},
		Actions: []domain.RecoveryAction{
			{
				Type:        domain.ActionReconnect,
				MaxAttempts: 1,
				Execute: func(ctx context.Context, event *domain.ErrorEvent, req *domain.RequestState) error {
					if succeed {
						return nil
					}
					return errors.New("still broken")
				},
			},
		},
	}
}

func heal(t *testing.T, engine *healing.Engine, times int) {
	t.Helper()
	event := &domain.ErrorEvent{
		Kind:     "DatabaseError",
		Category: domain.CategoryDatabase,
		Severity: domain.SeverityHigh,
	}
	for i := 0; i < times; i++ {
		engine.Heal(context.Background(), event, domain.NewRequestState())
	}
}

func TestMonitor_NoStrategiesIsDegraded(t *testing.T) {
	m := NewMonitor(healing.NewEngine(healing.Options{}))

	report := m.CheckHealth()
	if report.Status != StatusDegraded {
		t.Errorf("expected degraded with no strategies, got %s", report.Status)
	}
	if report.Strategies != 0 || report.ActiveStrategies != 0 {
		t.Errorf("unexpected counts: %+v", report)
	}
}

func TestMonitor_HealthyWithoutHistory(t *testing.T) {
	engine := healing.NewEngine(healing.Options{})
	_ = engine.RegisterStrategy(strategyWithOutcome("db", true))

	report := NewMonitor(engine).CheckHealth()
	if report.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", report.Status)
	}
	if report.Strategies != 1 || report.ActiveStrategies != 0 {
		t.Errorf("unexpected counts: %+v", report)
	}
	if report.LastActivation != nil {
		t.Error("expected no last activation")
	}
}

func TestMonitor_SuccessRateDrivesStatus(t *testing.T) {
	engine := healing.NewEngine(healing.Options{})
	_ = engine.RegisterStrategy(strategyWithOutcome("db", false))

	heal(t, engine, 4)

	report := NewMonitor(engine).CheckHealth()
	if report.Status != StatusCritical {
		t.Errorf("expected critical at 0%% success, got %s", report.Status)
	}
	if report.TotalActivations != 4 {
		t.Errorf("expected 4 activations, got %d", report.TotalActivations)
	}
	if report.SuccessRatePct != 0 {
		t.Errorf("expected 0%% success, got %v", report.SuccessRatePct)
	}
	if report.LastActivation == nil || time.Since(*report.LastActivation) > time.Minute {
		t.Errorf("unexpected last activation: %v", report.LastActivation)
	}
}

func TestMonitor_AllSucceedingIsHealthy(t *testing.T) {
	engine := healing.NewEngine(healing.Options{})
	_ = engine.RegisterStrategy(strategyWithOutcome("db", true))

	heal(t, engine, 3)

	report := NewMonitor(engine).CheckHealth()
	if report.Status != StatusHealthy {
		t.Errorf("expected healthy at 100%% success, got %s", report.Status)
	}
	if report.SuccessRatePct != 100 {
		t.Errorf("expected 100%%, got %v", report.SuccessRatePct)
	}
	if report.ActiveStrategies != 1 {
		t.Errorf("expected 1 active strategy, got %d", report.ActiveStrategies)
	}
}
