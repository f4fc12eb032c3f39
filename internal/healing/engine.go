// Package healing implements the adaptive failure-recovery engine:
// classified failures are matched against registered strategies, gated
// by frequency and cooldown policy, and remediated by a bounded,
// ordered chain of recovery actions.
package healing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/mender/internal/core/domain"
	"github.com/vietddude/mender/internal/infra/notify"
	"github.com/vietddude/mender/internal/infra/report"
)

// collaboratorTimeout bounds the fire-and-forget report/notify calls.
const collaboratorTimeout = 5 * time.Second

// Engine is the recovery orchestrator. It owns all engine state; one
// instance is constructed at process start and handed to request
// handlers. There is no package-level singleton.
type Engine struct {
	registry *Registry
	history  *History
	gate     *Gate
	executor *Executor
	reporter report.Reporter
	notifier notify.Notifier
	log      *slog.Logger
	clock    func() time.Time
}

// Options configures an Engine. Nil collaborators default to no-ops.
type Options struct {
	HistoryLimit int
	Reporter     report.Reporter
	Notifier     notify.Notifier
	Logger       *slog.Logger
}

func NewEngine(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = report.Nop{}
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}

	history := NewHistory(opts.HistoryLimit)
	return &Engine{
		registry: NewRegistry(),
		history:  history,
		gate:     NewGate(history),
		executor: NewExecutor(log),
		reporter: reporter,
		notifier: notifier,
		log:      log,
		clock:    time.Now,
	}
}

// RegisterStrategy adds a strategy to the engine's registry.
func (e *Engine) RegisterStrategy(s *domain.RecoveryStrategy) error {
	if err := e.registry.Register(s); err != nil {
		return err
	}
	strategiesRegistered.Set(float64(e.registry.Len()))
	e.log.Info("registered recovery strategy", "id", s.ID, "actions", len(s.Actions))
	return nil
}

// Strategies returns the registered strategies in registration order.
func (e *Engine) Strategies() []*domain.RecoveryStrategy {
	return e.registry.List()
}

// HistoryFor returns activation records, newest first. An empty id
// returns records across all strategies.
func (e *Engine) HistoryFor(strategyID string) []domain.ActivationRecord {
	if strategyID == "" {
		return e.history.All()
	}
	return e.history.Get(strategyID)
}

// HistoryStore exposes the activation history, mainly for the janitor.
func (e *Engine) HistoryStore() *History {
	return e.history
}

// Snapshot returns aggregate activation stats for health reporting.
func (e *Engine) Snapshot() (total int, st Stats) {
	return e.registry.Len(), e.history.Snapshot()
}

// EnableStrategy reports whether the strategy is currently registered.
// The registry keeps no inactive set: a disabled strategy can only come
// back through re-registration with its full definition.
func (e *Engine) EnableStrategy(id string) bool {
	_, ok := e.registry.Find(id)
	return ok
}

// DisableStrategy removes the strategy from the registry. Idempotent:
// returns false when the id is absent, never errors.
func (e *Engine) DisableStrategy(id string) bool {
	removed := e.registry.Unregister(id)
	if removed {
		strategiesRegistered.Set(float64(e.registry.Len()))
		e.log.Info("disabled recovery strategy", "id", id)
	}
	return removed
}

// Heal attempts recovery for the classified failure. It never panics
// and never returns an error: every outcome, including engine bugs, is
// folded into the HealingResult.
func (e *Engine) Heal(
	ctx context.Context,
	event *domain.ErrorEvent,
	req *domain.RequestState,
) (result *domain.HealingResult) {
	start := e.clock()

	defer func() {
		if r := recover(); r != nil {
			result = &domain.HealingResult{
				StrategyID: domain.StrategyNone,
				Success:    false,
				Duration:   e.clock().Sub(start),
				Message:    fmt.Sprintf("recovery process failed: %v", r),
			}
			e.log.Error("healing engine panicked", "panic", r)
			e.finish(event, result)
		}
	}()

	strategy, ok := e.registry.Match(event)
	if !ok {
		healingAttempts.WithLabelValues(domain.StrategyNone, "no_match").Inc()
		return &domain.HealingResult{
			StrategyID: domain.StrategyNone,
			Success:    false,
			Duration:   e.clock().Sub(start),
			Message:    "no matching strategy",
		}
	}

	if allowed, reason := e.gate.Allow(strategy); !allowed {
		healingAttempts.WithLabelValues(strategy.ID, "blocked").Inc()
		e.log.Debug("strategy activation gated", "strategy", strategy.ID, "reason", reason)
		return &domain.HealingResult{
			StrategyID: strategy.ID,
			Success:    false,
			Blocked:    true,
			Duration:   e.clock().Sub(start),
			Message:    reason,
		}
	}

	e.log.Info("activating recovery strategy",
		"strategy", strategy.ID,
		"kind", event.Kind,
		"severity", event.Severity,
	)

	success, actions := e.executor.Run(ctx, strategy, event, req)
	e.history.Record(strategy.ID, success)

	for _, a := range actions {
		actionRuns.WithLabelValues(string(a.Type), outcomeLabel(a.Success)).Inc()
	}
	healingAttempts.WithLabelValues(strategy.ID, outcomeLabel(success)).Inc()

	duration := e.clock().Sub(start)
	healingDuration.WithLabelValues(strategy.ID).Observe(duration.Seconds())

	msg := fmt.Sprintf("strategy %s recovered the failure", strategy.ID)
	if !success {
		msg = fmt.Sprintf("strategy %s exhausted all %d actions", strategy.ID, len(actions))
	}

	result = &domain.HealingResult{
		StrategyID:   strategy.ID,
		Success:      success,
		Actions:      actions,
		Duration:     duration,
		FallbackMode: req != nil && req.FallbackEngaged(),
		Message:      msg,
	}
	e.finish(event, result)
	return result
}

// finish forwards the outcome to the external collaborators. Both calls
// are fire-and-forget: failures are logged, never propagated.
func (e *Engine) finish(event *domain.ErrorEvent, result *domain.HealingResult) {
	if event == nil || result == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
		defer cancel()

		if err := e.reporter.CreateErrorReport(ctx, event, result); err != nil {
			e.log.Warn("failed to create error report", "error", err)
		}

		if !result.Success && event.Severity == domain.SeverityCritical {
			if err := e.notifier.ProcessError(ctx, event, result); err != nil {
				e.log.Warn("failed to send critical notification", "error", err)
			}
		}
	}()
}

func outcomeLabel(success bool) string {
	if success {
		return "healed"
	}
	return "failed"
}
