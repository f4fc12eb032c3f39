package healing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/mender/internal/core/domain"
)

// Executor runs a strategy's ordered action list, enforcing the
// per-action timeout and short-circuiting on the first success.
type Executor struct {
	log   *slog.Logger
	clock func() time.Time
}

func NewExecutor(log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{log: log, clock: time.Now}
}

// Run executes the strategy's actions in list order. Each action runs
// under its own deadline; an action that outlives its timeout is
// abandoned, not killed, and its slot is recorded as a timeout failure.
// The first successful action stops the chain. Overall success is the
// success of the last attempted action.
func (e *Executor) Run(
	ctx context.Context,
	s *domain.RecoveryStrategy,
	event *domain.ErrorEvent,
	req *domain.RequestState,
) (bool, []domain.ActionResult) {
	results := make([]domain.ActionResult, 0, len(s.Actions))

	for i := range s.Actions {
		action := &s.Actions[i]
		res := e.runAction(ctx, action, event, req)
		results = append(results, res)

		if res.Success {
			return true, results
		}
		e.log.Debug("recovery action failed",
			"strategy", s.ID,
			"action", action.Type,
			"error", res.Error,
		)
	}

	return false, results
}

func (e *Executor) runAction(
	ctx context.Context,
	action *domain.RecoveryAction,
	event *domain.ErrorEvent,
	req *domain.RequestState,
) domain.ActionResult {
	start := e.clock()
	err := e.invoke(ctx, action, event, req)
	res := domain.ActionResult{
		Type:     action.Type,
		Success:  err == nil,
		Duration: e.clock().Sub(start),
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// invoke races the action body against its timeout. The action context
// is detached from the caller's cancellation so that an in-flight
// action finishes or hits its own deadline even if the surrounding
// request goes away; recovery side effects must not be half-applied.
func (e *Executor) invoke(
	ctx context.Context,
	action *domain.RecoveryAction,
	event *domain.ErrorEvent,
	req *domain.RequestState,
) error {
	if action.Execute == nil {
		return fmt.Errorf("action %s has no execute body", action.Type)
	}

	actx := context.WithoutCancel(ctx)
	if action.Timeout <= 0 {
		return safeExecute(actx, action, event, req)
	}

	actx, cancel := context.WithTimeout(actx, action.Timeout)

	done := make(chan error, 1)
	go func() {
		defer cancel()
		done <- safeExecute(actx, action, event, req)
	}()

	select {
	case err := <-done:
		return err
	case <-actx.Done():
		return fmt.Errorf("action timeout after %s", action.Timeout)
	}
}

func safeExecute(
	ctx context.Context,
	action *domain.RecoveryAction,
	event *domain.ErrorEvent,
	req *domain.RequestState,
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked: %v", r)
		}
	}()
	return action.Execute(ctx, event, req)
}
