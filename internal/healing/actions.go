package healing

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/vietddude/mender/internal/core/config"
	"github.com/vietddude/mender/internal/core/domain"
)

// Hooks supplies the executable bodies for config-declared actions.
// FALLBACK and DEGRADE are self-contained; the other types need a hook
// from the host application.
type Hooks struct {
	// Retry re-runs the failed operation.
	Retry func(ctx context.Context, event *domain.ErrorEvent) error
	// Reconnect re-establishes a backend connection (e.g. a DB ping).
	Reconnect func(ctx context.Context) error
	// Restart restarts a degraded subsystem.
	Restart func(ctx context.Context) error
}

// backoffFor builds the internal retry budget of a single action.
// MaxAttempts is the total number of tries the action makes inside its
// own body; the executor still invokes the action exactly once.
func backoffFor(maxAttempts int) retry.Backoff {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	b := retry.NewExponential(500 * time.Millisecond)
	return retry.WithMaxRetries(uint64(maxAttempts-1), b)
}

// RetryAction re-runs the failed operation with exponential backoff.
func RetryAction(description string, timeout time.Duration, maxAttempts int, op func(ctx context.Context, event *domain.ErrorEvent) error) domain.RecoveryAction {
	return domain.RecoveryAction{
		Type:        domain.ActionRetry,
		Description: description,
		Timeout:     timeout,
		MaxAttempts: maxAttempts,
		Execute: func(ctx context.Context, event *domain.ErrorEvent, req *domain.RequestState) error {
			return retry.Do(ctx, backoffFor(maxAttempts), func(ctx context.Context) error {
				if err := op(ctx, event); err != nil {
					return retry.RetryableError(err)
				}
				return nil
			})
		},
	}
}

// ReconnectAction re-establishes a backend connection with backoff.
func ReconnectAction(description string, timeout time.Duration, maxAttempts int, reconnect func(ctx context.Context) error) domain.RecoveryAction {
	return domain.RecoveryAction{
		Type:        domain.ActionReconnect,
		Description: description,
		Timeout:     timeout,
		MaxAttempts: maxAttempts,
		Execute: func(ctx context.Context, event *domain.ErrorEvent, req *domain.RequestState) error {
			return retry.Do(ctx, backoffFor(maxAttempts), func(ctx context.Context) error {
				if err := reconnect(ctx); err != nil {
					return retry.RetryableError(err)
				}
				return nil
			})
		},
	}
}

// FallbackAction flags the request to be served from a fallback source.
func FallbackAction(description string, timeout time.Duration) domain.RecoveryAction {
	return domain.RecoveryAction{
		Type:        domain.ActionFallback,
		Description: description,
		Timeout:     timeout,
		MaxAttempts: 1,
		Execute: func(ctx context.Context, event *domain.ErrorEvent, req *domain.RequestState) error {
			if req != nil {
				req.EngageFallback()
			}
			return nil
		},
	}
}

// DegradeAction flags the request for reduced-functionality handling.
func DegradeAction(description string, timeout time.Duration) domain.RecoveryAction {
	return domain.RecoveryAction{
		Type:        domain.ActionDegrade,
		Description: description,
		Timeout:     timeout,
		MaxAttempts: 1,
		Execute: func(ctx context.Context, event *domain.ErrorEvent, req *domain.RequestState) error {
			if req != nil {
				req.Degrade()
			}
			return nil
		},
	}
}

// RestartAction triggers the host's restart hook.
func RestartAction(description string, timeout time.Duration, restart func(ctx context.Context) error) domain.RecoveryAction {
	return domain.RecoveryAction{
		Type:        domain.ActionRestart,
		Description: description,
		Timeout:     timeout,
		MaxAttempts: 1,
		Execute: func(ctx context.Context, event *domain.ErrorEvent, req *domain.RequestState) error {
			return restart(ctx)
		},
	}
}

// BuildStrategy resolves a declarative strategy config into a runnable
// strategy, binding each action type to its built-in body.
func BuildStrategy(cfg config.StrategyConfig, hooks Hooks) (*domain.RecoveryStrategy, error) {
	s := &domain.RecoveryStrategy{
		ID:         cfg.ID,
		Name:       cfg.Name,
		ErrorKinds: cfg.ErrorKinds,
		Category:   domain.Category(cfg.Category),
		MaxPerHour: cfg.MaxPerHour,
		Cooldown:   cfg.CooldownD,
	}
	for _, sev := range cfg.Severities {
		s.Severities = append(s.Severities, domain.Severity(sev))
	}

	for _, ac := range cfg.Actions {
		action, err := buildAction(ac, hooks)
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", cfg.ID, err)
		}
		s.Actions = append(s.Actions, action)
	}
	if len(s.Actions) == 0 {
		return nil, fmt.Errorf("strategy %s declares no actions", cfg.ID)
	}

	return s, nil
}

func buildAction(cfg config.ActionConfig, hooks Hooks) (domain.RecoveryAction, error) {
	switch domain.ActionType(cfg.Type) {
	case domain.ActionRetry:
		if hooks.Retry == nil {
			return domain.RecoveryAction{}, fmt.Errorf("no retry hook registered for action %q", cfg.Type)
		}
		return RetryAction(cfg.Description, cfg.TimeoutD, cfg.MaxAttempts, hooks.Retry), nil
	case domain.ActionReconnect:
		if hooks.Reconnect == nil {
			return domain.RecoveryAction{}, fmt.Errorf("no reconnect hook registered for action %q", cfg.Type)
		}
		return ReconnectAction(cfg.Description, cfg.TimeoutD, cfg.MaxAttempts, hooks.Reconnect), nil
	case domain.ActionRestart:
		if hooks.Restart == nil {
			return domain.RecoveryAction{}, fmt.Errorf("no restart hook registered for action %q", cfg.Type)
		}
		return RestartAction(cfg.Description, cfg.TimeoutD, hooks.Restart), nil
	case domain.ActionFallback:
		return FallbackAction(cfg.Description, cfg.TimeoutD), nil
	case domain.ActionDegrade:
		return DegradeAction(cfg.Description, cfg.TimeoutD), nil
	default:
		return domain.RecoveryAction{}, fmt.Errorf("unknown action type %q", cfg.Type)
	}
}
