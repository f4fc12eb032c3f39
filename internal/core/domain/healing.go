package domain

import "time"

// StrategyNone is the strategy id reported when no strategy matched.
const StrategyNone = "none"

// ActivationRecord is one completed run of a strategy.
type ActivationRecord struct {
	StrategyID string    `json:"strategy_id"`
	Timestamp  time.Time `json:"timestamp"`
	Success    bool      `json:"success"`
}

// ActionResult is the outcome of a single attempted action.
type ActionResult struct {
	Type     ActionType    `json:"type"`
	Success  bool          `json:"success"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// HealingResult is the outcome contract returned to the engine's caller.
// Actions holds one entry per action actually attempted, in execution
// order, stopping at the first success.
type HealingResult struct {
	StrategyID   string         `json:"strategy_id"`
	Success      bool           `json:"success"`
	Blocked      bool           `json:"blocked,omitempty"`
	Actions      []ActionResult `json:"actions,omitempty"`
	Duration     time.Duration  `json:"total_duration"`
	FallbackMode bool           `json:"fallback_mode,omitempty"`
	Message      string         `json:"message,omitempty"`
}
