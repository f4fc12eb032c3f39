package domain

import (
	"context"
	"time"
)

// ActionFunc is the body of a recovery action. A nil return means the
// action succeeded. Actions may annotate the request state (e.g. flip
// fallback mode) to change downstream behavior.
type ActionFunc func(ctx context.Context, event *ErrorEvent, req *RequestState) error

// RecoveryAction is one remediation step inside a strategy. It is owned
// exclusively by its parent strategy and never shared.
type RecoveryAction struct {
	Type        ActionType    `json:"type"`
	Description string        `json:"description"`
	Timeout     time.Duration `json:"timeout"`
	MaxAttempts int           `json:"max_attempts"`
	Execute     ActionFunc    `json:"-"`
}

type ActionType string

const (
	ActionRetry     ActionType = "RETRY"
	ActionFallback  ActionType = "FALLBACK"
	ActionDegrade   ActionType = "DEGRADE"
	ActionRestart   ActionType = "RESTART"
	ActionReconnect ActionType = "RECONNECT"
)
