// Package notify delivers alerts for failures the engine could not
// resolve. Delivery is fire-and-forget: the engine logs publish errors
// and never surfaces them to the request path.
package notify

import (
	"context"

	"github.com/vietddude/mender/internal/core/domain"
)

// Notifier is the outbound notification collaborator. ProcessError is
// invoked only for unresolved CRITICAL-severity failures.
type Notifier interface {
	ProcessError(ctx context.Context, event *domain.ErrorEvent, result *domain.HealingResult) error
}

// Nop discards all notifications. Used when no redis URL is configured.
type Nop struct{}

func (Nop) ProcessError(ctx context.Context, event *domain.ErrorEvent, result *domain.HealingResult) error {
	return nil
}
