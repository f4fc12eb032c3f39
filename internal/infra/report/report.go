// Package report persists error reports for failures that passed
// through the healing engine. Report creation is fire-and-forget from
// the engine's point of view.
package report

import (
	"context"
	"time"

	"github.com/vietddude/mender/internal/core/domain"
)

// Report is one persisted error occurrence with its healing outcome.
type Report struct {
	ID         string    `db:"id"          json:"id"`
	Kind       string    `db:"kind"        json:"kind"`
	Category   string    `db:"category"    json:"category"`
	Severity   string    `db:"severity"    json:"severity"`
	Message    string    `db:"message"     json:"message"`
	RequestID  string    `db:"request_id"  json:"request_id,omitempty"`
	UserID     string    `db:"user_id"     json:"user_id,omitempty"`
	ClientIP   string    `db:"client_ip"   json:"client_ip,omitempty"`
	UserAgent  string    `db:"user_agent"  json:"user_agent,omitempty"`
	Method     string    `db:"method"      json:"method,omitempty"`
	URL        string    `db:"url"         json:"url,omitempty"`
	StrategyID string    `db:"strategy_id" json:"strategy_id"`
	Healed     bool      `db:"healed"      json:"healed"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
}

// Reporter is the outbound error-reporting collaborator.
type Reporter interface {
	CreateErrorReport(ctx context.Context, event *domain.ErrorEvent, result *domain.HealingResult) error
}

// Nop discards all reports. Used when no database is configured.
type Nop struct{}

func (Nop) CreateErrorReport(ctx context.Context, event *domain.ErrorEvent, result *domain.HealingResult) error {
	return nil
}
