package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/mender/internal/core/domain"
	"github.com/vietddude/mender/internal/infra/storage/postgres"
)

// PostgresReporter implements Reporter using PostgreSQL.
type PostgresReporter struct {
	db *postgres.DB
}

// NewPostgresReporter creates a new PostgreSQL error reporter.
func NewPostgresReporter(db *postgres.DB) *PostgresReporter {
	return &PostgresReporter{db: db}
}

// CreateErrorReport inserts one report row for the event and outcome.
func (r *PostgresReporter) CreateErrorReport(
	ctx context.Context,
	event *domain.ErrorEvent,
	result *domain.HealingResult,
) error {
	rep := &Report{
		ID:         uuid.New().String(),
		Kind:       event.Kind,
		Category:   string(event.Category),
		Severity:   string(event.Severity),
		Message:    event.Message,
		RequestID:  event.Context.RequestID,
		UserID:     event.Context.UserID,
		ClientIP:   event.Context.ClientIP,
		UserAgent:  event.Context.UserAgent,
		Method:     event.Context.Method,
		URL:        event.Context.URL,
		StrategyID: result.StrategyID,
		Healed:     result.Success,
		CreatedAt:  time.Now().UTC(),
	}

	query := `
		INSERT INTO error_reports (
			id, kind, category, severity, message,
			request_id, user_id, client_ip, user_agent, method, url,
			strategy_id, healed, created_at
		) VALUES (
			:id, :kind, :category, :severity, :message,
			:request_id, :user_id, :client_ip, :user_agent, :method, :url,
			:strategy_id, :healed, :created_at
		)
	`

	if _, err := r.db.NamedExecContext(ctx, query, rep); err != nil {
		return fmt.Errorf("failed to insert error report: %w", err)
	}
	return nil
}

// Recent returns the most recent reports, newest first.
func (r *PostgresReporter) Recent(ctx context.Context, limit int) ([]*Report, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, kind, category, severity, message,
		       request_id, user_id, client_ip, user_agent, method, url,
		       strategy_id, healed, created_at
		FROM error_reports
		ORDER BY created_at DESC
		LIMIT $1
	`
	var reports []*Report
	if err := r.db.SelectContext(ctx, &reports, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query error reports: %w", err)
	}
	return reports, nil
}
