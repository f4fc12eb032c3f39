package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/mender/internal/core/domain"
)

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Channel  string `yaml:"channel"`
}

// Publisher publishes critical alerts to a Redis channel.
type Publisher struct {
	rdb     *redis.Client
	channel string
}

// NewPublisher creates a Redis-backed notifier.
func NewPublisher(cfg Config) (*Publisher, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	channel := cfg.Channel
	if channel == "" {
		channel = "mender:alerts"
	}

	return &Publisher{rdb: rdb, channel: channel}, nil
}

// Close closes the Redis connection.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}

type alert struct {
	Kind       string    `json:"kind"`
	Category   string    `json:"category"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
	RequestID  string    `json:"request_id,omitempty"`
	StrategyID string    `json:"strategy_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProcessError publishes an unresolved failure to the alert channel.
func (p *Publisher) ProcessError(ctx context.Context, event *domain.ErrorEvent, result *domain.HealingResult) error {
	payload, err := json.Marshal(alert{
		Kind:       event.Kind,
		Category:   string(event.Category),
		Severity:   string(event.Severity),
		Message:    event.Message,
		RequestID:  event.Context.RequestID,
		StrategyID: result.StrategyID,
		OccurredAt: event.Context.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}
	return nil
}
