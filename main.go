package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vietddude/mender/internal/core/domain"
	"github.com/vietddude/mender/internal/healing"
)

// Demo of the healing engine wired programmatically: a flaky database
// that recovers after a couple of reconnect attempts, and an external
// service that only ever works in fallback mode.
func main() {
	engine := healing.NewEngine(healing.Options{})

	attempts := 0
	reconnect := func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	}

	dbStrategy := &domain.RecoveryStrategy{
		ID:         "database-connection",
		Name:       "Database connection recovery",
		ErrorKinds: []string{"DatabaseError", "ConnectionError"},
		Category:   domain.CategoryDatabase,
		Severities: []domain.Severity{domain.SeverityHigh, domain.SeverityCritical},
		MaxPerHour: 10,
		Cooldown:   time.Minute,
		Actions: []domain.RecoveryAction{
			healing.ReconnectAction("Re-establish the database connection", 10*time.Second, 5, reconnect),
			healing.FallbackAction("Serve cached data", time.Second),
		},
	}

	svcStrategy := &domain.RecoveryStrategy{
		ID:         "external-service",
		Name:       "External service degradation",
		ErrorKinds: []string{"ExternalServiceError"},
		Category:   domain.CategoryExternalService,
		Severities: []domain.Severity{domain.SeverityMedium, domain.SeverityHigh},
		Actions: []domain.RecoveryAction{
			healing.FallbackAction("Serve from local cache", time.Second),
			healing.DegradeAction("Disable live enrichment", time.Second),
		},
	}

	for _, s := range []*domain.RecoveryStrategy{dbStrategy, svcStrategy} {
		if err := engine.RegisterStrategy(s); err != nil {
			panic(err)
		}
	}

	fmt.Println("=== Simulating failures ===")

	events := []*domain.ErrorEvent{
		{
			Kind:     "DatabaseError",
			Category: domain.CategoryDatabase,
			Severity: domain.SeverityHigh,
			Message:  "connection pool exhausted",
		},
		{
			Kind:     "ExternalServiceError",
			Category: domain.CategoryExternalService,
			Severity: domain.SeverityMedium,
			Message:  "upstream returned 502",
		},
		{
			Kind:     "ValidationError",
			Category: domain.CategoryValidation,
			Severity: domain.SeverityLow,
			Message:  "no strategy covers this one",
		},
	}

	for i, event := range events {
		state := domain.NewRequestState()
		result := engine.Heal(context.Background(), event, state)

		fmt.Printf("\nEvent %d: %s (%s/%s)\n", i+1, event.Kind, event.Category, event.Severity)
		fmt.Printf("  strategy: %s, healed: %v\n", result.StrategyID, result.Success)
		for _, a := range result.Actions {
			fmt.Printf("  action %s: success=%v in %v\n", a.Type, a.Success, a.Duration.Round(time.Millisecond))
		}
		if result.FallbackMode {
			fmt.Println("  fallback mode engaged")
		}
	}

	total, stats := engine.Snapshot()
	fmt.Printf("\n=== Engine health ===\n")
	fmt.Printf("Strategies: %d (%d with history)\n", total, stats.StrategiesWithHistory)
	fmt.Printf("Success rate: %.2f%% over %d activations\n", stats.SuccessRatePct, stats.TotalActivations)
}
