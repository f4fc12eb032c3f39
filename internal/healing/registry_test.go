package healing

import (
	"errors"
	"testing"

	"github.com/vietddude/mender/internal/core/domain"
)

func makeStrategy(id string, kinds ...string) *domain.RecoveryStrategy {
	if len(kinds) == 0 {
		kinds = []string{"DatabaseError"}
	}
	return &domain.RecoveryStrategy{
		ID:         id,
		Name:       id,
		ErrorKinds: kinds,
		Category:   domain.CategoryDatabase,
		Severities: []domain.Severity{domain.SeverityHigh},
		Actions: []domain.RecoveryAction{
			FallbackAction("test fallback", 0),
		},
	}
}

func TestRegistry_DuplicateID(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(makeStrategy("db")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	err := r.Register(makeStrategy("db"))
	if !errors.Is(err, ErrDuplicateStrategy) {
		t.Errorf("expected ErrDuplicateStrategy, got %v", err)
	}
}

func TestRegistry_ListPreservesOrder(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		if err := r.Register(makeStrategy(id)); err != nil {
			t.Fatalf("register %s failed: %v", id, err)
		}
	}

	got := r.List()
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("expected %d strategies, got %d", len(want), len(got))
	}
	for i, s := range got {
		if s.ID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], s.ID)
		}
	}
}

func TestRegistry_UnregisterIdempotent(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(makeStrategy("db"))

	if !r.Unregister("db") {
		t.Error("expected true removing existing strategy")
	}
	if r.Unregister("db") {
		t.Error("expected false removing absent strategy")
	}
	if r.Unregister("never-existed") {
		t.Error("expected false for unknown id")
	}
}

func TestRegistry_MatchFirstWins(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(makeStrategy("first", "DatabaseError"))
	_ = r.Register(makeStrategy("second", "DatabaseError"))

	event := &domain.ErrorEvent{
		Kind:     "DatabaseError",
		Category: domain.CategoryDatabase,
		Severity: domain.SeverityHigh,
	}

	// Deterministic: same registration order, same winner, every time.
	for i := 0; i < 10; i++ {
		s, ok := r.Match(event)
		if !ok {
			t.Fatal("expected a match")
		}
		if s.ID != "first" {
			t.Fatalf("expected first registered strategy to win, got %s", s.ID)
		}
	}
}

func TestRegistry_MatchPredicates(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(makeStrategy("db"))

	tests := []struct {
		name  string
		event domain.ErrorEvent
		match bool
	}{
		{
			"all predicates hold",
			domain.ErrorEvent{Kind: "DatabaseError", Category: domain.CategoryDatabase, Severity: domain.SeverityHigh},
			true,
		},
		{
			"kind via secondary code",
			domain.ErrorEvent{Kind: "QueryError", Code: "DatabaseError", Category: domain.CategoryDatabase, Severity: domain.SeverityHigh},
			true,
		},
		{
			"wrong category",
			domain.ErrorEvent{Kind: "DatabaseError", Category: domain.CategorySystem, Severity: domain.SeverityHigh},
			false,
		},
		{
			"severity not covered",
			domain.ErrorEvent{Kind: "DatabaseError", Category: domain.CategoryDatabase, Severity: domain.SeverityLow},
			false,
		},
		{
			"unknown kind",
			domain.ErrorEvent{Kind: "AuthError", Category: domain.CategoryDatabase, Severity: domain.SeverityHigh},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := r.Match(&tt.event)
			if ok != tt.match {
				t.Errorf("expected match=%v, got %v", tt.match, ok)
			}
		})
	}
}
