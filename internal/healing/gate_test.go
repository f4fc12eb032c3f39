package healing

import (
	"testing"
	"time"
)

func TestGate_FrequencyLimit(t *testing.T) {
	h := NewHistory(100)
	g := NewGate(h)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h.clock = func() time.Time { return now }
	g.clock = func() time.Time { return now }

	s := makeStrategy("db")
	s.MaxPerHour = 3

	for i := 0; i < 3; i++ {
		if ok, reason := g.Allow(s); !ok {
			t.Fatalf("activation %d should be allowed, got %q", i+1, reason)
		}
		h.Record(s.ID, true)
	}

	ok, reason := g.Allow(s)
	if ok {
		t.Fatal("4th activation within the hour should be blocked")
	}
	if reason != "blocked by frequency limit" {
		t.Errorf("unexpected reason: %q", reason)
	}

	// An hour later the window has slid past the old records.
	now = now.Add(61 * time.Minute)
	if ok, _ := g.Allow(s); !ok {
		t.Error("activation should be allowed after the window slides")
	}
}

func TestGate_Cooldown(t *testing.T) {
	h := NewHistory(100)
	g := NewGate(h)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h.clock = func() time.Time { return now }
	g.clock = func() time.Time { return now }

	s := makeStrategy("db")
	s.Cooldown = 5 * time.Minute

	if ok, _ := g.Allow(s); !ok {
		t.Fatal("first activation should be allowed")
	}
	h.Record(s.ID, false)

	now = now.Add(2 * time.Minute)
	ok, reason := g.Allow(s)
	if ok {
		t.Fatal("activation inside cooldown should be blocked")
	}
	if reason != "blocked by cooldown" {
		t.Errorf("unexpected reason: %q", reason)
	}

	now = now.Add(4 * time.Minute)
	if ok, _ := g.Allow(s); !ok {
		t.Error("activation after cooldown should be allowed")
	}
}

func TestGate_NoPolicyAlwaysAllows(t *testing.T) {
	h := NewHistory(100)
	g := NewGate(h)

	s := makeStrategy("db") // no MaxPerHour, no Cooldown

	for i := 0; i < 20; i++ {
		if ok, _ := g.Allow(s); !ok {
			t.Fatal("strategy without activation policy should never be gated")
		}
		h.Record(s.ID, true)
	}
}
