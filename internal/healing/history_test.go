package healing

import (
	"testing"
	"time"
)

func TestHistory_BoundedAt100(t *testing.T) {
	h := NewHistory(0) // default limit

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	i := 0
	h.clock = func() time.Time {
		i++
		return base.Add(time.Duration(i) * time.Second)
	}

	for n := 0; n < 150; n++ {
		h.Record("db", true)
	}

	records := h.Get("db")
	if len(records) != 100 {
		t.Fatalf("expected 100 records, got %d", len(records))
	}

	// The retained records are the 100 most recent: the newest entry is
	// record 150, the oldest retained is record 51.
	if records[0].Timestamp != base.Add(150*time.Second) {
		t.Errorf("newest record has wrong timestamp: %v", records[0].Timestamp)
	}
	if records[99].Timestamp != base.Add(51*time.Second) {
		t.Errorf("oldest retained record has wrong timestamp: %v", records[99].Timestamp)
	}
}

func TestHistory_GetNewestFirst(t *testing.T) {
	h := NewHistory(10)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	i := 0
	h.clock = func() time.Time {
		i++
		return base.Add(time.Duration(i) * time.Minute)
	}

	h.Record("db", true)
	h.Record("db", false)
	h.Record("db", true)

	records := h.Get("db")
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for j := 1; j < len(records); j++ {
		if records[j].Timestamp.After(records[j-1].Timestamp) {
			t.Fatal("records not sorted newest first")
		}
	}
	if !records[0].Success || !records[2].Success || records[1].Success {
		t.Error("record order does not reflect recording sequence")
	}
}

func TestHistory_CountSinceAndLast(t *testing.T) {
	h := NewHistory(10)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	times := []time.Time{
		base.Add(-2 * time.Hour),
		base.Add(-30 * time.Minute),
		base.Add(-5 * time.Minute),
	}
	i := 0
	h.clock = func() time.Time {
		ts := times[i]
		i++
		return ts
	}

	h.Record("db", true)
	h.Record("db", false)
	h.Record("db", true)

	if got := h.CountSince("db", base.Add(-time.Hour)); got != 2 {
		t.Errorf("expected 2 records within the hour, got %d", got)
	}

	last, ok := h.Last("db")
	if !ok {
		t.Fatal("expected a last record")
	}
	if last.Timestamp != times[2] {
		t.Errorf("expected last record at %v, got %v", times[2], last.Timestamp)
	}

	if _, ok := h.Last("unknown"); ok {
		t.Error("expected no record for unknown strategy")
	}
}

func TestHistory_PruneOlderThan(t *testing.T) {
	h := NewHistory(50)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	i := 0
	h.clock = func() time.Time {
		i++
		return base.Add(time.Duration(i) * time.Hour)
	}

	for n := 0; n < 30; n++ {
		h.Record("db", true)
	}

	// Records are at hour 1..30; cut everything before hour 25.
	pruned := h.PruneOlderThan(base.Add(25 * time.Hour))
	if pruned != 24 {
		t.Errorf("expected 24 pruned, got %d", pruned)
	}
	if got := len(h.Get("db")); got != 6 {
		t.Errorf("expected 6 remaining, got %d", got)
	}

	// Pruning everything removes the strategy entry entirely.
	pruned = h.PruneOlderThan(base.Add(100 * time.Hour))
	if pruned != 6 {
		t.Errorf("expected 6 pruned, got %d", pruned)
	}
	if got := len(h.Get("db")); got != 0 {
		t.Errorf("expected empty history, got %d", got)
	}
}

func TestHistory_Snapshot(t *testing.T) {
	h := NewHistory(50)

	st := h.Snapshot()
	if st.TotalActivations != 0 || st.SuccessRatePct != 0 || st.LastActivation != nil {
		t.Errorf("expected zero snapshot, got %+v", st)
	}

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	i := 0
	h.clock = func() time.Time {
		i++
		return base.Add(time.Duration(i) * time.Minute)
	}

	h.Record("db", true)
	h.Record("db", true)
	h.Record("svc", false)

	st = h.Snapshot()
	if st.StrategiesWithHistory != 2 {
		t.Errorf("expected 2 strategies with history, got %d", st.StrategiesWithHistory)
	}
	if st.TotalActivations != 3 {
		t.Errorf("expected 3 activations, got %d", st.TotalActivations)
	}
	if st.SuccessRatePct != 66.67 {
		t.Errorf("expected 66.67%%, got %v", st.SuccessRatePct)
	}
	if st.LastActivation == nil || *st.LastActivation != base.Add(3*time.Minute) {
		t.Errorf("wrong last activation: %v", st.LastActivation)
	}
}
