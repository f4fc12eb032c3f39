package healing

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/vietddude/mender/internal/core/domain"
)

// DefaultHistoryLimit caps the number of records kept per strategy.
const DefaultHistoryLimit = 100

// History is the append-only activation log, bounded per strategy.
// Oldest entries are dropped first once the cap is reached. It is the
// source of truth for the activation gate and for health reporting.
type History struct {
	mu      sync.Mutex
	limit   int
	records map[string][]domain.ActivationRecord
	clock   func() time.Time
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{
		limit:   limit,
		records: make(map[string][]domain.ActivationRecord),
		clock:   time.Now,
	}
}

// Record appends one completed activation for the strategy.
func (h *History) Record(strategyID string, success bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := append(h.records[strategyID], domain.ActivationRecord{
		StrategyID: strategyID,
		Timestamp:  h.clock(),
		Success:    success,
	})
	if len(list) > h.limit {
		list = list[len(list)-h.limit:]
	}
	h.records[strategyID] = list
}

// Get returns the strategy's records, newest first.
func (h *History) Get(strategyID string) []domain.ActivationRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.records[strategyID]
	out := make([]domain.ActivationRecord, len(list))
	for i, rec := range list {
		out[len(list)-1-i] = rec
	}
	return out
}

// All returns records across every strategy, newest first.
func (h *History) All() []domain.ActivationRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []domain.ActivationRecord
	for _, list := range h.records {
		out = append(out, list...)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// CountSince returns how many activations of the strategy happened at
// or after the given instant.
func (h *History) CountSince(strategyID string, since time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, rec := range h.records[strategyID] {
		if !rec.Timestamp.Before(since) {
			n++
		}
	}
	return n
}

// Last returns the most recent activation of the strategy. The list is
// append-ordered, so the last element suffices.
func (h *History) Last(strategyID string) (domain.ActivationRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.records[strategyID]
	if len(list) == 0 {
		return domain.ActivationRecord{}, false
	}
	return list[len(list)-1], true
}

// PruneOlderThan drops records older than the cutoff, for every
// strategy. Called by the janitor on its retention schedule.
func (h *History) PruneOlderThan(cutoff time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	pruned := 0
	for id, list := range h.records {
		i := 0
		for i < len(list) && list[i].Timestamp.Before(cutoff) {
			i++
		}
		if i == 0 {
			continue
		}
		pruned += i
		if i == len(list) {
			delete(h.records, id)
		} else {
			h.records[id] = append([]domain.ActivationRecord(nil), list[i:]...)
		}
	}
	return pruned
}

// Stats is an aggregate view over all recorded activations.
type Stats struct {
	StrategiesWithHistory int
	TotalActivations      int
	SuccessRatePct        float64
	LastActivation        *time.Time
}

// Snapshot computes aggregate stats across all strategies. The success
// rate is rounded to two decimals and zero when nothing has run.
func (h *History) Snapshot() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	var st Stats
	successes := 0
	for _, list := range h.records {
		if len(list) == 0 {
			continue
		}
		st.StrategiesWithHistory++
		st.TotalActivations += len(list)
		for _, rec := range list {
			if rec.Success {
				successes++
			}
			if st.LastActivation == nil || rec.Timestamp.After(*st.LastActivation) {
				ts := rec.Timestamp
				st.LastActivation = &ts
			}
		}
	}
	if st.TotalActivations > 0 {
		rate := float64(successes) / float64(st.TotalActivations) * 100
		st.SuccessRatePct = math.Round(rate*100) / 100
	}
	return st
}
