package healing

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vietddude/mender/internal/core/domain"
)

// ErrDuplicateStrategy is returned when registering an id that already exists.
var ErrDuplicateStrategy = errors.New("strategy already registered")

// Registry holds the configured recovery strategies. Registration order
// is preserved: it is the tie-break order used by matching. Lookups are
// frequent and registration is rare, so reads take a shared lock.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]*domain.RecoveryStrategy
	order      []string
}

func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]*domain.RecoveryStrategy)}
}

// Register adds a strategy. Fails if the id is already present.
func (r *Registry) Register(s *domain.RecoveryStrategy) error {
	if s == nil || s.ID == "" {
		return errors.New("strategy must have an id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.strategies[s.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateStrategy, s.ID)
	}
	r.strategies[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

// Unregister removes a strategy. Returns false if the id was absent.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.strategies[id]; !exists {
		return false
	}
	delete(r.strategies, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Find returns the strategy for id, if registered.
func (r *Registry) Find(id string) (*domain.RecoveryStrategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[id]
	return s, ok
}

// List returns all registered strategies in registration order.
func (r *Registry) List() []*domain.RecoveryStrategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.RecoveryStrategy, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.strategies[id])
	}
	return out
}

// Len returns the number of registered strategies.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.strategies)
}

// Match returns the first registered strategy whose predicates all
// match the event, in registration order.
func (r *Registry) Match(e *domain.ErrorEvent) (*domain.RecoveryStrategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if s := r.strategies[id]; s.Matches(e) {
			return s, true
		}
	}
	return nil, false
}
