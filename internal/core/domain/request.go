package domain

import "sync"

// RequestState is the mutable request/response context a matched action
// may annotate. The engine attaches no meaning to the flags; downstream
// handlers decide what fallback or degraded mode means for them.
type RequestState struct {
	mu       sync.Mutex
	fallback bool
	degraded bool
	values   map[string]string
}

func NewRequestState() *RequestState {
	return &RequestState{values: make(map[string]string)}
}

// EngageFallback flags the request to be served from a fallback source.
func (r *RequestState) EngageFallback() {
	r.mu.Lock()
	r.fallback = true
	r.mu.Unlock()
}

func (r *RequestState) FallbackEngaged() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fallback
}

// Degrade flags the request for reduced-functionality handling.
func (r *RequestState) Degrade() {
	r.mu.Lock()
	r.degraded = true
	r.mu.Unlock()
}

func (r *RequestState) Degraded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.degraded
}

// Set stores an arbitrary annotation on the request.
func (r *RequestState) Set(key, value string) {
	r.mu.Lock()
	if r.values == nil {
		r.values = make(map[string]string)
	}
	r.values[key] = value
	r.mu.Unlock()
}

func (r *RequestState) Get(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	return v, ok
}
