package realtime

import "sync"

// Registry is the source of truth for which game rooms the session should be
// receiving events for. Membership is independent of connection state: it
// survives reconnects and only changes on Add/Remove. Join order is kept so
// replay after a reconnect is deterministic.
type Registry struct {
	mu     sync.Mutex
	member map[string]struct{}
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{member: make(map[string]struct{})}
}

// Add inserts a game room. Idempotent.
func (r *Registry) Add(gameID string) {
	if gameID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.member[gameID]; ok {
		return
	}
	r.member[gameID] = struct{}{}
	r.order = append(r.order, gameID)
}

// Remove deletes a game room. Idempotent.
func (r *Registry) Remove(gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.member[gameID]; !ok {
		return
	}
	delete(r.member, gameID)
	for i, id := range r.order {
		if id == gameID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Has reports membership.
func (r *Registry) Has(gameID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.member[gameID]
	return ok
}

// All returns the current membership in join order, for replay after a
// (re)connect.
func (r *Registry) All() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Clear empties the registry. Called on session teardown only.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.member = make(map[string]struct{})
	r.order = nil
}
