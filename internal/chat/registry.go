package chat

import (
	"sync"
)

// Registry is the single source of truth for which live connections belong
// to which authenticated user. All methods are safe for unbounded concurrent
// callers; Lookup returns snapshots so callers never iterate under the
// registry lock.
type Registry struct {
	mu    sync.RWMutex
	users map[string]map[*Client]struct{}
	total int
}

func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]map[*Client]struct{}),
	}
}

// Register adds a connection to the user's set, creating the set on first
// registration. Re-registering the same connection is a no-op.
func (r *Registry) Register(userID string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.users[userID]
	if !ok {
		set = make(map[*Client]struct{})
		r.users[userID] = set
	}
	if _, dup := set[c]; dup {
		return
	}
	set[c] = struct{}{}
	r.total++
}

// Unregister removes a connection from the user's set and drops the user
// entry when the set becomes empty. Unregistering a connection that is not
// present is a no-op, so racing cleanup paths are harmless.
func (r *Registry) Unregister(userID string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.users[userID]
	if !ok {
		return
	}
	if _, present := set[c]; !present {
		return
	}
	delete(set, c)
	r.total--
	if len(set) == 0 {
		delete(r.users, userID)
	}
}

// Lookup returns a snapshot of the user's live connections at call time.
// Later registry activity never mutates the returned slice.
func (r *Registry) Lookup(userID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.users[userID]
	if !ok {
		return nil
	}
	conns := make([]*Client, 0, len(set))
	for c := range set {
		conns = append(conns, c)
	}
	return conns
}

// CountConnections returns the total number of live connections.
func (r *Registry) CountConnections() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total
}

// Users returns a snapshot of the user identities with at least one live
// connection.
func (r *Registry) Users() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]string, 0, len(r.users))
	for userID := range r.users {
		users = append(users, userID)
	}
	return users
}
