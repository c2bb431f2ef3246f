package chat

import (
	"sync"
)

// Rooms holds room membership as a mapping from room ID to a set of user
// identities. Membership is per user, not per connection: a room message
// reaches every live connection of every member. Rooms with no members are
// removed; nothing here is persisted.
type Rooms struct {
	mu      sync.RWMutex
	members map[string]map[string]struct{}
}

func NewRooms() *Rooms {
	return &Rooms{
		members: make(map[string]map[string]struct{}),
	}
}

func (r *Rooms) Join(roomID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.members[roomID]
	if !ok {
		set = make(map[string]struct{})
		r.members[roomID] = set
	}
	set[userID] = struct{}{}
}

func (r *Rooms) Leave(roomID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.members[roomID]
	if !ok {
		return
	}
	delete(set, userID)
	if len(set) == 0 {
		delete(r.members, roomID)
	}
}

// RemoveUser drops the user from every room. Called when the user's last
// connection goes away.
func (r *Rooms) RemoveUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for roomID, set := range r.members {
		delete(set, userID)
		if len(set) == 0 {
			delete(r.members, roomID)
		}
	}
}

func (r *Rooms) IsMember(roomID, userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.members[roomID]
	if !ok {
		return false
	}
	_, member := set[userID]
	return member
}

// Members returns a snapshot of the room's member identities.
func (r *Rooms) Members(roomID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.members[roomID]
	if !ok {
		return nil
	}
	members := make([]string, 0, len(set))
	for userID := range set {
		members = append(members, userID)
	}
	return members
}
