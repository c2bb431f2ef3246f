package chat

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID string) *Client {
	c := newClient(newMockConn(), "cred-"+userID, 64, time.Second, time.Minute, testLogger())
	c.userID = userID
	return c
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	c1 := newTestClient("alice")
	c2 := newTestClient("alice")

	r.Register("alice", c1)
	r.Register("alice", c2)

	conns := r.Lookup("alice")
	assert.Len(t, conns, 2)
	assert.Contains(t, conns, c1)
	assert.Contains(t, conns, c2)
	assert.Equal(t, 2, r.CountConnections())
	assert.Empty(t, r.Lookup("bob"))
}

func TestRegistryRegisterIdempotent(t *testing.T) {
	r := NewRegistry()
	c := newTestClient("alice")

	r.Register("alice", c)
	r.Register("alice", c)

	assert.Len(t, r.Lookup("alice"), 1)
	assert.Equal(t, 1, r.CountConnections())
}

func TestRegistryUnregisterTwice(t *testing.T) {
	r := NewRegistry()
	c := newTestClient("alice")
	r.Register("alice", c)

	// Simulates the error-path and timeout-path cleanup racing; the second
	// call must change nothing.
	r.Unregister("alice", c)
	r.Unregister("alice", c)

	assert.Empty(t, r.Lookup("alice"))
	assert.Equal(t, 0, r.CountConnections())
}

func TestRegistryUnregisterUnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	c1 := newTestClient("alice")
	c2 := newTestClient("alice")
	r.Register("alice", c1)

	r.Unregister("alice", c2)
	r.Unregister("bob", c2)

	assert.Len(t, r.Lookup("alice"), 1)
	assert.Equal(t, 1, r.CountConnections())
}

func TestRegistryEmptyUserEntryRemoved(t *testing.T) {
	r := NewRegistry()
	c := newTestClient("alice")
	r.Register("alice", c)
	require.Equal(t, []string{"alice"}, r.Users())

	r.Unregister("alice", c)
	assert.Empty(t, r.Users())
}

func TestRegistryLookupSnapshotIsolation(t *testing.T) {
	r := NewRegistry()
	c1 := newTestClient("alice")
	r.Register("alice", c1)

	snapshot := r.Lookup("alice")
	require.Len(t, snapshot, 1)

	c2 := newTestClient("alice")
	r.Register("alice", c2)
	r.Unregister("alice", c1)

	// Later registry activity must not mutate the earlier snapshot.
	assert.Len(t, snapshot, 1)
	assert.Same(t, c1, snapshot[0])
}

func TestRegistryConcurrentConsistency(t *testing.T) {
	const users = 8
	const connsPerUser = 32

	r := NewRegistry()
	clients := make(map[string][]*Client)
	for u := 0; u < users; u++ {
		userID := fmt.Sprintf("user-%d", u)
		for c := 0; c < connsPerUser; c++ {
			clients[userID] = append(clients[userID], newTestClient(userID))
		}
	}

	var wg sync.WaitGroup
	for userID, conns := range clients {
		for i, c := range conns {
			wg.Add(1)
			go func(userID string, i int, c *Client) {
				defer wg.Done()
				r.Register(userID, c)
				if i%2 == 0 {
					r.Unregister(userID, c)
					// Double cleanup race
					r.Unregister(userID, c)
				}
			}(userID, i, c)
		}
	}
	wg.Wait()

	// Exactly the odd-indexed connections survive, no lost or duplicate
	// entries.
	expectedPerUser := connsPerUser / 2
	for userID, conns := range clients {
		got := r.Lookup(userID)
		assert.Len(t, got, expectedPerUser, "user %s", userID)
		for i, c := range conns {
			if i%2 == 1 {
				assert.Contains(t, got, c)
			} else {
				assert.NotContains(t, got, c)
			}
		}
	}
	assert.Equal(t, users*expectedPerUser, r.CountConnections())
}
