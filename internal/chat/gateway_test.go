package chat

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"social-service/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver is an in-memory stand-in for the session store.
type fakeResolver struct {
	mu    sync.Mutex
	users map[string]string
	errs  map[string]error
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		users: make(map[string]string),
		errs:  make(map[string]error),
	}
}

func (f *fakeResolver) Resolve(ctx context.Context, credential string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[credential]; ok {
		return "", err
	}
	if userID, ok := f.users[credential]; ok {
		return userID, nil
	}
	return "", session.ErrInvalidSession
}

func (f *fakeResolver) add(credential, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[credential] = userID
}

func (f *fakeResolver) fail(credential string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, credential)
	f.errs[credential] = err
}

func newTestGateway(resolver session.Resolver) *Gateway {
	return NewGateway(resolver, Options{
		HandshakeTimeout: 500 * time.Millisecond,
		WriteWait:        time.Second,
		PongWait:         time.Minute,
		SendBufferSize:   64,
		SweepInterval:    time.Hour,
	}, testLogger())
}

func TestGatewayRejectsMissingCredential(t *testing.T) {
	g := newTestGateway(newFakeResolver())
	conn := newMockConn()

	g.Accept(conn, "")

	assert.True(t, conn.isClosed())
	assert.Equal(t, CloseMissingCredential, conn.closeCode())
	assert.Equal(t, 0, g.Registry().CountConnections())
	assert.Empty(t, g.Registry().Users())
}

func TestGatewayRejectsBadSessions(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid", session.ErrInvalidSession, CloseInvalidSession},
		{"expired", session.ErrExpiredSession, CloseExpiredSession},
		{"store unavailable", session.ErrStoreUnavailable, CloseStoreUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolver := newFakeResolver()
			resolver.fail("bad-token", tc.err)
			g := newTestGateway(resolver)
			conn := newMockConn()

			g.Accept(conn, "bad-token")

			assert.True(t, conn.isClosed())
			assert.Equal(t, tc.code, conn.closeCode())
			// A failed handshake never creates a registry entry.
			assert.Equal(t, 0, g.Registry().CountConnections())
			assert.Empty(t, g.Registry().Users())
		})
	}
}

func TestGatewayAcceptRegistersAndCleansUp(t *testing.T) {
	resolver := newFakeResolver()
	resolver.add("tok-alice", "alice")
	g := newTestGateway(resolver)
	conn := newMockConn()

	go g.Accept(conn, "tok-alice")

	require.Eventually(t, func() bool {
		return g.Registry().CountConnections() == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.Len(t, g.Registry().Lookup("alice"), 1)

	// Client-side close drives the guaranteed cleanup path.
	conn.Close()

	require.Eventually(t, func() bool {
		return g.Registry().CountConnections() == 0 && len(g.Registry().Users()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGatewayEvictUser(t *testing.T) {
	resolver := newFakeResolver()
	resolver.add("tok-alice", "alice")
	g := newTestGateway(resolver)
	conn := newMockConn()

	go g.Accept(conn, "tok-alice")
	require.Eventually(t, func() bool {
		return g.Registry().CountConnections() == 1
	}, 2*time.Second, 10*time.Millisecond)

	g.EvictUser("alice")

	require.Eventually(t, func() bool {
		return g.Registry().CountConnections() == 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, conn.isClosed())
	assert.Equal(t, CloseExpiredSession, conn.closeCode())
}

func TestGatewayTeardownIdempotent(t *testing.T) {
	g := newTestGateway(newFakeResolver())
	client := newTestClient("alice")
	g.Registry().Register("alice", client)

	g.teardown(client)
	g.teardown(client)

	assert.Equal(t, 0, g.Registry().CountConnections())
	assert.Equal(t, StateClosed, client.State())
}

func directMessagesTo(conn *mockConn) []Message {
	var out []Message
	for _, msg := range conn.writtenMessages() {
		if msg.Type == FrameTypeDirect {
			out = append(out, msg)
		}
	}
	return out
}

// Full scenario: alice on two tabs, bob on one; direct message, server-side
// session expiry, then a send to the now-offline user.
func TestGatewaySessionBridgedMessaging(t *testing.T) {
	resolver := newFakeResolver()
	resolver.add("tok-alice", "alice")
	resolver.add("tok-bob", "bob")
	g := newTestGateway(resolver)

	aliceC1 := newMockConn()
	aliceC2 := newMockConn()
	bobC3 := newMockConn()
	go g.Accept(aliceC1, "tok-alice")
	go g.Accept(aliceC2, "tok-alice")
	go g.Accept(bobC3, "tok-bob")

	require.Eventually(t, func() bool {
		return g.Registry().CountConnections() == 3
	}, 2*time.Second, 10*time.Millisecond)

	frame, err := json.Marshal(Frame{Type: FrameTypeDirect, Target: "bob", Payload: "hi"})
	require.NoError(t, err)
	aliceC1.inject(frame)

	require.Eventually(t, func() bool {
		msgs := directMessagesTo(bobC3)
		return len(msgs) == 1 && msgs[0].Payload == "hi" && msgs[0].Sender == "alice"
	}, 2*time.Second, 10*time.Millisecond)

	// Not self-addressed: neither alice tab receives the message.
	assert.Empty(t, directMessagesTo(aliceC1))
	assert.Empty(t, directMessagesTo(aliceC2))

	// bob's session expires server-side; the sweeper evicts C3.
	resolver.fail("tok-bob", session.ErrExpiredSession)
	g.sweep(context.Background())

	require.Eventually(t, func() bool {
		return len(g.Registry().Lookup("bob")) == 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, bobC3.isClosed())

	// A subsequent send yields TargetOffline, with no error to the sender.
	aliceC1.inject(frame)
	require.Eventually(t, func() bool {
		for _, msg := range aliceC1.writtenMessages() {
			if msg.Type == FrameTypeNotice && msg.Payload == CodeTargetOffline {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, aliceC1.isClosed())
	assert.Len(t, g.Registry().Lookup("alice"), 2)
}
