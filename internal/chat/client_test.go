package chat

import (
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientEnqueueBoundedBuffer(t *testing.T) {
	c := newClient(newMockConn(), "cred", 1, time.Second, time.Minute, testLogger())

	require.NoError(t, c.enqueue([]byte("one")))
	assert.ErrorIs(t, c.enqueue([]byte("two")), ErrSlowConsumer)
}

func TestClientEnqueueAfterClose(t *testing.T) {
	c := newClient(newMockConn(), "cred", 8, time.Second, time.Minute, testLogger())
	c.closeWithCode(websocket.CloseNormalClosure, "")

	assert.ErrorIs(t, c.enqueue([]byte("late")), ErrSlowConsumer)
}

func TestClientCloseIdempotentUnderRace(t *testing.T) {
	conn := newMockConn()
	c := newClient(conn, "cred", 8, time.Second, time.Minute, testLogger())

	// Read-error cleanup and timeout cleanup firing near-simultaneously.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.closeWithCode(CloseSlowConsumer, "slow consumer")
		}()
	}
	wg.Wait()

	assert.True(t, conn.isClosed())
	assert.Equal(t, CloseSlowConsumer, conn.closeCode())
}

func TestClientWritePumpDeliversInOrder(t *testing.T) {
	conn := newMockConn()
	c := newClient(conn, "cred", 16, time.Second, time.Minute, testLogger())

	go c.writePump()
	require.NoError(t, c.enqueue([]byte(`{"type":"notice","payload":"a"}`)))
	require.NoError(t, c.enqueue([]byte(`{"type":"notice","payload":"b"}`)))

	require.Eventually(t, func() bool {
		return len(conn.writtenFrames()) >= 2
	}, 2*time.Second, 10*time.Millisecond)

	frames := conn.writtenFrames()
	assert.Contains(t, string(frames[0]), `"a"`)
	assert.Contains(t, string(frames[1]), `"b"`)

	c.closeWithCode(websocket.CloseNormalClosure, "")
}

func TestClientLifecycleStates(t *testing.T) {
	c := newClient(newMockConn(), "cred", 8, time.Second, time.Minute, testLogger())
	assert.Equal(t, StateConnecting, c.State())

	c.setState(StateAuthenticated)
	assert.Equal(t, StateAuthenticated, c.State())
	c.setState(StateServing)
	assert.Equal(t, StateServing, c.State())
	c.setState(StateClosed)
	assert.Equal(t, StateClosed, c.State())
	assert.Equal(t, "closed", c.State().String())
}
