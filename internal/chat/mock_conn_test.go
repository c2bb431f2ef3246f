package chat

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// mockConn is an in-memory Conn implementation for tests. Reads block until
// a frame is injected or the connection is closed; writes are recorded.
type mockConn struct {
	mu       sync.Mutex
	inbound  chan []byte
	written  [][]byte
	closed   bool
	closeCh  chan struct{}
	closeOne sync.Once
}

func newMockConn() *mockConn {
	return &mockConn{
		inbound: make(chan []byte, 64),
		closeCh: make(chan struct{}),
	}
}

func (m *mockConn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-m.inbound:
		return websocket.TextMessage, data, nil
	case <-m.closeCh:
		return 0, nil, errors.New("mock: connection closed")
	}
}

func (m *mockConn) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return websocket.ErrCloseSent
	}
	if messageType == websocket.TextMessage || messageType == websocket.CloseMessage {
		cp := make([]byte, len(data))
		copy(cp, data)
		m.written = append(m.written, cp)
	}
	return nil
}

func (m *mockConn) WriteControl(messageType int, data []byte, deadline time.Time) error {
	return m.WriteMessage(messageType, data)
}

func (m *mockConn) SetReadLimit(limit int64) {}

func (m *mockConn) SetReadDeadline(t time.Time) error { return nil }

func (m *mockConn) SetWriteDeadline(t time.Time) error { return nil }

func (m *mockConn) SetPongHandler(h func(string) error) {}

func (m *mockConn) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.closeOne.Do(func() { close(m.closeCh) })
	return nil
}

// inject queues an inbound frame as if the peer had sent it.
func (m *mockConn) inject(data []byte) {
	m.inbound <- data
}

func (m *mockConn) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// writtenFrames returns a copy of everything written to the wire so far.
func (m *mockConn) writtenFrames() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.written))
	copy(out, m.written)
	return out
}

// writtenMessages decodes the recorded text frames into Messages, skipping
// close frames.
func (m *mockConn) writtenMessages() []Message {
	var msgs []Message
	for _, frame := range m.writtenFrames() {
		var msg Message
		if err := json.Unmarshal(frame, &msg); err == nil && msg.Type != "" {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// closeCode extracts the status code of the last close frame written, or 0.
func (m *mockConn) closeCode() int {
	for _, frame := range m.writtenFrames() {
		if len(frame) >= 2 {
			code := int(binary.BigEndian.Uint16(frame[:2]))
			if code >= websocket.CloseNormalClosure && code < 5000 {
				return code
			}
		}
	}
	return 0
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
