package chat

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

var ErrSlowConsumer = errors.New("chat: send buffer full")

// State tracks a connection through its lifecycle. A connection that never
// reaches StateAuthenticated goes straight to StateClosed.
type State int32

const (
	StateConnecting State = iota
	StateAuthenticated
	StateServing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	case StateServing:
		return "serving"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Conn is the subset of *websocket.Conn the gateway drives. Tests substitute
// an in-memory implementation.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is one live duplex connection. It is exclusively owned by the
// gateway goroutine serving it; the only cross-goroutine entry points are
// enqueue and closeWithCode, both safe for concurrent use.
type Client struct {
	id         string
	userID     string
	credential string
	conn       Conn
	send       chan []byte

	state  int32
	closed int32
	done   chan struct{}

	seq uint64

	writeWait time.Duration
	pongWait  time.Duration

	logger *slog.Logger
}

func newClient(conn Conn, credential string, sendBuffer int, writeWait, pongWait time.Duration, logger *slog.Logger) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Client{
		id:         uuid.New().String(),
		credential: credential,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		writeWait:  writeWait,
		pongWait:   pongWait,
		logger:     logger,
	}
}

func (c *Client) ID() string {
	return c.id
}

// UserID is empty until the handshake resolved an identity; immutable after.
func (c *Client) UserID() string {
	return c.userID
}

func (c *Client) State() State {
	return State(atomic.LoadInt32(&c.state))
}

func (c *Client) setState(s State) {
	atomic.StoreInt32(&c.state, int32(s))
}

// nextSeq returns the next per-sender logical sequence number.
func (c *Client) nextSeq() uint64 {
	return atomic.AddUint64(&c.seq, 1)
}

// enqueue hands an encoded frame to the connection's outbound buffer without
// blocking. A full buffer means the consumer is not keeping up and the
// caller is expected to close this connection.
func (c *Client) enqueue(data []byte) error {
	if c.isClosed() {
		return ErrSlowConsumer
	}
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrSlowConsumer
	default:
		return ErrSlowConsumer
	}
}

func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

// closeWithCode force-closes the connection exactly once, sending a close
// control frame best-effort first. Safe to call from any goroutine and
// tolerant of concurrent triggers (read error and timeout firing together).
func (c *Client) closeWithCode(code int, reason string) {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return
	}
	// WriteControl is safe alongside the write pump's data writes.
	if err := c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(c.writeWait)); err != nil {
		c.logger.Debug("close frame write failed", "clientID", c.id, "error", err)
	}
	if err := c.conn.Close(); err != nil {
		c.logger.Debug("connection close failed", "clientID", c.id, "error", err)
	}
	close(c.done)
}

// writePump drains the outbound buffer onto the wire. One writePump runs per
// connection; it owns all writes after the handshake. A write deadline is
// applied per frame so a dead peer cannot stall the pump past writeWait.
func (c *Client) writePump() {
	pingPeriod := (c.pongWait * 9) / 10
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("write failed", "clientID", c.id, "userID", c.userID, "error", err)
				c.closeWithCode(websocket.CloseInternalServerErr, "write failure")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("ping failed", "clientID", c.id, "userID", c.userID, "error", err)
				c.closeWithCode(websocket.CloseInternalServerErr, "ping failure")
				return
			}

		case <-c.done:
			return
		}
	}
}
