package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"social-service/internal/session"

	"github.com/gorilla/websocket"
)

// Options tunes the gateway. Zero values fall back to defaults.
type Options struct {
	HandshakeTimeout time.Duration
	WriteWait        time.Duration
	PongWait         time.Duration
	SendBufferSize   int
	SweepInterval    time.Duration
}

func (o Options) withDefaults() Options {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = 5 * time.Second
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.SendBufferSize <= 0 {
		o.SendBufferSize = 256
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = 30 * time.Second
	}
	return o
}

// Gateway accepts duplex connections, authenticates them against the shared
// session store and serves them until they close. The registry it owns is
// the only state shared across connection goroutines.
type Gateway struct {
	registry *Registry
	rooms    *Rooms
	router   *Router
	resolver session.Resolver
	opts     Options
	logger   *slog.Logger
}

func NewGateway(resolver session.Resolver, opts Options, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	registry := NewRegistry()
	rooms := NewRooms()
	return &Gateway{
		registry: registry,
		rooms:    rooms,
		router:   NewRouter(registry, rooms, logger),
		resolver: resolver,
		opts:     opts.withDefaults(),
		logger:   logger,
	}
}

// Registry exposes the connection registry for observability.
func (g *Gateway) Registry() *Registry {
	return g.registry
}

// Accept drives one connection through handshake, registration and the
// serve loop, blocking until the connection closes. It is invoked exactly
// once per accepted connection.
func (g *Gateway) Accept(conn Conn, credential string) {
	client := newClient(conn, credential, g.opts.SendBufferSize, g.opts.WriteWait, g.opts.PongWait, g.logger)

	if credential == "" {
		g.reject(client, CloseMissingCredential)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.opts.HandshakeTimeout)
	userID, err := g.resolver.Resolve(ctx, credential)
	cancel()
	if err != nil {
		g.logger.Info("handshake rejected", "clientID", client.id, "error", err)
		g.reject(client, rejectionCode(err))
		return
	}

	client.userID = userID
	client.setState(StateAuthenticated)
	g.registry.Register(userID, client)
	client.setState(StateServing)
	g.logger.Info("connection established", "clientID", client.id, "userID", userID)

	if data, err := json.Marshal(NewConnectMessage(client.id, userID)); err == nil {
		client.enqueue(data)
	}

	go client.writePump()
	g.serve(client)
}

// reject closes an unauthenticated connection. No registry interaction has
// happened for it and none may happen after.
func (g *Gateway) reject(client *Client, code int) {
	client.closeWithCode(code, closeReason)
	client.setState(StateClosed)
}

func rejectionCode(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidSession):
		return CloseInvalidSession
	case errors.Is(err, session.ErrExpiredSession):
		return CloseExpiredSession
	default:
		return CloseStoreUnavailable
	}
}

// serve reads inbound frames until the connection closes or errors, handing
// each frame to the router. Cleanup runs on every exit path.
func (g *Gateway) serve(client *Client) {
	defer g.teardown(client)

	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(client.pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(client.pongWait))
		return nil
	})

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.logger.Debug("read failed", "clientID", client.id, "userID", client.userID, "error", err)
			}
			return
		}
		g.router.Dispatch(client, data)
	}
}

// teardown is the guaranteed cleanup obligation for a serving connection.
// Idempotent: the registry tolerates double unregister and the close is
// CAS-guarded, so racing triggers collapse to one observable cleanup.
func (g *Gateway) teardown(client *Client) {
	g.registry.Unregister(client.userID, client)
	if len(g.registry.Lookup(client.userID)) == 0 {
		g.rooms.RemoveUser(client.userID)
	}
	client.closeWithCode(websocket.CloseNormalClosure, "")
	client.setState(StateClosed)
	g.logger.Info("connection closed", "clientID", client.id, "userID", client.userID)
}

// EvictUser force-closes every live connection of a user, e.g. after the
// session behind them was revoked. Each connection's serve loop performs
// its own registry cleanup.
func (g *Gateway) EvictUser(userID string) {
	for _, client := range g.registry.Lookup(userID) {
		g.logger.Info("evicting connection", "clientID", client.ID(), "userID", userID)
		client.closeWithCode(CloseExpiredSession, closeReason)
	}
}

// RunSweeper re-validates the session behind every live connection at a
// fixed interval and evicts connections whose sessions expired or were
// revoked. A store outage never evicts anyone.
func (g *Gateway) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(g.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (g *Gateway) sweep(ctx context.Context) {
	for _, userID := range g.registry.Users() {
		for _, client := range g.registry.Lookup(userID) {
			rctx, cancel := context.WithTimeout(ctx, g.opts.HandshakeTimeout)
			_, err := g.resolver.Resolve(rctx, client.credential)
			cancel()
			if errors.Is(err, session.ErrExpiredSession) || errors.Is(err, session.ErrInvalidSession) {
				g.logger.Info("session expired, evicting", "clientID", client.ID(), "userID", userID)
				client.closeWithCode(CloseExpiredSession, closeReason)
			}
		}
	}
}
