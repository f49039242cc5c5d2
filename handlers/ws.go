// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/danielhkuo/live-poll/cliparse"
	"github.com/danielhkuo/live-poll/middleware"
	"github.com/danielhkuo/live-poll/protocol"
	"github.com/danielhkuo/live-poll/session"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 64
)

// WSHandler upgrades connections onto the bidirectional event channel. Each
// connection gets a read pump that validates frames at the boundary and
// posts them to the coordinator, and a write pump that serializes outbound
// frames.
type WSHandler struct {
	coordinator *session.Coordinator
	upgrader    websocket.Upgrader
}

func NewWSHandler(coordinator *session.Coordinator, cfg cliparse.Config) *WSHandler {
	return &WSHandler{
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.AllowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == cfg.AllowedOrigin
			},
		},
	}
}

// Serve handles GET /ws
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err, "remote", middleware.GetClientIP(r))
		return
	}

	client := &wsClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan protocol.Outbound, sendBuffer),
	}

	slog.Info("client connected", "handle", client.id, "remote", middleware.GetClientIP(r))

	go client.writePump()
	go client.readPump(h.coordinator)
}

// wsClient implements session.Conn over a gorilla websocket connection.
type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan protocol.Outbound

	mu     sync.Mutex
	closed bool
}

func (c *wsClient) ID() string {
	return c.id
}

// Send queues a frame without blocking the coordinator. Frames for clients
// that cannot keep up are dropped.
func (c *wsClient) Send(msg protocol.Outbound) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
		slog.Warn("dropping frame for slow client", "handle", c.id, "type", msg.Type)
	}
}

// Close shuts the outbound queue; the write pump then closes the socket.
func (c *wsClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *wsClient) readPump(coordinator *session.Coordinator) {
	defer func() {
		coordinator.Post(session.DisconnectEvent{Handle: c.id})
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Info("client read error", "handle", c.id, "error", err)
			}
			return
		}

		msg, err := protocol.Parse(data)
		if err != nil {
			c.Send(protocol.Error(err.Error()))
			continue
		}

		coordinator.Post(session.MessageEvent{Conn: c, Msg: msg})
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			slog.Info("client write error", "handle", c.id, "error", err)
			return
		}
	}

	// Send queue closed: say goodbye before dropping the socket.
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
