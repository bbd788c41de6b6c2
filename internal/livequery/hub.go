// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package livequery

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/models"
	"github.com/gorilla/websocket"
)

const (
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 64 << 10
	sendBufferSize = 256
)

// Hub manages live query connections and fans object events out to the
// matching subscriptions.
type Hub struct {
	classNames []string
	appID      string
	masterKey  string
	clientKey  string

	upgrader websocket.Upgrader
	nextID   atomic.Int64

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool

	logger *logger.Logger
}

// NewHub creates a hub accepting subscriptions for cfg.ClassNames. Clients
// must connect with the application id of app.
func NewHub(cfg config.LiveQuery, app config.App, log *logger.Logger) *Hub {
	return &Hub{
		classNames: slices.Clone(cfg.ClassNames),
		appID:      app.AppID,
		masterKey:  app.MasterKey,
		clientKey:  app.ClientKey,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				// any origin, clients authenticate with the connect op
				return true
			},
		},
		clients: make(map[*client]struct{}),
		logger:  log,
	}
}

// ServeHTTP upgrades the connection and serves the live query protocol on
// it until the client disconnects or the hub shuts down.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		id:            h.nextID.Add(1),
		hub:           h,
		conn:          conn,
		send:          make(chan []byte, sendBufferSize),
		subscriptions: make(map[int]Query),
	}
	if !h.register(c) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// Attach routes WebSocket upgrade requests of srv to the hub. All other
// requests keep reaching the handler srv already has.
func (h *Hub) Attach(srv *http.Server) {
	next := srv.Handler
	if next == nil {
		next = http.DefaultServeMux
	}
	srv.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			h.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Publish delivers event to every local subscription that matches it.
func (h *Hub) Publish(_ context.Context, event models.Event) error {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return ErrHubClosed
	}
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	recipients := 0
	for _, c := range clients {
		for _, requestID := range c.matchingRequests(event) {
			c.trySend(serverMessage{
				Op:        event.Op,
				ClientID:  c.id,
				RequestID: requestID,
				Object:    event.Object,
			})
			recipients++
		}
	}
	if recipients > 0 {
		h.logger.Debug().Str("class", event.ClassName).Str("op", event.Op).Int("recipients", recipients).Msg("live query event sent")
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown disconnects all clients. Later connections are refused.
func (h *Hub) Shutdown(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	h.logger.Info().Msg("live query hub stopped")
	return nil
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.logger.Debug().Int64("clientId", c.id).Int("clients", len(h.clients)).Msg("live query client connected")
	return true
}

// unregister removes c. Only the call that removes c from the map closes
// its send channel.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, existed := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if existed {
		close(c.send)
		h.logger.Debug().Int64("clientId", c.id).Msg("live query client disconnected")
	}
}

func (h *Hub) classAllowed(className string) bool {
	return slices.Contains(h.classNames, className)
}

func (h *Hub) keysValid(msg clientMessage) bool {
	if msg.ApplicationID != h.appID {
		return false
	}
	if h.masterKey != "" && msg.MasterKey == h.masterKey {
		return true
	}
	return h.clientKey == "" || msg.ClientKey == h.clientKey
}

// client is one live query connection.
type client struct {
	id   int64
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu            sync.RWMutex
	connected     bool
	subscriptions map[int]Query
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn().Err(err).Msg("websocket read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.handleMessage(message)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) handleMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(0, CodeInvalidMessage, "invalid JSON message", false)
		return
	}

	switch msg.Op {
	case OpConnect:
		c.handleConnect(msg)
	case OpSubscribe:
		c.handleSubscribe(msg)
	case OpUnsubscribe:
		c.handleUnsubscribe(msg)
	default:
		c.sendError(msg.RequestID, CodeUnknownOperation, "unknown operation: "+msg.Op, false)
	}
}

func (c *client) handleConnect(msg clientMessage) {
	if !c.hub.keysValid(msg) {
		c.sendError(0, CodeInvalidKeys, "key in request is not valid", false)
		return
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	c.trySend(serverMessage{Op: OpConnected, ClientID: c.id})
}

func (c *client) handleSubscribe(msg clientMessage) {
	if !c.isConnected() {
		c.sendError(msg.RequestID, CodeNotConnected, "client is not connected, send connect first", true)
		return
	}
	if msg.Query == nil || msg.Query.ClassName == "" {
		c.sendError(msg.RequestID, CodeInvalidMessage, "subscribe requires a query with a className", false)
		return
	}
	if !c.hub.classAllowed(msg.Query.ClassName) {
		c.sendError(msg.RequestID, CodeClassNotAllowed, "live queries are not enabled for class "+msg.Query.ClassName, false)
		return
	}

	c.mu.Lock()
	_, exists := c.subscriptions[msg.RequestID]
	if !exists {
		c.subscriptions[msg.RequestID] = *msg.Query
	}
	c.mu.Unlock()

	if exists {
		c.sendError(msg.RequestID, CodeSubscriptionDuplicate, "requestId is already subscribed", false)
		return
	}

	c.hub.logger.Debug().Int64("clientId", c.id).Int("requestId", msg.RequestID).Str("class", msg.Query.ClassName).Msg("live query subscribed")
	c.trySend(serverMessage{Op: OpSubscribed, ClientID: c.id, RequestID: msg.RequestID})
}

func (c *client) handleUnsubscribe(msg clientMessage) {
	if !c.isConnected() {
		c.sendError(msg.RequestID, CodeNotConnected, "client is not connected, send connect first", true)
		return
	}

	c.mu.Lock()
	_, exists := c.subscriptions[msg.RequestID]
	delete(c.subscriptions, msg.RequestID)
	c.mu.Unlock()

	if !exists {
		c.sendError(msg.RequestID, CodeSubscriptionNotFound, "cannot find subscription with this requestId", false)
		return
	}

	c.trySend(serverMessage{Op: OpUnsubscribed, ClientID: c.id, RequestID: msg.RequestID})
}

func (c *client) isConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// matchingRequests returns the request ids of subscriptions matching event,
// in ascending order.
func (c *client) matchingRequests(event models.Event) []int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var ids []int
	for requestID, q := range c.subscriptions {
		if q.matches(event.ClassName, event.Object) {
			ids = append(ids, requestID)
		}
	}
	slices.Sort(ids)
	return ids
}

func (c *client) sendError(requestID, code int, message string, reconnect bool) {
	c.trySend(serverMessage{
		Op:        OpError,
		ClientID:  c.id,
		RequestID: requestID,
		Code:      code,
		Error:     message,
		Reconnect: &reconnect,
	})
}

// trySend queues msg without blocking. Messages to a client whose buffer is
// full are dropped.
func (c *client) trySend(msg serverMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Err(err).Msg("failed to marshal live query message")
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.clients[c]; !ok {
		return
	}

	select {
	case c.send <- data:
	default:
		c.hub.logger.Warn().Int64("clientId", c.id).Msg("live query send buffer full, message dropped")
	}
}
