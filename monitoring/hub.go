// Package monitoring streams assessment events to connected dashboard
// clients over WebSocket.
package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"heartguard/logging"
)

// EventType labels a hub message.
type EventType string

const (
	AssessmentDone EventType = "assessment"
	ModelReloaded  EventType = "model_reloaded"
	Heartbeat      EventType = "heartbeat"
)

// Event is the wire format sent to clients.
type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Client is one connected WebSocket peer.
type client struct {
	conn *websocket.Conn
	send chan []byte
	id   string
}

// Hub fans events out to every connected client.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewHub creates a hub; call Start in a goroutine before serving.
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start runs the hub loop until Stop.
func (h *Hub) Start() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			logging.L().Infof("ws client connected: %s (total: %d)", c.id, h.clientCount())

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			logging.L().Infof("ws client disconnected: %s (total: %d)", c.id, h.clientCount())

		case message := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()

		case <-h.ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop shuts the hub down and disconnects all clients.
func (h *Hub) Stop() {
	h.cancel()
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the request and attaches the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.L().Warnf("ws upgrade failed: %v", err)
		return
	}
	c := &client{
		conn: conn,
		send: make(chan []byte, 256),
		id:   fmt.Sprintf("client_%d", time.Now().UnixNano()),
	}
	select {
	case h.register <- c:
	case <-h.ctx.Done():
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump(h)
}

// drop unregisters a client without blocking when the hub loop has
// already exited.
func (h *Hub) drop(c *client) {
	select {
	case h.unregister <- c:
	case <-h.ctx.Done():
	}
}

// Publish marshals payload into an event and broadcasts it. A full
// queue drops the message rather than blocking an assessment.
func (h *Hub) Publish(eventType EventType, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	message, err := json.Marshal(Event{Type: eventType, Timestamp: time.Now(), Data: data})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	select {
	case h.broadcast <- message:
	default:
		logging.L().Warnf("ws broadcast queue full, dropping %s event", eventType)
	}
	return nil
}

func (c *client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client messages; the stream is one-way, but reading
// is required to notice disconnects and answer pings.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.drop(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.L().Warnf("ws read error: %v", err)
			}
			return
		}
	}
}
