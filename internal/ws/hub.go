package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"MarketBoard/pkg/logger"
)

const (
	writeWait = 5 * time.Second
	pingEvery = 30 * time.Second
)

// client pairs a connection with a write lock. gorilla/websocket allows
// one concurrent writer per connection, and broadcasts race the ping loop
// without it.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(messageType int, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, payload)
}

// Hub fans snapshot refresh notifications out to connected dashboards.
// Slow clients are dropped rather than allowed to back up the broadcast.
type Hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]*client
	upgrader websocket.Upgrader
	log      *logger.Logger
}

// NewHub creates an empty hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Dashboard origins are not known ahead of deployment.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// Serve upgrades one HTTP request and keeps the connection registered
// until the peer goes away. Blocks for the connection's lifetime.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	cl := &client{conn: conn}
	h.mu.Lock()
	h.clients[conn] = cl
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info("websocket client connected", logger.Int("clients", n))

	go h.keepAlive(cl)

	// Discard inbound frames; the protocol is push-only.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(conn)
	return nil
}

// Broadcast sends v as JSON to every connected client.
func (h *Hub) Broadcast(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		h.log.Error("broadcast marshal failed", logger.Error(err))
		return
	}
	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for _, cl := range h.clients {
		targets = append(targets, cl)
	}
	h.mu.Unlock()

	for _, cl := range targets {
		if err := cl.write(websocket.TextMessage, payload); err != nil {
			h.drop(cl.conn)
		}
	}
}

// Clients returns the connected client count.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.clients = make(map[*websocket.Conn]*client)
	h.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}
}

func (h *Hub) keepAlive(cl *client) {
	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()
	for range ticker.C {
		if err := cl.write(websocket.PingMessage, nil); err != nil {
			h.drop(cl.conn)
			return
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		conn.Close()
		h.log.Info("websocket client disconnected", logger.Int("clients", h.Clients()))
	}
}
