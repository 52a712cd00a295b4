// Package realtime pushes breakdown updates to websocket clients.
package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"

	"wealthsync/src/model"
)

const writeTimeout = 5 * time.Second

// Message is the envelope of every push.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const MessageBreakdown = "breakdown"

type client struct {
	conn *websocket.Conn
	// holds at most the latest undelivered message
	send chan interface{}
	done chan struct{}
	once sync.Once
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, send: make(chan interface{}, 1), done: make(chan struct{})}
}

// enqueue never blocks. A message still waiting for a slow client is
// replaced, so the client always gets the latest state.
func (c *client) enqueue(v interface{}) {
	for {
		select {
		case c.send <- v:
			return
		default:
		}
		select {
		case <-c.send:
		default:
		}
	}
}

func (c *client) writeJSON(v interface{}) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

// writePump is the only writer of the connection once started.
func (c *client) writePump(h *Hub) {
	for {
		select {
		case <-c.done:
			return
		case v := <-c.send:
			if err := c.writeJSON(v); err != nil {
				logger.WithError(err).Debug("dropping websocket client")
				h.remove(c)
				return
			}
		}
	}
}

type Hub struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]*client
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c.conn] = c
	h.mu.Unlock()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c.conn)
	h.mu.Unlock()
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastJSON queues v for every client and returns without waiting for
// the writes.
func (h *Hub) BroadcastJSON(v interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.enqueue(v)
	}
}

// PublishBreakdown matches dashboard.Subscriber.
func (h *Hub) PublishBreakdown(items []model.BreakdownItem) {
	h.BroadcastJSON(Message{Type: MessageBreakdown, Data: items})
}

// Serve upgrades the request, sends initial when non-nil and blocks reading
// until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, initial interface{}) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	c := newClient(conn)

	if initial != nil {
		if err := c.writeJSON(initial); err != nil {
			h.remove(c)
			return
		}
	}
	h.add(c)
	go c.writePump(h)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(c)
			return
		}
	}
}
