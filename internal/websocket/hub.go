package livews

import (
	"encoding/json"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	EventSetLogged        = "set_logged"
	EventPRAchieved       = "pr_achieved"
	EventSessionCompleted = "session_completed"
)

// Event is one training occurrence pushed to connected dashboard clients.
type Event struct {
	Type      string  `json:"type"`
	UserID    string  `json:"user_id"`
	Exercise  string  `json:"exercise,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
	Reps      int     `json:"reps,omitempty"`
	SetNumber int     `json:"set_number,omitempty"`
	Grade     string  `json:"grade,omitempty"`
	Timestamp string  `json:"timestamp"`
}

// Hub fans live events out to every connected client. The feed is one-way
// and best-effort: slow clients are dropped, and publishing never blocks
// message handling.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, exists := h.clients[client]; exists {
				delete(h.clients, client)
				close(client.send)
			}
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish queues an event for broadcast, dropping it if the hub is saturated.
func (h *Hub) Publish(event Event) {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	select {
	case h.broadcast <- event:
	default:
		log.WithField("type", event.Type).Warn("live feed saturated, event dropped")
	}
}

func (h *Hub) deliver(event Event) {
	encoded, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Error("live feed encode event")
		return
	}

	for client := range h.clients {
		select {
		case client.send <- encoded:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// Serve attaches one websocket connection to the hub and blocks until the
// client disconnects.
func (h *Hub) Serve(conn *websocket.Conn) {
	client := NewClient(h, conn)
	h.Register(client)
	go client.WritePump()
	client.ReadPump()
}

// ReadPump discards inbound frames; the feed is broadcast-only. It exists to
// detect disconnects.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
