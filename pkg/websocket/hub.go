// Package websocket is the live class activity feed. Instructors subscribe to
// a class and receive membership and completion events as they happen. The
// feed is one-way: inbound frames are discarded.
package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type classEvent struct {
	classID uint
	payload []byte
}

type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	classID uint
	send    chan []byte
}

type Hub struct {
	clients    map[uint]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan classEvent
	log        *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan classEvent, 64),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.clients[client.classID] == nil {
				h.clients[client.classID] = make(map[*Client]bool)
			}
			h.clients[client.classID][client] = true

		case client := <-h.unregister:
			if set, ok := h.clients[client.classID]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					close(client.send)
					if len(set) == 0 {
						delete(h.clients, client.classID)
					}
				}
			}

		case event := <-h.broadcast:
			for client := range h.clients[event.classID] {
				select {
				case client.send <- event.payload:
				default:
					// Slow consumer; drop it rather than stall the hub.
					delete(h.clients[event.classID], client)
					close(client.send)
				}
			}
		}
	}
}

// Broadcast sends an event to every subscriber of the class. Safe to call
// with no subscribers connected.
func (h *Hub) Broadcast(classID uint, eventType string, data interface{}) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		h.log.Errorw("marshal hub event", "type", eventType, "err", err)
		return
	}
	h.broadcast <- classEvent{classID: classID, payload: payload}
}

// Subscribe upgrades the connection and attaches it to the class feed. The
// caller has already authenticated and authorized the request.
func (h *Hub) Subscribe(classID uint, w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		classID: classID,
		send:    make(chan []byte, 16),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
