package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/alexisbeaulieu97/emuhud/internal/logger"
	"github.com/alexisbeaulieu97/emuhud/internal/session"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Message types sent to and accepted from viewers.
const (
	MessageFrame  = "frame"
	MessageAction = "action"
	MessageError  = "error"
)

// Message is the envelope written to WebSocket viewers.
type Message struct {
	Type      string    `json:"type"`
	Theme     string    `json:"theme"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// inbound is a viewer message. Only actions are acted on.
type inbound struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Target string `json:"target"`
}

var errSlowClient = errors.New("client send buffer full")

type client struct {
	id    uuid.UUID
	theme string
	conn  *websocket.Conn
	send  chan []byte
	sub   session.Subscription

	mu     sync.Mutex
	closed bool
}

// enqueue hands a message to the write pump without blocking the publisher.
func (c *client) enqueue(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	select {
	case c.send <- data:
		return nil
	default:
		return errSlowClient
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// Hub tracks connected viewers.
type Hub struct {
	broadcaster *session.Broadcaster
	log         *logger.Logger
	upgrader    websocket.Upgrader

	mu      sync.RWMutex
	clients map[uuid.UUID]*client
}

// NewHub creates a hub that subscribes its clients to b.
func NewHub(b *session.Broadcaster, log *logger.Logger) *Hub {
	return &Hub{
		broadcaster: b,
		log:         log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[uuid.UUID]*client),
	}
}

// Count returns the number of connected viewers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CountFor returns the number of viewers of one theme.
func (h *Hub) CountFor(themeName string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, c := range h.clients {
		if c.theme == themeName {
			n++
		}
	}
	return n
}

// CloseAll disconnects every viewer.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unregister(c)
	}
}

// register subscribes c and queues current() as its first message. The
// client lock is held across both steps, so a frame published meanwhile is
// queued after the initial one rather than lost or overtaken.
func (h *Hub) register(c *client, current func() theme.Frame) error {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sub = h.broadcaster.Subscribe(c.theme, func(_ context.Context, f theme.Frame) error {
		data, err := encodeMessage(MessageFrame, f.Theme, f)
		if err != nil {
			return err
		}
		return c.enqueue(data)
	})

	initial, err := encodeMessage(MessageFrame, c.theme, current())
	if err != nil {
		return err
	}
	c.send <- initial
	h.log.WithFields(map[string]any{"client": c.id.String(), "theme": c.theme}).Info("viewer connected")
	return nil
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, present := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()
	if !present {
		return
	}

	c.mu.Lock()
	sub := c.sub
	c.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
	c.close()
	h.log.WithFields(map[string]any{"client": c.id.String(), "theme": c.theme}).Info("viewer disconnected")
}

func encodeMessage(kind, themeName string, data any) ([]byte, error) {
	return json.Marshal(Message{Type: kind, Theme: themeName, Data: data, Timestamp: time.Now().UTC()})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["theme"]
	sess, ok := s.session(name)
	if !ok {
		http.Error(w, "theme not enabled", http.StatusNotFound)
		return
	}

	conn, err := s.hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error(err, "websocket upgrade failed")
		return
	}

	c := &client{id: uuid.New(), theme: name, conn: conn, send: make(chan []byte, sendBuffer)}
	if err := s.hub.register(c, sess.Frame); err != nil {
		s.log.Error(err, "encode initial frame")
		s.hub.unregister(c)
		conn.Close()
		return
	}

	go s.hub.writePump(c)
	s.hub.readPump(c, sess)
}

// readPump handles viewer messages until the connection drops.
func (h *Hub) readPump(c *client, sess *session.Session) {
	defer h.unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inbound
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.log.WithFields(map[string]any{"client": c.id.String()}).Warn("discarding malformed message")
			continue
		}
		if msg.Type != MessageAction {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err = sess.Act(ctx, theme.Action{Name: msg.Action, Target: msg.Target})
		cancel()
		if err != nil {
			data, encErr := encodeMessage(MessageError, c.theme, err.Error())
			if encErr == nil {
				_ = c.enqueue(data)
			}
		}
	}
}

// writePump owns all writes to the connection.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
