package ws

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// sendBufferSize bounds the per-client outbound queue. A client that
	// cannot drain it in time is disconnected rather than blocking fan-out.
	sendBufferSize = 64

	writeTimeout = 10 * time.Second
)

// Hub fans events out to connected websocket clients. Chat clients join a
// room group, notification clients join a per-user group. Delivery is best
// effort, the relational store is the source of truth.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[*client]struct{}
	users  map[uuid.UUID]map[*client]struct{}
	closed bool
	logger *zap.Logger
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[uuid.UUID]map[*client]struct{}),
		users:  make(map[uuid.UUID]map[*client]struct{}),
		logger: logger,
	}
}

type client struct {
	hub    *Hub
	conn   net.Conn
	send   chan []byte
	userID uuid.UUID
	roomID uuid.UUID // uuid.Nil for notification clients

	closeOnce sync.Once
}

// PushToRoom delivers an event to every client connected to a chat room
func (h *Hub) PushToRoom(roomID uuid.UUID, event string, payload any) {
	msg, err := envelope("chat", event, payload)
	if err != nil {
		h.logger.Warn("Failed to encode room event", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomID] {
		c.enqueue(msg)
	}
}

// PushToUser delivers an event to every notification client of one user
func (h *Hub) PushToUser(userID uuid.UUID, event string, payload any) {
	msg, err := envelope("notification", event, payload)
	if err != nil {
		h.logger.Warn("Failed to encode user event", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.users[userID] {
		c.enqueue(msg)
	}
}

// Shutdown disconnects every client. The hub accepts no new clients after.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	h.closed = true
	var all []*client
	for _, group := range h.rooms {
		for c := range group {
			all = append(all, c)
		}
	}
	for _, group := range h.users {
		for c := range group {
			all = append(all, c)
		}
	}
	h.rooms = make(map[uuid.UUID]map[*client]struct{})
	h.users = make(map[uuid.UUID]map[*client]struct{})
	h.mu.Unlock()

	for _, c := range all {
		c.close()
	}
}

func (h *Hub) addRoomClient(roomID, userID uuid.UUID, conn net.Conn) *client {
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBufferSize), userID: userID, roomID: roomID}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		conn.Close()
		return nil
	}
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*client]struct{})
	}
	h.rooms[roomID][c] = struct{}{}
	return c
}

func (h *Hub) addUserClient(userID uuid.UUID, conn net.Conn) *client {
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBufferSize), userID: userID}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		conn.Close()
		return nil
	}
	if h.users[userID] == nil {
		h.users[userID] = make(map[*client]struct{})
	}
	h.users[userID][c] = struct{}{}
	return c
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.roomID != uuid.Nil {
		if group, ok := h.rooms[c.roomID]; ok {
			delete(group, c)
			if len(group) == 0 {
				delete(h.rooms, c.roomID)
			}
		}
		return
	}
	if group, ok := h.users[c.userID]; ok {
		delete(group, c)
		if len(group) == 0 {
			delete(h.users, c.userID)
		}
	}
}

// enqueue queues a message for the client, dropping the connection when the
// buffer is full
func (c *client) enqueue(msg []byte) {
	select {
	case c.send <- msg:
	default:
		c.hub.logger.Warn("Dropping slow websocket client", zap.String("user_id", c.userID.String()))
		// the caller holds the hub read lock, close needs the write lock
		go c.close()
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		c.hub.remove(c)
		close(c.send)
		c.conn.Close()
	})
}

// serve runs the read and write loops until the peer disconnects
func (c *client) serve() {
	go c.writeLoop()
	c.readLoop()
}

func (c *client) writeLoop() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := wsutil.WriteServerMessage(c.conn, ws.OpText, msg); err != nil {
			c.close()
			return
		}
	}
}

// readLoop discards inbound frames. The hub is push-only, reading is needed
// to answer control frames and to notice disconnects.
func (c *client) readLoop() {
	defer c.close()
	for {
		if _, _, err := wsutil.ReadClientData(c.conn); err != nil {
			return
		}
	}
}

// envelope flattens the payload into the event message so clients receive
// {"type": ..., "event": ..., <payload fields>}
func envelope(typ, event string, payload any) ([]byte, error) {
	body := make(map[string]any)
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			// non-object payloads land under "data"
			body = map[string]any{"data": json.RawMessage(raw)}
		}
	}
	body["type"] = typ
	body["event"] = event
	return json.Marshal(body)
}
