package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one WebSocket connection. ConnID doubles as the user id for the
// duration of the connection, matching the source protocol; a reconnect is a
// brand-new identity.
type Client struct {
	ConnID string
	Send   chan []byte
	Conn   *websocket.Conn

	closeOnce sync.Once
	kicked    atomic.Bool
}

// NewClient wraps an upgraded connection with a fresh identity and a
// buffered send queue.
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ConnID: uuid.NewString(),
		Send:   make(chan []byte, 256),
		Conn:   conn,
	}
}

// Close shuts the send queue, which ends the write pump. Safe to call more
// than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// Kick forcibly disconnects a client that can no longer keep up. Closing
// the connection makes the read pump exit, which runs the normal disconnect
// cleanup; a reconnect gets a full resync. The send queue stays open so
// in-flight broadcasts remain safe.
func (c *Client) Kick() {
	if c.kicked.CompareAndSwap(false, true) && c.Conn != nil {
		log.Printf("[ws] kicking slow client %s", c.ConnID)
		c.Conn.Close()
	}
}

// Kicked reports whether the client was disconnected for falling behind.
func (c *Client) Kicked() bool { return c.kicked.Load() }

// ReadPump decodes inbound frames and feeds them to the session until the
// connection drops, then runs disconnect cleanup.
func (c *Client) ReadPump(s *Session) {
	defer func() {
		s.Disconnect()
		c.Close()
		c.Conn.Close()
	}()
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("[ws] dropping malformed frame from %s: %v", c.ConnID, err)
			continue
		}
		s.Handle(env)
	}
}

// WritePump drains the send queue onto the wire. It exits when Close shuts
// the queue or a write fails.
func (c *Client) WritePump() {
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
