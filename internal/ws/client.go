package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one live feed subscription: a websocket connection registered in
// its user's room. Teardown of the connection is the only cancellation path.
type Client struct {
	hub    *Hub
	id     string
	userID string
	conn   *websocket.Conn
	send   chan []byte

	closeOnce sync.Once
}

func newClient(h *Hub, userID string, conn *websocket.Conn) *Client {
	return &Client{
		hub:    h,
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

// readPump drains (and discards) inbound frames so ping/pong control frames
// are processed; sending happens over the REST API, not the socket.
func (c *Client) readPump() {
	defer c.Close()
	c.conn.SetReadLimit(8 * 1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
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
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// Close deregisters the subscriber and closes the connection. Safe to call
// more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.hub.Leave(c.userID, c)
		close(c.send)
		_ = c.conn.Close()
	})
}
