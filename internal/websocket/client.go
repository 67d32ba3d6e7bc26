package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"arrow-be/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBuffer     = 64
)

// Client is a middleman between the websocket connection and its page view.
type Client struct {
	Conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger logger.ILogger
}

func NewClient(conn *websocket.Conn, log logger.ILogger) *Client {
	return &Client{
		Conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		logger: log,
	}
}

// Push queues a frame. A client that cannot keep up is disconnected rather
// than allowed to stall the live queries feeding it.
func (c *Client) Push(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		c.logger.Error("Client", "Frame encode failed", map[string]interface{}{"type": frame.Type, "error": err.Error()})
		return
	}

	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.logger.Warn("Client", "Send buffer full, closing connection", map[string]interface{}{"type": frame.Type})
		c.Close()
	}
}

func (c *Client) Close() {
	c.once.Do(func() { close(c.done) })
}

// readPump feeds inbound frames to handle until the connection drops.
func (c *Client) readPump(ctx context.Context, handle func(ctx context.Context, raw []byte)) {
	defer func() {
		c.Close()
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("Client", "Unexpected close", map[string]interface{}{"error": err.Error()})
			}
			return
		}
		handle(ctx, raw)
	}
}

// writePump writes queued frames, one websocket message each, and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}
