package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"collab-service/internal/session"

	"github.com/gorilla/websocket"
)

// ErrClientGone is returned by Send once the connection is closed or its
// send buffer has overflowed.
var ErrClientGone = errors.New("client disconnected")

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size; document content rides in these frames
	maxMessageSize = 1 << 20

	sendBufferSize = 256
)

// envelope is the outbound wire frame. The inbound counterpart is
// session.Envelope, which keeps the payload raw for the dispatch table.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Client pumps one websocket connection. It implements session.Sink: the hub
// writes outbound events into the buffered send channel and the write pump
// drains it. A full buffer drops the client rather than blocking the hub.
type Client struct {
	hub    *session.Hub
	conn   *websocket.Conn
	connID string

	send chan []byte
	done chan struct{}

	closed int32
	logger *slog.Logger
}

func newClient(hub *session.Hub, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Send implements session.Sink.
func (c *Client) Send(event string, data any) error {
	if atomic.LoadInt32(&c.closed) == 1 {
		return ErrClientGone
	}

	payload, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		return err
	}

	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return ErrClientGone
	default:
		// Slow consumer: drop the client instead of blocking the hub.
		c.logger.Warn("send buffer full, dropping client", "connID", c.connID)
		c.drop()
		return ErrClientGone
	}
}

// drop closes the transport; the read pump then unwinds the session
// teardown exactly as it would for a peer-initiated close.
func (c *Client) drop() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.conn.Close()
	}
}

func (c *Client) readPump() {
	defer func() {
		close(c.done)
		c.hub.EnqueueDisconnect(c.connID)
		c.drop()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "connID", c.connID, "error", err)
			}
			return
		}

		var env session.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.logger.Debug("malformed frame", "connID", c.connID, "error", err)
			c.Send(session.EventError, session.ErrorData{
				Code:    "INVALID_MESSAGE",
				Message: "invalid message format",
			})
			continue
		}

		c.hub.Enqueue(c.connID, env)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.Debug("write failed", "connID", c.connID, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
