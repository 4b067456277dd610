package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024
)

// Client is the per-connection actor: it owns inbound decoding, persistence
// ordering for chat messages, and outbound delivery to its own socket.
// Authorization has already happened before a Client is created.
type Client struct {
	userID    int64
	userName  string
	role      string
	requestID int64

	conn    *websocket.Conn
	send    chan []byte
	hub     Broadcaster
	service *Service
	logger  *zap.Logger
}

func NewClient(conn *websocket.Conn, hub Broadcaster, service *Service, logger *zap.Logger, userID int64, userName, role string, requestID int64) *Client {
	return &Client{
		userID:    userID,
		userName:  userName,
		role:      role,
		requestID: requestID,
		conn:      conn,
		send:      make(chan []byte, 256),
		hub:       hub,
		service:   service,
		logger:    logger,
	}
}

// Run joins the room and serves the connection until it closes. It blocks
// in the read loop; the write loop runs in its own goroutine.
func (c *Client) Run() {
	c.hub.Join(c.requestID, c)
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	// Leave must precede the close: once the client is out of the room no
	// Publish can reach c.send, so closing it here is race-free and lets
	// writePump exit promptly instead of waiting for the next ping.
	defer func() {
		c.hub.Leave(c.requestID, c)
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read failed",
					zap.Int64("user_id", c.userID),
					zap.Int64("request_id", c.requestID),
					zap.Error(err))
			}
			return
		}

		var event inboundEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			c.sendError("INVALID_JSON", "failed to parse event")
			continue
		}

		switch {
		case event.Typing != nil:
			c.handleTyping(*event.Typing)
		case event.Message != nil:
			c.handleMessage(*event.Message)
		default:
			c.sendError("UNKNOWN_EVENT", "expected a message or typing field")
		}
	}
}

// handleMessage persists first, then republishes with the store-assigned
// timestamp. A persistence failure is reported to this peer only; the
// connection stays open and nothing is broadcast.
func (c *Client) handleMessage(text string) {
	msg, err := c.service.SaveMessage(context.Background(), c.userID, c.role, c.requestID, text)
	if err != nil {
		c.sendError("SEND_FAILED", err.Error())
		return
	}

	c.hub.Publish(c.requestID, &MessageEvent{
		Message:    msg.Content,
		SenderID:   c.userID,
		SenderName: c.userName,
		Timestamp:  msg.SentAt.Format(time.RFC3339),
	})
}

// handleTyping republishes the indicator as-is: never persisted, at most
// once, no retry.
func (c *Client) handleTyping(isTyping bool) {
	c.hub.Publish(c.requestID, &TypingEvent{
		Typing: TypingPayload{
			UserID:   c.userID,
			UserName: c.userName,
			IsTyping: isTyping,
		},
	})
}

func (c *Client) sendError(code, message string) {
	data, err := json.Marshal(&ErrorEvent{Error: ErrorPayload{Code: code, Message: message}})
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
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
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
