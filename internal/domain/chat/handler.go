package chat

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"expertdesk/internal/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler serves the websocket endpoint and the REST surface of a
// conversation: history, sending over plain HTTP, and read state.
type Handler struct {
	service *Service
	hub     Broadcaster
	users   UserSource
	logger  *zap.Logger
}

func NewHandler(service *Service, hub Broadcaster, users UserSource, logger *zap.Logger) *Handler {
	return &Handler{service: service, hub: hub, users: users, logger: logger}
}

// Connect authorizes the user against the room before upgrading. After the
// upgrade the connection is handed to a Client, which blocks until close.
func (h *Handler) Connect(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid request id")
		return
	}

	if err := h.service.Authorize(c.Request.Context(), userID, role, requestID); err != nil {
		handleChatError(c, err)
		return
	}

	userName, err := h.users.GetUserName(c.Request.Context(), userID)
	if err != nil {
		userName = "unknown"
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.Int64("user_id", userID),
			zap.Int64("request_id", requestID),
			zap.Error(err))
		return
	}

	client := NewClient(conn, h.hub, h.service, h.logger, userID, userName, role, requestID)
	client.Run()
}

// History returns the conversation's messages in submission order.
func (h *Handler) History(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid request id")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := h.service.History(c.Request.Context(), userID, role, requestID, limit, offset)
	if err != nil {
		handleChatError(c, err)
		return
	}

	items := make([]gin.H, 0, len(messages))
	for _, m := range messages {
		items = append(items, messageResponse(m))
	}
	response.Success(c, http.StatusOK, items)
}

type sendRequest struct {
	Content string `json:"content" binding:"required"`
}

// Send accepts a message over plain HTTP. The persisted message is also
// published to the room so connected peers see it immediately.
func (h *Handler) Send(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid request id")
		return
	}

	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.Authorize(c.Request.Context(), userID, role, requestID); err != nil {
		handleChatError(c, err)
		return
	}

	msg, err := h.service.SaveMessage(c.Request.Context(), userID, role, requestID, req.Content)
	if err != nil {
		handleChatError(c, err)
		return
	}

	userName, nameErr := h.users.GetUserName(c.Request.Context(), userID)
	if nameErr != nil {
		userName = "unknown"
	}
	h.hub.Publish(requestID, &MessageEvent{
		Message:    msg.Content,
		SenderID:   userID,
		SenderName: userName,
		Timestamp:  msg.SentAt.Format(time.RFC3339),
	})

	response.Success(c, http.StatusCreated, messageResponse(msg))
}

// MarkRead marks every message addressed to the caller in this
// conversation as read.
func (h *Handler) MarkRead(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid request id")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), userID, role, requestID); err != nil {
		handleChatError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked": true})
}

// UnreadCount returns the caller's total unread messages across all
// conversations.
func (h *Handler) UnreadCount(c *gin.Context) {
	userID := c.GetInt64("user_id")

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to count unread messages")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unread": count})
}

func messageResponse(m *Message) gin.H {
	resp := gin.H{
		"id":         m.ID,
		"request_id": m.RequestID,
		"sender_id":  m.SenderID,
		"content":    m.Content,
		"sent_at":    m.SentAt,
		"is_read":    m.IsRead,
	}
	if m.RecipientID.Valid {
		resp["recipient_id"] = m.RecipientID.Int64
	}
	return resp
}

func handleChatError(c *gin.Context, err error) {
	switch err {
	case ErrRequestNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case ErrNotAuthorized:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case ErrExpertNotEngaged:
		response.Error(c, http.StatusForbidden, "EXPERT_NOT_ENGAGED", err.Error())
	case ErrEmptyMessage, ErrMessageTooLong:
		response.Error(c, http.StatusBadRequest, "INVALID_MESSAGE", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
