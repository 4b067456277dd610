package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"expertdesk/internal/pkg/response"
)

// Handler handles HTTP requests for notifications
type Handler struct {
	service  *Service
	resolver *Resolver
}

func NewHandler(service *Service, resolver *Resolver) *Handler {
	return &Handler{service: service, resolver: resolver}
}

// List returns the user's notifications plus the unread counter.
func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")

	limit := 20
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	list, unread, err := h.service.List(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to list notifications")
		return
	}

	items := make([]gin.H, 0, len(list))
	for _, n := range list {
		items = append(items, notificationResponse(n))
	}
	response.Success(c, http.StatusOK, gin.H{
		"notifications": items,
		"unread_count":  unread,
	})
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	userID := c.GetInt64("user_id")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid notification id")
		return
	}
	if err := h.service.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to mark as read")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id})
}

func (h *Handler) MarkAllAsRead(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if err := h.service.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to mark all as read")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked": "all"})
}

// Redirect resolves the canonical target for a notification and returns it
// to the UI, which performs the navigation.
func (h *Handler) Redirect(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid notification id")
		return
	}

	n, err := h.service.Get(c.Request.Context(), id, userID)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to resolve notification")
		return
	}

	// Opening a notification marks it read.
	_ = h.service.MarkAsRead(c.Request.Context(), id, userID)

	response.Success(c, http.StatusOK, gin.H{
		"target": h.resolver.Resolve(c.Request.Context(), n, role),
	})
}

func notificationResponse(n *Notification) gin.H {
	resp := gin.H{
		"id":         n.ID,
		"type":       n.Type,
		"title":      n.Title,
		"body":       n.Body,
		"is_read":    n.IsRead,
		"created_at": n.CreatedAt,
	}
	if n.RequestID.Valid {
		resp["request_id"] = n.RequestID.Int64
	}
	if n.AppointmentID.Valid {
		resp["appointment_id"] = n.AppointmentID.Int64
	}
	if n.MessageID.Valid {
		resp["message_id"] = n.MessageID.String
	}
	if n.ReadAt.Valid {
		resp["read_at"] = n.ReadAt.Time
	}
	return resp
}
