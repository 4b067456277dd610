package chat

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the conversation routes under the protected group.
// The websocket endpoint authenticates via the same middleware as the REST
// routes; browsers pass the token as a query parameter.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/ws/requests/:id", h.Connect)

	grp := r.Group("/requests/:id/messages")
	{
		grp.GET("", h.History)
		grp.POST("", h.Send)
		grp.POST("/read", h.MarkRead)
	}

	r.GET("/messages/unread", h.UnreadCount)
}
