package notification

import "github.com/gin-gonic/gin"

// RegisterRoutes registers all notification routes under the protected group
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	grp := r.Group("/notifications")
	{
		grp.GET("", h.List)
		grp.POST("/read-all", h.MarkAllAsRead)
		grp.POST("/:id/read", h.MarkAsRead)
		grp.GET("/:id/redirect", h.Redirect)
	}
}
