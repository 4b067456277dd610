package appointment

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the appointment routes under the protected group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	grp := r.Group("/appointments")
	{
		grp.POST("", h.Schedule)
		grp.GET("", h.List)
		grp.GET("/:id", h.Get)
		grp.PATCH("/:id/status", h.UpdateStatus)
		grp.PATCH("/:id/reschedule", h.Reschedule)
	}
}
