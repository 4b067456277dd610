package request

import (
	"github.com/gin-gonic/gin"

	"expertdesk/internal/middleware"
)

// RegisterRoutes registers all service-request routes under the protected group
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	grp := r.Group("/requests")
	{
		grp.POST("", middleware.RequireRole("client"), h.Create)
		grp.GET("", h.List)
		grp.GET("/:id", h.Get)
		grp.PATCH("/:id/status", middleware.RequireRole("expert", "admin"), h.UpdateStatus)
		grp.POST("/:id/assign", middleware.RequireRole("expert", "admin"), h.Assign)
	}
}
