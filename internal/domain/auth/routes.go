package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes registers public auth routes.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	grp := r.Group("/auth")
	{
		grp.POST("/register", h.Register)
		grp.POST("/login", h.Login)
	}
}

// RegisterProtectedRoutes registers routes that require authentication.
func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/auth/me", h.Me)
}
