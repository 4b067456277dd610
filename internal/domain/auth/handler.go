package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expertdesk/internal/pkg/response"
)

// Handler handles HTTP requests for accounts
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Name      string `json:"name" binding:"required"`
	FirstName string `json:"first_name"`
	Role      string `json:"role"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	u, err := h.service.Register(c.Request.Context(), RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		FirstName: req.FirstName,
		Role:      Role(req.Role),
	})
	if err != nil {
		if err == ErrEmailTaken {
			response.Error(c, http.StatusConflict, "EMAIL_TAKEN", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "registration failed")
		return
	}

	response.Success(c, http.StatusCreated, userResponse(u))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	u, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if err == ErrInvalidCredentials {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "login failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse(u),
	})
}

// Me returns the authenticated account.
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetInt64("user_id")
	u, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	response.Success(c, http.StatusOK, userResponse(u))
}

func userResponse(u *User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"first_name": u.FirstName,
		"role":       u.Role,
		"created_at": u.CreatedAt,
	}
}
