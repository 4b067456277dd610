package request

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"expertdesk/internal/pkg/response"
)

// Handler handles HTTP requests for service requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description" binding:"required"`
	Priority    string `json:"priority"`
}

func (h *Handler) Create(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), userID, CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    Priority(req.Priority),
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to create request")
		return
	}
	response.Success(c, http.StatusCreated, requestResponse(created))
}

func (h *Handler) Get(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid request id")
		return
	}

	req, err := h.service.Get(c.Request.Context(), userID, role, id)
	if err != nil {
		handleRequestError(c, err)
		return
	}
	response.Success(c, http.StatusOK, requestResponse(req))
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	list, err := h.service.List(c.Request.Context(), userID, role)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to list requests")
		return
	}
	items := make([]gin.H, 0, len(list))
	for _, r := range list {
		items = append(items, requestResponse(r))
	}
	response.Success(c, http.StatusOK, items)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid request id")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	updated, warning, err := h.service.UpdateStatus(c.Request.Context(), userID, role, id, Status(req.Status))
	if err != nil {
		handleRequestError(c, err)
		return
	}
	if warning != "" {
		response.SuccessWithWarning(c, http.StatusOK, requestResponse(updated), warning)
		return
	}
	response.Success(c, http.StatusOK, requestResponse(updated))
}

type assignRequest struct {
	ExpertID int64 `json:"expert_id" binding:"required"`
}

func (h *Handler) Assign(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid request id")
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	updated, warning, err := h.service.Assign(c.Request.Context(), userID, role, id, req.ExpertID)
	if err != nil {
		handleRequestError(c, err)
		return
	}
	if warning != "" {
		response.SuccessWithWarning(c, http.StatusOK, requestResponse(updated), warning)
		return
	}
	response.Success(c, http.StatusOK, requestResponse(updated))
}

func requestResponse(r *ServiceRequest) gin.H {
	resp := gin.H{
		"id":          r.ID,
		"client_id":   r.ClientID,
		"title":       r.Title,
		"description": r.Description,
		"status":      r.Status,
		"priority":    r.Priority,
		"created_at":  r.CreatedAt,
		"updated_at":  r.UpdatedAt,
	}
	if r.ExpertID.Valid {
		resp["expert_id"] = r.ExpertID.Int64
	}
	return resp
}

func handleRequestError(c *gin.Context, err error) {
	switch err {
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case ErrInvalidStatus:
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
	case ErrInvalidTransition:
		response.Error(c, http.StatusUnprocessableEntity, "INVALID_TRANSITION", err.Error())
	case ErrTerminalStatus:
		response.Error(c, http.StatusUnprocessableEntity, "TERMINAL_STATUS", err.Error())
	case ErrAlreadyAssigned:
		response.Error(c, http.StatusConflict, "ALREADY_ASSIGNED", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
