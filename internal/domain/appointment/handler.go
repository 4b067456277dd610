package appointment

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"expertdesk/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type scheduleRequest struct {
	ClientID        int64     `json:"client_id"`
	ExpertID        int64     `json:"expert_id"`
	RequestID       *int64    `json:"request_id"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes"`
	Type            string    `json:"type" binding:"required"`
	Notes           string    `json:"notes"`
}

func (h *Handler) Schedule(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	created, warning, err := h.service.Schedule(c.Request.Context(), userID, role, ScheduleInput{
		ClientID:        req.ClientID,
		ExpertID:        req.ExpertID,
		RequestID:       req.RequestID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Type:            ConsultationType(req.Type),
		Notes:           req.Notes,
	})
	if err != nil {
		handleAppointmentError(c, err)
		return
	}
	if warning != "" {
		response.SuccessWithWarning(c, http.StatusCreated, appointmentResponse(created), warning)
		return
	}
	response.Success(c, http.StatusCreated, appointmentResponse(created))
}

func (h *Handler) Get(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid appointment id")
		return
	}

	a, err := h.service.Get(c.Request.Context(), userID, role, id)
	if err != nil {
		handleAppointmentError(c, err)
		return
	}
	response.Success(c, http.StatusOK, appointmentResponse(a))
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	list, err := h.service.List(c.Request.Context(), userID, role)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to list appointments")
		return
	}
	items := make([]gin.H, 0, len(list))
	for _, a := range list {
		items = append(items, appointmentResponse(a))
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
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid appointment id")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	updated, warning, err := h.service.UpdateStatus(c.Request.Context(), userID, role, id, Status(req.Status))
	if err != nil {
		handleAppointmentError(c, err)
		return
	}
	if warning != "" {
		response.SuccessWithWarning(c, http.StatusOK, appointmentResponse(updated), warning)
		return
	}
	response.Success(c, http.StatusOK, appointmentResponse(updated))
}

type rescheduleRequest struct {
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes"`
}

func (h *Handler) Reschedule(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid appointment id")
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	updated, warning, err := h.service.Reschedule(c.Request.Context(), userID, role, id, req.ScheduledAt, req.DurationMinutes)
	if err != nil {
		handleAppointmentError(c, err)
		return
	}
	if warning != "" {
		response.SuccessWithWarning(c, http.StatusOK, appointmentResponse(updated), warning)
		return
	}
	response.Success(c, http.StatusOK, appointmentResponse(updated))
}

func appointmentResponse(a *Appointment) gin.H {
	resp := gin.H{
		"id":               a.ID,
		"client_id":        a.ClientID,
		"expert_id":        a.ExpertID,
		"scheduled_at":     a.ScheduledAt,
		"duration_minutes": a.DurationMinutes,
		"type":             a.Type,
		"status":           a.Status,
		"notes":            a.Notes,
		"created_at":       a.CreatedAt,
		"updated_at":       a.UpdatedAt,
	}
	if a.RequestID.Valid {
		resp["request_id"] = a.RequestID.Int64
	}
	return resp
}

func handleAppointmentError(c *gin.Context, err error) {
	switch err {
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case ErrInvalidStatus, ErrInvalidType, ErrPastTime:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case ErrTerminalStatus:
		response.Error(c, http.StatusUnprocessableEntity, "TERMINAL_STATUS", err.Error())
	case ErrSlotTaken:
		response.Error(c, http.StatusConflict, "SLOT_TAKEN", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
