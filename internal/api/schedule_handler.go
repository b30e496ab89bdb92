package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"
	"fitpro/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler serves the trainer/student session calendar.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// --- DTOs ---

type CreateSessionRequest struct {
	StudentID string  `json:"studentId" binding:"required"`
	Date      string  `json:"date" binding:"required"` // "2006-01-02"
	Time      string  `json:"time" binding:"required"` // "15:04"
	// Omitted duration falls back to the 60-minute default.
	Duration  int     `json:"duration" binding:"omitempty,min=1"`
	Type      string  `json:"type" binding:"required"`
	Notes     *string `json:"notes"`
}

type UpdateSessionRequest struct {
	Date     *string               `json:"date"`
	Time     *string               `json:"time"`
	Duration *int                  `json:"duration" binding:"omitempty,min=1"`
	Type     *string               `json:"type"`
	Status   *domain.SessionStatus `json:"status"`
	Notes    *string               `json:"notes"`
}

// --- Handler Methods ---

// ListSessions is role-scoped: trainers see sessions they conduct, students
// see sessions booked for them. Supports ?date= and ?status= filters.
func (h *ScheduleHandler) ListSessions(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify role from token.")
		return
	}

	filter := repository.SessionFilter{
		Date:   c.Query("date"),
		Status: domain.SessionStatus(c.Query("status")),
	}

	sessions, err := h.scheduleService.List(c.Request.Context(), userID, role, filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to list sessions.")
		}
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// CreateSession books a session with one of the trainer's students and
// notifies the student.
func (h *ScheduleHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	session, err := h.scheduleService.Create(c.Request.Context(), trainerID, service.CreateSessionInput{
		StudentID: req.StudentID,
		Date:      req.Date,
		Time:      req.Time,
		Duration:  req.Duration,
		Type:      req.Type,
		Notes:     req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotManaged), errors.Is(err, service.ErrStudentNotFound):
			abortWithError(c, http.StatusForbidden, "You can only schedule sessions with your own students.")
		case errors.Is(err, service.ErrInvalidSessionType):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create session.")
		}
		return
	}

	c.JSON(http.StatusCreated, session)
}

// UpdateSession patches a session. The owning trainer or an admin may edit.
func (h *ScheduleHandler) UpdateSession(c *gin.Context) {
	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	callerRole, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify role from token.")
		return
	}

	session, err := h.scheduleService.Update(c.Request.Context(), callerID, callerRole, c.Param("id"), service.UpdateSessionInput{
		Date:     req.Date,
		Time:     req.Time,
		Duration: req.Duration,
		Type:     req.Type,
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			abortWithError(c, http.StatusNotFound, "Session not found.")
		case errors.Is(err, service.ErrSessionAccessDenied):
			abortWithError(c, http.StatusForbidden, "You may only edit your own sessions.")
		case errors.Is(err, service.ErrInvalidSessionType), errors.Is(err, service.ErrInvalidStatus):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update session.")
		}
		return
	}

	c.JSON(http.StatusOK, session)
}

// DeleteSession cancels-and-removes a session. Progress entries recorded
// during it survive with the session link cleared.
func (h *ScheduleHandler) DeleteSession(c *gin.Context) {
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	callerRole, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify role from token.")
		return
	}

	if err := h.scheduleService.Delete(c.Request.Context(), callerID, callerRole, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			abortWithError(c, http.StatusNotFound, "Session not found.")
		case errors.Is(err, service.ErrSessionAccessDenied):
			abortWithError(c, http.StatusForbidden, "You may only delete your own sessions.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete session.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session deleted."})
}
