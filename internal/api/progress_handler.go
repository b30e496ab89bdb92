package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitpro/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ProgressHandler serves body measurement history.
type ProgressHandler struct {
	progressService service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// --- DTOs ---

type CreateProgressRequest struct {
	StudentID string   `json:"studentId"` // Ignored for students, required for trainers
	SessionID *string  `json:"sessionId"`
	Date      string   `json:"date" binding:"required"`
	Weight    float64  `json:"weight" binding:"required"`
	BodyFat   *float64 `json:"bodyFat"`
	Chest     *float64 `json:"chest"`
	Waist     *float64 `json:"waist"`
	Hips      *float64 `json:"hips"`
	Arms      *float64 `json:"arms"`
	Thighs    *float64 `json:"thighs"`
	Notes     *string  `json:"notes"`
}

type UpdateProgressRequest struct {
	SessionID *string  `json:"sessionId"`
	Date      *string  `json:"date"`
	Weight    *float64 `json:"weight"`
	BodyFat   *float64 `json:"bodyFat"`
	Chest     *float64 `json:"chest"`
	Waist     *float64 `json:"waist"`
	Hips      *float64 `json:"hips"`
	Arms      *float64 `json:"arms"`
	Thighs    *float64 `json:"thighs"`
	Notes     *string  `json:"notes"`
}

// --- Handler Methods ---

// ListProgress returns the measurement history. Students get their own;
// trainers and admins pass ?studentId=.
func (h *ProgressHandler) ListProgress(c *gin.Context) {
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

	entries, err := h.progressService.List(c.Request.Context(), callerID, callerRole, c.Query("studentId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentIDRequired):
			abortWithError(c, http.StatusBadRequest, "studentId query parameter is required.")
		case errors.Is(err, service.ErrProgressAccessDenied), errors.Is(err, service.ErrStudentNotManaged):
			abortWithError(c, http.StatusForbidden, "You have no access to this student's progress.")
		case errors.Is(err, service.ErrStudentNotFound):
			abortWithError(c, http.StatusNotFound, "Student not found.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to list progress.")
		}
		return
	}

	c.JSON(http.StatusOK, entries)
}

// CreateProgress records a measurement entry.
func (h *ProgressHandler) CreateProgress(c *gin.Context) {
	var req CreateProgressRequest
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

	entry, err := h.progressService.Create(c.Request.Context(), callerID, callerRole, service.CreateProgressInput{
		StudentID: req.StudentID,
		SessionID: req.SessionID,
		Date:      req.Date,
		Weight:    req.Weight,
		BodyFat:   req.BodyFat,
		Chest:     req.Chest,
		Waist:     req.Waist,
		Hips:      req.Hips,
		Arms:      req.Arms,
		Thighs:    req.Thighs,
		Notes:     req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeightRequired), errors.Is(err, service.ErrStudentIDRequired):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProgressAccessDenied), errors.Is(err, service.ErrStudentNotManaged):
			abortWithError(c, http.StatusForbidden, "You have no access to this student's progress.")
		case errors.Is(err, service.ErrStudentNotFound):
			abortWithError(c, http.StatusNotFound, "Student not found.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to record progress.")
		}
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// UpdateProgress patches an entry owned by the caller (or one of the
// trainer's students, or any entry for admins).
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	var req UpdateProgressRequest
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

	entry, err := h.progressService.Update(c.Request.Context(), callerID, callerRole, c.Param("id"), service.UpdateProgressInput{
		SessionID: req.SessionID,
		Date:      req.Date,
		Weight:    req.Weight,
		BodyFat:   req.BodyFat,
		Chest:     req.Chest,
		Waist:     req.Waist,
		Hips:      req.Hips,
		Arms:      req.Arms,
		Thighs:    req.Thighs,
		Notes:     req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgressNotFound):
			abortWithError(c, http.StatusNotFound, "Progress entry not found.")
		case errors.Is(err, service.ErrProgressAccessDenied):
			abortWithError(c, http.StatusForbidden, "You have no access to this progress entry.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update progress.")
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteProgress removes an entry after the same ownership check as update.
func (h *ProgressHandler) DeleteProgress(c *gin.Context) {
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

	if err := h.progressService.Delete(c.Request.Context(), callerID, callerRole, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrProgressNotFound):
			abortWithError(c, http.StatusNotFound, "Progress entry not found.")
		case errors.Is(err, service.ErrProgressAccessDenied):
			abortWithError(c, http.StatusForbidden, "You have no access to this progress entry.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete progress.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Progress entry deleted."})
}
