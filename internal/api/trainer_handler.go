package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitpro/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// TrainerHandler serves the trainer's student roster endpoints.
type TrainerHandler struct {
	trainerService service.TrainerService
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// --- DTOs ---

type AddStudentRequest struct {
	Email string `json:"email" binding:"required,email"`
	// Name is required only when the email is unknown and a new account
	// must be provisioned.
	Name string `json:"name"`
}

type AddStudentResponse struct {
	Student UserResponse `json:"student"`
	Created bool         `json:"created"`
	// TempPassword is only present when a new account was provisioned. It is
	// shown once and never recoverable afterwards.
	TempPassword string `json:"tempPassword,omitempty"`
}

type UpdateStudentRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Phone *string `json:"phone"`
}

// --- Handler Methods ---

// GetStudents lists the students linked to the authenticated trainer.
func (h *TrainerHandler) GetStudents(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	students, err := h.trainerService.GetStudents(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list students.")
		return
	}

	c.JSON(http.StatusOK, MapUsersToResponse(students))
}

// AddStudent links an existing unlinked student by email, or provisions a new
// account (with a one-time temporary password) when the email is unknown.
func (h *TrainerHandler) AddStudent(c *gin.Context) {
	var req AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	result, err := h.trainerService.AddStudentByEmail(c.Request.Context(), trainerID, req.Email, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAStudent):
			abortWithError(c, http.StatusConflict, "The email belongs to a non-student account.")
		case errors.Is(err, service.ErrStudentAlreadyLinked):
			abortWithError(c, http.StatusConflict, "This student is already on your roster.")
		case errors.Is(err, service.ErrStudentLinkedElsewhere):
			abortWithError(c, http.StatusConflict, "This student is already linked to another trainer.")
		case errors.Is(err, service.ErrNameRequired):
			abortWithError(c, http.StatusBadRequest, "A name is required to create a new student account.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add student.")
		}
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, AddStudentResponse{
		Student:      MapUserToResponse(result.Student),
		Created:      result.Created,
		TempPassword: result.TempPassword,
	})
}

// UpdateStudent edits name/phone of a student on the trainer's roster.
func (h *TrainerHandler) UpdateStudent(c *gin.Context) {
	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	student, err := h.trainerService.UpdateStudent(c.Request.Context(), trainerID, c.Param("id"), service.UpdateStudentInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			abortWithError(c, http.StatusNotFound, "Student not found.")
		case errors.Is(err, service.ErrStudentNotManaged):
			abortWithError(c, http.StatusForbidden, "This student is not on your roster.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update student.")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(student))
}

// RemoveStudent deletes the student account and all of its data. Only the
// linked trainer may do this.
func (h *TrainerHandler) RemoveStudent(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	if err := h.trainerService.RemoveStudent(c.Request.Context(), trainerID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			abortWithError(c, http.StatusNotFound, "Student not found.")
		case errors.Is(err, service.ErrStudentNotManaged):
			abortWithError(c, http.StatusForbidden, "This student is not on your roster.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to remove student.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Student removed."})
}
