package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler serves workout plans, the completion toggle and workout
// feedback.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type CreatePlanRequest struct {
	Name        string                      `json:"name" binding:"required"`
	Description *string                     `json:"description"`
	StudentID   string                      `json:"studentId" binding:"required"`
	DayOfWeek   []string                    `json:"dayOfWeek" binding:"required,min=1"`
	Exercises   []service.PlanExerciseInput `json:"exercises" binding:"required,min=1"`
}

type UpdatePlanRequest struct {
	Name        *string                      `json:"name" binding:"omitempty,min=1"`
	Description *string                      `json:"description"`
	DayOfWeek   *[]string                    `json:"dayOfWeek"`
	IsActive    *bool                        `json:"isActive"`
	Exercises   *[]service.PlanExerciseInput `json:"exercises"`
}

type ToggleCompletionRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required"`
}

type FeedbackRequest struct {
	DurationMinutes int     `json:"durationMinutes" binding:"required,min=1"`
	Rating          int     `json:"rating" binding:"required"`
	Intensity       string  `json:"intensity" binding:"required"`
	Observations    *string `json:"observations"`
}

// --- Handler Methods ---

// ListPlans is role-scoped: trainers see every plan they authored, students
// see their active plans.
func (h *WorkoutHandler) ListPlans(c *gin.Context) {
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

	var plans []domain.WorkoutPlan
	if role == domain.RoleStudent {
		plans, err = h.workoutService.ListActiveByStudent(c.Request.Context(), userID)
	} else {
		plans, err = h.workoutService.ListByTrainer(c.Request.Context(), userID)
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workout plans.")
		return
	}

	c.JSON(http.StatusOK, plans)
}

// GetPlan returns one plan with its ordered exercise rows.
func (h *WorkoutHandler) GetPlan(c *gin.Context) {
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

	plan, err := h.workoutService.Get(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, "Workout plan not found.")
		case errors.Is(err, service.ErrPlanAccessDenied):
			abortWithError(c, http.StatusForbidden, "You have no access to this workout plan.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to load workout plan.")
		}
		return
	}

	c.JSON(http.StatusOK, plan)
}

// CreatePlan builds a plan for one of the trainer's students and notifies the
// student.
func (h *WorkoutHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	plan, err := h.workoutService.Create(c.Request.Context(), trainerID, service.CreatePlanInput{
		Name:        req.Name,
		Description: req.Description,
		StudentID:   req.StudentID,
		DayOfWeek:   req.DayOfWeek,
		Exercises:   req.Exercises,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotManaged), errors.Is(err, service.ErrStudentNotFound):
			abortWithError(c, http.StatusForbidden, "You can only create plans for your own students.")
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusBadRequest, "An exercise in the plan does not exist.")
		case errors.Is(err, service.ErrInvalidWeekday),
			errors.Is(err, service.ErrInvalidSets),
			errors.Is(err, service.ErrInvalidRest),
			errors.Is(err, service.ErrEmptyExerciseList):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create workout plan.")
		}
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// UpdatePlan patches a plan. A non-null exercises array replaces the whole
// list.
func (h *WorkoutHandler) UpdatePlan(c *gin.Context) {
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	plan, err := h.workoutService.Update(c.Request.Context(), trainerID, c.Param("id"), service.UpdatePlanInput{
		Name:        req.Name,
		Description: req.Description,
		DayOfWeek:   req.DayOfWeek,
		IsActive:    req.IsActive,
		Exercises:   req.Exercises,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, "Workout plan not found.")
		case errors.Is(err, service.ErrPlanAccessDenied):
			abortWithError(c, http.StatusForbidden, "You may only edit your own plans.")
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusBadRequest, "An exercise in the plan does not exist.")
		case errors.Is(err, service.ErrInvalidWeekday),
			errors.Is(err, service.ErrInvalidSets),
			errors.Is(err, service.ErrInvalidRest),
			errors.Is(err, service.ErrEmptyExerciseList):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout plan.")
		}
		return
	}

	c.JSON(http.StatusOK, plan)
}

// DeletePlan removes a plan and its exercise rows and completion marks.
func (h *WorkoutHandler) DeletePlan(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	if err := h.workoutService.Delete(c.Request.Context(), trainerID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, "Workout plan not found.")
		case errors.Is(err, service.ErrPlanAccessDenied):
			abortWithError(c, http.StatusForbidden, "You may only delete your own plans.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete workout plan.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Workout plan deleted."})
}

// ToggleCompletion flips today's completion state of one exercise in one of
// the student's plans and returns the resulting state.
func (h *WorkoutHandler) ToggleCompletion(c *gin.Context) {
	var req ToggleCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify student from token.")
		return
	}

	completed, err := h.workoutService.ToggleCompletion(c.Request.Context(), studentID, c.Param("id"), req.ExerciseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, "Workout plan not found.")
		case errors.Is(err, service.ErrPlanAccessDenied):
			abortWithError(c, http.StatusForbidden, "This plan is not assigned to you.")
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusBadRequest, "The exercise is not part of this plan.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to toggle completion.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"completed": completed})
}

// CompletedToday lists the student's completion marks for the current
// calendar day across all plans.
func (h *WorkoutHandler) CompletedToday(c *gin.Context) {
	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify student from token.")
		return
	}

	completed, err := h.workoutService.CompletedToday(c.Request.Context(), studentID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list completed exercises.")
		return
	}
	if completed == nil {
		completed = []domain.CompletedExercise{}
	}

	c.JSON(http.StatusOK, completed)
}

// SubmitFeedback records a student's post-workout report as a notification to
// the plan's trainer.
func (h *WorkoutHandler) SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify student from token.")
		return
	}

	err = h.workoutService.SubmitFeedback(c.Request.Context(), studentID, c.Param("id"), service.FeedbackInput{
		DurationMinutes: req.DurationMinutes,
		Rating:          req.Rating,
		Intensity:       req.Intensity,
		Observations:    req.Observations,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, "Workout plan not found.")
		case errors.Is(err, service.ErrPlanAccessDenied):
			abortWithError(c, http.StatusForbidden, "This plan is not assigned to you.")
		case errors.Is(err, service.ErrInvalidRating), errors.Is(err, service.ErrInvalidIntensity):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to submit feedback.")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Feedback delivered to your trainer."})
}
