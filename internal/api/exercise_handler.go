package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitpro/gym-app/internal/repository"
	"fitpro/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler serves the shared exercise catalog.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs ---

type CreateExerciseRequest struct {
	Name        string  `json:"name" binding:"required"`
	MuscleGroup string  `json:"muscleGroup" binding:"required"` // Single group or "/"-composite
	Equipment   string  `json:"equipment"`                      // Defaults to "Nenhum" when empty
	Description *string `json:"description"`
	Difficulty  string  `json:"difficulty" binding:"required"`
}

type UpdateExerciseRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	MuscleGroup *string `json:"muscleGroup"`
	Equipment   *string `json:"equipment"`
	Description *string `json:"description"`
	Difficulty  *string `json:"difficulty"`
}

// --- Handler Methods ---

// ListExercises returns the catalog, filtered by ?muscleGroup=, ?difficulty=
// and ?search= (name/equipment substring). Open to any authenticated user.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	filter := repository.ExerciseFilter{
		MuscleGroup: c.Query("muscleGroup"),
		Difficulty:  c.Query("difficulty"),
		Search:      c.Query("search"),
	}

	exercises, err := h.exerciseService.List(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises.")
		return
	}

	c.JSON(http.StatusOK, exercises)
}

// GetExercise returns one catalog entry.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exercise, err := h.exerciseService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, "Exercise not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load exercise.")
		}
		return
	}

	c.JSON(http.StatusOK, exercise)
}

// CreateExercise adds a catalog entry authored by the caller.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	creatorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	exercise, err := h.exerciseService.Create(c.Request.Context(), creatorID, service.CreateExerciseInput{
		Name:        req.Name,
		MuscleGroup: req.MuscleGroup,
		Equipment:   req.Equipment,
		Description: req.Description,
		Difficulty:  req.Difficulty,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDifficulty), errors.Is(err, service.ErrInvalidMuscleGroup):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise.")
		}
		return
	}

	c.JSON(http.StatusCreated, exercise)
}

// UpdateExercise patches a catalog entry. Trainers may only touch exercises
// they authored; admins may touch any.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	var req UpdateExerciseRequest
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

	exercise, err := h.exerciseService.Update(c.Request.Context(), callerID, callerRole, c.Param("id"), service.UpdateExerciseInput{
		Name:        req.Name,
		MuscleGroup: req.MuscleGroup,
		Equipment:   req.Equipment,
		Description: req.Description,
		Difficulty:  req.Difficulty,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, "Exercise not found.")
		case errors.Is(err, service.ErrExerciseAccessDenied):
			abortWithError(c, http.StatusForbidden, "You may only edit exercises you created.")
		case errors.Is(err, service.ErrInvalidDifficulty), errors.Is(err, service.ErrInvalidMuscleGroup):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update exercise.")
		}
		return
	}

	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise removes a catalog entry together with its plan rows and
// completion marks.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
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

	if err := h.exerciseService.Delete(c.Request.Context(), callerID, callerRole, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, "Exercise not found.")
		case errors.Is(err, service.ErrExerciseAccessDenied):
			abortWithError(c, http.StatusForbidden, "You may only delete exercises you created.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete exercise.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Exercise deleted."})
}
