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

// UserHandler serves the self-serve profile endpoints and the admin user CRUD.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// --- DTOs ---

type UpdateProfileRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar"`
}

type AdminCreateUserRequest struct {
	Name          string      `json:"name" binding:"required"`
	Email         string      `json:"email" binding:"required,email"`
	Password      string      `json:"password" binding:"required,min=6"`
	Role          domain.Role `json:"role" binding:"required,oneof=trainer student admin"`
	Phone         *string     `json:"phone"`
	Cref          *string     `json:"cref"`
	TrainerID     *string     `json:"trainerId"`
	EmailVerified bool        `json:"emailVerified"`
}

type AdminUpdateUserRequest struct {
	Name          *string      `json:"name" binding:"omitempty,min=1"`
	Email         *string      `json:"email" binding:"omitempty,email"`
	Password      *string      `json:"password" binding:"omitempty,min=6"`
	Role          *domain.Role `json:"role" binding:"omitempty,oneof=trainer student admin"`
	Avatar        *string      `json:"avatar"`
	Phone         *string      `json:"phone"`
	Cref          *string      `json:"cref"`
	TrainerID     *string      `json:"trainerId"`
	EmailVerified *bool        `json:"emailVerified"`
}

// --- Self-serve profile ---

// UpdateProfile lets the authenticated user change name, phone and avatar.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, service.UpdateProfileInput{
		Name:   req.Name,
		Phone:  req.Phone,
		Avatar: req.Avatar,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, "User not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update profile.")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// --- Admin user management ---

// ListUsers returns all accounts, optionally filtered by ?role= and ?search=
// (name/email substring).
func (h *UserHandler) ListUsers(c *gin.Context) {
	filter := repository.UserFilter{
		Search: c.Query("search"),
		Role:   domain.Role(c.Query("role")),
	}

	users, err := h.userService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list users.")
		return
	}

	c.JSON(http.StatusOK, MapUsersToResponse(users))
}

// GetUser returns one account by id.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, "User not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load user.")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// CreateUser provisions an account directly, bypassing email verification
// when emailVerified is set.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), service.AdminCreateUserInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Role:          req.Role,
		Phone:         req.Phone,
		Cref:          req.Cref,
		TrainerID:     req.TrainerID,
		EmailVerified: req.EmailVerified,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			abortWithError(c, http.StatusConflict, "Email address is already registered.")
		case errors.Is(err, service.ErrNotATrainer):
			abortWithError(c, http.StatusBadRequest, "trainerId must reference a trainer account.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create user.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// UpdateUser patches any account field, including role and verified state.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), service.AdminUpdateUserInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Role:          req.Role,
		Avatar:        req.Avatar,
		Phone:         req.Phone,
		Cref:          req.Cref,
		TrainerID:     req.TrainerID,
		EmailVerified: req.EmailVerified,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, "User not found.")
		case errors.Is(err, service.ErrUserAlreadyExists):
			abortWithError(c, http.StatusConflict, "Email address is already registered.")
		case errors.Is(err, service.ErrNotATrainer):
			abortWithError(c, http.StatusBadRequest, "trainerId must reference a trainer account.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update user.")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// DeleteUser removes the account together with everything it owns. Admins
// cannot delete their own account through this endpoint.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), callerID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, "User not found.")
		case errors.Is(err, service.ErrSelfDeletion):
			abortWithError(c, http.StatusBadRequest, "You cannot delete your own account.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete user.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted."})
}
