package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     domain.Role `json:"role" binding:"required,oneof=trainer student"` // Validate role
}

// UserResponse excludes sensitive info like password hash and tokens.
type UserResponse struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Role          domain.Role `json:"role"`
	Avatar        string      `json:"avatar"`
	Phone         *string     `json:"phone,omitempty"`
	Cref          *string     `json:"cref,omitempty"`
	EmailVerified bool        `json:"emailVerified"`
	TrainerID     *string     `json:"trainerId,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// MapUserToResponse converts a domain.User to UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		Avatar:        user.Avatar,
		Phone:         user.Phone,
		Cref:          user.Cref,
		EmailVerified: user.EmailVerified,
		TrainerID:     user.TrainerID,
		CreatedAt:     user.CreatedAt,
	}
}

// MapUsersToResponse converts a slice of domain.User to UserResponse DTOs.
func MapUsersToResponse(users []domain.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, u := range users {
		responses[i] = MapUserToResponse(&u)
	}
	return responses
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// --- Handler Methods ---

// Register creates a new trainer or student account. New accounts start
// unverified and receive a verification email.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			abortWithError(c, http.StatusConflict, "Email address is already registered.")
		case errors.Is(err, service.ErrWeakPassword):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to register user.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Login authenticates by email/password and returns a signed JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthenticationFailed):
			abortWithError(c, http.StatusUnauthorized, "Invalid email or password.")
		case errors.Is(err, service.ErrEmailNotVerified):
			abortWithError(c, http.StatusForbidden, "Email address has not been verified yet.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Login failed.")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: MapUserToResponse(user)})
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
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

// ChangePassword replaces the caller's password after checking the current one.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			abortWithError(c, http.StatusBadRequest, "Current password is incorrect.")
		case errors.Is(err, service.ErrWeakPassword):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to change password.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated."})
}

// ForgotPassword starts the reset flow. Always answers 200 so the endpoint
// cannot be used to probe which emails exist.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to process request.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the email is registered, a reset link has been sent."})
}

// ResetPassword completes the reset flow with a token from the email.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			abortWithError(c, http.StatusBadRequest, "Invalid or unknown reset token.")
		case errors.Is(err, service.ErrResetTokenExpired):
			abortWithError(c, http.StatusBadRequest, "Reset token has expired. Request a new one.")
		case errors.Is(err, service.ErrWeakPassword):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to reset password.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset."})
}

// VerifyEmail confirms an address using the token from the welcome email.
// Re-using the token reports the already-verified state instead of failing.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		abortWithError(c, http.StatusBadRequest, "Missing verification token.")
		return
	}

	alreadyVerified, err := h.authService.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			abortWithError(c, http.StatusBadRequest, "Invalid or unknown verification token.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to verify email.")
		}
		return
	}

	if alreadyVerified {
		c.JSON(http.StatusOK, gin.H{"message": "Email address was already verified."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email address verified. You can now log in."})
}

// ResendVerification sends a fresh verification email for an unverified
// account.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.authService.ResendVerification(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrAlreadyVerified) {
			abortWithError(c, http.StatusConflict, "Email address is already verified.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to resend verification email.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the email is registered, a verification link has been sent."})
}
