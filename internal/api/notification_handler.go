package api

import (
	"errors"
	"net/http"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the caller's notification feed. Every operation
// is scoped to the authenticated user; there is no way to touch another
// user's notifications.
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications returns the caller's feed, newest first.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	notifications, err := h.notificationService.List(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list notifications.")
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}

	c.JSON(http.StatusOK, notifications)
}

// UnreadCount returns the caller's unread badge count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to count notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkRead flags one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			abortWithError(c, http.StatusNotFound, "Notification not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to mark notification as read.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read."})
}

// MarkAllRead flags the caller's whole feed as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to mark notifications as read.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read."})
}

// DeleteNotification removes one of the caller's notifications.
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			abortWithError(c, http.StatusNotFound, "Notification not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete notification.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted."})
}
