package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pickupsports/gamehub/internal/repository"
	"pickupsports/gamehub/pkg/response"
)

type NotificationHandler struct {
	notifications repository.NotificationRepository
}

func NewNotificationHandler(notifications repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the caller's in-app notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}
	notices, err := h.notifications.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, "failed to list notifications")
		return
	}
	response.Success(c, notices)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if _, err := getUserIDFromContext(c); err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notification id")
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), id); err != nil {
		response.InternalError(c, "failed to mark notification read")
		return
	}
	response.Success(c, gin.H{"read": true})
}
