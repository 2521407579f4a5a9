package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications handles GET /notifications?status=&recipient=&page=&limit=
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	var (
		notifications []*models.Notification
		err           error
	)
	if recipient := strings.TrimSpace(c.Query("recipient")); recipient != "" {
		notifications, err = h.notificationService.GetNotificationsByRecipient(c.Request.Context(), strings.ToLower(recipient), page, limit)
	} else {
		notifications, err = h.notificationService.GetNotificationsByStatus(c.Request.Context(), strings.ToUpper(c.Query("status")), page, limit)
	}
	if err != nil {
		respondError(c, err, "Failed to get notifications")
		return
	}
	c.JSON(http.StatusOK, notifications)
}
