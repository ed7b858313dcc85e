package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"irespond/internal/realtime"
	"irespond/internal/services"
	"irespond/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService services.NotificationService
	gateway             *realtime.Gateway
}

func NewNotificationHandler(notificationService services.NotificationService, gateway *realtime.Gateway) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		gateway:             gateway,
	}
}

// GetNotifications lists the current user's notifications
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	notifications, total, err := h.notificationService.GetMyNotifications(c.Request.Context(), params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "NOTIFICATION_LIST_FAILED", "Failed to list notifications: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Notifications retrieved successfully", notifications, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetUnreadCount returns how many notifications are unread
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	count, err := h.notificationService.GetUnreadCount(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "UNREAD_COUNT_FAILED", "Failed to get unread count: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Unread count retrieved successfully", gin.H{"unread_count": count})
}

// MarkAsRead marks a single notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, utils.ErrNotificationNotFound) {
			utils.NotFoundResponse(c, "Notification")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "MARK_READ_FAILED", "Failed to mark notification as read: "+err.Error())
		return
	}

	h.gateway.RefreshUnreadCount(c.Request.Context())
	utils.SuccessResponse(c, "Notification marked as read", nil)
}

// MarkAllAsRead marks every notification for the current user as read
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.notificationService.MarkAllAsRead(c.Request.Context()); err != nil {
		if errors.Is(err, utils.ErrNotAuthenticated) {
			utils.UnauthorizedResponse(c)
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "MARK_READ_FAILED", "Failed to mark notifications as read: "+err.Error())
		return
	}

	h.gateway.RefreshUnreadCount(c.Request.Context())
	utils.SuccessResponse(c, "All notifications marked as read", nil)
}
