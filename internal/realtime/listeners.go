package realtime

import (
	"context"
	"strconv"

	"irespond/internal/models"
	"irespond/internal/repositories/interfaces"
	"irespond/pkg/logger"
	"irespond/pkg/push"
	"irespond/pkg/websocket"
)

// WebSocketListener forwards notification events to the user's websocket
// room.
type WebSocketListener struct {
	ws     *websocket.Handler
	userID string
}

func NewWebSocketListener(ws *websocket.Handler, userID string) *WebSocketListener {
	return &WebSocketListener{ws: ws, userID: userID}
}

func (l *WebSocketListener) OnNewNotification(notification *models.Notification) {
	l.ws.SendUserNotification(l.userID, "notification", map[string]interface{}{
		"id":          notification.ID,
		"incident_id": notification.IncidentID,
		"title":       notification.Title,
		"body":        notification.Body,
		"is_read":     notification.IsRead,
		"created_at":  notification.CreatedAt,
	})
}

func (l *WebSocketListener) OnUnreadCountChanged(count int64) {
	l.ws.SendUserNotification(l.userID, "unread_count", map[string]interface{}{
		"count": count,
	})
}

// PushListener delivers notification events to the user's registered device
// via FCM or APNS. Delivery failures are logged and dropped.
type PushListener struct {
	provider    push.PushProvider
	profileRepo interfaces.ProfileRepository
	userID      string
	logger      *logger.Logger
}

func NewPushListener(provider push.PushProvider, profileRepo interfaces.ProfileRepository, userID string, logger *logger.Logger) *PushListener {
	return &PushListener{
		provider:    provider,
		profileRepo: profileRepo,
		userID:      userID,
		logger:      logger,
	}
}

func (l *PushListener) OnNewNotification(notification *models.Notification) {
	ctx := context.Background()

	profile, err := l.profileRepo.GetByID(ctx, l.userID)
	if err != nil {
		l.logger.WithError(err).WithField("user_id", l.userID).Warn("Failed to load profile for push delivery")
		return
	}

	token := profile.FCMToken
	if token == "" {
		token = profile.APNSToken
	}
	if token == "" {
		return
	}

	data := map[string]string{"notification_id": strconv.FormatInt(notification.ID, 10)}
	if notification.IncidentID != "" {
		data["incident_id"] = notification.IncidentID
	}

	if _, err := l.provider.SendNotification(ctx, &push.NotificationRequest{
		Token: token,
		Title: notification.Title,
		Body:  notification.Body,
		Data:  data,
	}); err != nil {
		l.logger.WithError(err).WithField("user_id", l.userID).Warn("Failed to send push notification")
	}
}

func (l *PushListener) OnUnreadCountChanged(count int64) {
	// Badge counts ride along with the next push; nothing to send here.
}
