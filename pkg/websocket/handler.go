package websocket

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	hub *Hub
}

func NewHandler() *Handler {
	hub := NewHub()
	go hub.Run()

	return &Handler{
		hub: hub,
	}
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	userIDStr, ok := userID.(string)
	if !ok || userIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	role, _ := c.Get("role")
	roleStr, _ := role.(string)
	agencyType, _ := c.Get("agency_type")
	agencyTypeStr, _ := agencyType.(string)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, userIDStr, roleStr, agencyTypeStr)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *Handler) SendIncidentUpdate(incidentID string, updateType string, data map[string]interface{}) {
	message := Message{
		Type:      updateType,
		RoomID:    "incident_" + incidentID,
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	}

	h.hub.SendIncidentUpdate(incidentID, message)
}

func (h *Handler) SendUserNotification(userID string, notificationType string, data map[string]interface{}) {
	message := Message{
		Type:      notificationType,
		UserID:    userID,
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	}

	h.hub.SendToUser(userID, message)
}

func (h *Handler) SendAgencyBroadcast(agencyType string, messageType string, data map[string]interface{}) {
	message := Message{
		Type:      messageType,
		RoomID:    "agency_" + agencyType,
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	}

	h.hub.SendToAgency(agencyType, message)
}

func (h *Handler) GetHub() *Hub {
	return h.hub
}
