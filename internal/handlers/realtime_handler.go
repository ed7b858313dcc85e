package handlers

import (
	"irespond/internal/identity"
	"irespond/internal/realtime"
	"irespond/internal/utils"
	"irespond/pkg/websocket"

	"github.com/gin-gonic/gin"
)

type RealtimeHandler struct {
	gateway   *realtime.Gateway
	wsHandler *websocket.Handler
}

func NewRealtimeHandler(gateway *realtime.Gateway, wsHandler *websocket.Handler) *RealtimeHandler {
	return &RealtimeHandler{
		gateway:   gateway,
		wsHandler: wsHandler,
	}
}

// Connect subscribes the user to live notification delivery and upgrades the
// connection to a websocket. The subscription outlives the socket; it is torn
// down by Disconnect or server shutdown.
func (h *RealtimeHandler) Connect(c *gin.Context) {
	if err := h.gateway.Subscribe(c.Request.Context()); err != nil {
		utils.ErrorResponse(c, 500, "SUBSCRIBE_FAILED", "Failed to subscribe to notifications: "+err.Error())
		return
	}

	h.wsHandler.HandleWebSocket(c)
}

// Disconnect tears down the user's notification subscription
func (h *RealtimeHandler) Disconnect(c *gin.Context) {
	actor, ok := identity.FromContext(c.Request.Context())
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	h.gateway.Unsubscribe(actor.ID)
	utils.SuccessResponse(c, "Unsubscribed from notifications", nil)
}
