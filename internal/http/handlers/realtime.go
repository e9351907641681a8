package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
	"github.com/anchorrisk/anchorrisk-backend/internal/realtime"
	"github.com/anchorrisk/anchorrisk-backend/internal/services"
)

type RealtimeHandler struct {
	log  *logger.Logger
	hub  *realtime.Hub
	risk services.RiskService
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.Hub, risk services.RiskService) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub, risk: risk}
}

// GET /risk/events/:id streams risk.assessed and simulation.completed events
// for one household.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	client := h.hub.NewClient()
	h.hub.Subscribe(client, h.risk.Channel(c.Param("id")))
	defer h.hub.Close(client)

	h.log.Debug("event stream open", "client_id", client.ID)
	h.hub.Serve(c.Writer, c.Request, client)
}
