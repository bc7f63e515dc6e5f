package handlers

import (
	"channel-gate/api/middleware"
	"channel-gate/auth"
	"channel-gate/contract"
	"channel-gate/domain"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	log    *slog.Logger
	broker contract.IBroker
}

func NewEventHandler(log *slog.Logger, broker contract.IBroker) *EventHandler {
	return &EventHandler{log: log, broker: broker}
}

// Publish handles POST /event
func (h *EventHandler) Publish(c *gin.Context) {
	var req auth.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := auth.Validate(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.broker.Publish(c.Request.Context(), domain.ChannelName(req.Channel), req.Event, req.Data); err != nil {
		_ = c.Error(err)
		h.log.Error("Publish failed",
			"request_id", middleware.GetRequestID(c), "channel", req.Channel, "event", req.Event, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to publish event"})
		return
	}

	publisher, _ := middleware.GetPublisher(c)
	h.log.Debug("Event published", "channel", req.Channel, "event", req.Event, "publisher", publisher)
	c.JSON(http.StatusOK, gin.H{})
}
