package handlers

import (
	"channel-gate/api/middleware"
	"channel-gate/services"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	PusherKeyHeader       = "X-Pusher-Key"
	PusherSignatureHeader = "X-Pusher-Signature"

	maxWebhookBody = 1 << 20
)

type WebhookHandler struct {
	log     *slog.Logger
	service services.IWebhookService
}

func NewWebhookHandler(log *slog.Logger, service services.IWebhookService) *WebhookHandler {
	return &WebhookHandler{log: log, service: service}
}

// Receive handles POST /webhook
// The signature covers the raw body, so it is read before any decoding.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		h.log.Error("Webhook body unreadable", "request_id", middleware.GetRequestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"statusCode": http.StatusInternalServerError, "message": "Webhook error"})
		return
	}

	err = h.service.Handle(c.Request.Context(), c.GetHeader(PusherKeyHeader), c.GetHeader(PusherSignatureHeader), body)
	if err != nil {
		_ = c.Error(err)
		h.log.Error("Webhook error", "request_id", middleware.GetRequestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"statusCode": http.StatusInternalServerError, "message": "Webhook error"})
		return
	}
	c.Status(http.StatusCreated)
}
