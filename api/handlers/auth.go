package handlers

import (
	"channel-gate/api/middleware"
	"channel-gate/auth"
	"channel-gate/domain"
	"channel-gate/errors"
	"channel-gate/services"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	log     *slog.Logger
	service services.IAuthService
}

func NewAuthHandler(log *slog.Logger, service services.IAuthService) *AuthHandler {
	return &AuthHandler{log: log, service: service}
}

// AuthenticateUser handles POST /user-auth
func (h *AuthHandler) AuthenticateUser(c *gin.Context) {
	var req auth.UserAuthRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, "Authentication rejected", stderrors.Join(errors.ErrInvalidRequest, err))
		return
	}
	if err := auth.Validate(req); err != nil {
		h.fail(c, "Authentication rejected", err)
		return
	}

	token, err := h.service.Authenticate(c.Request.Context(), req.User, req.SocketID)
	if err != nil {
		h.fail(c, "Authentication rejected", err, "user", req.User)
		return
	}
	h.log.Info("User authenticated", "user", req.User, "session", req.SocketID)
	c.Data(http.StatusOK, "application/json; charset=utf-8", token)
}

// AuthorizeChannel handles POST /auth
func (h *AuthHandler) AuthorizeChannel(c *gin.Context) {
	var req auth.ChannelAuthRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, "Authorization rejected", stderrors.Join(errors.ErrInvalidRequest, err))
		return
	}
	if err := auth.Validate(req); err != nil {
		h.fail(c, "Authorization rejected", err)
		return
	}

	token, err := h.service.Authorize(c.Request.Context(), req.SocketID, domain.ChannelName(req.ChannelName))
	if err != nil {
		h.fail(c, "Authorization rejected", err, "session", req.SocketID, "channel", req.ChannelName)
		return
	}
	h.log.Info("Channel authorized", "session", req.SocketID, "channel", req.ChannelName)
	c.Data(http.StatusOK, "application/json; charset=utf-8", token)
}

// fail maps broker failures to 500 and every other refusal to 403.
func (h *AuthHandler) fail(c *gin.Context, msg string, err error, attrs ...any) {
	_ = c.Error(err)
	attrs = append(attrs, "request_id", middleware.GetRequestID(c))
	if stderrors.Is(err, errors.ErrBrokerFailure) {
		h.log.Error(msg, append(attrs, "error", err)...)
		c.JSON(http.StatusInternalServerError, gin.H{"statusCode": http.StatusInternalServerError, "message": "Internal server error"})
		return
	}
	h.log.Info(msg, append(attrs, "error", err)...)
	c.JSON(http.StatusForbidden, gin.H{"statusCode": http.StatusForbidden, "message": "Forbidden"})
}
