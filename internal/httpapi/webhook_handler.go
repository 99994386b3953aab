package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
	"github.com/cebimedya/messaging-dashboard/internal/observer"
	"github.com/cebimedya/messaging-dashboard/internal/principal"
	"github.com/cebimedya/messaging-dashboard/internal/webhook"
	"github.com/cebimedya/messaging-dashboard/pkg/logger"
)

// verifySubscription answers Meta's webhook subscription handshake. Returns
// true when the request was a handshake and has been answered.
func verifySubscription(c *gin.Context, verifyToken string) bool {
	if c.Query("hub.mode") != "subscribe" {
		return false
	}
	if verifyToken != "" && c.Query("hub.verify_token") == verifyToken {
		c.String(http.StatusOK, c.Query("hub.challenge"))
	} else {
		c.String(http.StatusForbidden, "verification failed")
	}
	return true
}

// handleWhatsAppIncoming ingests one WhatsApp Business webhook delivery.
// Status-only callbacks and redeliveries are acknowledged without side
// effects; the provider is always answered quickly so it does not retry.
func (s *Server) handleWhatsAppIncoming(c *gin.Context) {
	if verifySubscription(c, s.cfg.Webhook.WhatsAppVerifyToken) {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		observer.IncWebhookEvent(model.PlatformWhatsApp.String(), "read_error")
		respondError(c, apperrors.NewFatal(apperrors.ErrBadRequest, "unreadable webhook body"))
		return
	}

	in, err := webhook.ParseWhatsApp(body, s.cfg.Webhook.MediaBaseURL)
	if err != nil {
		if errors.Is(err, webhook.ErrStatusOnly) {
			observer.IncWebhookEvent(model.PlatformWhatsApp.String(), "status_only")
			c.String(http.StatusOK, "OK (Status Update)")
			return
		}
		observer.IncWebhookEvent(model.PlatformWhatsApp.String(), "invalid")
		logger.FromContext(c.Request.Context()).Warn("Rejected WhatsApp webhook payload", zap.Error(err))
		respondError(c, apperrors.NewFatal(apperrors.ErrBadRequest, "invalid webhook payload"))
		return
	}

	s.ingestInbound(c, in)
}

// handleInstagramIncoming ingests one Instagram Messaging webhook delivery.
func (s *Server) handleInstagramIncoming(c *gin.Context) {
	if verifySubscription(c, s.cfg.Webhook.InstagramVerifyToken) {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		observer.IncWebhookEvent(model.PlatformInstagram.String(), "read_error")
		respondError(c, apperrors.NewFatal(apperrors.ErrBadRequest, "unreadable webhook body"))
		return
	}

	in, err := webhook.ParseInstagram(body)
	if err != nil {
		observer.IncWebhookEvent(model.PlatformInstagram.String(), "invalid")
		logger.FromContext(c.Request.Context()).Warn("Rejected Instagram webhook payload", zap.Error(err))
		respondError(c, apperrors.NewFatal(apperrors.ErrBadRequest, "invalid webhook payload"))
		return
	}

	s.ingestInbound(c, in)
}

func (s *Server) ingestInbound(c *gin.Context, in *webhook.Inbound) {
	userID := principal.MustFromContext(c.Request.Context())

	if _, err := s.service.RecordInbound(c.Request.Context(), userID, in); err != nil {
		observer.IncWebhookEvent(in.Platform.String(), "error")
		respondError(c, err)
		return
	}

	observer.IncWebhookEvent(in.Platform.String(), "ingested")
	c.String(http.StatusOK, "OK")
}
