package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
	"github.com/cebimedya/messaging-dashboard/internal/principal"
	"github.com/cebimedya/messaging-dashboard/internal/usecase"
	"github.com/cebimedya/messaging-dashboard/pkg/utils"
)

// handleListConversations returns the operator's conversations, most recently
// updated first. ?platform= narrows to one platform.
func (s *Server) handleListConversations(c *gin.Context) {
	userID := principal.MustFromContext(c.Request.Context())
	platform := model.Platform(c.Query("platform"))

	conversations, err := s.service.ListConversations(c.Request.Context(), userID, platform)
	if err != nil {
		respondError(c, err)
		return
	}
	if conversations == nil {
		conversations = []model.Conversation{}
	}

	c.JSON(http.StatusOK, conversations)
}

// handleConversationCounts returns the per-platform conversation tally.
func (s *Server) handleConversationCounts(c *gin.Context) {
	userID := principal.MustFromContext(c.Request.Context())

	counts, err := s.service.ConversationCounts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if counts == nil {
		counts = []model.ConversationCount{}
	}

	c.JSON(http.StatusOK, counts)
}

// handleListMessages returns one conversation's thread, oldest first.
func (s *Server) handleListMessages(c *gin.Context) {
	userID := principal.MustFromContext(c.Request.Context())
	platform := model.Platform(c.Param("platform"))
	conversationID := c.Param("conversationId")

	messages, err := s.service.ListMessages(c.Request.Context(), userID, platform, conversationID)
	if err != nil {
		respondError(c, err)
		return
	}
	if messages == nil {
		messages = []model.Message{}
	}

	c.JSON(http.StatusOK, messages)
}

type sendMessageRequest struct {
	Content            string `json:"content" binding:"required"`
	Platform           string `json:"platform" binding:"required"`
	ContactName        string `json:"contactName"`
	ContactPhoneNumber string `json:"contactPhoneNumber"`
	ContactInstagramID string `json:"contactInstagramId"`
	Type               string `json:"type"`
	ImageURL           string `json:"imageUrl"`
	AudioURL           string `json:"audioUrl"`
}

type sendMessageResponse struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	SenderName     string `json:"sender_name"`
	Content        string `json:"content"`
	IsOutbound     bool   `json:"is_outbound"`
	Timestamp      string `json:"timestamp"`
	Platform       string `json:"platform"`
	Type           string `json:"type"`
	ImageURL       string `json:"image_url,omitempty"`
	AudioURL       string `json:"audio_url,omitempty"`
}

// handleSendMessage stores an operator-sent message. The route parameter
// `conversationId` is optional; without it the contact fields address (or
// start) the conversation.
func (s *Server) handleSendMessage(c *gin.Context) {
	userID := principal.MustFromContext(c.Request.Context())

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewFatal(apperrors.ErrBadRequest, "content and platform are required"))
		return
	}

	message, err := s.service.SendMessage(c.Request.Context(), userID, usecase.SendMessageInput{
		ConversationID:     c.Param("conversationId"),
		Platform:           model.Platform(req.Platform),
		Content:            req.Content,
		ContactName:        req.ContactName,
		ContactPhoneNumber: req.ContactPhoneNumber,
		ContactInstagramID: req.ContactInstagramID,
		MessageType:        req.Type,
		ImageURL:           req.ImageURL,
		AudioURL:           req.AudioURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sendMessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderName:     message.SenderName,
		Content:        message.Content,
		IsOutbound:     message.IsOutbound,
		Timestamp:      utils.FormatISO8601(message.Timestamp),
		Platform:       message.Platform.String(),
		Type:           message.MessageType,
		ImageURL:       message.ImageURL(),
		AudioURL:       message.AudioURL(),
	})
}
