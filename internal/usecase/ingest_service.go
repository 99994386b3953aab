package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
	"github.com/cebimedya/messaging-dashboard/internal/validator"
	"github.com/cebimedya/messaging-dashboard/internal/webhook"
	"github.com/cebimedya/messaging-dashboard/pkg/logger"
	"github.com/cebimedya/messaging-dashboard/pkg/utils"
)

// SendMessageInput carries one outbound send from the dashboard. When
// ConversationID is empty the contact fields select (or start) the
// conversation instead.
type SendMessageInput struct {
	ConversationID     string
	Platform           model.Platform
	Content            string
	ContactName        string
	ContactPhoneNumber string
	ContactInstagramID string
	MessageType        string
	ImageURL           string
	AudioURL           string
}

// SendMessage stores an operator-sent message. If no conversation id is given
// it finds or starts the conversation for the addressed contact; a freshly
// started conversation keeps its initial unread count of 1, an existing one
// gets its last-message fields refreshed and its unread counter bumped.
func (s *DashboardService) SendMessage(ctx context.Context, userID int64, in SendMessageInput) (*model.Message, error) {
	log := logger.FromContext(ctx)

	if in.Content == "" || !in.Platform.Valid() {
		return nil, apperrors.NewFatal(apperrors.ErrBadRequest, "send message failed: content and a known platform are required")
	}

	now := utils.Now()
	var (
		conversation *model.Conversation
		created      bool
		err          error
	)

	if in.ConversationID == "" {
		if in.ContactName == "" {
			return nil, apperrors.NewFatal(apperrors.ErrBadRequest, "send message failed: contactName is required to start a conversation")
		}
		if in.Platform == model.PlatformWhatsApp && in.ContactPhoneNumber == "" {
			return nil, apperrors.NewFatal(apperrors.ErrBadRequest, "send message failed: contactPhoneNumber is required for whatsapp")
		}
		if in.Platform == model.PlatformInstagram && in.ContactInstagramID == "" {
			return nil, apperrors.NewFatal(apperrors.ErrBadRequest, "send message failed: contactInstagramId is required for instagram")
		}

		conversation, created, err = s.findOrCreateConversation(ctx, model.Conversation{
			UserID:               userID,
			Platform:             in.Platform,
			ContactKey:           model.ContactKeyFor(in.Platform, in.ContactPhoneNumber, in.ContactInstagramID),
			ContactName:          in.ContactName,
			ContactPhoneNumber:   in.ContactPhoneNumber,
			ContactInstagramID:   in.ContactInstagramID,
			LastMessageContent:   in.Content,
			LastMessageTimestamp: now,
		})
		if err != nil {
			return nil, err
		}
	} else {
		conversation, err = s.conversationRepo.FindByID(ctx, in.ConversationID)
		if err != nil {
			return nil, handleRepositoryError(ctx, err, "FindConversationByID", in.ConversationID)
		}
		if conversation.UserID != userID {
			return nil, apperrors.NewFatal(apperrors.ErrNotFound, "send message failed: conversation %s not found", in.ConversationID)
		}
	}

	senderName := s.senderNameFor(ctx, userID)

	messageType := in.MessageType
	if messageType == "" {
		messageType = model.MessageTypeText
	}
	messageType = model.NormalizeMessageType(messageType)

	var mediaURL string
	switch messageType {
	case model.MessageTypeImage:
		mediaURL = in.ImageURL
	case model.MessageTypeAudio:
		mediaURL = in.AudioURL
	}

	message := model.Message{
		ID:             uuid.New().String(),
		ConversationID: conversation.ID,
		SenderName:     senderName,
		Content:        in.Content,
		IsOutbound:     true,
		Platform:       in.Platform,
		MessageType:    messageType,
		MediaURL:       mediaURL,
		Timestamp:      now,
	}

	if err := validator.Validate(message); err != nil {
		log.Error("Message validation failed", zap.String("message_id", message.ID), zap.Error(err))
		return nil, apperrors.NewFatal(apperrors.ErrValidation, "message validation failed: %v", err)
	}

	buffer := bufferMirrorFor(message, in.ImageURL, in.AudioURL)

	if err := s.messageRepo.Save(ctx, message, buffer); err != nil {
		return nil, handleRepositoryError(ctx, err, "SaveMessage", message.ID)
	}

	if !created {
		if err := s.conversationRepo.TouchLastMessage(ctx, conversation.ID, in.Content, now, true); err != nil {
			return nil, handleRepositoryError(ctx, err, "TouchConversationLastMessage", conversation.ID)
		}
	}

	s.submitBufferTask(ctx, buffer)

	log.Info("Outbound message stored",
		zap.String("message_id", message.ID),
		zap.String("conversation_id", conversation.ID),
		zap.String("platform", in.Platform.String()),
		zap.Bool("conversation_created", created),
	)
	return &message, nil
}

// RecordInbound stores one provider-delivered message for the operator.
// Redelivered provider message ids are absorbed: the previously stored
// message is returned without touching the conversation again.
func (s *DashboardService) RecordInbound(ctx context.Context, userID int64, in *webhook.Inbound) (*model.Message, error) {
	log := logger.FromContext(ctx)

	if in.ProviderMessageID != "" {
		existing, err := s.messageRepo.FindByProviderMessageID(ctx, in.ProviderMessageID)
		if err == nil {
			log.Info("Webhook redelivery absorbed",
				zap.String("provider_message_id", in.ProviderMessageID),
				zap.String("message_id", existing.ID),
			)
			return existing, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, handleRepositoryError(ctx, err, "FindMessageByProviderMessageID", in.ProviderMessageID)
		}
	}

	now := utils.Now()
	conversation, created, err := s.findOrCreateConversation(ctx, model.Conversation{
		UserID:               userID,
		Platform:             in.Platform,
		ContactKey:           in.ContactKey(),
		ContactName:          in.ContactName,
		ContactPhoneNumber:   in.ContactPhoneNumber,
		ContactInstagramID:   in.ContactInstagramID,
		LastMessageContent:   in.Content,
		LastMessageTimestamp: now,
	})
	if err != nil {
		return nil, err
	}

	message := model.Message{
		ID:             uuid.New().String(),
		ConversationID: conversation.ID,
		SenderName:     in.ContactName,
		Content:        in.Content,
		IsOutbound:     false,
		Platform:       in.Platform,
		MessageType:    in.MessageType,
		MediaURL:       in.MediaURL,
		Timestamp:      now,
	}
	if in.ProviderMessageID != "" {
		providerID := in.ProviderMessageID
		message.ProviderMessageID = &providerID
	}
	if len(in.Raw) > 0 {
		message.Payload = datatypes.JSON(in.Raw)
	}

	if err := validator.Validate(message); err != nil {
		log.Error("Message validation failed", zap.String("message_id", message.ID), zap.Error(err))
		return nil, apperrors.NewFatal(apperrors.ErrValidation, "message validation failed: %v", err)
	}

	var imageURL, audioURL string
	switch in.MessageType {
	case model.MessageTypeImage:
		imageURL = in.MediaURL
	case model.MessageTypeAudio:
		audioURL = in.MediaURL
	}
	buffer := bufferMirrorFor(message, imageURL, audioURL)

	if err := s.messageRepo.Save(ctx, message, buffer); err != nil {
		// A racing redelivery can land between the idempotency check and the
		// insert; the winner's row is the canonical one.
		if errors.Is(err, apperrors.ErrDuplicate) && in.ProviderMessageID != "" {
			existing, findErr := s.messageRepo.FindByProviderMessageID(ctx, in.ProviderMessageID)
			if findErr == nil {
				return existing, nil
			}
		}
		return nil, handleRepositoryError(ctx, err, "SaveMessage", message.ID)
	}

	if !created {
		if err := s.conversationRepo.TouchLastMessage(ctx, conversation.ID, in.Content, now, true); err != nil {
			return nil, handleRepositoryError(ctx, err, "TouchConversationLastMessage", conversation.ID)
		}
	}

	s.submitBufferTask(ctx, buffer)

	log.Info("Inbound message stored",
		zap.String("message_id", message.ID),
		zap.String("conversation_id", conversation.ID),
		zap.String("platform", in.Platform.String()),
		zap.Bool("conversation_created", created),
	)
	return &message, nil
}

// findOrCreateConversation resolves the conversation for a contact, creating
// it when absent. The unique (user, platform, contact) index makes the create
// race-safe: a concurrent insert surfaces as ErrDuplicate and the winner's
// row is re-read. Freshly created conversations start with unread count 1 and
// the triggering message as their last message.
func (s *DashboardService) findOrCreateConversation(ctx context.Context, conv model.Conversation) (*model.Conversation, bool, error) {
	existing, err := s.conversationRepo.FindByContact(ctx, conv.UserID, conv.Platform, conv.ContactKey)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, handleRepositoryError(ctx, err, "FindConversationByContact", conv.ContactKey)
	}

	conv.ID = uuid.New().String()
	conv.UnreadCount = 1
	if createErr := s.conversationRepo.Create(ctx, conv); createErr != nil {
		if errors.Is(createErr, apperrors.ErrDuplicate) {
			winner, findErr := s.conversationRepo.FindByContact(ctx, conv.UserID, conv.Platform, conv.ContactKey)
			if findErr != nil {
				return nil, false, handleRepositoryError(ctx, findErr, "FindConversationByContact", conv.ContactKey)
			}
			return winner, false, nil
		}
		return nil, false, handleRepositoryError(ctx, createErr, "CreateConversation", conv.ID)
	}
	return &conv, true, nil
}

// senderNameFor resolves the display name stored on outbound messages. The
// operator's email is used when the account resolves; a lookup failure falls
// back to a generic label rather than failing the send.
func (s *DashboardService) senderNameFor(ctx context.Context, userID int64) string {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Warn("Falling back to generic sender name",
			zap.Int64("user_id", userID), zap.Error(err))
		return "Operator"
	}
	return user.Email
}

// bufferMirrorFor builds the message_buffer row for a WhatsApp message.
// Other platforms are not buffered and get nil.
func bufferMirrorFor(message model.Message, imageURL, audioURL string) *model.BufferMessage {
	if message.Platform != model.PlatformWhatsApp {
		return nil
	}
	return &model.BufferMessage{
		ID:          uuid.New().String(),
		SessionID:   message.ConversationID,
		MessageType: message.MessageType,
		MessageText: message.Content,
		ImageURL:    imageURL,
		AudioURL:    audioURL,
		Timestamp:   message.Timestamp,
		IsProcessed: false,
	}
}

// submitBufferTask hands the freshly stored buffer row to the publisher pool.
// Submission is best effort: the row stays unprocessed in the table and the
// periodic sweep picks it up when the pool is saturated or absent.
func (s *DashboardService) submitBufferTask(ctx context.Context, buffer *model.BufferMessage) {
	if buffer == nil || s.bufferWorker == nil {
		return
	}
	taskCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	taskCtx = logger.WithLogger(taskCtx, logger.FromContext(ctx))
	if err := s.bufferWorker.SubmitTask(BufferTaskData{Ctx: taskCtx, Buffer: *buffer, Cancel: cancel}); err != nil {
		cancel()
		logger.FromContext(ctx).Warn("Buffer publish task not queued, sweep will retry",
			zap.String("buffer_id", buffer.ID), zap.Error(err))
	}
}
