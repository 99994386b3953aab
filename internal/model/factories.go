package model

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/cebimedya/messaging-dashboard/pkg/utils"
)

// init ensures gofakeit is seeded.
func init() {
	gofakeit.Seed(time.Now().UnixNano())
}

// NewUser creates a User instance with fake data for tests.
func NewUser(overrideDefaults ...*User) *User {
	base := &User{
		ID:           int64(gofakeit.Number(1, 100000)),
		Email:        gofakeit.Email(),
		PasswordHash: "$2a$10$" + gofakeit.LetterN(53),
		DatabaseName: "db_" + gofakeit.LetterN(8),
		CreatedAt:    utils.Now().Add(-time.Duration(gofakeit.Number(1, 100)) * time.Hour),
	}

	if len(overrideDefaults) > 0 && overrideDefaults[0] != nil {
		ovr := overrideDefaults[0]
		if ovr.ID != 0 {
			base.ID = ovr.ID
		}
		if ovr.Email != "" {
			base.Email = ovr.Email
		}
		if ovr.PasswordHash != "" {
			base.PasswordHash = ovr.PasswordHash
		}
		if ovr.DatabaseName != "" {
			base.DatabaseName = ovr.DatabaseName
		}
	}
	return base
}

// NewConversation creates a Conversation instance with fake data for tests.
func NewConversation(overrideDefaults ...*Conversation) *Conversation {
	platform := Platform(gofakeit.RandomString([]string{"whatsapp", "instagram"}))
	phone := gofakeit.Phone()
	igID := gofakeit.DigitN(12)

	base := &Conversation{
		ID:                   gofakeit.UUID(),
		UserID:               int64(gofakeit.Number(1, 1000)),
		Platform:             platform,
		ContactName:          gofakeit.Name(),
		ContactPhoneNumber:   phone,
		ContactInstagramID:   igID,
		LastMessageContent:   gofakeit.Sentence(6),
		LastMessageTimestamp: utils.Now(),
		UnreadCount:          1,
		CreatedAt:            utils.Now().Add(-time.Duration(gofakeit.Number(1, 72)) * time.Hour),
		UpdatedAt:            utils.Now(),
	}
	base.ContactKey = ContactKeyFor(platform, phone, igID)

	if len(overrideDefaults) > 0 && overrideDefaults[0] != nil {
		ovr := overrideDefaults[0]
		if ovr.ID != "" {
			base.ID = ovr.ID
		}
		if ovr.UserID != 0 {
			base.UserID = ovr.UserID
		}
		if ovr.Platform != "" {
			base.Platform = ovr.Platform
		}
		if ovr.ContactName != "" {
			base.ContactName = ovr.ContactName
		}
		if ovr.ContactPhoneNumber != "" {
			base.ContactPhoneNumber = ovr.ContactPhoneNumber
		}
		if ovr.ContactInstagramID != "" {
			base.ContactInstagramID = ovr.ContactInstagramID
		}
		if ovr.UnreadCount != 0 {
			base.UnreadCount = ovr.UnreadCount
		}
		base.ContactKey = ContactKeyFor(base.Platform, base.ContactPhoneNumber, base.ContactInstagramID)
		if ovr.ContactKey != "" {
			base.ContactKey = ovr.ContactKey
		}
	}
	return base
}

// NewMessage creates a Message instance with fake data for tests.
func NewMessage(overrideDefaults ...*Message) *Message {
	base := &Message{
		ID:             gofakeit.UUID(),
		ConversationID: gofakeit.UUID(),
		SenderName:     gofakeit.Name(),
		Content:        gofakeit.Sentence(8),
		IsOutbound:     gofakeit.Bool(),
		Platform:       Platform(gofakeit.RandomString([]string{"whatsapp", "instagram"})),
		MessageType:    MessageTypeText,
		Timestamp:      utils.Now(),
		CreatedAt:      utils.Now(),
	}

	if len(overrideDefaults) > 0 && overrideDefaults[0] != nil {
		ovr := overrideDefaults[0]
		if ovr.ID != "" {
			base.ID = ovr.ID
		}
		if ovr.ConversationID != "" {
			base.ConversationID = ovr.ConversationID
		}
		if ovr.SenderName != "" {
			base.SenderName = ovr.SenderName
		}
		if ovr.Content != "" {
			base.Content = ovr.Content
		}
		if ovr.Platform != "" {
			base.Platform = ovr.Platform
		}
		if ovr.MessageType != "" {
			base.MessageType = ovr.MessageType
		}
		if ovr.MediaURL != "" {
			base.MediaURL = ovr.MediaURL
		}
		if ovr.ProviderMessageID != nil {
			base.ProviderMessageID = ovr.ProviderMessageID
		}
		base.IsOutbound = ovr.IsOutbound
	}
	return base
}

// NewBufferMessage creates a BufferMessage instance with fake data for tests.
func NewBufferMessage(overrideDefaults ...*BufferMessage) *BufferMessage {
	base := &BufferMessage{
		ID:          gofakeit.UUID(),
		SessionID:   gofakeit.UUID(),
		MessageType: MessageTypeText,
		MessageText: gofakeit.Sentence(8),
		Timestamp:   utils.Now(),
		IsProcessed: false,
		CreatedAt:   utils.Now(),
	}

	if len(overrideDefaults) > 0 && overrideDefaults[0] != nil {
		ovr := overrideDefaults[0]
		if ovr.ID != "" {
			base.ID = ovr.ID
		}
		if ovr.SessionID != "" {
			base.SessionID = ovr.SessionID
		}
		if ovr.MessageType != "" {
			base.MessageType = ovr.MessageType
		}
		if ovr.MessageText != "" {
			base.MessageText = ovr.MessageText
		}
		base.IsProcessed = ovr.IsProcessed
	}
	return base
}
