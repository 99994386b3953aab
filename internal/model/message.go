package model

import (
	"time"

	"gorm.io/datatypes"
)

// Message is one entry in a conversation thread. Messages are immutable once
// stored. ProviderMessageID holds the webhook provider's message id when the
// message arrived inbound; the unique index on it keeps provider redeliveries
// idempotent.
type Message struct {
	ID                string         `json:"id" gorm:"column:id;primaryKey;size:36"`
	ConversationID    string         `json:"conversation_id" gorm:"column:conversation_id;size:36;index" validate:"required"`
	ProviderMessageID *string        `json:"-" gorm:"column:provider_message_id;size:128;uniqueIndex"`
	SenderName        string         `json:"sender_name" gorm:"column:sender_name;size:255"`
	Content           string         `json:"content" gorm:"column:content;type:text" validate:"required"`
	IsOutbound        bool           `json:"is_outbound" gorm:"column:is_outbound"`
	Platform          Platform       `json:"platform" gorm:"column:platform;size:16;index" validate:"required"`
	MessageType       string         `json:"message_type" gorm:"column:message_type;size:16"`
	MediaURL          string         `json:"media_url,omitempty" gorm:"column:media_url;size:512"`
	Payload           datatypes.JSON `json:"-" gorm:"column:payload"`
	Timestamp         time.Time      `json:"timestamp" gorm:"column:timestamp;index"`
	CreatedAt         time.Time      `json:"created_at,omitempty" gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM.
func (Message) TableName() string {
	return "messages"
}

// ImageURL returns the media URL when the message is an image.
func (m *Message) ImageURL() string {
	if m.MessageType == MessageTypeImage {
		return m.MediaURL
	}
	return ""
}

// AudioURL returns the media URL when the message is an audio recording.
func (m *Message) AudioURL() string {
	if m.MessageType == MessageTypeAudio {
		return m.MediaURL
	}
	return ""
}
