package model

import (
	"time"
)

// Conversation is a persisted thread between one operator and one external
// contact on one platform. ContactKey carries the platform-specific contact
// identifier (phone number for WhatsApp, platform ID for Instagram) and backs
// the unique index that guarantees one conversation per
// (user, platform, contact) triple.
type Conversation struct {
	ID                   string    `json:"id" gorm:"column:id;primaryKey;size:36"`
	UserID               int64     `json:"user_id" gorm:"column:user_id;uniqueIndex:idx_conversations_contact,priority:1"`
	Platform             Platform  `json:"platform" gorm:"column:platform;size:16;uniqueIndex:idx_conversations_contact,priority:2" validate:"required"`
	ContactKey           string    `json:"-" gorm:"column:contact_key;size:128;uniqueIndex:idx_conversations_contact,priority:3" validate:"required"`
	ContactName          string    `json:"contact_name" gorm:"column:contact_name;size:255" validate:"required"`
	ContactPhoneNumber   string    `json:"contact_phone_number,omitempty" gorm:"column:contact_phone_number;size:32"`
	ContactInstagramID   string    `json:"contact_instagram_id,omitempty" gorm:"column:contact_instagram_id;size:64"`
	LastMessageContent   string    `json:"last_message_content" gorm:"column:last_message_content;type:text"`
	LastMessageTimestamp time.Time `json:"last_message_timestamp" gorm:"column:last_message_timestamp"`
	UnreadCount          int32     `json:"unread_count" gorm:"column:unread_count"`
	CreatedAt            time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime;index"`
}

// TableName specifies the table name for GORM.
func (Conversation) TableName() string {
	return "conversations"
}

// ContactKeyFor derives the contact identifier column value for a platform.
// WhatsApp contacts are keyed by phone number, Instagram contacts by their
// platform-scoped ID. Other platforms fall back to whichever identifier is set.
func ContactKeyFor(platform Platform, phoneNumber, instagramID string) string {
	switch platform {
	case PlatformWhatsApp:
		return phoneNumber
	case PlatformInstagram:
		return instagramID
	}
	if phoneNumber != "" {
		return phoneNumber
	}
	return instagramID
}

// ConversationCount is one row of the per-platform conversation tally.
type ConversationCount struct {
	Platform Platform `json:"platform"`
	Count    int64    `json:"count"`
}
