package model

import (
	"time"
)

// BufferMessage mirrors a WhatsApp message into the hand-off table consumed by
// the downstream reply processor. SessionID carries the conversation id. Rows
// stay unprocessed until the publisher has forwarded them.
type BufferMessage struct {
	ID          string    `json:"id" gorm:"column:id;primaryKey;size:36"`
	SessionID   string    `json:"session_id" gorm:"column:session_id;size:36;index"`
	MessageType string    `json:"message_type" gorm:"column:message_type;size:16"`
	MessageText string    `json:"message_text" gorm:"column:message_text;type:text"`
	ImageURL    string    `json:"image_url,omitempty" gorm:"column:image_url;size:512"`
	AudioURL    string    `json:"audio_url,omitempty" gorm:"column:audio_url;size:512"`
	Timestamp   time.Time `json:"timestamp" gorm:"column:timestamp"`
	IsProcessed bool      `json:"is_processed" gorm:"column:is_processed;index;default:false"`
	CreatedAt   time.Time `json:"created_at,omitempty" gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM.
func (BufferMessage) TableName() string {
	return "message_buffer"
}
