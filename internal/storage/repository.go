package storage

import (
	"context"
	"time"

	"github.com/cebimedya/messaging-dashboard/internal/model"
)

// UserRepo defines operator account lookups.
type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

// ConversationRepo defines conversation storage operations.
type ConversationRepo interface {
	Create(ctx context.Context, conv model.Conversation) error
	FindByContact(ctx context.Context, userID int64, platform model.Platform, contactKey string) (*model.Conversation, error)
	FindByID(ctx context.Context, conversationID string) (*model.Conversation, error)
	ListByUserID(ctx context.Context, userID int64, platform model.Platform) ([]model.Conversation, error)
	CountsByUserID(ctx context.Context, userID int64) ([]model.ConversationCount, error)
	TouchLastMessage(ctx context.Context, conversationID, content string, timestamp time.Time, incrementUnread bool) error
}

// MessageRepo defines message storage operations. Save persists the message
// and, when a buffer mirror is supplied, the buffer row in the same
// transaction.
type MessageRepo interface {
	Save(ctx context.Context, message model.Message, buffer *model.BufferMessage) error
	ListByConversationID(ctx context.Context, conversationID string, platform model.Platform) ([]model.Message, error)
	FindByProviderMessageID(ctx context.Context, providerMessageID string) (*model.Message, error)
}

// BufferRepo defines operations on the WhatsApp hand-off table.
type BufferRepo interface {
	FindUnprocessed(ctx context.Context, limit int) ([]model.BufferMessage, error)
	MarkProcessed(ctx context.Context, id string) error
}

// AgentStatusRepo defines the per-(user, platform) auto-reply flag store.
type AgentStatusRepo interface {
	Get(ctx context.Context, userID int64, platform model.Platform) (*model.AgentStatus, error)
	Upsert(ctx context.Context, status model.AgentStatus) error
}
