package storage

import (
	"context"
	"time"

	"github.com/cebimedya/messaging-dashboard/internal/model"
)

// UserRepoAdapter adapts the MySQLRepo to the UserRepo interface
type UserRepoAdapter struct {
	mysql *MySQLRepo
}

// NewUserRepoAdapter creates a new user repository adapter
func NewUserRepoAdapter(mysql *MySQLRepo) UserRepo {
	return &UserRepoAdapter{mysql: mysql}
}

func (a *UserRepoAdapter) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return a.mysql.FindUserByEmail(ctx, email)
}

func (a *UserRepoAdapter) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return a.mysql.FindUserByID(ctx, id)
}

// ConversationRepoAdapter adapts the MySQLRepo to the ConversationRepo interface
type ConversationRepoAdapter struct {
	mysql *MySQLRepo
}

// NewConversationRepoAdapter creates a new conversation repository adapter
func NewConversationRepoAdapter(mysql *MySQLRepo) ConversationRepo {
	return &ConversationRepoAdapter{mysql: mysql}
}

func (a *ConversationRepoAdapter) Create(ctx context.Context, conv model.Conversation) error {
	return a.mysql.CreateConversation(ctx, conv)
}

func (a *ConversationRepoAdapter) FindByContact(ctx context.Context, userID int64, platform model.Platform, contactKey string) (*model.Conversation, error) {
	return a.mysql.FindConversationByContact(ctx, userID, platform, contactKey)
}

func (a *ConversationRepoAdapter) FindByID(ctx context.Context, conversationID string) (*model.Conversation, error) {
	return a.mysql.FindConversationByID(ctx, conversationID)
}

func (a *ConversationRepoAdapter) ListByUserID(ctx context.Context, userID int64, platform model.Platform) ([]model.Conversation, error) {
	return a.mysql.ListConversationsByUserID(ctx, userID, platform)
}

func (a *ConversationRepoAdapter) CountsByUserID(ctx context.Context, userID int64) ([]model.ConversationCount, error) {
	return a.mysql.ConversationCountsByUserID(ctx, userID)
}

func (a *ConversationRepoAdapter) TouchLastMessage(ctx context.Context, conversationID, content string, timestamp time.Time, incrementUnread bool) error {
	return a.mysql.TouchConversationLastMessage(ctx, conversationID, content, timestamp, incrementUnread)
}

// MessageRepoAdapter adapts the MySQLRepo to the MessageRepo interface
type MessageRepoAdapter struct {
	mysql *MySQLRepo
}

// NewMessageRepoAdapter creates a new message repository adapter
func NewMessageRepoAdapter(mysql *MySQLRepo) MessageRepo {
	return &MessageRepoAdapter{mysql: mysql}
}

func (a *MessageRepoAdapter) Save(ctx context.Context, message model.Message, buffer *model.BufferMessage) error {
	return a.mysql.SaveMessage(ctx, message, buffer)
}

func (a *MessageRepoAdapter) ListByConversationID(ctx context.Context, conversationID string, platform model.Platform) ([]model.Message, error) {
	return a.mysql.ListMessagesByConversationID(ctx, conversationID, platform)
}

func (a *MessageRepoAdapter) FindByProviderMessageID(ctx context.Context, providerMessageID string) (*model.Message, error) {
	return a.mysql.FindMessageByProviderMessageID(ctx, providerMessageID)
}

// BufferRepoAdapter adapts the MySQLRepo to the BufferRepo interface
type BufferRepoAdapter struct {
	mysql *MySQLRepo
}

// NewBufferRepoAdapter creates a new buffer repository adapter
func NewBufferRepoAdapter(mysql *MySQLRepo) BufferRepo {
	return &BufferRepoAdapter{mysql: mysql}
}

func (a *BufferRepoAdapter) FindUnprocessed(ctx context.Context, limit int) ([]model.BufferMessage, error) {
	return a.mysql.FindUnprocessedBuffer(ctx, limit)
}

func (a *BufferRepoAdapter) MarkProcessed(ctx context.Context, id string) error {
	return a.mysql.MarkBufferProcessed(ctx, id)
}

// AgentStatusRepoAdapter adapts the MySQLRepo to the AgentStatusRepo interface
type AgentStatusRepoAdapter struct {
	mysql *MySQLRepo
}

// NewAgentStatusRepoAdapter creates a new agent status repository adapter
func NewAgentStatusRepoAdapter(mysql *MySQLRepo) AgentStatusRepo {
	return &AgentStatusRepoAdapter{mysql: mysql}
}

func (a *AgentStatusRepoAdapter) Get(ctx context.Context, userID int64, platform model.Platform) (*model.AgentStatus, error) {
	return a.mysql.GetAgentStatus(ctx, userID, platform)
}

func (a *AgentStatusRepoAdapter) Upsert(ctx context.Context, status model.AgentStatus) error {
	return a.mysql.UpsertAgentStatus(ctx, status)
}
