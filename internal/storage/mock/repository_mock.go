package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/cebimedya/messaging-dashboard/internal/model"
)

// --- UserRepo Mock ---

// UserRepoMock mocks the UserRepo interface
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// --- ConversationRepo Mock ---

// ConversationRepoMock mocks the ConversationRepo interface
type ConversationRepoMock struct {
	mock.Mock
}

func (m *ConversationRepoMock) Create(ctx context.Context, conv model.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

func (m *ConversationRepoMock) FindByContact(ctx context.Context, userID int64, platform model.Platform, contactKey string) (*model.Conversation, error) {
	args := m.Called(ctx, userID, platform, contactKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Conversation), args.Error(1)
}

func (m *ConversationRepoMock) FindByID(ctx context.Context, conversationID string) (*model.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Conversation), args.Error(1)
}

func (m *ConversationRepoMock) ListByUserID(ctx context.Context, userID int64, platform model.Platform) ([]model.Conversation, error) {
	args := m.Called(ctx, userID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Conversation), args.Error(1)
}

func (m *ConversationRepoMock) CountsByUserID(ctx context.Context, userID int64) ([]model.ConversationCount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ConversationCount), args.Error(1)
}

func (m *ConversationRepoMock) TouchLastMessage(ctx context.Context, conversationID, content string, timestamp time.Time, incrementUnread bool) error {
	args := m.Called(ctx, conversationID, content, timestamp, incrementUnread)
	return args.Error(0)
}

// --- MessageRepo Mock ---

// MessageRepoMock mocks the MessageRepo interface
type MessageRepoMock struct {
	mock.Mock
}

func (m *MessageRepoMock) Save(ctx context.Context, message model.Message, buffer *model.BufferMessage) error {
	args := m.Called(ctx, message, buffer)
	return args.Error(0)
}

func (m *MessageRepoMock) ListByConversationID(ctx context.Context, conversationID string, platform model.Platform) ([]model.Message, error) {
	args := m.Called(ctx, conversationID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MessageRepoMock) FindByProviderMessageID(ctx context.Context, providerMessageID string) (*model.Message, error) {
	args := m.Called(ctx, providerMessageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

// --- BufferRepo Mock ---

// BufferRepoMock mocks the BufferRepo interface
type BufferRepoMock struct {
	mock.Mock
}

func (m *BufferRepoMock) FindUnprocessed(ctx context.Context, limit int) ([]model.BufferMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BufferMessage), args.Error(1)
}

func (m *BufferRepoMock) MarkProcessed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- AgentStatusRepo Mock ---

// AgentStatusRepoMock mocks the AgentStatusRepo interface
type AgentStatusRepoMock struct {
	mock.Mock
}

func (m *AgentStatusRepoMock) Get(ctx context.Context, userID int64, platform model.Platform) (*model.AgentStatus, error) {
	args := m.Called(ctx, userID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentStatus), args.Error(1)
}

func (m *AgentStatusRepoMock) Upsert(ctx context.Context, status model.AgentStatus) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}
