package usecase

import (
	"context"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	storagemock "github.com/cebimedya/messaging-dashboard/internal/storage/mock"
	"github.com/cebimedya/messaging-dashboard/pkg/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// MockBufferWorker mocks IBufferWorker.
type MockBufferWorker struct {
	mock.Mock
}

func (m *MockBufferWorker) SubmitTask(taskData BufferTaskData) error {
	args := m.Called(taskData)
	return args.Error(0)
}

func (m *MockBufferWorker) Stop() {
	m.Called()
}

// MockJetStreamClient mocks the publish-only JetStream client.
type MockJetStreamClient struct {
	mock.Mock
}

func (m *MockJetStreamClient) SetupStream(ctx context.Context, streamConfig *nats.StreamConfig) error {
	args := m.Called(ctx, streamConfig)
	return args.Error(0)
}

func (m *MockJetStreamClient) Publish(subject string, data []byte, headers map[string]string) error {
	args := m.Called(subject, data, headers)
	return args.Error(0)
}

func (m *MockJetStreamClient) Close() {
	m.Called()
}

// testMocks bundles the repository mocks behind one service instance.
type testMocks struct {
	userRepo         *storagemock.UserRepoMock
	conversationRepo *storagemock.ConversationRepoMock
	messageRepo      *storagemock.MessageRepoMock
	bufferRepo       *storagemock.BufferRepoMock
	agentStatusRepo  *storagemock.AgentStatusRepoMock
	bufferWorker     *MockBufferWorker
}

func newTestService(t *testing.T) (*DashboardService, *testMocks) {
	t.Helper()
	logger.Log = zaptest.NewLogger(t).Named("test")

	m := &testMocks{
		userRepo:         new(storagemock.UserRepoMock),
		conversationRepo: new(storagemock.ConversationRepoMock),
		messageRepo:      new(storagemock.MessageRepoMock),
		bufferRepo:       new(storagemock.BufferRepoMock),
		agentStatusRepo:  new(storagemock.AgentStatusRepoMock),
		bufferWorker:     new(MockBufferWorker),
	}
	service := NewDashboardService(m.userRepo, m.conversationRepo, m.messageRepo, m.bufferRepo, m.agentStatusRepo, m.bufferWorker)
	return service, m
}

func (m *testMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.userRepo.AssertExpectations(t)
	m.conversationRepo.AssertExpectations(t)
	m.messageRepo.AssertExpectations(t)
	m.bufferRepo.AssertExpectations(t)
	m.agentStatusRepo.AssertExpectations(t)
	m.bufferWorker.AssertExpectations(t)
}
