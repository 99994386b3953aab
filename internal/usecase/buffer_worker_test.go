package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/config"
	"github.com/cebimedya/messaging-dashboard/internal/model"
	storagemock "github.com/cebimedya/messaging-dashboard/internal/storage/mock"
)

func testWorkerConfig() config.BufferWorkerPoolConfig {
	return config.BufferWorkerPoolConfig{
		PoolSize:      2,
		QueueSize:     10,
		ExpiryTime:    time.Minute,
		SweepInterval: time.Hour, // keep the sweep quiet unless a test wants it
		SweepBatch:    100,
	}
}

func newBufferTask(buffer model.BufferMessage) BufferTaskData {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	return BufferTaskData{Ctx: ctx, Cancel: cancel, Buffer: buffer}
}

func TestBufferWorker_PublishesAndMarksProcessed(t *testing.T) {
	bufferRepo := new(storagemock.BufferRepoMock)
	js := new(MockJetStreamClient)
	bufferRepo.On("FindUnprocessed", mock.Anything, mock.Anything).Return([]model.BufferMessage{}, nil).Maybe()

	buffer := *model.NewBufferMessage(&model.BufferMessage{ID: "buf-1", SessionID: "conv-1", MessageType: "text"})
	done := make(chan struct{})

	js.On("Publish", "buffers.conv-1", mock.Anything, map[string]string{
		"Buffer-Id":    "buf-1",
		"Message-Type": "text",
	}).Return(nil)
	bufferRepo.On("MarkProcessed", mock.Anything, "buf-1").
		Run(func(mock.Arguments) { close(done) }).
		Return(nil)

	worker, err := NewBufferWorker(testWorkerConfig(), bufferRepo, js, "buffers", zap.NewNop())
	require.NoError(t, err)
	defer worker.Stop()

	require.NoError(t, worker.SubmitTask(newBufferTask(buffer)))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("buffer task was not processed in time")
	}
	js.AssertExpectations(t)
	bufferRepo.AssertExpectations(t)
}

func TestBufferWorker_PublishFailureLeavesRowForSweep(t *testing.T) {
	bufferRepo := new(storagemock.BufferRepoMock)
	js := new(MockJetStreamClient)
	bufferRepo.On("FindUnprocessed", mock.Anything, mock.Anything).Return([]model.BufferMessage{}, nil).Maybe()

	buffer := *model.NewBufferMessage(&model.BufferMessage{ID: "buf-2", SessionID: "conv-1"})
	published := make(chan struct{})

	js.On("Publish", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(published) }).
		Return(errors.New("nats: connection closed"))

	worker, err := NewBufferWorker(testWorkerConfig(), bufferRepo, js, "buffers", zap.NewNop())
	require.NoError(t, err)
	defer worker.Stop()

	require.NoError(t, worker.SubmitTask(newBufferTask(buffer)))

	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("publish was not attempted in time")
	}
	// The row stays unprocessed so the sweep can retry it.
	bufferRepo.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything)
}

func TestBufferWorker_MarkProcessedRaceAbsorbed(t *testing.T) {
	bufferRepo := new(storagemock.BufferRepoMock)
	js := new(MockJetStreamClient)
	bufferRepo.On("FindUnprocessed", mock.Anything, mock.Anything).Return([]model.BufferMessage{}, nil).Maybe()

	buffer := *model.NewBufferMessage(&model.BufferMessage{ID: "buf-3", SessionID: "conv-2"})
	done := make(chan struct{})

	js.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	bufferRepo.On("MarkProcessed", mock.Anything, "buf-3").
		Run(func(mock.Arguments) { close(done) }).
		Return(apperrors.ErrNotFound)

	worker, err := NewBufferWorker(testWorkerConfig(), bufferRepo, js, "buffers", zap.NewNop())
	require.NoError(t, err)
	defer worker.Stop()

	require.NoError(t, worker.SubmitTask(newBufferTask(buffer)))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("buffer task was not processed in time")
	}
}

func TestBufferWorker_SweepRequeuesUnprocessedRows(t *testing.T) {
	bufferRepo := new(storagemock.BufferRepoMock)
	js := new(MockJetStreamClient)

	cfg := testWorkerConfig()
	cfg.SweepInterval = 20 * time.Millisecond

	row := *model.NewBufferMessage(&model.BufferMessage{ID: "buf-4", SessionID: "conv-3"})
	swept := make(chan struct{})

	bufferRepo.On("FindUnprocessed", mock.Anything, cfg.SweepBatch).
		Return([]model.BufferMessage{row}, nil).Once()
	bufferRepo.On("FindUnprocessed", mock.Anything, cfg.SweepBatch).
		Return([]model.BufferMessage{}, nil).Maybe()
	js.On("Publish", "buffers.conv-3", mock.Anything, mock.Anything).Return(nil)
	bufferRepo.On("MarkProcessed", mock.Anything, "buf-4").
		Run(func(mock.Arguments) {
			select {
			case <-swept:
			default:
				close(swept)
			}
		}).
		Return(nil)

	worker, err := NewBufferWorker(cfg, bufferRepo, js, "buffers", zap.NewNop())
	require.NoError(t, err)
	defer worker.Stop()

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not re-queue the unprocessed row in time")
	}
	assert.True(t, js.AssertCalled(t, "Publish", "buffers.conv-3", mock.Anything, mock.Anything))
}
