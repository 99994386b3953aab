package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/config"
	"github.com/cebimedya/messaging-dashboard/internal/jetstream"
	"github.com/cebimedya/messaging-dashboard/internal/model"
	"github.com/cebimedya/messaging-dashboard/internal/observer"
	"github.com/cebimedya/messaging-dashboard/internal/storage"
	"github.com/cebimedya/messaging-dashboard/pkg/utils"
)

// BufferTaskData holds one buffer row queued for publishing.
type BufferTaskData struct {
	Ctx    context.Context // Context derived for the task, NOT the original request context
	Cancel context.CancelFunc
	Buffer model.BufferMessage
}

// IBufferWorker defines the interface for the buffer publisher pool.
type IBufferWorker interface {
	SubmitTask(taskData BufferTaskData) error
	Stop()
}

// BufferWorker forwards message_buffer rows to the downstream JetStream
// subject and marks them processed. Rows whose publish fails stay unprocessed
// and are re-queued by the periodic sweep, so delivery is at-least-once.
type BufferWorker struct {
	pool       *ants.PoolWithFunc
	bufferRepo storage.BufferRepo
	js         jetstream.ClientInterface
	subject    string
	cfg        config.BufferWorkerPoolConfig
	baseLogger *zap.Logger
	sweepStop  chan struct{}
	sweepDone  chan struct{}
}

var _ IBufferWorker = (*BufferWorker)(nil)

// NewBufferWorker creates and initializes the buffer publisher pool.
func NewBufferWorker(
	cfg config.BufferWorkerPoolConfig,
	bufferRepo storage.BufferRepo,
	js jetstream.ClientInterface,
	subject string,
	baseLogger *zap.Logger,
) (*BufferWorker, error) {
	worker := &BufferWorker{
		bufferRepo: bufferRepo,
		js:         js,
		subject:    subject,
		cfg:        cfg,
		baseLogger: baseLogger.Named("buffer_worker"),
		sweepStop:  make(chan struct{}),
		sweepDone:  make(chan struct{}),
	}

	pool, err := ants.NewPoolWithFunc(cfg.PoolSize, func(i interface{}) {
		taskData, ok := i.(BufferTaskData)
		if !ok {
			worker.baseLogger.Error("Invalid task data type received", zap.Any("data", i))
			return
		}
		worker.processBufferTask(taskData)
	},
		ants.WithExpiryDuration(cfg.ExpiryTime),
		ants.WithNonblocking(true),
		ants.WithMaxBlockingTasks(cfg.QueueSize),
		ants.WithPanicHandler(func(err interface{}) {
			worker.baseLogger.Error("Panic recovered in buffer worker", zap.Any("panic_error", err), zap.Stack("stack"))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer worker pool: %w", err)
	}
	worker.pool = pool

	go worker.sweepLoop()

	worker.baseLogger.Info("Buffer worker pool initialized",
		zap.Int("pool_size", cfg.PoolSize),
		zap.Int("queue_size", cfg.QueueSize),
		zap.Duration("expiry_time", cfg.ExpiryTime),
		zap.Duration("sweep_interval", cfg.SweepInterval),
	)
	return worker, nil
}

// SubmitTask submits one buffer row to the publisher pool.
func (w *BufferWorker) SubmitTask(taskData BufferTaskData) error {
	observer.IncBufferTasksSubmitted()
	observer.SetBufferQueueLength(w.pool.Waiting())

	if err := w.pool.Invoke(taskData); err != nil {
		observer.IncBufferTasksProcessed("submit_error")
		if errors.Is(err, ants.ErrPoolOverload) {
			return fmt.Errorf("buffer pool overload: %w", err)
		}
		return fmt.Errorf("failed to invoke buffer task: %w", err)
	}
	return nil
}

// Stop drains the sweep loop and releases the pool.
func (w *BufferWorker) Stop() {
	close(w.sweepStop)
	<-w.sweepDone
	w.pool.Release()
	w.baseLogger.Info("Buffer worker pool stopped")
}

// processBufferTask publishes one row and marks it processed. Both steps are
// safe to repeat: the subject carries the buffer id for downstream dedup and
// MarkProcessed tolerates the row already being flipped by a racing sweep.
func (w *BufferWorker) processBufferTask(taskData BufferTaskData) {
	if taskData.Cancel != nil {
		defer taskData.Cancel()
	}

	log := w.baseLogger.With(
		zap.String("buffer_id", taskData.Buffer.ID),
		zap.String("session_id", taskData.Buffer.SessionID),
	)

	subject := fmt.Sprintf("%s.%s", w.subject, taskData.Buffer.SessionID)
	headers := map[string]string{
		"Buffer-Id":    taskData.Buffer.ID,
		"Message-Type": taskData.Buffer.MessageType,
	}

	if err := w.js.Publish(subject, utils.MustMarshalJSON(taskData.Buffer), headers); err != nil {
		log.Error("Failed to publish buffer row, leaving unprocessed for sweep", zap.Error(err))
		observer.IncBufferTasksProcessed("publish_error")
		return
	}

	if err := w.bufferRepo.MarkProcessed(taskData.Ctx, taskData.Buffer.ID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Already flipped by a concurrent sweep pass.
			observer.IncBufferTasksProcessed("already_processed")
			return
		}
		log.Error("Published buffer row but failed to mark processed", zap.Error(err))
		observer.IncBufferTasksProcessed("mark_error")
		return
	}

	log.Debug("Buffer row published")
	observer.IncBufferTasksProcessed("success")
}

// sweepLoop periodically re-queues rows that missed their inline publish
// (pool overload, publish failure, crash before MarkProcessed).
func (w *BufferWorker) sweepLoop() {
	defer close(w.sweepDone)

	ticker := time.NewTicker(w.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.sweepStop:
			return
		case <-ticker.C:
			w.sweepOnce()
		}
	}
}

func (w *BufferWorker) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.SweepInterval)
	defer cancel()

	rows, err := w.bufferRepo.FindUnprocessed(ctx, w.cfg.SweepBatch)
	if err != nil {
		w.baseLogger.Error("Buffer sweep query failed", zap.Error(err))
		return
	}
	if len(rows) == 0 {
		return
	}

	w.baseLogger.Info("Buffer sweep re-queuing rows", zap.Int("count", len(rows)))
	for _, row := range rows {
		taskCtx, taskCancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := w.SubmitTask(BufferTaskData{Ctx: taskCtx, Cancel: taskCancel, Buffer: row}); err != nil {
			taskCancel()
			w.baseLogger.Warn("Buffer sweep could not queue row", zap.String("buffer_id", row.ID), zap.Error(err))
			return
		}
	}
}
