package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
	"github.com/cebimedya/messaging-dashboard/internal/observer"
	"github.com/cebimedya/messaging-dashboard/pkg/logger"
	"github.com/cebimedya/messaging-dashboard/pkg/utils"
)

// FindUnprocessedBuffer returns up to limit buffer rows the publisher has not
// forwarded yet, oldest first.
func (r *MySQLRepo) FindUnprocessedBuffer(ctx context.Context, limit int) ([]model.BufferMessage, error) {
	var rows []model.BufferMessage
	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("is_processed = ?", false).
			Order("timestamp ASC").
			Limit(limit).
			Find(&rows)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindUnprocessedBuffer", operation)
	observer.ObserveDbOperationDuration("list", "buffer", time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to list unprocessed buffer rows after retries", zap.Error(findErr))
		return nil, findErr
	}

	return rows, nil
}

// MarkBufferProcessed flags one buffer row as handed off. Zero affected rows
// maps to ErrNotFound.
func (r *MySQLRepo) MarkBufferProcessed(ctx context.Context, id string) error {
	operation := func() error {
		result := r.db.WithContext(ctx).
			Model(&model.BufferMessage{}).
			Where("id = ?", id).
			Update("is_processed", true)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "MarkBufferProcessed", operation)
	observer.ObserveDbOperationDuration("update", "buffer", time.Since(startTime), commitErr)

	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to mark buffer row processed after retries",
			zap.String("buffer_id", id),
			zap.Error(commitErr))
		return commitErr
	}

	return nil
}
