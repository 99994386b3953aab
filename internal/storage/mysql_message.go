package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
	"github.com/cebimedya/messaging-dashboard/internal/observer"
	"github.com/cebimedya/messaging-dashboard/pkg/logger"
	"github.com/cebimedya/messaging-dashboard/pkg/utils"
)

// SaveMessage inserts a message and, when a buffer mirror is supplied, the
// buffer row inside the same transaction. A failure anywhere rolls both back,
// so a message can never exist without its buffer mirror. Duplicate provider
// message ids surface as ErrDuplicate.
func (r *MySQLRepo) SaveMessage(ctx context.Context, message model.Message, buffer *model.BufferMessage) error {
	operation := func() error {
		tx := r.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrDatabase, tx.Error)
		}
		var txErr error
		defer func() {
			if p := recover(); p != nil {
				tx.Rollback()
				panic(p)
			} else if txErr != nil {
				if rbErr := tx.Rollback().Error; rbErr != nil {
					logger.FromContext(ctx).Error("Failed to rollback transaction after error",
						zap.Error(rbErr), zap.NamedError("originalTxError", txErr))
				}
			}
		}()

		if result := tx.Create(&message); result.Error != nil {
			txErr = checkConstraintViolation(result.Error)
			return txErr
		}

		if buffer != nil {
			if result := tx.Create(buffer); result.Error != nil {
				txErr = checkConstraintViolation(result.Error)
				return txErr
			}
		}

		if commitErr := tx.Commit().Error; commitErr != nil {
			txErr = checkConstraintViolation(commitErr)
			return txErr
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "SaveMessage", operation)
	observer.ObserveDbOperationDuration("insert", "message", time.Since(startTime), commitErr)

	if commitErr != nil {
		if !errors.Is(commitErr, apperrors.ErrDuplicate) {
			logger.FromContext(ctx).Error("Failed to save message after retries",
				zap.String("message_id", message.ID),
				zap.String("conversation_id", message.ConversationID),
				zap.Error(commitErr))
		}
		return commitErr
	}

	return nil
}

// ListMessagesByConversationID returns a thread ordered oldest first,
// optionally narrowed to one platform.
func (r *MySQLRepo) ListMessagesByConversationID(ctx context.Context, conversationID string, platform model.Platform) ([]model.Message, error) {
	var messages []model.Message
	operation := func() error {
		query := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID)
		if platform != "" {
			query = query.Where("platform = ?", platform)
		}
		result := query.Order("timestamp ASC").Find(&messages)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "ListMessagesByConversationID", operation)
	observer.ObserveDbOperationDuration("list", "message", time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to list messages after retries",
			zap.String("conversation_id", conversationID),
			zap.Error(findErr))
		return nil, findErr
	}

	return messages, nil
}

// FindMessageByProviderMessageID looks a message up by the webhook provider's
// id, or returns ErrNotFound.
func (r *MySQLRepo) FindMessageByProviderMessageID(ctx context.Context, providerMessageID string) (*model.Message, error) {
	var message model.Message
	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("provider_message_id = ?", providerMessageID).
			First(&message)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindMessageByProviderMessageID", operation)
	observer.ObserveDbOperationDuration("find", "message", time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to find message by provider id after retries",
			zap.String("provider_message_id", providerMessageID),
			zap.Error(findErr))
		return nil, findErr
	}

	return &message, nil
}
