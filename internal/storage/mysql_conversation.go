package storage

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
	"github.com/cebimedya/messaging-dashboard/internal/observer"
	"github.com/cebimedya/messaging-dashboard/pkg/logger"
	"github.com/cebimedya/messaging-dashboard/pkg/utils"
)

// CreateConversation inserts a new conversation row. The unique index on
// (user_id, platform, contact_key) makes concurrent creation of the same
// contact surface as ErrDuplicate, which callers resolve by re-reading.
func (r *MySQLRepo) CreateConversation(ctx context.Context, conv model.Conversation) error {
	conv.UpdatedAt = utils.Now()

	operation := func() error {
		result := r.db.WithContext(ctx).Create(&conv)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "CreateConversation", operation)
	observer.ObserveDbOperationDuration("insert", "conversation", time.Since(startTime), commitErr)

	if commitErr != nil {
		if !errors.Is(commitErr, apperrors.ErrDuplicate) {
			logger.FromContext(ctx).Error("Failed to create conversation after retries",
				zap.String("conversation_id", conv.ID),
				zap.Error(commitErr))
		}
		return commitErr
	}

	return nil
}

// FindConversationByContact returns the conversation for one
// (user, platform, contact) triple, or ErrNotFound.
func (r *MySQLRepo) FindConversationByContact(ctx context.Context, userID int64, platform model.Platform, contactKey string) (*model.Conversation, error) {
	var conv model.Conversation
	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("user_id = ? AND platform = ? AND contact_key = ?", userID, platform, contactKey).
			First(&conv)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindConversationByContact", operation)
	observer.ObserveDbOperationDuration("find", "conversation", time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to find conversation by contact after retries",
			zap.Int64("user_id", userID),
			zap.String("platform", platform.String()),
			zap.Error(findErr))
		return nil, findErr
	}

	return &conv, nil
}

// FindConversationByID returns one conversation by primary key, or ErrNotFound.
func (r *MySQLRepo) FindConversationByID(ctx context.Context, conversationID string) (*model.Conversation, error) {
	var conv model.Conversation
	operation := func() error {
		result := r.db.WithContext(ctx).Where("id = ?", conversationID).First(&conv)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindConversationByID", operation)
	observer.ObserveDbOperationDuration("find", "conversation", time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to find conversation by id after retries",
			zap.String("conversation_id", conversationID),
			zap.Error(findErr))
		return nil, findErr
	}

	return &conv, nil
}

// ListConversationsByUserID returns the operator's conversations ordered by
// most recently updated first, optionally filtered by platform.
func (r *MySQLRepo) ListConversationsByUserID(ctx context.Context, userID int64, platform model.Platform) ([]model.Conversation, error) {
	var conversations []model.Conversation
	operation := func() error {
		query := r.db.WithContext(ctx).Where("user_id = ?", userID)
		if platform != "" {
			query = query.Where("platform = ?", platform)
		}
		result := query.Order("updated_at DESC").Find(&conversations)
		if result.Error != nil {
			// Find multiple doesn't return ErrRecordNotFound
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "ListConversationsByUserID", operation)
	observer.ObserveDbOperationDuration("list", "conversation", time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to list conversations after retries",
			zap.Int64("user_id", userID),
			zap.String("platform", platform.String()),
			zap.Error(findErr))
		return nil, findErr
	}

	return conversations, nil
}

// ConversationCountsByUserID tallies conversations per platform.
func (r *MySQLRepo) ConversationCountsByUserID(ctx context.Context, userID int64) ([]model.ConversationCount, error) {
	var counts []model.ConversationCount
	operation := func() error {
		result := r.db.WithContext(ctx).
			Model(&model.Conversation{}).
			Select("platform, COUNT(id) AS count").
			Where("user_id = ?", userID).
			Group("platform").
			Scan(&counts)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "ConversationCountsByUserID", operation)
	observer.ObserveDbOperationDuration("count", "conversation", time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to count conversations after retries",
			zap.Int64("user_id", userID),
			zap.Error(findErr))
		return nil, findErr
	}

	return counts, nil
}

// TouchConversationLastMessage updates the denormalized last-message fields in
// a single statement. The unread counter increments inside the database so
// concurrent ingests cannot lose updates. Zero affected rows maps to
// ErrNotFound.
func (r *MySQLRepo) TouchConversationLastMessage(ctx context.Context, conversationID, content string, timestamp time.Time, incrementUnread bool) error {
	operation := func() error {
		updates := map[string]interface{}{
			"last_message_content":   content,
			"last_message_timestamp": timestamp,
			"updated_at":             utils.Now(),
		}
		if incrementUnread {
			updates["unread_count"] = gorm.Expr("unread_count + 1")
		}

		result := r.db.WithContext(ctx).
			Model(&model.Conversation{}).
			Where("id = ?", conversationID).
			Updates(updates)
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
	commitErr := retryableOperation(ctx, commitPolicy, "TouchConversationLastMessage", operation)
	observer.ObserveDbOperationDuration("update", "conversation", time.Since(startTime), commitErr)

	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to update conversation last message after retries",
			zap.String("conversation_id", conversationID),
			zap.Error(commitErr))
		return commitErr
	}

	return nil
}
